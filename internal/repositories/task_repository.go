package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "taskforge.app/taskforge/internal/models"
)

type TaskRepository struct {
	db       *gorm.DB
	notifier ChangeNotifier
}

func NewTaskRepository(db *gorm.DB, notifier ChangeNotifier) *TaskRepository {
	return &TaskRepository{db: db, notifier: notifier}
}

func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Insert stores the task as given, filling in id and timestamps when the
// caller left them empty, and returns the row as stored.
func (r *TaskRepository) Insert(ctx context.Context, task *model.Task) (*model.Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}

	notify(ctx, r.notifier, model.KindTasks)
	return task, nil
}

// Update applies only the supplied fields.
func (r *TaskRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*model.Task, error) {
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}
	fields["updated_at"] = time.Now().UTC()

	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Updates(fields)

	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	notify(ctx, r.notifier, model.KindTasks)
	return r.FindByID(ctx, id)
}

// Delete removes the task and cascades to every post referencing it.
// Posts go first so a failure never leaves orphaned rows behind a
// deleted task.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&model.Task{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	notify(ctx, r.notifier, model.KindTasks)
	notify(ctx, r.notifier, model.KindPosts)
	return nil
}

// UpsertBulk inserts or replaces each task by primary key, one row at a
// time. It is used only for offline-to-online reconciliation and is not
// atomic across records: a failure partway leaves earlier records synced.
func (r *TaskRepository) UpsertBulk(ctx context.Context, tasks []model.Task) error {
	for i := range tasks {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&tasks[i]).Error
		if err != nil {
			return err
		}
	}

	if len(tasks) > 0 {
		notify(ctx, r.notifier, model.KindTasks)
	}
	return nil
}
