package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "taskforge.app/taskforge/internal/models"
)

type PostRepository struct {
	db       *gorm.DB
	notifier ChangeNotifier
}

func NewPostRepository(db *gorm.DB, notifier ChangeNotifier) *PostRepository {
	return &PostRepository{db: db, notifier: notifier}
}

func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&posts).Error
	return posts, err
}

func (r *PostRepository) ListByTask(ctx context.Context, taskID string) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at desc").
		Find(&posts).Error
	return posts, err
}

func (r *PostRepository) Insert(ctx context.Context, post *model.Post) (*model.Post, error) {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}

	notify(ctx, r.notifier, model.KindPosts)
	return post, nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	notify(ctx, r.notifier, model.KindPosts)
	return nil
}

// UpsertBulk mirrors TaskRepository.UpsertBulk: per-record, not atomic.
func (r *PostRepository) UpsertBulk(ctx context.Context, posts []model.Post) error {
	for i := range posts {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&posts[i]).Error
		if err != nil {
			return err
		}
	}

	if len(posts) > 0 {
		notify(ctx, r.notifier, model.KindPosts)
	}
	return nil
}
