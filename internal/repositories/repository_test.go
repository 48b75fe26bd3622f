package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	model "taskforge.app/taskforge/internal/models"
)

// recordingNotifier collects change signals so tests can assert on them.
type recordingNotifier struct {
	mu    sync.Mutex
	kinds []model.Kind
}

func (n *recordingNotifier) NotifyChanged(_ context.Context, kind model.Kind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
}

func (n *recordingNotifier) count(kind model.Kind) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	c := 0
	for _, k := range n.kinds {
		if k == kind {
			c++
		}
	}
	return c
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(&model.Task{}, &model.Post{})
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return db
}

func createTask(t *testing.T, repo *TaskRepository, name string, createdAt time.Time) *model.Task {
	t.Helper()
	task, err := repo.Insert(context.Background(), &model.Task{
		Name:      name,
		Icon:      "book",
		Color:     "#ef4444",
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("failed to insert task: %v", err)
	}
	return task
}

func TestTaskRepository_InsertAssignsIDAndTimestamps(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, nil)

	task, err := repo.Insert(context.Background(), &model.Task{
		Name:  "Read",
		Icon:  "book",
		Color: "#ef4444",
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if task.ID == "" {
		t.Error("expected id to be assigned")
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestTaskRepository_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, nil)
	now := time.Now().UTC()

	createTask(t, repo, "oldest", now.Add(-2*time.Hour))
	createTask(t, repo, "newest", now)
	createTask(t, repo, "middle", now.Add(-time.Hour))

	tasks, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].Name != "newest" || tasks[2].Name != "oldest" {
		t.Errorf("expected newest-first order, got %s .. %s", tasks[0].Name, tasks[2].Name)
	}
}

func TestTaskRepository_UpdateAppliesOnlySuppliedFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, nil)

	task := createTask(t, repo, "Read", time.Now().UTC())

	updated, err := repo.Update(context.Background(), task.ID, map[string]interface{}{
		"name": "Read More",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Name != "Read More" {
		t.Errorf("expected updated name, got %s", updated.Name)
	}
	if updated.Icon != "book" || updated.Color != "#ef4444" {
		t.Errorf("untouched fields changed: icon=%s color=%s", updated.Icon, updated.Color)
	}
}

func TestTaskRepository_UpdateMissingIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, nil)

	_, err := repo.Update(context.Background(), "missing", map[string]interface{}{"name": "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskRepository_DeleteCascadesToPosts(t *testing.T) {
	db := setupTestDB(t)
	notifier := &recordingNotifier{}
	taskRepo := NewTaskRepository(db, notifier)
	postRepo := NewPostRepository(db, notifier)
	ctx := context.Background()

	task := createTask(t, taskRepo, "Read", time.Now().UTC())
	other := createTask(t, taskRepo, "Code", time.Now().UTC())

	for i := 0; i < 2; i++ {
		_, err := postRepo.Insert(ctx, &model.Post{TaskID: task.ID, Title: "t", Content: "c"})
		if err != nil {
			t.Fatalf("failed to insert post: %v", err)
		}
	}
	if _, err := postRepo.Insert(ctx, &model.Post{TaskID: other.ID, Title: "t", Content: "c"}); err != nil {
		t.Fatalf("failed to insert post: %v", err)
	}

	if err := taskRepo.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	posts, err := postRepo.List(ctx)
	if err != nil {
		t.Fatalf("list posts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected only the other task's post to survive, got %d posts", len(posts))
	}
	if posts[0].TaskID != other.ID {
		t.Errorf("surviving post belongs to %s, expected %s", posts[0].TaskID, other.ID)
	}

	// cascade invalidates both tables
	if notifier.count(model.KindPosts) == 0 {
		t.Error("expected a posts change signal from the cascade")
	}
}

func TestTaskRepository_DeleteMissingIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, nil)

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskRepository_UpsertBulkInsertsAndReplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, nil)
	ctx := context.Background()

	existing := createTask(t, repo, "Read", time.Now().UTC())

	batch := []model.Task{
		{ID: existing.ID, Name: "Read Again", Icon: "book", Color: "#ef4444", CreatedAt: existing.CreatedAt},
		{ID: "fresh", Name: "Workout", Icon: "dumbbell", Color: "#22c55e", CreatedAt: time.Now().UTC()},
	}

	if err := repo.UpsertBulk(ctx, batch); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	tasks, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks after upsert, got %d", len(tasks))
	}

	replaced, err := repo.FindByID(ctx, existing.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if replaced.Name != "Read Again" {
		t.Errorf("expected replaced name, got %s", replaced.Name)
	}
}

func TestPostRepository_ListByTask(t *testing.T) {
	db := setupTestDB(t)
	taskRepo := NewTaskRepository(db, nil)
	postRepo := NewPostRepository(db, nil)
	ctx := context.Background()

	a := createTask(t, taskRepo, "A", time.Now().UTC())
	b := createTask(t, taskRepo, "B", time.Now().UTC())

	if _, err := postRepo.Insert(ctx, &model.Post{TaskID: a.ID, Title: "one", Content: "c"}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := postRepo.Insert(ctx, &model.Post{TaskID: b.ID, Title: "two", Content: "c"}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	posts, err := postRepo.ListByTask(ctx, a.ID)
	if err != nil {
		t.Fatalf("list by task failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "one" {
		t.Errorf("unexpected posts for task A: %v", posts)
	}
}

func TestPostRepository_DeleteMissingIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db, nil)

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepositories_MutationsPublishChangeSignals(t *testing.T) {
	db := setupTestDB(t)
	notifier := &recordingNotifier{}
	taskRepo := NewTaskRepository(db, notifier)
	postRepo := NewPostRepository(db, notifier)
	ctx := context.Background()

	task := createTask(t, taskRepo, "Read", time.Now().UTC())
	if notifier.count(model.KindTasks) != 1 {
		t.Errorf("expected one tasks signal after insert, got %d", notifier.count(model.KindTasks))
	}

	post, err := postRepo.Insert(ctx, &model.Post{TaskID: task.ID, Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if notifier.count(model.KindPosts) != 1 {
		t.Errorf("expected one posts signal after insert, got %d", notifier.count(model.KindPosts))
	}

	if err := postRepo.Delete(ctx, post.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if notifier.count(model.KindPosts) != 2 {
		t.Errorf("expected a posts signal after delete, got %d", notifier.count(model.KindPosts))
	}
}
