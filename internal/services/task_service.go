package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskforge.app/taskforge/internal/cache"
	"taskforge.app/taskforge/internal/icons"
	model "taskforge.app/taskforge/internal/models"
)

type TaskService struct {
	remote TaskRemote
	store  *Store
	cache  cache.Store
	log    *zap.SugaredLogger
}

func NewTaskService(remote TaskRemote, store *Store, c cache.Store, log *zap.SugaredLogger) *TaskService {
	return &TaskService{
		remote: remote,
		store:  store,
		cache:  c,
		log:    log,
	}
}

// List returns the task collection, newest first. When the remote is
// unreachable it degrades to the cached or last-loaded collection; the
// error surfaces only when no fallback exists.
func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	if err := s.store.RefreshTasks(ctx); err != nil {
		if cached := s.cache.ReadTasks(ctx, nil); cached != nil {
			s.log.Warnw("remote unavailable, serving cached tasks", "error", err)
			return cached, nil
		}
		if s.store.TasksLoaded() {
			return s.store.Tasks(), nil
		}
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	s.writeThrough(ctx)
	return s.store.Tasks(), nil
}

// Create inserts the task remotely and mirrors the result. When the
// remote write fails the record is kept locally with the sync marker on
// pending so the reconciler can push it later, and the error still
// surfaces to the caller.
func (s *TaskService) Create(ctx context.Context, name, icon, color, description string) (*model.Task, error) {
	task := &model.Task{
		ID:          uuid.NewString(),
		Name:        name,
		Icon:        icons.Normalize(icon),
		Color:       color,
		Description: description,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	created, err := s.remote.Insert(ctx, task)
	if err != nil {
		s.keepLocally(ctx, append([]model.Task{*task}, s.store.Tasks()...))
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.mirror(ctx)
	return created, nil
}

// Update applies only the supplied fields.
func (s *TaskService) Update(ctx context.Context, id string, fields map[string]interface{}) (*model.Task, error) {
	if icon, ok := fields["icon"].(string); ok {
		fields["icon"] = icons.Normalize(icon)
	}

	updated, err := s.remote.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.mirror(ctx)
	return updated, nil
}

// Delete removes the task and, by cascade, every post logged against it.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.remote.Delete(ctx, id); err != nil {
		return err
	}

	s.mirror(ctx)
	if err := s.store.RefreshPosts(ctx); err != nil {
		s.log.Warnw("post refresh after cascade delete failed", "error", err)
	} else {
		s.mirrorPosts(ctx)
	}
	return nil
}

// mirror re-fetches the collection and writes it through to the store
// and the cache.
func (s *TaskService) mirror(ctx context.Context) {
	if err := s.store.RefreshTasks(ctx); err != nil {
		s.log.Warnw("task mirror refresh failed", "error", err)
		return
	}
	s.writeThrough(ctx)
}

// writeThrough pushes the in-memory collection into the cache. A pending
// marker means locally kept records are still waiting for
// reconciliation, so the cache is left untouched to not lose them; the
// reconciler flips the marker back once it has pushed.
func (s *TaskService) writeThrough(ctx context.Context) {
	if s.cache.SyncState(ctx) == model.SyncPending {
		return
	}

	if err := s.cache.WriteTasks(ctx, s.store.Tasks()); err != nil {
		s.log.Warnw("task cache write failed", "error", err)
		return
	}
	if err := s.cache.MarkSynced(ctx); err != nil {
		s.log.Warnw("sync marker update failed", "error", err)
	}
}

func (s *TaskService) mirrorPosts(ctx context.Context) {
	if s.cache.SyncState(ctx) == model.SyncPending {
		return
	}
	if err := s.cache.WritePosts(ctx, s.store.Posts()); err != nil {
		s.log.Warnw("post cache write failed", "error", err)
		return
	}
	if err := s.cache.MarkSynced(ctx); err != nil {
		s.log.Warnw("sync marker update failed", "error", err)
	}
}

func (s *TaskService) keepLocally(ctx context.Context, tasks []model.Task) {
	s.store.ReplaceTasks(tasks)
	if err := s.cache.WriteTasks(ctx, tasks); err != nil {
		s.log.Errorw("local keep failed, offline change may be lost", "error", err)
	}
}
