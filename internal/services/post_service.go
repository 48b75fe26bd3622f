package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskforge.app/taskforge/internal/cache"
	model "taskforge.app/taskforge/internal/models"
)

type PostService struct {
	remote PostRemote
	store  *Store
	cache  cache.Store
	log    *zap.SugaredLogger
}

func NewPostService(remote PostRemote, store *Store, c cache.Store, log *zap.SugaredLogger) *PostService {
	return &PostService{
		remote: remote,
		store:  store,
		cache:  c,
		log:    log,
	}
}

// List returns every post newest first, degrading to the cached or
// last-loaded collection when the remote is unreachable.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	if err := s.store.RefreshPosts(ctx); err != nil {
		if cached := s.cache.ReadPosts(ctx, nil); cached != nil {
			s.log.Warnw("remote unavailable, serving cached posts", "error", err)
			return cached, nil
		}
		if s.store.PostsLoaded() {
			return s.store.Posts(), nil
		}
		return nil, fmt.Errorf("list posts: %w", err)
	}

	s.writeThrough(ctx)
	return s.store.Posts(), nil
}

// ListByTask filters the collection to one task's posts, newest first.
func (s *PostService) ListByTask(ctx context.Context, taskID string) ([]model.Post, error) {
	posts, err := s.remote.ListByTask(ctx, taskID)
	if err == nil {
		return posts, nil
	}
	s.log.Warnw("remote unavailable, filtering cached posts", "task_id", taskID, "error", err)

	all, listErr := s.List(ctx)
	if listErr != nil {
		return nil, listErr
	}

	filtered := make([]model.Post, 0, len(all))
	for _, post := range all {
		if post.TaskID == taskID {
			filtered = append(filtered, post)
		}
	}
	return filtered, nil
}

// Create appends a post to a task's log. Posts are append-only: there
// is no update path, only create and delete.
func (s *PostService) Create(ctx context.Context, taskID, title, content string) (*model.Post, error) {
	post := &model.Post{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.remote.Insert(ctx, post)
	if err != nil {
		s.keepLocally(ctx, append([]model.Post{*post}, s.store.Posts()...))
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.mirror(ctx)
	return created, nil
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	if err := s.remote.Delete(ctx, id); err != nil {
		return err
	}

	s.mirror(ctx)
	return nil
}

func (s *PostService) mirror(ctx context.Context) {
	if err := s.store.RefreshPosts(ctx); err != nil {
		s.log.Warnw("post mirror refresh failed", "error", err)
		return
	}
	s.writeThrough(ctx)
}

func (s *PostService) writeThrough(ctx context.Context) {
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

func (s *PostService) keepLocally(ctx context.Context, posts []model.Post) {
	s.store.ReplacePosts(posts)
	if err := s.cache.WritePosts(ctx, posts); err != nil {
		s.log.Errorw("local keep failed, offline change may be lost", "error", err)
	}
}
