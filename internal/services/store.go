package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"taskforge.app/taskforge/internal/cache"
	model "taskforge.app/taskforge/internal/models"
)

// TaskRemote and PostRemote are the slices of the repositories the
// service layer depends on, kept as interfaces so tests can fail the
// remote on demand.
type TaskRemote interface {
	List(ctx context.Context) ([]model.Task, error)
	Insert(ctx context.Context, task *model.Task) (*model.Task, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*model.Task, error)
	Delete(ctx context.Context, id string) error
	UpsertBulk(ctx context.Context, tasks []model.Task) error
}

type PostRemote interface {
	List(ctx context.Context) ([]model.Post, error)
	ListByTask(ctx context.Context, taskID string) ([]model.Post, error)
	Insert(ctx context.Context, post *model.Post) (*model.Post, error)
	Delete(ctx context.Context, id string) error
	UpsertBulk(ctx context.Context, posts []model.Post) error
}

// Store holds the currently loaded collections in memory. The remote is
// authoritative; the cache seeds the store before the first successful
// refresh and keeps serving it when the remote is unreachable.
type Store struct {
	mu    sync.RWMutex
	tasks []model.Task
	posts []model.Post

	// refresh sequence numbers; a completed fetch is applied only if it
	// is still the latest one issued, so a slow stale response can never
	// overwrite a newer result.
	taskSeq uint64
	postSeq uint64

	tasksLoaded bool
	postsLoaded bool
	online      bool

	cache      cache.Store
	taskRemote TaskRemote
	postRemote PostRemote
	log        *zap.SugaredLogger
}

func NewStore(c cache.Store, taskRemote TaskRemote, postRemote PostRemote, log *zap.SugaredLogger) *Store {
	return &Store{
		cache:      c,
		taskRemote: taskRemote,
		postRemote: postRemote,
		online:     true,
		log:        log,
	}
}

// Load seeds the collections from the cache, then attempts an
// authoritative refresh. A failed refresh keeps the cached values; the
// store is never cleared on failure.
func (s *Store) Load(ctx context.Context) {
	s.ReplaceTasks(s.cache.ReadTasks(ctx, nil))
	s.ReplacePosts(s.cache.ReadPosts(ctx, nil))

	if err := s.RefreshTasks(ctx); err != nil {
		s.log.Warnw("task refresh failed, serving cached collection", "error", err)
	}
	if err := s.RefreshPosts(ctx); err != nil {
		s.log.Warnw("post refresh failed, serving cached collection", "error", err)
	}
}

// RefreshTasks fetches the authoritative task collection and applies it
// unless a newer refresh was issued while this one was in flight.
func (s *Store) RefreshTasks(ctx context.Context) error {
	seq := s.nextTaskSeq()

	tasks, err := s.taskRemote.List(ctx)
	s.setOnline(err == nil)
	if err != nil {
		return err
	}

	s.applyTasksIfLatest(seq, tasks)
	return nil
}

func (s *Store) RefreshPosts(ctx context.Context) error {
	seq := s.nextPostSeq()

	posts, err := s.postRemote.List(ctx)
	s.setOnline(err == nil)
	if err != nil {
		return err
	}

	s.applyPostsIfLatest(seq, posts)
	return nil
}

func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Posts() []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// ReplaceTasks overwrites the task collection in full; there is no
// partial merge.
func (s *Store) ReplaceTasks(tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = tasks
	s.taskSeq++
	if tasks != nil {
		s.tasksLoaded = true
	}
}

func (s *Store) ReplacePosts(posts []model.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = posts
	s.postSeq++
	if posts != nil {
		s.postsLoaded = true
	}
}

func (s *Store) setOnline(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = online
}

// Online reports whether the most recent remote fetch succeeded. A
// store that has not fetched yet reports online.
func (s *Store) Online() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online
}

func (s *Store) nextTaskSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.taskSeq++
	return s.taskSeq
}

func (s *Store) nextPostSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.postSeq++
	return s.postSeq
}

func (s *Store) applyTasksIfLatest(seq uint64, tasks []model.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.taskSeq {
		return false
	}
	s.tasks = tasks
	if tasks != nil {
		s.tasksLoaded = true
	}
	return true
}

// TasksLoaded reports whether the store ever held a task collection,
// from either the cache or a successful refresh.
func (s *Store) TasksLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasksLoaded
}

func (s *Store) PostsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.postsLoaded
}

func (s *Store) applyPostsIfLatest(seq uint64, posts []model.Post) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.postSeq {
		return false
	}
	s.posts = posts
	if posts != nil {
		s.postsLoaded = true
	}
	return true
}
