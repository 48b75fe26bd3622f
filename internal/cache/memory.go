package cache

import (
	"context"
	"encoding/json"
	"sync"

	model "taskforge.app/taskforge/internal/models"
)

// MemoryStore is a process-local Store used in tests and cache-less dev
// runs. It keeps the same serialized representation as RedisStore so the
// corrupted-entry fallback behaves identically.
type MemoryStore struct {
	mu      sync.Mutex
	prefix  string
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		prefix:  "taskforge",
		entries: make(map[string][]byte),
	}
}

func (s *MemoryStore) ReadTasks(_ context.Context, fallback []model.Task) []model.Task {
	raw, ok := s.get(tasksKey(s.prefix))
	if !ok {
		return fallback
	}
	tasks, _ := decodeTasks(raw, fallback)
	return tasks
}

func (s *MemoryStore) ReadPosts(_ context.Context, fallback []model.Post) []model.Post {
	raw, ok := s.get(postsKey(s.prefix))
	if !ok {
		return fallback
	}
	posts, _ := decodePosts(raw, fallback)
	return posts
}

func (s *MemoryStore) WriteTasks(_ context.Context, tasks []model.Task) error {
	raw, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	s.put(tasksKey(s.prefix), raw)
	s.put(statusKey(s.prefix), []byte(model.SyncPending))
	return nil
}

func (s *MemoryStore) WritePosts(_ context.Context, posts []model.Post) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	s.put(postsKey(s.prefix), raw)
	s.put(statusKey(s.prefix), []byte(model.SyncPending))
	return nil
}

func (s *MemoryStore) MarkSynced(_ context.Context) error {
	s.put(statusKey(s.prefix), []byte(model.SyncSynced))
	return nil
}

func (s *MemoryStore) SyncState(_ context.Context) model.SyncState {
	raw, ok := s.get(statusKey(s.prefix))
	if !ok {
		return model.SyncUnknown
	}

	switch state := model.SyncState(raw); state {
	case model.SyncPending, model.SyncSynced:
		return state
	default:
		return model.SyncUnknown
	}
}

func (s *MemoryStore) get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.entries[key]
	return raw, ok
}

func (s *MemoryStore) put(key string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = raw
}
