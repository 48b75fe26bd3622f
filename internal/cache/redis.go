package cache

import (
	"context"
	"encoding/json"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	model "taskforge.app/taskforge/internal/models"
)

// RedisStore keeps the mirrored collections in Redis, where they are
// visible to every process sharing the instance.
type RedisStore struct {
	client rueidis.Client
	prefix string
	log    *zap.SugaredLogger
}

func NewRedisStore(client rueidis.Client, prefix string, log *zap.SugaredLogger) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		log:    log,
	}
}

func (s *RedisStore) ReadTasks(ctx context.Context, fallback []model.Task) []model.Task {
	raw, ok := s.get(ctx, tasksKey(s.prefix))
	if !ok {
		return fallback
	}

	tasks, ok := decodeTasks(raw, fallback)
	if !ok {
		s.log.Warnw("corrupted cache entry, using fallback", "key", tasksKey(s.prefix))
	}
	return tasks
}

func (s *RedisStore) ReadPosts(ctx context.Context, fallback []model.Post) []model.Post {
	raw, ok := s.get(ctx, postsKey(s.prefix))
	if !ok {
		return fallback
	}

	posts, ok := decodePosts(raw, fallback)
	if !ok {
		s.log.Warnw("corrupted cache entry, using fallback", "key", postsKey(s.prefix))
	}
	return posts
}

func (s *RedisStore) WriteTasks(ctx context.Context, tasks []model.Task) error {
	return s.write(ctx, tasksKey(s.prefix), tasks)
}

func (s *RedisStore) WritePosts(ctx context.Context, posts []model.Post) error {
	return s.write(ctx, postsKey(s.prefix), posts)
}

func (s *RedisStore) MarkSynced(ctx context.Context) error {
	return s.set(ctx, statusKey(s.prefix), string(model.SyncSynced))
}

func (s *RedisStore) SyncState(ctx context.Context) model.SyncState {
	raw, ok := s.get(ctx, statusKey(s.prefix))
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

// write stores the serialized collection and flips the marker to pending;
// MarkSynced is the only path back to synced.
func (s *RedisStore) write(ctx context.Context, key string, collection any) error {
	raw, err := json.Marshal(collection)
	if err != nil {
		return err
	}

	if err := s.set(ctx, key, string(raw)); err != nil {
		return err
	}

	return s.set(ctx, statusKey(s.prefix), string(model.SyncPending))
}

func (s *RedisStore) get(ctx context.Context, key string) ([]byte, bool) {
	resp := s.client.Do(ctx, s.client.B().Get().Key(key).Build())
	if err := resp.Error(); err != nil {
		if !rueidis.IsRedisNil(err) {
			s.log.Warnw("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	raw, err := resp.AsBytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (s *RedisStore) set(ctx context.Context, key, value string) error {
	return s.client.Do(ctx, s.client.B().Set().Key(key).Value(value).Build()).Error()
}
