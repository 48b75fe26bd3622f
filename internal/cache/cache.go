// Package cache mirrors the last-known Task and Post collections into a
// shared key-value store under fixed logical keys, together with a
// tri-state sync marker (pending/synced/absent). A corrupted entry never
// surfaces an error; reads fall back to the caller-supplied collection.
package cache

import (
	"context"
	"encoding/json"

	model "taskforge.app/taskforge/internal/models"
)

// Store is injected into every consumer so tests can substitute an
// in-memory implementation for the Redis one.
type Store interface {
	ReadTasks(ctx context.Context, fallback []model.Task) []model.Task
	ReadPosts(ctx context.Context, fallback []model.Post) []model.Post
	WriteTasks(ctx context.Context, tasks []model.Task) error
	WritePosts(ctx context.Context, posts []model.Post) error
	MarkSynced(ctx context.Context) error
	SyncState(ctx context.Context) model.SyncState
}

func tasksKey(prefix string) string  { return prefix + "-tasks" }
func postsKey(prefix string) string  { return prefix + "-posts" }
func statusKey(prefix string) string { return prefix + "-sync-status" }

func decodeTasks(raw []byte, fallback []model.Task) ([]model.Task, bool) {
	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return fallback, false
	}
	return tasks, true
}

func decodePosts(raw []byte, fallback []model.Post) ([]model.Post, bool) {
	var posts []model.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return fallback, false
	}
	return posts, true
}
