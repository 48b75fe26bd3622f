package model

import "time"

// Kind names one of the two synchronized collections.
type Kind string

const (
	KindTasks Kind = "tasks"
	KindPosts Kind = "posts"
)

// SyncState is the tri-state marker tracking whether the local cache
// matches the last confirmed remote state. Absent maps to SyncUnknown.
type SyncState string

const (
	SyncUnknown SyncState = ""
	SyncPending SyncState = "pending"
	SyncSynced  SyncState = "synced"
)

type Task struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Icon        string    `gorm:"not null" json:"icon"`
	Color       string    `gorm:"not null" json:"color"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"not null;index" json:"task_id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
