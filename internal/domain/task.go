package domain

import "time"

// Status is the lifecycle bucket a task lives in. A task is always in
// exactly one bucket.
type Status string

const (
	StatusInbox     Status = "inbox"
	StatusCompleted Status = "completed"
	StatusDeleted   Status = "deleted"
)

// Valid reports whether s is one of the three defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusInbox, StatusCompleted, StatusDeleted:
		return true
	}
	return false
}

// Priority is an optional task priority. Empty means unset.
type Priority string

const (
	PriorityHigh Priority = "High"
	PriorityMid  Priority = "Mid"
	PriorityLow  Priority = "Low"
)

// Valid reports whether p is a known priority or unset.
func (p Priority) Valid() bool {
	switch p {
	case "", PriorityHigh, PriorityMid, PriorityLow:
		return true
	}
	return false
}

// Task is the domain entity for a to-do item.
// Does not depend on Gin, Postgres or Redis.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	DueAt       *time.Time
	Priority    Priority
	Status      Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
