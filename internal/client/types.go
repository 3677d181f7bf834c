package client

import (
	"time"

	dom "TDL/internal/domain"
)

// Task is the client-side view of a task. Field names follow the API wire
// format so server responses decode straight into it.
type Task struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueAt       *time.Time   `json:"due_at"`
	Priority    dom.Priority `json:"priority,omitempty"`
	Status      dom.Status   `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TaskDraft holds the fields of a task about to be created. Status is not
// part of a draft; new tasks always start in the inbox.
type TaskDraft struct {
	Title       string
	Description string
	DueAt       *time.Time
	Priority    dom.Priority
}

// TaskPatch is a partial update. Nil fields keep their current values.
type TaskPatch struct {
	Title       *string
	Description *string
	DueAt       *time.Time
	Priority    *dom.Priority
	Status      *dom.Status
}

// User is the client-side view of the logged-in account.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
