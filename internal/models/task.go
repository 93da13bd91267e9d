package models

import "time"

// Priority is the task priority level
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the three allowed levels
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Weight returns a numeric rank for sorting (high > medium > low)
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Task represents a task row owned by a single user
type Task struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	Text      string     `json:"text" db:"text"`
	Priority  Priority   `json:"priority" db:"priority"`
	Completed bool       `json:"completed" db:"completed"`
	DueDate   *time.Time `json:"due_date" db:"due_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// TaskUpdate carries the final column values for a task update.
// Handlers merge the partial payload against the stored row first,
// so every field here is resolved.
type TaskUpdate struct {
	Text      string
	Priority  Priority
	Completed bool
	DueDate   *time.Time
}
