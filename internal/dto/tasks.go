package dto

// CreateTaskRequest represents the request payload for task creation
type CreateTaskRequest struct {
	Text     string  `json:"text" validate:"required"`
	Priority string  `json:"priority" validate:"required,oneof=low medium high"`
	DueDate  *string `json:"due_date,omitempty"` // YYYY-MM-DD
}

// UpdateTaskRequest represents a partial task update. One optional field per
// mutable column; absent fields keep their stored value. An empty due_date
// string clears the date.
type UpdateTaskRequest struct {
	Text      *string `json:"text,omitempty"`
	Priority  *string `json:"priority,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	DueDate   *string `json:"due_date,omitempty"`
}

// IsEmpty reports whether no field was supplied at all
func (r UpdateTaskRequest) IsEmpty() bool {
	return r.Text == nil && r.Priority == nil && r.Completed == nil && r.DueDate == nil
}

// TaskResponse is the fixed wire shape for a task row
type TaskResponse struct {
	ID        int64   `json:"id"`
	Text      string  `json:"text"`
	Priority  string  `json:"priority"`
	Completed bool    `json:"completed"`
	DueDate   *string `json:"due_date"`   // YYYY-MM-DD or null
	CreatedAt *string `json:"created_at"` // RFC3339 or null
}

// DeleteAllResponse reports how many rows a bulk delete removed
type DeleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}
