package store

import (
	"context"
	"errors"
	"time"

	"TASKDECK_BACK-END/internal/models"
)

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when registering an email that is already taken
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserStore persists user credentials. The auth handlers are the only callers.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// TaskStore persists task rows keyed by id and owned by a user
type TaskStore interface {
	ListTasks(ctx context.Context, userID int64) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (models.Task, error)
	CreateTask(ctx context.Context, userID int64, text string, priority models.Priority, dueDate *time.Time) (models.Task, error)
	UpdateTask(ctx context.Context, id int64, update models.TaskUpdate) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	DeleteAllTasks(ctx context.Context, userID int64) (int64, error)
}

// Verification is a password-reset verification code row
type Verification struct {
	ID        int64
	UserID    int64
	Email     string
	Code      string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// VerificationStore persists password-reset verification codes
type VerificationStore interface {
	CreateVerification(ctx context.Context, userID int64, email, code string, expiresAt time.Time) error
	LatestVerification(ctx context.Context, userID int64, email string) (Verification, error)
	ConsumeVerification(ctx context.Context, id int64, userID int64, passwordHash string) error
}
