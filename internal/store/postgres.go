package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"TASKDECK_BACK-END/internal/models"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations
const pgUniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tasks (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	text       TEXT NOT NULL,
	priority   TEXT NOT NULL CHECK (priority IN ('low', 'medium', 'high')),
	completed  BOOLEAN NOT NULL DEFAULT FALSE,
	due_date   DATE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS auth_verifications (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	email      TEXT NOT NULL,
	code       TEXT NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	used       BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Postgres implements the store interfaces on a pgx connection pool
type Postgres struct {
	pool *pgxpool.Pool
}

var (
	_ UserStore         = (*Postgres)(nil)
	_ TaskStore         = (*Postgres)(nil)
	_ VerificationStore = (*Postgres)(nil)
)

// NewPostgres creates a Postgres store on an existing pool
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// InitSchema creates the tables if they do not exist yet
func (s *Postgres) InitSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Ping checks database connectivity
func (s *Postgres) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- users ---

func (s *Postgres) CreateUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	var user models.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, email, password_hash, created_at, updated_at`,
		email, passwordHash).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Postgres) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at, updated_at
		 FROM users WHERE email = $1`,
		email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Postgres) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at, updated_at
		 FROM users WHERE id = $1`,
		id).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Postgres) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- tasks ---

func (s *Postgres) ListTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, text, priority, completed, due_date, created_at
		 FROM tasks
		 WHERE user_id = $1
		 ORDER BY CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.UserID, &task.Text, &task.Priority,
			&task.Completed, &task.DueDate, &task.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *Postgres) GetTask(ctx context.Context, id int64) (models.Task, error) {
	var task models.Task
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, text, priority, completed, due_date, created_at
		 FROM tasks WHERE id = $1`,
		id).Scan(&task.ID, &task.UserID, &task.Text, &task.Priority,
		&task.Completed, &task.DueDate, &task.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *Postgres) CreateTask(ctx context.Context, userID int64, text string, priority models.Priority, dueDate *time.Time) (models.Task, error) {
	var task models.Task
	err := s.pool.QueryRow(ctx,
		`INSERT INTO tasks (user_id, text, priority, due_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, text, priority, completed, due_date, created_at`,
		userID, text, priority, dueDate).Scan(
		&task.ID, &task.UserID, &task.Text, &task.Priority,
		&task.Completed, &task.DueDate, &task.CreatedAt)
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *Postgres) UpdateTask(ctx context.Context, id int64, update models.TaskUpdate) (models.Task, error) {
	var task models.Task
	err := s.pool.QueryRow(ctx,
		`UPDATE tasks SET text = $1, priority = $2, completed = $3, due_date = $4
		 WHERE id = $5
		 RETURNING id, user_id, text, priority, completed, due_date, created_at`,
		update.Text, update.Priority, update.Completed, update.DueDate, id).Scan(
		&task.ID, &task.UserID, &task.Text, &task.Priority,
		&task.Completed, &task.DueDate, &task.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *Postgres) DeleteTask(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) DeleteAllTasks(ctx context.Context, userID int64) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// --- password-reset verifications ---

func (s *Postgres) CreateVerification(ctx context.Context, userID int64, email, code string, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO auth_verifications (user_id, email, code, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		userID, email, code, expiresAt)
	return err
}

func (s *Postgres) LatestVerification(ctx context.Context, userID int64, email string) (Verification, error) {
	var v Verification
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, email, code, expires_at, used, created_at
		 FROM auth_verifications
		 WHERE user_id = $1 AND email = $2
		 ORDER BY created_at DESC LIMIT 1`,
		userID, email).Scan(&v.ID, &v.UserID, &v.Email, &v.Code, &v.ExpiresAt, &v.Used, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Verification{}, ErrNotFound
	}
	if err != nil {
		return Verification{}, err
	}
	return v, nil
}

// ConsumeVerification updates the password and marks the code used in one
// transaction so a code cannot reset two passwords.
func (s *Postgres) ConsumeVerification(ctx context.Context, id int64, userID int64, passwordHash string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		passwordHash, userID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE auth_verifications SET used = true WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
