// Package client is the Go client for the Taskdeck API plus the view state
// used by the terminal front end.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ErrSessionExpired is returned when the server rejects the cached token.
// The local session is already cleared when this comes back.
var ErrSessionExpired = errors.New("session expired, please log in again")

// APIError is a non-2xx response decoded from the server error shape
type APIError struct {
	StatusCode int
	Err        string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err, e.Message)
	}
	return e.Err
}

// Task mirrors the task wire shape
type Task struct {
	ID        int64   `json:"id"`
	Text      string  `json:"text"`
	Priority  string  `json:"priority"`
	Completed bool    `json:"completed"`
	DueDate   *string `json:"due_date"`
	CreatedAt *string `json:"created_at"`
}

// TaskPatch is a partial task update; nil fields are left untouched
type TaskPatch struct {
	Text      *string `json:"text,omitempty"`
	Priority  *string `json:"priority,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	DueDate   *string `json:"due_date,omitempty"`
}

// Session is the cached credential pair, persisted between runs
type Session struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// Client talks to the Taskdeck API with an optional cached session
type Client struct {
	baseURL     string
	httpClient  *http.Client
	session     Session
	sessionPath string
}

// New creates a client and loads any cached session from the user config dir
func New(baseURL string) (*Client, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	sessionPath := filepath.Join(configDir, "taskdeck", "session.json")

	c := &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		sessionPath: sessionPath,
	}
	c.loadSession()
	return c, nil
}

func (c *Client) loadSession() {
	data, err := os.ReadFile(c.sessionPath)
	if err != nil {
		return
	}
	// A corrupt session file is the same as no session.
	_ = json.Unmarshal(data, &c.session)
}

func (c *Client) saveSession() error {
	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(c.session)
	if err != nil {
		return err
	}
	return os.WriteFile(c.sessionPath, data, 0o600)
}

func (c *Client) clearSession() {
	c.session = Session{}
	_ = os.Remove(c.sessionPath)
}

// LoggedIn reports whether a session token is cached
func (c *Client) LoggedIn() bool {
	return c.session.Token != ""
}

// Email returns the email of the cached session
func (c *Client) Email() string {
	return c.session.Email
}

// Logout drops the cached session
func (c *Client) Logout() {
	c.clearSession()
}

// Register creates a new account. No token is issued; call Login afterwards.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/api/auth/register", body, false, nil)
}

// Login authenticates and caches the returned session
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
		Email string `json:"email"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, false, &resp); err != nil {
		return err
	}
	c.session = Session{Token: resp.Token, Email: resp.Email}
	return c.saveSession()
}

// ListTasks fetches all tasks owned by the logged-in user
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, true, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a new task. dueDate may be empty for no due date.
func (c *Client) CreateTask(ctx context.Context, text, priority, dueDate string) (Task, error) {
	body := map[string]any{"text": text, "priority": priority}
	if dueDate != "" {
		body["due_date"] = dueDate
	}
	var task Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", body, true, &task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// UpdateTask applies a partial update to a task
func (c *Client) UpdateTask(ctx context.Context, id int64, patch TaskPatch) (Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), patch, true, &task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// DeleteTask deletes a single task
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, true, nil)
}

// DeleteAllTasks deletes every task of the logged-in user and reports the count
func (c *Client) DeleteAllTasks(ctx context.Context) (int64, error) {
	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/tasks", nil, true, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

// do performs one request/response round trip. Authenticated calls that come
// back 401/403 clear the cached session unconditionally.
func (c *Client) do(ctx context.Context, method, path string, body any, authed bool, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if authed && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		c.clearSession()
		return ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Err == "" {
			apiErr.Err = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return apiErr
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
