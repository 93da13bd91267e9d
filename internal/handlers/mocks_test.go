package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/stretchr/testify/mock"

	"TASKDECK_BACK-END/internal/models"
	"TASKDECK_BACK-END/internal/store"
	"TASKDECK_BACK-END/internal/utils"
)

// authedRequest builds a request carrying an authenticated identity, the way
// the JWT middleware would hand it to a handler.
func authedRequest(method, path, body string, userID int64, email string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	return req.WithContext(utils.WithIdentity(req.Context(), userID, email))
}

type userStoreMock struct {
	mock.Mock
}

func (m *userStoreMock) CreateUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	args := m.Called(ctx, email, passwordHash)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *userStoreMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *userStoreMock) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *userStoreMock) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

type taskStoreMock struct {
	mock.Mock
}

func (m *taskStoreMock) ListTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	args := m.Called(ctx, userID)

	var tasks []models.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]models.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskStoreMock) GetTask(ctx context.Context, id int64) (models.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *taskStoreMock) CreateTask(ctx context.Context, userID int64, text string, priority models.Priority, dueDate *time.Time) (models.Task, error) {
	args := m.Called(ctx, userID, text, priority, dueDate)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *taskStoreMock) UpdateTask(ctx context.Context, id int64, update models.TaskUpdate) (models.Task, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *taskStoreMock) DeleteTask(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *taskStoreMock) DeleteAllTasks(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type verificationStoreMock struct {
	mock.Mock
}

func (m *verificationStoreMock) CreateVerification(ctx context.Context, userID int64, email, code string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, email, code, expiresAt)
	return args.Error(0)
}

func (m *verificationStoreMock) LatestVerification(ctx context.Context, userID int64, email string) (store.Verification, error) {
	args := m.Called(ctx, userID, email)
	return args.Get(0).(store.Verification), args.Error(1)
}

func (m *verificationStoreMock) ConsumeVerification(ctx context.Context, id int64, userID int64, passwordHash string) error {
	args := m.Called(ctx, id, userID, passwordHash)
	return args.Error(0)
}

var (
	_ store.UserStore         = (*userStoreMock)(nil)
	_ store.TaskStore         = (*taskStoreMock)(nil)
	_ store.VerificationStore = (*verificationStoreMock)(nil)
)
