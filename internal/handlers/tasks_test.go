package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"TASKDECK_BACK-END/internal/dto"
	"TASKDECK_BACK-END/internal/models"
	"TASKDECK_BACK-END/internal/store"
)

func TestListTasks_Success(t *testing.T) {
	dueDate := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC)

	tasksMock := new(taskStoreMock)
	tasksMock.On("ListTasks", mock.Anything, int64(1)).Return(
		[]models.Task{
			{ID: 2, UserID: 1, Text: "Ship the release", Priority: models.PriorityHigh, DueDate: &dueDate, CreatedAt: createdAt},
			{ID: 1, UserID: 1, Text: "Water the plants", Priority: models.PriorityLow, Completed: true, CreatedAt: createdAt},
		},
		nil,
	).Once()
	handler := NewTasksHandler(tasksMock)

	req := authedRequest(http.MethodGet, "/api/tasks", "", 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.Tasks(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)

	require.Equal(t, int64(2), got[0].ID)
	require.Equal(t, "Ship the release", got[0].Text)
	require.Equal(t, "high", got[0].Priority)
	require.False(t, got[0].Completed)
	require.Equal(t, "2026-02-20", *got[0].DueDate)
	require.Equal(t, "2026-02-13T10:20:30Z", *got[0].CreatedAt)

	require.True(t, got[1].Completed)
	require.Nil(t, got[1].DueDate)
	tasksMock.AssertExpectations(t)
}

func TestListTasks_EmptyListIsArrayNotNull(t *testing.T) {
	tasksMock := new(taskStoreMock)
	tasksMock.On("ListTasks", mock.Anything, int64(1)).Return([]models.Task{}, nil).Once()
	handler := NewTasksHandler(tasksMock)

	req := authedRequest(http.MethodGet, "/api/tasks", "", 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.Tasks(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestCreateTask_Success(t *testing.T) {
	createdAt := time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC)
	dueDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tasksMock := new(taskStoreMock)
	tasksMock.On("CreateTask", mock.Anything, int64(1), "Ship the release", models.PriorityHigh, mock.AnythingOfType("*time.Time")).Return(
		models.Task{ID: 5, UserID: 1, Text: "Ship the release", Priority: models.PriorityHigh, DueDate: &dueDate, CreatedAt: createdAt},
		nil,
	).Once()
	handler := NewTasksHandler(tasksMock)

	req := authedRequest(http.MethodPost, "/api/tasks",
		`{"text":"Ship the release","priority":"high","due_date":"2026-03-01"}`, 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.Tasks(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got dto.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(5), got.ID)
	require.False(t, got.Completed)
	require.Equal(t, "2026-03-01", *got.DueDate)
	tasksMock.AssertExpectations(t)
}

func TestCreateTask_MissingText(t *testing.T) {
	handler := NewTasksHandler(new(taskStoreMock))

	req := authedRequest(http.MethodPost, "/api/tasks", `{"priority":"high"}`, 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.Tasks(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTask_InvalidPriority(t *testing.T) {
	handler := NewTasksHandler(new(taskStoreMock))

	req := authedRequest(http.MethodPost, "/api/tasks",
		`{"text":"Ship it","priority":"urgent"}`, 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.Tasks(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTask_InvalidDueDate(t *testing.T) {
	handler := NewTasksHandler(new(taskStoreMock))

	req := authedRequest(http.MethodPost, "/api/tasks",
		`{"text":"Ship it","priority":"high","due_date":"03/01/2026"}`, 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.Tasks(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTask_EmptyPayload(t *testing.T) {
	tasksMock := new(taskStoreMock)
	handler := NewTasksHandler(tasksMock)

	req := authedRequest(http.MethodPut, "/api/tasks/5", `{}`, 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.TaskByID(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	// The store must not be touched for an empty update.
	tasksMock.AssertNotCalled(t, "GetTask", mock.Anything, mock.Anything)
	tasksMock.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateTask_NotFound(t *testing.T) {
	tasksMock := new(taskStoreMock)
	tasksMock.On("GetTask", mock.Anything, int64(999)).Return(models.Task{}, store.ErrNotFound).Once()
	handler := NewTasksHandler(tasksMock)

	req := authedRequest(http.MethodPut, "/api/tasks/999", `{"completed":true}`, 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.TaskByID(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	tasksMock.AssertExpectations(t)
}

func TestUpdateTask_ForeignOwner(t *testing.T) {
	tasksMock := new(taskStoreMock)
	tasksMock.On("GetTask", mock.Anything, int64(5)).Return(
		models.Task{ID: 5, UserID: 2, Text: "Not yours", Priority: models.PriorityLow},
		nil,
	).Once()
	handler := NewTasksHandler(tasksMock)

	req := authedRequest(http.MethodPut, "/api/tasks/5", `{"completed":true}`, 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.TaskByID(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	tasksMock.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
	tasksMock.AssertExpectations(t)
}

func TestUpdateTask_CompletedOnlyKeepsOtherFields(t *testing.T) {
	dueDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	stored := models.Task{
		ID: 5, UserID: 1, Text: "Ship the release",
		Priority: models.PriorityHigh, DueDate: &dueDate,
	}

	tasksMock := new(taskStoreMock)
	tasksMock.On("GetTask", mock.Anything, int64(5)).Return(stored, nil).Once()
	tasksMock.On("UpdateTask", mock.Anything, int64(5), models.TaskUpdate{
		Text:      "Ship the release",
		Priority:  models.PriorityHigh,
		Completed: true,
		DueDate:   &dueDate,
	}).Return(
		models.Task{ID: 5, UserID: 1, Text: "Ship the release", Priority: models.PriorityHigh, Completed: true, DueDate: &dueDate},
		nil,
	).Once()
	handler := NewTasksHandler(tasksMock)

	req := authedRequest(http.MethodPut, "/api/tasks/5", `{"completed":true}`, 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.TaskByID(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.Completed)
	require.Equal(t, "Ship the release", got.Text)
	tasksMock.AssertExpectations(t)
}

func TestUpdateTask_ClearDueDate(t *testing.T) {
	dueDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	stored := models.Task{ID: 5, UserID: 1, Text: "Ship it", Priority: models.PriorityHigh, DueDate: &dueDate}

	tasksMock := new(taskStoreMock)
	tasksMock.On("GetTask", mock.Anything, int64(5)).Return(stored, nil).Once()
	tasksMock.On("UpdateTask", mock.Anything, int64(5), models.TaskUpdate{
		Text:     "Ship it",
		Priority: models.PriorityHigh,
		DueDate:  nil,
	}).Return(
		models.Task{ID: 5, UserID: 1, Text: "Ship it", Priority: models.PriorityHigh},
		nil,
	).Once()
	handler := NewTasksHandler(tasksMock)

	req := authedRequest(http.MethodPut, "/api/tasks/5", `{"due_date":""}`, 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.TaskByID(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Nil(t, got.DueDate)
	tasksMock.AssertExpectations(t)
}

func TestUpdateTask_InvalidPriority(t *testing.T) {
	tasksMock := new(taskStoreMock)
	tasksMock.On("GetTask", mock.Anything, int64(5)).Return(
		models.Task{ID: 5, UserID: 1, Text: "Ship it", Priority: models.PriorityLow},
		nil,
	).Once()
	handler := NewTasksHandler(tasksMock)

	req := authedRequest(http.MethodPut, "/api/tasks/5", `{"priority":"urgent"}`, 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.TaskByID(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	tasksMock.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteTask_Success(t *testing.T) {
	tasksMock := new(taskStoreMock)
	tasksMock.On("GetTask", mock.Anything, int64(5)).Return(
		models.Task{ID: 5, UserID: 1, Text: "Ship it", Priority: models.PriorityLow},
		nil,
	).Once()
	tasksMock.On("DeleteTask", mock.Anything, int64(5)).Return(nil).Once()
	handler := NewTasksHandler(tasksMock)

	req := authedRequest(http.MethodDelete, "/api/tasks/5", "", 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.TaskByID(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	tasksMock.AssertExpectations(t)
}

func TestDeleteTask_NotFound(t *testing.T) {
	tasksMock := new(taskStoreMock)
	tasksMock.On("GetTask", mock.Anything, int64(999)).Return(models.Task{}, store.ErrNotFound).Once()
	handler := NewTasksHandler(tasksMock)

	req := authedRequest(http.MethodDelete, "/api/tasks/999", "", 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.TaskByID(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	tasksMock.AssertExpectations(t)
}

func TestDeleteTask_ForeignOwner(t *testing.T) {
	tasksMock := new(taskStoreMock)
	tasksMock.On("GetTask", mock.Anything, int64(5)).Return(
		models.Task{ID: 5, UserID: 2, Text: "Not yours", Priority: models.PriorityLow},
		nil,
	).Once()
	handler := NewTasksHandler(tasksMock)

	req := authedRequest(http.MethodDelete, "/api/tasks/5", "", 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.TaskByID(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	tasksMock.AssertNotCalled(t, "DeleteTask", mock.Anything, mock.Anything)
	tasksMock.AssertExpectations(t)
}

func TestDeleteAllTasks_Success(t *testing.T) {
	tasksMock := new(taskStoreMock)
	tasksMock.On("DeleteAllTasks", mock.Anything, int64(1)).Return(int64(3), nil).Once()
	handler := NewTasksHandler(tasksMock)

	req := authedRequest(http.MethodDelete, "/api/tasks", "", 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.Tasks(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.DeleteAllResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(3), got.Deleted)
	tasksMock.AssertExpectations(t)
}

func TestDeleteAllTasks_ZeroRowsStillSucceeds(t *testing.T) {
	tasksMock := new(taskStoreMock)
	tasksMock.On("DeleteAllTasks", mock.Anything, int64(1)).Return(int64(0), nil).Once()
	handler := NewTasksHandler(tasksMock)

	req := authedRequest(http.MethodDelete, "/api/tasks", "", 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.Tasks(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	tasksMock.AssertExpectations(t)
}

func TestTasks_NoIdentityInContext(t *testing.T) {
	handler := NewTasksHandler(new(taskStoreMock))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()

	handler.Tasks(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
