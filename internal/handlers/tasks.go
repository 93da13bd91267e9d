package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"TASKDECK_BACK-END/internal/dto"
	"TASKDECK_BACK-END/internal/models"
	"TASKDECK_BACK-END/internal/store"
	"TASKDECK_BACK-END/internal/utils"
)

// TasksHandler manages task-related endpoints
type TasksHandler struct {
	tasks store.TaskStore
}

// NewTasksHandler creates a new TasksHandler
func NewTasksHandler(tasks store.TaskStore) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

// Tasks dispatches by HTTP method for /api/tasks
func (h *TasksHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.ListTasks(w, r)
	case http.MethodPost:
		h.CreateTask(w, r)
	case http.MethodDelete:
		h.DeleteAllTasks(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// TaskByID dispatches by HTTP method for /api/tasks/{id}
func (h *TasksHandler) TaskByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		h.UpdateTask(w, r)
	case http.MethodDelete:
		h.DeleteTask(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ListTasks handles GET /api/tasks
// @Summary List tasks
// @Description List all tasks owned by the authenticated user, priority high to low then newest first
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TaskResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tasks [get]
func (h *TasksHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	tasks, err := h.tasks.ListTasks(r.Context(), userID)
	if err != nil {
		zap.L().Error("failed to list tasks", zap.Int64("user_id", userID), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	responses := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, toTaskResponse(task))
	}

	utils.WriteJSONResponse(w, http.StatusOK, responses)
}

// CreateTask handles POST /api/tasks
// @Summary Create a task
// @Description Create a new task owned by the authenticated user
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateTaskRequest true "Task payload"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tasks [post]
func (h *TasksHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.CreateTaskRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" || req.Priority == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "text and priority are required")
		return
	}

	priority := models.Priority(req.Priority)
	if !priority.Valid() {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "priority must be low, medium, or high")
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		parsed, err := utils.ParseDate(*req.DueDate)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "due_date must be YYYY-MM-DD")
			return
		}
		dueDate = &parsed
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, req.Text, priority, dueDate)
	if err != nil {
		zap.L().Error("failed to create task", zap.Int64("user_id", userID), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, toTaskResponse(task))
}

// UpdateTask handles PUT /api/tasks/{id}
// @Summary Update a task
// @Description Apply a partial update to a task owned by the authenticated user
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Param payload body dto.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tasks/{id} [put]
func (h *TasksHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	taskID, err := taskIDFromPath(r.URL.Path)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "invalid task id")
		return
	}

	var req dto.UpdateTaskRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	if req.IsEmpty() {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "no fields to update")
		return
	}

	task, ok := h.ownedTask(w, r, taskID, userID)
	if !ok {
		return
	}

	update := models.TaskUpdate{
		Text:      task.Text,
		Priority:  task.Priority,
		Completed: task.Completed,
		DueDate:   task.DueDate,
	}

	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		if text == "" {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "text cannot be empty")
			return
		}
		update.Text = text
	}
	if req.Priority != nil {
		priority := models.Priority(*req.Priority)
		if !priority.Valid() {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "priority must be low, medium, or high")
			return
		}
		update.Priority = priority
	}
	if req.Completed != nil {
		update.Completed = *req.Completed
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			update.DueDate = nil
		} else {
			parsed, err := utils.ParseDate(*req.DueDate)
			if err != nil {
				utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "due_date must be YYYY-MM-DD")
				return
			}
			update.DueDate = &parsed
		}
	}

	updated, err := h.tasks.UpdateTask(r.Context(), taskID, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Task not found", "")
			return
		}
		zap.L().Error("failed to update task", zap.Int64("task_id", taskID), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, toTaskResponse(updated))
}

// DeleteTask handles DELETE /api/tasks/{id}
// @Summary Delete a task
// @Description Delete a task owned by the authenticated user
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tasks/{id} [delete]
func (h *TasksHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	taskID, err := taskIDFromPath(r.URL.Path)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "invalid task id")
		return
	}

	if _, ok := h.ownedTask(w, r, taskID, userID); !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), taskID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Task not found", "")
			return
		}
		zap.L().Error("failed to delete task", zap.Int64("task_id", taskID), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Task deleted"})
}

// DeleteAllTasks handles DELETE /api/tasks
// @Summary Delete all tasks
// @Description Delete every task owned by the authenticated user
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DeleteAllResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tasks [delete]
func (h *TasksHandler) DeleteAllTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	deleted, err := h.tasks.DeleteAllTasks(r.Context(), userID)
	if err != nil {
		zap.L().Error("failed to delete all tasks", zap.Int64("user_id", userID), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	// Zero deleted rows is still a success.
	utils.WriteJSONResponse(w, http.StatusOK, dto.DeleteAllResponse{Deleted: deleted})
}

// ownedTask loads a task and enforces ownership, writing the error response
// itself. The existence check and the following mutation are separate
// statements; a row deleted in between surfaces as a late NotFound.
func (h *TasksHandler) ownedTask(w http.ResponseWriter, r *http.Request, taskID, userID int64) (models.Task, bool) {
	task, err := h.tasks.GetTask(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Task not found", "")
			return models.Task{}, false
		}
		zap.L().Error("failed to fetch task", zap.Int64("task_id", taskID), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return models.Task{}, false
	}

	if task.UserID != userID {
		utils.WriteErrorResponse(w, http.StatusForbidden, "Forbidden", "Task belongs to another user")
		return models.Task{}, false
	}

	return task, true
}

func taskIDFromPath(path string) (int64, error) {
	idPart := strings.TrimPrefix(path, "/api/tasks/")
	return strconv.ParseInt(idPart, 10, 64)
}

// toTaskResponse normalizes a task row to the fixed wire shape
func toTaskResponse(task models.Task) dto.TaskResponse {
	resp := dto.TaskResponse{
		ID:        task.ID,
		Text:      task.Text,
		Priority:  string(task.Priority),
		Completed: task.Completed,
		DueDate:   utils.FormatDate(task.DueDate),
	}
	if !task.CreatedAt.IsZero() {
		createdAt := task.CreatedAt.Format(time.RFC3339)
		resp.CreatedAt = &createdAt
	}
	return resp
}
