package handlers

import (
	"encoding/json"
	"net/http"

	"tasks-backend/application/services"
	"tasks-backend/domain/task"
	"tasks-backend/pkg/auth"
	apperrors "tasks-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// 404 responses deliberately do not distinguish "does not exist" from
// "belongs to someone else".
const (
	msgNotFoundUpdate = "Task does not exist or you are not authorized to update the task"
	msgNotFoundDelete = "Task does not exist or you are not authorized to delete the task"
	msgNotFoundUpload = "Task does not exist or you are not authorized to generate an upload url"
)

// TaskHandler handles the task HTTP endpoints.
type TaskHandler struct {
	tasks  *services.TaskService
	logger *zap.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *services.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: logger,
	}
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to resolve user identity")
		return
	}

	var req task.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to parse create request", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to parse request body")
		return
	}

	item, err := h.tasks.CreateTask(r.Context(), user.UserID, req)
	if err != nil {
		h.logger.Error("Failed to create task",
			zap.String("userId", user.UserID),
			zap.Error(err),
		)
		h.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"item": item,
	})
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to resolve user identity")
		return
	}

	items, err := h.tasks.ListTasks(r.Context(), user.UserID)
	if err != nil {
		h.logger.Error("Failed to list tasks",
			zap.String("userId", user.UserID),
			zap.Error(err),
		)
		h.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	if items == nil {
		items = []task.Task{}
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

// UpdateTask handles PATCH /tasks/{taskID}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to resolve user identity")
		return
	}
	taskID := chi.URLParam(r, "taskID")

	var req task.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to parse update request", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to parse request body")
		return
	}

	existing, err := h.tasks.GetTask(r.Context(), taskID, user.UserID)
	if err != nil {
		h.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	if existing == nil {
		h.logger.Warn("Update for unknown or foreign task",
			zap.String("taskId", taskID),
			zap.String("userId", user.UserID),
		)
		h.respondError(w, http.StatusNotFound, msgNotFoundUpdate)
		return
	}

	if _, err := h.tasks.UpdateTask(r.Context(), taskID, user.UserID, req); err != nil {
		h.logger.Error("Failed to update task",
			zap.String("taskId", taskID),
			zap.Error(err),
		)
		h.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteTask handles DELETE /tasks/{taskID}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to resolve user identity")
		return
	}
	taskID := chi.URLParam(r, "taskID")

	existing, err := h.tasks.GetTask(r.Context(), taskID, user.UserID)
	if err != nil {
		h.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	if existing == nil {
		h.logger.Warn("Delete for unknown or foreign task",
			zap.String("taskId", taskID),
			zap.String("userId", user.UserID),
		)
		h.respondError(w, http.StatusNotFound, msgNotFoundDelete)
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), taskID, user.UserID); err != nil {
		h.logger.Error("Failed to delete task",
			zap.String("taskId", taskID),
			zap.Error(err),
		)
		h.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GenerateUploadURL handles POST /tasks/{taskID}/attachment.
func (h *TaskHandler) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to resolve user identity")
		return
	}
	taskID := chi.URLParam(r, "taskID")

	existing, err := h.tasks.GetTask(r.Context(), taskID, user.UserID)
	if err != nil {
		h.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	if existing == nil {
		h.logger.Warn("Upload url request for unknown or foreign task",
			zap.String("taskId", taskID),
			zap.String("userId", user.UserID),
		)
		h.respondError(w, http.StatusNotFound, msgNotFoundUpload)
		return
	}

	uploadURL, err := h.tasks.UploadURL(r.Context(), existing.TaskID)
	if err != nil {
		h.logger.Error("Failed to generate upload url",
			zap.String("taskId", taskID),
			zap.Error(err),
		)
		h.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"uploadUrl": uploadURL,
	})
}

func (h *TaskHandler) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *TaskHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{
		"error": message,
	})
}
