package services

import (
	"context"
	"time"

	"tasks-backend/application/ports"
	"tasks-backend/domain/task"
	apperrors "tasks-backend/pkg/errors"
	"tasks-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService mediates between the HTTP handlers and the two stores. All
// mutations reachable from a user request are owner-scoped; the only
// unscoped operations are GetTaskByID and LinkAttachment, which exist for
// the attachment notification flow.
type TaskService struct {
	repo        ports.TaskRepository
	attachments ports.AttachmentStore
	logger      *zap.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo ports.TaskRepository, attachments ports.AttachmentStore, logger *zap.Logger) *TaskService {
	return &TaskService{
		repo:        repo,
		attachments: attachments,
		logger:      logger,
	}
}

// CreateTask generates the taskId and createdAt stamp, applies defaults and
// persists the new record for the given owner.
func (s *TaskService) CreateTask(ctx context.Context, userID string, req task.CreateRequest) (*task.Task, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthorizedError("missing user identity")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	t := task.Task{
		UserID:        userID,
		TaskID:        uuid.New().String(),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		Name:          req.Name,
		DueDate:       req.DueDate,
		Done:          false,
		AttachmentURL: "",
	}

	return s.repo.Create(ctx, t)
}

// GetTask is the owner-scoped lookup. It returns (nil, nil) when the task
// does not exist or belongs to a different owner.
func (s *TaskService) GetTask(ctx context.Context, taskID, userID string) (*task.Task, error) {
	return s.repo.GetByOwner(ctx, taskID, userID)
}

// GetTaskByID looks up a task by taskId alone. Reserved for the attachment
// notification flow, which is not user-request-scoped.
func (s *TaskService) GetTaskByID(ctx context.Context, taskID string) (*task.Task, error) {
	return s.repo.GetByTaskID(ctx, taskID)
}

// ListTasks returns all of the caller's tasks.
func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]task.Task, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthorizedError("missing user identity")
	}
	return s.repo.ListByOwner(ctx, userID)
}

// ListAllTasks returns every task regardless of owner. Administrative and
// debugging use only; never exposed on the user-facing routes.
func (s *TaskService) ListAllTasks(ctx context.Context) ([]task.Task, error) {
	return s.repo.ListAll(ctx)
}

// UpdateTask patches name, dueDate and done on the caller's record and
// returns the post-update values of those attributes. Callers verify
// existence separately; the scoped update's own key matching is the only
// ownership check here.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, userID string, req task.UpdateRequest) (*task.Update, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	return s.repo.UpdateFields(ctx, taskID, userID, task.Update{
		Name:    req.Name,
		DueDate: req.DueDate,
		Done:    req.Done,
	})
}

// DeleteTask removes the caller's record, then makes a best-effort attempt
// to delete the associated attachment object. A failed object deletion is
// logged and swallowed; the record is already gone.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, userID string) error {
	if err := s.repo.Delete(ctx, taskID, userID); err != nil {
		return err
	}

	if err := s.attachments.DeleteObject(ctx, taskID); err != nil {
		s.logger.Warn("Failed to delete attachment object",
			zap.String("taskId", taskID),
			zap.Error(err),
		)
	}
	return nil
}

// UploadURL issues a presigned upload URL for the task's attachment object.
// Ownership is expected to have been checked by the caller.
func (s *TaskService) UploadURL(ctx context.Context, taskID string) (string, error) {
	return s.attachments.UploadURL(ctx, taskID)
}

// LinkAttachment patches the record's attachmentUrl. The owner comes from
// the record itself, not from a caller credential: the caller is an
// internal storage event, not a user.
func (s *TaskService) LinkAttachment(ctx context.Context, taskID, userID, url string) error {
	return s.repo.PatchAttachmentURL(ctx, taskID, userID, url)
}

// AttachmentURL computes the canonical public URL for a task's attachment.
func (s *TaskService) AttachmentURL(taskID string) string {
	return s.attachments.AttachmentURL(taskID)
}
