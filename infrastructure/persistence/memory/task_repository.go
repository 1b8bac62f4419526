package memory

import (
	"context"
	"fmt"
	"sync"

	"tasks-backend/application/ports"
	"tasks-backend/domain/task"
	apperrors "tasks-backend/pkg/errors"
)

// TaskRepository is an in-memory ports.TaskRepository with the same
// point-operation semantics as the DynamoDB implementation. It backs tests
// and local experiments; nothing here survives a restart.
type TaskRepository struct {
	mu sync.RWMutex
	// userID -> taskID -> task
	items map[string]map[string]task.Task
}

// NewTaskRepository creates an empty in-memory repository.
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		items: make(map[string]map[string]task.Task),
	}
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func (r *TaskRepository) GetByTaskID(ctx context.Context, taskID string) (*task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, owned := range r.items {
		if t, ok := owned[taskID]; ok {
			copied := t
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *TaskRepository) GetByOwner(ctx context.Context, taskID, userID string) (*task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.items[userID][taskID]; ok {
		copied := t
		return &copied, nil
	}
	return nil, nil
}

func (r *TaskRepository) ListAll(ctx context.Context) ([]task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []task.Task
	for _, owned := range r.items {
		for _, t := range owned {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, userID string) ([]task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []task.Task
	for _, t := range r.items[userID] {
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, t task.Task) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.items[t.UserID] == nil {
		r.items[t.UserID] = make(map[string]task.Task)
	}
	r.items[t.UserID][t.TaskID] = t

	copied := t
	return &copied, nil
}

func (r *TaskRepository) PatchAttachmentURL(ctx context.Context, taskID, userID, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[userID][taskID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("task %s", taskID))
	}
	t.AttachmentURL = url
	r.items[userID][taskID] = t
	return nil
}

func (r *TaskRepository) UpdateFields(ctx context.Context, taskID, userID string, upd task.Update) (*task.Update, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[userID][taskID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("task %s", taskID))
	}
	t.Name = upd.Name
	t.DueDate = upd.DueDate
	t.Done = upd.Done
	r.items[userID][taskID] = t

	return &task.Update{Name: t.Name, DueDate: t.DueDate, Done: t.Done}, nil
}

func (r *TaskRepository) Delete(ctx context.Context, taskID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items[userID], taskID)
	return nil
}
