package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tasks-backend/application/services"
	"tasks-backend/domain/task"
	"tasks-backend/infrastructure/persistence/memory"
	apperrors "tasks-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAttachmentStore records calls instead of talking to object storage.
type fakeAttachmentStore struct {
	bucket      string
	deleted     []string
	deleteErr   error
	uploadCalls []string
}

func (f *fakeAttachmentStore) UploadURL(ctx context.Context, taskID string) (string, error) {
	if taskID == "" {
		return "", nil
	}
	f.uploadCalls = append(f.uploadCalls, taskID)
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s?signed=true", f.bucket, taskID), nil
}

func (f *fakeAttachmentStore) DeleteObject(ctx context.Context, taskID string) error {
	if taskID == "" {
		return nil
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, taskID)
	return nil
}

func (f *fakeAttachmentStore) AttachmentURL(taskID string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", f.bucket, taskID)
}

func newService(t *testing.T) (*services.TaskService, *memory.TaskRepository, *fakeAttachmentStore) {
	t.Helper()
	repo := memory.NewTaskRepository()
	store := &fakeAttachmentStore{bucket: "tasks-attachments"}
	return services.NewTaskService(repo, store, zap.NewNop()), repo, store
}

func TestCreateTaskDefaults(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "user-1", task.CreateRequest{
		Name:    "Buy milk",
		DueDate: "2024-01-01",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEmpty(t, created.TaskID)
	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, "Buy milk", created.Name)
	assert.Equal(t, "2024-01-01", created.DueDate)
	assert.False(t, created.Done)
	assert.Empty(t, created.AttachmentURL)

	_, err = time.Parse(time.RFC3339, created.CreatedAt)
	assert.NoError(t, err)

	stored, err := svc.GetTask(ctx, created.TaskID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Empty(t, stored.AttachmentURL)
}

func TestCreateTaskGeneratesUniqueIDs(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		created, err := svc.CreateTask(ctx, "user-1", task.CreateRequest{
			Name:    "Task",
			DueDate: "2024-01-01",
		})
		require.NoError(t, err)
		assert.False(t, seen[created.TaskID])
		seen[created.TaskID] = true
	}
}

func TestCreateTaskValidation(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.CreateTask(context.Background(), "user-1", task.CreateRequest{
		DueDate: "2024-01-01",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateTaskRequiresIdentity(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.CreateTask(context.Background(), "", task.CreateRequest{
		Name:    "Task",
		DueDate: "2024-01-01",
	})
	require.Error(t, err)
}

func TestUpdateTaskTouchesOnlyMutableFields(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "user-1", task.CreateRequest{
		Name:    "Buy milk",
		DueDate: "2024-01-01",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, created.TaskID, "user-1", task.UpdateRequest{
		Name:    "Buy oat milk",
		DueDate: "2024-01-02",
		Done:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Name)
	assert.Equal(t, "2024-01-02", updated.DueDate)
	assert.True(t, updated.Done)

	stored, err := svc.GetTask(ctx, created.TaskID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Buy oat milk", stored.Name)
	assert.Equal(t, "2024-01-02", stored.DueDate)
	assert.True(t, stored.Done)

	// Immutable attributes are untouched.
	assert.Equal(t, created.TaskID, stored.TaskID)
	assert.Equal(t, created.UserID, stored.UserID)
	assert.Equal(t, created.CreatedAt, stored.CreatedAt)
	assert.Equal(t, created.AttachmentURL, stored.AttachmentURL)
}

func TestOwnershipIsolation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "user-1", task.CreateRequest{
		Name:    "Private",
		DueDate: "2024-01-01",
	})
	require.NoError(t, err)

	got, err := svc.GetTask(ctx, created.TaskID, "user-2")
	require.NoError(t, err)
	assert.Nil(t, got)

	items, err := svc.ListTasks(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListTasksReturnsOnlyOwnTasks(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateTask(ctx, "user-1", task.CreateRequest{
			Name:    fmt.Sprintf("Task %d", i),
			DueDate: "2024-01-01",
		})
		require.NoError(t, err)
	}
	_, err := svc.CreateTask(ctx, "user-2", task.CreateRequest{
		Name:    "Other",
		DueDate: "2024-01-01",
	})
	require.NoError(t, err)

	items, err := svc.ListTasks(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, items, 3)

	all, err := svc.ListAllTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestDeleteTaskRemovesRecordAndObject(t *testing.T) {
	svc, _, store := newService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "user-1", task.CreateRequest{
		Name:    "Buy milk",
		DueDate: "2024-01-01",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, created.TaskID, "user-1"))

	got, err := svc.GetTask(ctx, created.TaskID, "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Contains(t, store.deleted, created.TaskID)

	// Deleting again is a no-op, not an error.
	require.NoError(t, svc.DeleteTask(ctx, created.TaskID, "user-1"))
}

func TestDeleteTaskSurvivesObjectDeletionFailure(t *testing.T) {
	svc, _, store := newService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "user-1", task.CreateRequest{
		Name:    "Buy milk",
		DueDate: "2024-01-01",
	})
	require.NoError(t, err)

	store.deleteErr = fmt.Errorf("bucket unavailable")
	require.NoError(t, svc.DeleteTask(ctx, created.TaskID, "user-1"))

	got, err := svc.GetTask(ctx, created.TaskID, "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUploadURLDelegatesWithoutOwnershipCheck(t *testing.T) {
	svc, _, store := newService(t)
	ctx := context.Background()

	url, err := svc.UploadURL(ctx, "some-task")
	require.NoError(t, err)
	assert.Contains(t, url, "some-task")
	assert.Equal(t, []string{"some-task"}, store.uploadCalls)

	// Empty taskId is a defensive no-op.
	url, err = svc.UploadURL(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestLinkAttachment(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "user-1", task.CreateRequest{
		Name:    "Buy milk",
		DueDate: "2024-01-01",
	})
	require.NoError(t, err)

	url := svc.AttachmentURL(created.TaskID)
	require.NoError(t, svc.LinkAttachment(ctx, created.TaskID, "user-1", url))

	stored, err := svc.GetTask(ctx, created.TaskID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, url, stored.AttachmentURL)

	// Linking for a key that was never created fails instead of
	// fabricating a record.
	err = svc.LinkAttachment(ctx, "no-such-task", "user-1", url)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
