package events_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"tasks-backend/application/services"
	"tasks-backend/domain/task"
	"tasks-backend/infrastructure/persistence/memory"
	"tasks-backend/interfaces/events"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAttachmentStore struct {
	bucket string
}

func (s *stubAttachmentStore) UploadURL(ctx context.Context, taskID string) (string, error) {
	return "", nil
}

func (s *stubAttachmentStore) DeleteObject(ctx context.Context, taskID string) error {
	return nil
}

func (s *stubAttachmentStore) AttachmentURL(taskID string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, taskID)
}

func newLinker(t *testing.T) (*events.AttachmentLinker, *memory.TaskRepository, *services.TaskService) {
	t.Helper()
	repo := memory.NewTaskRepository()
	svc := services.NewTaskService(repo, &stubAttachmentStore{bucket: "tasks-attachments"}, zap.NewNop())
	return events.NewAttachmentLinker(svc, zap.NewNop()), repo, svc
}

func snsBatch(t *testing.T, keys ...string) awsevents.SNSEvent {
	t.Helper()

	var records []awsevents.S3EventRecord
	for _, key := range keys {
		records = append(records, awsevents.S3EventRecord{
			S3: awsevents.S3Entity{
				Object: awsevents.S3Object{Key: key},
			},
		})
	}
	message, err := json.Marshal(awsevents.S3Event{Records: records})
	require.NoError(t, err)

	return awsevents.SNSEvent{
		Records: []awsevents.SNSEventRecord{
			{SNS: awsevents.SNSEntity{Message: string(message)}},
		},
	}
}

func TestHandleLinksUploadedObject(t *testing.T) {
	linker, _, svc := newLinker(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "user-1", task.CreateRequest{
		Name:    "With attachment",
		DueDate: "2024-01-01",
	})
	require.NoError(t, err)

	// One record matches the task, one matches nothing. The unmatched
	// record must not fail the batch or create a record.
	require.NoError(t, linker.Handle(ctx, snsBatch(t, created.TaskID, "no-such-task")))

	stored, err := svc.GetTask(ctx, created.TaskID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t,
		fmt.Sprintf("https://tasks-attachments.s3.amazonaws.com/%s", created.TaskID),
		stored.AttachmentURL,
	)

	all, err := svc.ListAllTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestHandleIsIdempotent(t *testing.T) {
	linker, _, svc := newLinker(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "user-1", task.CreateRequest{
		Name:    "Re-delivered",
		DueDate: "2024-01-01",
	})
	require.NoError(t, err)

	batch := snsBatch(t, created.TaskID)
	require.NoError(t, linker.Handle(ctx, batch))
	require.NoError(t, linker.Handle(ctx, batch))

	stored, err := svc.GetTask(ctx, created.TaskID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, svc.AttachmentURL(created.TaskID), stored.AttachmentURL)
}

func TestHandleSkipsMalformedMessage(t *testing.T) {
	linker, _, svc := newLinker(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "user-1", task.CreateRequest{
		Name:    "Survivor",
		DueDate: "2024-01-01",
	})
	require.NoError(t, err)

	good := snsBatch(t, created.TaskID)
	event := awsevents.SNSEvent{
		Records: []awsevents.SNSEventRecord{
			{SNS: awsevents.SNSEntity{Message: "{not json"}},
			good.Records[0],
		},
	}

	// The malformed record is logged and skipped; later records still run.
	require.NoError(t, linker.Handle(ctx, event))

	stored, err := svc.GetTask(ctx, created.TaskID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.AttachmentURL)
}

func TestHandleEmptyBatch(t *testing.T) {
	linker, _, _ := newLinker(t)
	require.NoError(t, linker.Handle(context.Background(), awsevents.SNSEvent{}))
}
