package events

import (
	"context"
	"encoding/json"

	"tasks-backend/application/services"

	awsevents "github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// AttachmentLinker consumes storage-write notifications and links each
// uploaded object back to its task record by patching attachmentUrl.
//
// Trust boundary: the notification topic only fires from writes to the
// system's own attachment bucket, so the unscoped taskId lookup needs no
// owner check. Wiring this handler to a topic an untrusted party can
// publish to would break that assumption.
type AttachmentLinker struct {
	tasks  *services.TaskService
	logger *zap.Logger
}

// NewAttachmentLinker creates a new AttachmentLinker.
func NewAttachmentLinker(tasks *services.TaskService, logger *zap.Logger) *AttachmentLinker {
	return &AttachmentLinker{
		tasks:  tasks,
		logger: logger,
	}
}

// Handle processes one notification batch. Each SNS record wraps a
// JSON-encoded S3 event whose object keys are taskIds. Inner records are
// processed sequentially; a failing record is logged and skipped, and the
// batch itself never fails. Re-delivery re-computes and re-writes the same
// URL, so processing is idempotent.
func (h *AttachmentLinker) Handle(ctx context.Context, event awsevents.SNSEvent) error {
	h.logger.Info("Processing storage notification batch",
		zap.Int("records", len(event.Records)),
	)

	for _, snsRecord := range event.Records {
		var s3Event awsevents.S3Event
		if err := json.Unmarshal([]byte(snsRecord.SNS.Message), &s3Event); err != nil {
			h.logger.Error("Failed to decode storage event",
				zap.String("messageId", snsRecord.SNS.MessageID),
				zap.Error(err),
			)
			continue
		}

		for _, record := range s3Event.Records {
			h.linkRecord(ctx, record)
		}
	}

	return nil
}

// linkRecord links a single uploaded object to its task. Errors are logged
// and converted into a skip so one bad record cannot stall the rest of the
// batch.
func (h *AttachmentLinker) linkRecord(ctx context.Context, record awsevents.S3EventRecord) {
	taskID := record.S3.Object.Key

	t, err := h.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		h.logger.Error("Failed to look up task for uploaded object",
			zap.String("taskId", taskID),
			zap.Error(err),
		)
		return
	}
	if t == nil {
		h.logger.Error("No task for uploaded object",
			zap.String("taskId", taskID),
		)
		return
	}

	url := h.tasks.AttachmentURL(taskID)
	if err := h.tasks.LinkAttachment(ctx, t.TaskID, t.UserID, url); err != nil {
		h.logger.Error("Failed to link attachment",
			zap.String("taskId", t.TaskID),
			zap.String("userId", t.UserID),
			zap.Error(err),
		)
		return
	}

	h.logger.Info("Linked attachment",
		zap.String("taskId", t.TaskID),
		zap.String("attachmentUrl", url),
	)
}
