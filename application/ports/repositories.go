package ports

import (
	"context"

	"tasks-backend/domain/task"
)

// TaskRepository is the record store for tasks: a single table keyed by
// (userId, taskId) with a secondary index on taskId alone.
//
// Lookups report absence as a (nil, nil) result, never as an error. An
// owner-scoped lookup cannot distinguish "does not exist" from "owned by
// someone else"; that is deliberate, so existence never leaks across owners.
type TaskRepository interface {
	// GetByTaskID looks up a task via the secondary index, ignoring the
	// owner. Only the attachment notification flow uses this.
	GetByTaskID(ctx context.Context, taskID string) (*task.Task, error)

	// GetByOwner is the owner-scoped primary-key lookup.
	GetByOwner(ctx context.Context, taskID, userID string) (*task.Task, error)

	// ListAll performs an unscoped full scan. Administrative use only.
	ListAll(ctx context.Context) ([]task.Task, error)

	// ListByOwner returns all tasks for one owner, unpaged.
	ListByOwner(ctx context.Context, userID string) ([]task.Task, error)

	// Create writes the task unconditionally and returns the stored record.
	Create(ctx context.Context, t task.Task) (*task.Task, error)

	// PatchAttachmentURL updates exactly the attachmentUrl attribute. It
	// fails when the primary key does not exist; it never fabricates a
	// record.
	PatchAttachmentURL(ctx context.Context, taskID, userID, url string) error

	// UpdateFields updates exactly name, dueDate and done, returning the
	// post-update values of just those attributes.
	UpdateFields(ctx context.Context, taskID, userID string, upd task.Update) (*task.Update, error)

	// Delete removes the record by primary key. Deleting a missing record
	// is a no-op, not an error.
	Delete(ctx context.Context, taskID, userID string) error
}

// AttachmentStore manages uploaded objects, keyed by taskId, in a fixed
// bucket.
type AttachmentStore interface {
	// UploadURL issues a time-limited presigned URL authorizing a single
	// PUT of the object named taskID. An empty taskID yields an empty URL,
	// not an error.
	UploadURL(ctx context.Context, taskID string) (string, error)

	// DeleteObject removes the object named taskID. Empty taskID and
	// missing objects are no-ops.
	DeleteObject(ctx context.Context, taskID string) error

	// AttachmentURL computes the canonical public URL of the object,
	// whether or not it exists.
	AttachmentURL(taskID string) string
}
