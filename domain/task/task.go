package task

// Task is the sole persisted entity: a to-do item owned by one user,
// optionally with an attachment stored in the attachment bucket.
//
// (userId, taskId) is the primary key; taskId alone is also unique because
// it is generated as a uuid, and is the sole key of the secondary index.
type Task struct {
	UserID        string `json:"userId" dynamodbav:"userId"`
	TaskID        string `json:"taskId" dynamodbav:"taskId"`
	CreatedAt     string `json:"createdAt" dynamodbav:"createdAt"`
	Name          string `json:"name" dynamodbav:"name"`
	DueDate       string `json:"dueDate" dynamodbav:"dueDate"`
	Done          bool   `json:"done" dynamodbav:"done"`
	AttachmentURL string `json:"attachmentUrl" dynamodbav:"attachmentUrl"`
}

// Update holds the post-update values of the three mutable attributes.
// The update operation returns only these, never the full record.
type Update struct {
	Name    string `json:"name" dynamodbav:"name"`
	DueDate string `json:"dueDate" dynamodbav:"dueDate"`
	Done    bool   `json:"done" dynamodbav:"done"`
}

// CreateRequest is the request body for creating a task.
type CreateRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	DueDate string `json:"dueDate" validate:"required"`
}

// UpdateRequest is the request body for updating a task.
type UpdateRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	DueDate string `json:"dueDate" validate:"required"`
	Done    bool   `json:"done"`
}
