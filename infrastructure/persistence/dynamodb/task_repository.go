package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"tasks-backend/application/ports"
	"tasks-backend/domain/task"
	apperrors "tasks-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// TaskRepository implements ports.TaskRepository against a single DynamoDB
// table. The partition key is userId, the sort key is taskId, and a global
// secondary index keyed by taskId alone serves the unscoped lookups used by
// the attachment notification flow.
type TaskRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.TaskRepository {
	return &TaskRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// GetByTaskID looks up a task via the taskId index, ignoring the owner.
// Absence is reported as (nil, nil).
func (r *TaskRepository) GetByTaskID(ctx context.Context, taskID string) (*task.Task, error) {
	keyCond := expression.Key("taskId").Equal(expression.Value(taskID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to build task query", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		r.logger.Error("Failed to query task by id",
			zap.String("taskId", taskID),
			zap.Error(err),
		)
		return nil, apperrors.NewDatabaseError("failed to query task by id", err)
	}

	if len(out.Items) == 0 {
		return nil, nil
	}

	var t task.Task
	if err := attributevalue.UnmarshalMap(out.Items[0], &t); err != nil {
		return nil, apperrors.NewDatabaseError("failed to unmarshal task", err)
	}
	return &t, nil
}

// GetByOwner performs the owner-scoped primary-key lookup. A record owned
// by someone else is indistinguishable from a missing one: both return
// (nil, nil).
func (r *TaskRepository) GetByOwner(ctx context.Context, taskID, userID string) (*task.Task, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       taskKey(taskID, userID),
	})
	if err != nil {
		r.logger.Error("Failed to get task",
			zap.String("taskId", taskID),
			zap.Error(err),
		)
		return nil, apperrors.NewDatabaseError("failed to get task", err)
	}

	if out.Item == nil {
		return nil, nil
	}

	var t task.Task
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, apperrors.NewDatabaseError("failed to unmarshal task", err)
	}
	return &t, nil
}

// ListAll scans the whole table. Administrative use only.
func (r *TaskRepository) ListAll(ctx context.Context) ([]task.Task, error) {
	var tasks []task.Task

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.NewDatabaseError("failed to scan tasks", err)
		}

		var pageTasks []task.Task
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &pageTasks); err != nil {
			return nil, apperrors.NewDatabaseError("failed to unmarshal tasks", err)
		}
		tasks = append(tasks, pageTasks...)
	}

	return tasks, nil
}

// ListByOwner returns all tasks for one owner.
func (r *TaskRepository) ListByOwner(ctx context.Context, userID string) ([]task.Task, error) {
	keyCond := expression.Key("userId").Equal(expression.Value(userID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to build task query", err)
	}

	var tasks []task.Task

	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			r.logger.Error("Failed to list tasks",
				zap.String("userId", userID),
				zap.Error(err),
			)
			return nil, apperrors.NewDatabaseError("failed to list tasks", err)
		}

		var pageTasks []task.Task
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &pageTasks); err != nil {
			return nil, apperrors.NewDatabaseError("failed to unmarshal tasks", err)
		}
		tasks = append(tasks, pageTasks...)
	}

	return tasks, nil
}

// Create writes the task unconditionally and returns the stored record.
func (r *TaskRepository) Create(ctx context.Context, t task.Task) (*task.Task, error) {
	av, err := attributevalue.MarshalMap(t)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to marshal task", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("Failed to create task",
			zap.String("taskId", t.TaskID),
			zap.Error(err),
		)
		return nil, apperrors.NewDatabaseError("failed to create task", err)
	}

	r.logger.Info("Created task",
		zap.String("taskId", t.TaskID),
		zap.String("userId", t.UserID),
	)
	return &t, nil
}

// PatchAttachmentURL sets exactly the attachmentUrl attribute. The
// attribute_exists condition keeps a stray patch from fabricating a record
// for a key that was never created.
func (r *TaskRepository) PatchAttachmentURL(ctx context.Context, taskID, userID, url string) error {
	update := expression.Set(expression.Name("attachmentUrl"), expression.Value(url))
	cond := expression.AttributeExists(expression.Name("taskId"))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return apperrors.NewDatabaseError("failed to build attachment update", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       taskKey(taskID, userID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return apperrors.NewNotFoundError(fmt.Sprintf("task %s", taskID))
		}
		r.logger.Error("Failed to patch attachment url",
			zap.String("taskId", taskID),
			zap.Error(err),
		)
		return apperrors.NewDatabaseError("failed to patch attachment url", err)
	}

	return nil
}

// UpdateFields sets exactly name, dueDate and done, returning the
// post-update values of just those three attributes.
func (r *TaskRepository) UpdateFields(ctx context.Context, taskID, userID string, upd task.Update) (*task.Update, error) {
	update := expression.
		Set(expression.Name("name"), expression.Value(upd.Name)).
		Set(expression.Name("dueDate"), expression.Value(upd.DueDate)).
		Set(expression.Name("done"), expression.Value(upd.Done))
	cond := expression.AttributeExists(expression.Name("taskId"))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to build task update", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       taskKey(taskID, userID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("task %s", taskID))
		}
		r.logger.Error("Failed to update task",
			zap.String("taskId", taskID),
			zap.Error(err),
		)
		return nil, apperrors.NewDatabaseError("failed to update task", err)
	}

	var updated task.Update
	if err := attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
		return nil, apperrors.NewDatabaseError("failed to unmarshal updated attributes", err)
	}
	return &updated, nil
}

// Delete removes the record by primary key. DynamoDB deletes are
// idempotent, so a missing key is a no-op.
func (r *TaskRepository) Delete(ctx context.Context, taskID, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       taskKey(taskID, userID),
	})
	if err != nil {
		r.logger.Error("Failed to delete task",
			zap.String("taskId", taskID),
			zap.Error(err),
		)
		return apperrors.NewDatabaseError("failed to delete task", err)
	}

	r.logger.Info("Deleted task",
		zap.String("taskId", taskID),
		zap.String("userId", userID),
	)
	return nil
}

// taskKey builds the (userId, taskId) primary key.
func taskKey(taskID, userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
		"taskId": &types.AttributeValueMemberS{Value: taskID},
	}
}
