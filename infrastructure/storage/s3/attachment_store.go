package s3

import (
	"context"
	"fmt"
	"time"

	"tasks-backend/application/ports"
	apperrors "tasks-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// AttachmentStore implements ports.AttachmentStore over an S3 bucket.
// Objects are named by taskId; upload access is granted through presigned
// PUT URLs that expire after the configured duration.
type AttachmentStore struct {
	client  *awss3.Client
	presign *awss3.PresignClient
	bucket  string
	expiry  time.Duration
	logger  *zap.Logger
}

// NewAttachmentStore creates a new AttachmentStore.
func NewAttachmentStore(client *awss3.Client, bucket string, expiry time.Duration, logger *zap.Logger) ports.AttachmentStore {
	return &AttachmentStore{
		client:  client,
		presign: awss3.NewPresignClient(client),
		bucket:  bucket,
		expiry:  expiry,
		logger:  logger,
	}
}

// UploadURL issues a presigned URL authorizing a single PUT of the object
// named taskID. An empty taskID yields an empty URL, not an error.
func (s *AttachmentStore) UploadURL(ctx context.Context, taskID string) (string, error) {
	if taskID == "" {
		return "", nil
	}

	req, err := s.presign.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(taskID),
	}, func(o *awss3.PresignOptions) {
		o.Expires = s.expiry
	})
	if err != nil {
		s.logger.Error("Failed to presign upload url",
			zap.String("taskId", taskID),
			zap.Error(err),
		)
		return "", apperrors.NewInternalError("failed to presign upload url", err)
	}

	s.logger.Info("Issued upload url",
		zap.String("taskId", taskID),
		zap.Duration("expiresIn", s.expiry),
	)
	return req.URL, nil
}

// DeleteObject removes the object named taskID. Empty taskID is a no-op;
// S3 deletes are idempotent, so a missing object is one too.
func (s *AttachmentStore) DeleteObject(ctx context.Context, taskID string) error {
	if taskID == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(taskID),
	})
	if err != nil {
		s.logger.Error("Failed to delete attachment object",
			zap.String("taskId", taskID),
			zap.Error(err),
		)
		return apperrors.NewInternalError("failed to delete attachment object", err)
	}

	return nil
}

// AttachmentURL computes the canonical public URL of the object, whether or
// not it exists.
func (s *AttachmentStore) AttachmentURL(taskID string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, taskID)
}
