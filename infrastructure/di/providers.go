package di

import (
	"context"

	"tasks-backend/application/ports"
	"tasks-backend/infrastructure/config"
	dynamorepo "tasks-backend/infrastructure/persistence/dynamodb"
	s3store "tasks-backend/infrastructure/storage/s3"
	"tasks-backend/pkg/auth"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client. In offline mode the
// client targets the local endpoint instead of the real service.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	if cfg.IsOffline {
		return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		})
	}
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideS3Client creates an S3 client.
func ProvideS3Client(awsCfg aws.Config) *awss3.Client {
	return awss3.NewFromConfig(awsCfg)
}

// ProvideTaskRepository creates the DynamoDB task repository.
func ProvideTaskRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.TaskRepository {
	return dynamorepo.NewTaskRepository(
		client,
		cfg.TasksTable,
		cfg.TasksIndexName,
		logger,
	)
}

// ProvideAttachmentStore creates the S3 attachment store.
func ProvideAttachmentStore(client *awss3.Client, cfg *config.Config, logger *zap.Logger) ports.AttachmentStore {
	return s3store.NewAttachmentStore(
		client,
		cfg.AttachmentBucket,
		cfg.SignedURLExpiration,
		logger,
	)
}

// ProvideJWTValidator creates the token validator backing the auth
// middleware. Development falls back to a fixed secret so local requests
// can be signed without extra setup; Validate() rejects an empty secret in
// production.
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && cfg.IsDevelopment() {
		secret = "development-secret-change-in-production"
	}

	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     secret,
		Issuer:        cfg.JWTIssuer,
	})
}
