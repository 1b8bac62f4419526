package di

import (
	"context"

	"tasks-backend/application/ports"
	"tasks-backend/application/services"
	"tasks-backend/infrastructure/config"
	"tasks-backend/interfaces/events"
	"tasks-backend/pkg/auth"

	"go.uber.org/zap"
)

// Container holds the application's wired dependencies. Wiring is explicit:
// the entry points build the container once at process start and pass the
// pieces down, so tests can substitute in-memory implementations at the
// same seams.
type Container struct {
	Config           *config.Config
	Logger           *zap.Logger
	TaskRepo         ports.TaskRepository
	Attachments      ports.AttachmentStore
	TaskService      *services.TaskService
	AttachmentLinker *events.AttachmentLinker
	JWTValidator     *auth.JWTValidator
}

// InitializeContainer creates a fully wired container.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	taskRepo := ProvideTaskRepository(ProvideDynamoDBClient(awsCfg, cfg), cfg, logger)
	attachments := ProvideAttachmentStore(ProvideS3Client(awsCfg), cfg, logger)
	taskService := services.NewTaskService(taskRepo, attachments, logger)

	validator, err := ProvideJWTValidator(cfg)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:           cfg,
		Logger:           logger,
		TaskRepo:         taskRepo,
		Attachments:      attachments,
		TaskService:      taskService,
		AttachmentLinker: events.NewAttachmentLinker(taskService, logger),
		JWTValidator:     validator,
	}, nil
}
