package main

import (
	"context"
	"log"

	"tasks-backend/infrastructure/config"
	"tasks-backend/infrastructure/di"
	"tasks-backend/interfaces/events"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

var linker *events.AttachmentLinker

// init runs during cold start.
func init() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	linker = events.NewAttachmentLinker(container.TaskService, container.Logger)
}

// Handler consumes one storage notification batch.
func Handler(ctx context.Context, event awsevents.SNSEvent) error {
	return linker.Handle(ctx, event)
}

func main() {
	lambda.Start(Handler)
}
