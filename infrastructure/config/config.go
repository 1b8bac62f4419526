package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration. It is loaded once at process
// start and passed by reference; business logic never reads the environment
// directly.
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion      string
	TasksTable     string
	TasksIndexName string // GSI keyed by taskId alone, for unscoped lookups

	// Attachment storage
	AttachmentBucket    string
	SignedURLExpiration time.Duration

	// Local development: point the DynamoDB client at a local endpoint
	IsOffline        bool
	DynamoDBEndpoint string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Logging and features
	LogLevel   string
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),

		TasksTable:     getEnv("TASKS_TABLE", "tasks"),
		TasksIndexName: getEnv("TASKS_INDEX_NAME", "TaskIdIndex"),

		AttachmentBucket:    getEnv("TASKS_BUCKET", ""),
		SignedURLExpiration: time.Duration(getEnvInt("SIGNED_URL_EXPIRATION", 300)) * time.Second,

		IsOffline:        getEnvBool("IS_OFFLINE", false),
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", "http://localhost:8000"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "tasks-backend"),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.TasksTable == "" {
		return fmt.Errorf("TASKS_TABLE is required")
	}
	if c.TasksIndexName == "" {
		return fmt.Errorf("TASKS_INDEX_NAME is required")
	}
	if c.SignedURLExpiration <= 0 {
		return fmt.Errorf("SIGNED_URL_EXPIRATION must be positive")
	}

	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.AttachmentBucket == "" {
			return fmt.Errorf("TASKS_BUCKET is required in production")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
