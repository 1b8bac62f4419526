package rest

import (
	"net/http"

	"tasks-backend/application/services"
	"tasks-backend/infrastructure/config"
	"tasks-backend/interfaces/http/rest/handlers"
	"tasks-backend/interfaces/http/rest/middleware"
	"tasks-backend/pkg/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router.
type Router struct {
	tasks     *services.TaskService
	validator *auth.JWTValidator
	cfg       *config.Config
	logger    *zap.Logger
}

// NewRouter creates a new router instance.
func NewRouter(
	tasks *services.TaskService,
	validator *auth.JWTValidator,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		tasks:     tasks,
		validator: validator,
		cfg:       cfg,
		logger:    logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)

	// Task endpoints
	router.Route("/tasks", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.logger))

		taskHandler := handlers.NewTaskHandler(rt.tasks, rt.logger)
		r.Post("/", taskHandler.CreateTask)
		r.Get("/", taskHandler.ListTasks)
		r.Patch("/{taskID}", taskHandler.UpdateTask)
		r.Delete("/{taskID}", taskHandler.DeleteTask)
		r.Post("/{taskID}/attachment", taskHandler.GenerateUploadURL)
	})

	return router
}

// healthCheck handles health check requests.
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
