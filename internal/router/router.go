package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/fastygo/taskwise/api/handler"
	"github.com/fastygo/taskwise/internal/middleware"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	Profile   *apiHandler.ProfileHandler
	Task      *apiHandler.TaskHandler
	Dashboard *apiHandler.DashboardHandler
	Health    *apiHandler.HealthHandler
}

// New wires the API. requireUser guards account routes; taskAuth guards task
// routes and may admit guests.
func New(handlers Handlers, requireUser, taskAuth middleware.Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)

	// Account routes
	r.GET("/api/v1/profile", requireUser(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile", requireUser(handlers.Profile.UpdateProfile))
	r.PUT("/api/v1/profile/password", requireUser(handlers.Profile.ChangePassword))
	r.DELETE("/api/v1/profile", requireUser(handlers.Profile.DeleteProfile))

	// Task routes
	r.GET("/api/v1/dashboard", taskAuth(handlers.Dashboard.Get))
	r.GET("/api/v1/tasks", taskAuth(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", taskAuth(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks/{id}", taskAuth(handlers.Task.GetTask))
	r.PATCH("/api/v1/tasks/{id}", taskAuth(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", taskAuth(handlers.Task.DeleteTask))
	r.POST("/api/v1/tasks/{id}/toggle", taskAuth(handlers.Task.ToggleTask))
	r.POST("/api/v1/tasks/{id}/priority", taskAuth(handlers.Task.CyclePriority))

	return r
}
