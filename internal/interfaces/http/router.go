package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/task"
	"github.com/jhoicas/Tareas-api/internal/application/usecase"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/infrastructure/realtime"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	TaskUC    *task.UseCase
	UserUC    *usecase.UserUseCase
	Hub       *realtime.Hub
	JWTSecret string
	Log       zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authMW := AuthMiddleware(deps.JWTSecret, deps.AuthUC, deps.Log)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/verify", authMW, authHandler.Verify)

	// Tasks (protegido)
	tasks := api.Group("/tasks", authMW)
	taskHandler := NewTaskHandler(deps.TaskUC, deps.Log)
	tasks.Get("/", taskHandler.List)
	tasks.Post("/", taskHandler.Create)
	tasks.Get("/export.pdf", taskHandler.Export)
	tasks.Put("/:id", taskHandler.Update)
	tasks.Delete("/:id", taskHandler.Delete)

	// Users (protegido; cambio de rol solo Admin)
	users := api.Group("/users", authMW)
	userHandler := NewUserHandler(deps.UserUC, deps.Log)
	users.Get("/", userHandler.List)
	users.Put("/:id/role", RequireRole(entity.RoleAdmin), userHandler.UpdateRole)

	// Eventos en tiempo real (WebSocket)
	if deps.Hub != nil {
		eventsHandler := NewEventsHandler(deps.Hub, deps.Log)
		streamMW := StreamAuthMiddleware(deps.JWTSecret, deps.AuthUC, deps.Log)
		api.Get("/events", streamMW, eventsHandler.RequireUpgrade, eventsHandler.Stream())
	}
}
