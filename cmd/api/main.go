// @title                       Task Tracker API
// @version                     1.0
// @description                 Gestión de tareas con control de acceso por rol y notificación de cambios en tiempo real.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/Tareas-api/docs"
	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/application/task"
	"github.com/jhoicas/Tareas-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Tareas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Tareas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tareas-api/internal/infrastructure/realtime"
	httpRouter "github.com/jhoicas/Tareas-api/internal/interfaces/http"
	"github.com/jhoicas/Tareas-api/pkg/config"
	"github.com/jhoicas/Tareas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	appLog := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log := appLog.Zerolog()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)

	// Hub de notificaciones: vive lo mismo que el proceso.
	hub := realtime.NewHub(cfg.Notify.Buffer, log)
	go hub.Run(ctx)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	taskUC := task.NewUseCase(taskRepo, userRepo, hub, infrapdf.NewMarotoTaskReport(cfg.App.Name), log)
	userUC := usecase.NewUserUseCase(userRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Task Tracker API",
	}))

	// Health godoc
	// @Summary  Estado del servicio
	// @Tags     health
	// @Produce  json
	// @Success  200  {object}  dto.HealthResponse
	// @Router   /health [get]
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Service: cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		TaskUC:    taskUC,
		UserUC:    userUC,
		Hub:       hub,
		JWTSecret: cfg.JWT.Secret,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// Detener el hub cierra las conexiones WebSocket que sigan abiertas.
	stop()
	<-hub.Done()

	log.Info().Msg("aplicación detenida")
}
