// seed crea los usuarios iniciales: un Admin y, opcionalmente, un Manager y un
// Employee de demostración. Los usuarios ya existentes se omiten.
//
// Uso: go run ./cmd/seed <email-admin> <password> [--demo]
// Usa la misma configuración que la API (.env / variables de entorno).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tareas-api/pkg/config"
	"github.com/jhoicas/Tareas-api/pkg/logger"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "uso: seed <email-admin> <password> [--demo]")
		os.Exit(2)
	}
	email, password := os.Args[1], os.Args[2]
	demo := len(os.Args) > 3 && os.Args[3] == "--demo"

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Zerolog()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
	})

	users := []dto.RegisterRequest{
		{FullName: "Administrador", Email: email, Password: password, Role: "Admin"},
	}
	if demo {
		domainPart := email[strings.LastIndex(email, "@")+1:]
		users = append(users,
			dto.RegisterRequest{FullName: "Manager Demo", Email: "manager@" + domainPart, Password: password, Role: "Manager"},
			dto.RegisterRequest{FullName: "Employee Demo", Email: "employee@" + domainPart, Password: password, Role: "Employee"},
		)
	}

	created := 0
	for _, in := range users {
		out, err := authUC.ProvisionUser(ctx, in)
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			log.Info().Str("email", in.Email).Msg("usuario ya existe, se omite")
		case err != nil:
			log.Fatal().Err(err).Str("email", in.Email).Msg("crear usuario")
		default:
			created++
			log.Info().Str("email", out.Email).Str("role", out.Role).Str("id", out.ID).Msg("usuario creado")
		}
	}
	fmt.Printf("Seed completo: %d usuarios creados de %d\n", created, len(users))
}
