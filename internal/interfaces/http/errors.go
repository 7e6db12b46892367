package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/domain"
)

// fail escribe un dto.ErrorResponse con el status indicado.
func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// writeError traduce errores de dominio a respuestas HTTP.
// Lo no clasificado es 500 con mensaje genérico; el detalle solo va al log.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var (
		denied  *domain.DeniedError
		invalid *domain.ValidationError
	)
	switch {
	case errors.As(err, &denied):
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", denied.Reason)
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", "not authorized")
	case errors.As(err, &invalid):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", invalid.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fail(c, fiber.StatusConflict, "EMAIL_EXISTS", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
	default:
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("user_id", GetUserID(c)).
			Msg("error interno")
		return fail(c, fiber.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
