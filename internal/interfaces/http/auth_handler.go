package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/dto"
)

// AuthHandler maneja registro, login y verificación de token.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	log zerolog.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Description  El alta pública siempre crea un Employee; role se ignora.
// @Param        body  body  dto.RegisterRequest  true  "full_name, email, phone, password"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid body")
	}
	if in.Email == "" || in.Password == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "email and password are required")
	}
	user, err := h.uc.RegisterUser(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid body")
	}
	if in.Email == "" || in.Password == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "email and password are required")
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Verify godoc
// @Summary      Verificar token
// @Description  Devuelve el usuario dueño del token vigente.
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.VerifyResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/verify [get]
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	user := GetCurrentUser(c)
	if user == nil {
		return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "not authenticated")
	}
	return c.JSON(dto.VerifyResponse{User: *auth.ToUserResponse(user)})
}
