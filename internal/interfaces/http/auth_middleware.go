package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/policy"
	"github.com/jhoicas/Tareas-api/pkg/jwt"
)

// Locals keys para el usuario autenticado en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
	LocalUser   = "user"
)

// IdentityResolver resuelve el usuario vigente a partir del ID del token.
type IdentityResolver interface {
	Identify(ctx context.Context, userID string) (*entity.User, error)
}

// AuthMiddleware valida el Bearer Token JWT, resuelve el usuario en el store y deja
// UserID, Role y el User en c.Locals. El rol sale del store, no del token.
func AuthMiddleware(jwtSecret string, identities IdentityResolver, log zerolog.Logger) fiber.Handler {
	return authenticate(jwtSecret, identities, log, false)
}

// StreamAuthMiddleware igual que AuthMiddleware pero, sin header Authorization, acepta ?token=.
// Solo para el canal WebSocket: los navegadores no pueden enviar headers en el handshake.
func StreamAuthMiddleware(jwtSecret string, identities IdentityResolver, log zerolog.Logger) fiber.Handler {
	return authenticate(jwtSecret, identities, log, true)
}

func authenticate(jwtSecret string, identities IdentityResolver, log zerolog.Logger, allowQuery bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, code, msg := bearerToken(c, allowQuery)
		if tokenString == "" {
			return fail(c, fiber.StatusUnauthorized, code, msg)
		}
		userID, _, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return fail(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token")
		}
		user, err := identities.Identify(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return fail(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "user no longer exists")
			}
			return writeError(c, log, err)
		}
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalRole, string(user.Role))
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx, allowQuery bool) (token, code, msg string) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if allowQuery {
			if q := strings.TrimSpace(c.Query("token")); q != "" {
				return q, "", ""
			}
		}
		return "", "MISSING_TOKEN", "authorization header required"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "INVALID_TOKEN", "format: Bearer <token>"
	}
	token = strings.TrimSpace(parts[1])
	if token == "" {
		return "", "MISSING_TOKEN", "empty token"
	}
	return token, "", ""
}

// RequireRole permite el paso solo si el rol del usuario autenticado está en roles.
// Debe ir después de AuthMiddleware.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return fail(c, fiber.StatusUnauthorized, "MISSING_ROLE", "role not present")
		}
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", "insufficient role")
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) entity.Role {
	s, _ := c.Locals(LocalRole).(string)
	return entity.Role(s)
}

// GetCurrentUser devuelve el usuario resuelto por AuthMiddleware.
func GetCurrentUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// GetActor construye el actor de la política de acceso.
func GetActor(c *fiber.Ctx) policy.Actor {
	return policy.ActorFromUser(GetCurrentUser(c))
}
