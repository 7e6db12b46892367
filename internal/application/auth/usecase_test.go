package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/Tareas-api/pkg/jwt"
)

type memUsers struct {
	users   map[string]*entity.User
	failGet bool
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*entity.User{}} }

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	if r.failGet {
		return nil, errors.New("store caído")
	}
	return r.users[id], nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUsers) GetByIDs(context.Context, []string) (map[string]*entity.User, error) {
	return nil, nil
}

func (r *memUsers) List(context.Context) ([]*entity.User, error) { return nil, nil }

func (r *memUsers) UpdateRole(context.Context, string, entity.Role) error { return nil }

var jwtCfg = auth.JWTConfig{Secret: "secreto-de-prueba", ExpMinutes: 60, Issuer: "task-tracker-test"}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterUser
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_NormalizaEmailYRolPorDefecto(t *testing.T) {
	repo := newMemUsers()
	uc := auth.NewAuthUseCase(repo, jwtCfg)

	out, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		FullName: " Lucía Pérez ", Email: " Lucia@Example.COM ", Phone: "3001234567", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "lucia@example.com", out.Email)
	assert.Equal(t, "Lucía Pérez", out.FullName)
	assert.Equal(t, "Employee", out.Role)
	assert.NotEmpty(t, out.ID)

	stored := repo.users[out.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.PasswordHash, "el password se guarda hasheado")
}

func TestRegisterUser_IgnoraRolSolicitado(t *testing.T) {
	repo := newMemUsers()
	uc := auth.NewAuthUseCase(repo, jwtCfg)
	for _, role := range []string{"Admin", "Manager", "Boss"} {
		out, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
			Email: strings.ToLower(role) + "@example.com", Password: "password123", Role: role,
		})
		require.NoError(t, err, role)
		assert.Equal(t, "Employee", out.Role, role)
		assert.Equal(t, entity.RoleEmployee, repo.users[out.ID].Role, role)
	}
}

func TestProvisionUser_RespetaRol(t *testing.T) {
	uc := auth.NewAuthUseCase(newMemUsers(), jwtCfg)
	out, err := uc.ProvisionUser(context.Background(), dto.RegisterRequest{Email: "m@example.com", Password: "password123", Role: "Manager"})
	require.NoError(t, err)
	assert.Equal(t, "Manager", out.Role)

	out, err = uc.ProvisionUser(context.Background(), dto.RegisterRequest{Email: "e@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Employee", out.Role)

	_, err = uc.ProvisionUser(context.Background(), dto.RegisterRequest{Email: "b@example.com", Password: "password123", Role: "Boss"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterUser_Validaciones(t *testing.T) {
	uc := auth.NewAuthUseCase(newMemUsers(), jwtCfg)
	cases := map[string]dto.RegisterRequest{
		"email sin arroba": {Email: "no-es-email", Password: "password123"},
		"password corto":   {Email: "a@example.com", Password: "1234567"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.RegisterUser(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc := auth.NewAuthUseCase(newMemUsers(), jwtCfg)
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "dup@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "DUP@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_EmiteTokenConUsuario(t *testing.T) {
	uc := auth.NewAuthUseCase(newMemUsers(), jwtCfg)
	user, err := uc.ProvisionUser(context.Background(), dto.RegisterRequest{Email: "x@example.com", Password: "password123", Role: "Admin"})
	require.NoError(t, err)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "X@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, out.User.ID)

	userID, role, err := pkgjwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, "Admin", role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := auth.NewAuthUseCase(newMemUsers(), jwtCfg)
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "x@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "x@example.com", Password: "otra-cosa"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Identify
// ──────────────────────────────────────────────────────────────────────────────

func TestIdentify(t *testing.T) {
	repo := newMemUsers()
	repo.users["u1"] = &entity.User{ID: "u1", Role: entity.RoleManager}
	repo.users["u2"] = &entity.User{ID: "u2", Role: entity.Role("Superuser")}
	uc := auth.NewAuthUseCase(repo, jwtCfg)

	u, err := uc.Identify(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, u.Role)

	_, err = uc.Identify(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Identify(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Identify(context.Background(), "u2")
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un rol fuera del conjunto cerrado no autentica")

	repo.failGet = true
	_, err = uc.Identify(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized, "un fallo del store no se disfraza de 401")
}
