package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

func TestAuth_RegistroLoginYVerify(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		FullName: "Nora Nueva", Email: "Nora@Example.com", Password: "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "nora@example.com", user.Email)
	assert.Equal(t, "Employee", user.Role, "rol por defecto")

	resp = s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "nora@example.com", Password: "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "nora@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)

	resp = s.do(t, http.MethodGet, "/api/auth/verify", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, user.ID, decode[dto.VerifyResponse](t, resp).User.ID)
}

func TestAuth_RegistroPublicoNoOtorgaAdmin(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "intruso@example.com", Password: "password123", Role: "Admin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "Employee", user.Role)

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "intruso@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)

	resp = s.do(t, http.MethodPut, "/api/users/"+empID+"/role", login.Token, dto.UpdateRoleRequest{Role: "Manager"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestAuth_LoginCredencialesInvalidas(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "eva@example.com", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "eva@example.com", Password: testPassword})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAuth_RegistroPasswordCorto(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "a@b.co", Password: "corto"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUsers_ListaSinPassword(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/users", tokenFor(t, empID, entity.RoleEmployee), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]map[string]any](t, resp)
	assert.Len(t, list, 5)
	for _, u := range list {
		assert.NotContains(t, u, "password_hash")
		assert.NotContains(t, u, "password")
	}
}

func TestUsers_CambioDeRolSoloAdmin(t *testing.T) {
	s := newTestServer(t)
	path := "/api/users/" + empID + "/role"

	resp := s.do(t, http.MethodPut, path, tokenFor(t, mgrID, entity.RoleManager), dto.UpdateRoleRequest{Role: "Manager"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPut, path, tokenFor(t, adminID, entity.RoleAdmin), dto.UpdateRoleRequest{Role: "Manager"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Manager", decode[dto.UserResponse](t, resp).Role)
	assert.Equal(t, entity.RoleManager, s.users.users[empID].Role)

	resp = s.do(t, http.MethodPut, path, tokenFor(t, adminID, entity.RoleAdmin), dto.UpdateRoleRequest{Role: "Boss"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPut, "/api/users/no-existe/role", tokenFor(t, adminID, entity.RoleAdmin), dto.UpdateRoleRequest{Role: "Admin"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
