package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/task"
	"github.com/jhoicas/Tareas-api/internal/application/usecase"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Tareas-api/internal/infrastructure/realtime"
	apphttp "github.com/jhoicas/Tareas-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Tareas-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memTasks struct {
	mu    sync.Mutex
	tasks map[string]entity.Task
}

func (r *memTasks) Create(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = *t
	return nil
}

func (r *memTasks) GetByID(_ context.Context, id string) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *memTasks) List(_ context.Context, f entity.TaskFilter) ([]*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Task
	for _, t := range r.tasks {
		t := t
		if f.Matches(&t) {
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTasks) Update(_ context.Context, t *entity.Task, f entity.TaskFilter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.tasks[t.ID]
	if !ok || !f.Matches(&cur) {
		return domain.ErrTaskNotFound
	}
	next := *t
	next.CreatedBy = cur.CreatedBy
	r.tasks[t.ID] = next
	return nil
}

func (r *memTasks) Delete(_ context.Context, id string, f entity.TaskFilter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.tasks[id]
	if !ok || !f.Matches(&cur) {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUsers) GetByIDs(_ context.Context, ids []string) (map[string]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*entity.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *memUsers) List(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUsers) UpdateRole(_ context.Context, id string, role entity.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "task-tracker-test"
	testExpMin    = 60
	testPassword  = "supersecreta"

	empID   = "00000000-0000-0000-0000-0000000000e1"
	emp2ID  = "00000000-0000-0000-0000-0000000000e2"
	mgrID   = "00000000-0000-0000-0000-0000000000a1"
	mgr2ID  = "00000000-0000-0000-0000-0000000000a2"
	adminID = "00000000-0000-0000-0000-0000000000ad"
)

type testServer struct {
	app   *fiber.App
	tasks *memTasks
	users *memUsers
	hub   *realtime.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	users := &memUsers{users: map[string]*entity.User{}}
	for _, u := range []struct {
		id, name string
		role     entity.Role
	}{
		{empID, "Eva Empleada", entity.RoleEmployee},
		{emp2ID, "Elio Empleado", entity.RoleEmployee},
		{mgrID, "Marta Gerente", entity.RoleManager},
		{mgr2ID, "Mario Gerente", entity.RoleManager},
		{adminID, "Ana Admin", entity.RoleAdmin},
	} {
		users.users[u.id] = &entity.User{
			ID: u.id, FullName: u.name, Email: strings.ToLower(strings.Fields(u.name)[0]) + "@example.com",
			PasswordHash: string(hash), Role: u.role, CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
	}
	tasks := &memTasks{tasks: map[string]entity.Task{}}

	log := zerolog.Nop()
	hub := realtime.NewHub(8, log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
	})

	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	taskUC := task.NewUseCase(tasks, users, hub, pdf.NewMarotoTaskReport("task-tracker-test"), log)
	userUC := usecase.NewUserUseCase(users)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		TaskUC:    taskUC,
		UserUC:    userUC,
		Hub:       hub,
		JWTSecret: testJWTSecret,
		Log:       log,
	})
	return &testServer{app: app, tasks: tasks, users: users, hub: hub}
}

// tokenFor genera un JWT para el usuario indicado.
func tokenFor(t *testing.T, userID string, role entity.Role) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, string(role), testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return tok
}

// do lanza una petición con body JSON opcional y Bearer opcional.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
