package task_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/Tareas-api/internal/application/ports"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

var errStore = errors.New("store caído")

// memTaskRepo implementación en memoria de repository.TaskRepository con
// escrituras condicionales equivalentes a las del adaptador PostgreSQL.
type memTaskRepo struct {
	mu        sync.Mutex
	tasks     map[string]entity.Task
	failWrite bool
	failRead  bool
}

func newMemTaskRepo(tasks ...*entity.Task) *memTaskRepo {
	r := &memTaskRepo{tasks: map[string]entity.Task{}}
	for _, t := range tasks {
		r.tasks[t.ID] = *t
	}
	return r
}

func (r *memTaskRepo) Create(_ context.Context, task *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite {
		return errStore
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failRead {
		return nil, errStore
	}
	t, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *memTaskRepo) List(_ context.Context, filter entity.TaskFilter) ([]*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failRead {
		return nil, errStore
	}
	var out []*entity.Task
	for _, t := range r.tasks {
		t := t
		if filter.Matches(&t) {
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTaskRepo) Update(_ context.Context, task *entity.Task, filter entity.TaskFilter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite {
		return errStore
	}
	current, ok := r.tasks[task.ID]
	if !ok || !filter.Matches(&current) {
		return domain.ErrTaskNotFound
	}
	next := *task
	next.CreatedBy = current.CreatedBy
	next.CreatedAt = current.CreatedAt
	r.tasks[task.ID] = next
	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, id string, filter entity.TaskFilter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite {
		return errStore
	}
	current, ok := r.tasks[id]
	if !ok || !filter.Matches(&current) {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *memTaskRepo) snapshot() map[string]entity.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]entity.Task, len(r.tasks))
	for k, v := range r.tasks {
		out[k] = v
	}
	return out
}

// memUserRepo implementación en memoria de repository.UserRepository.
type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	r := &memUserRepo{users: map[string]*entity.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.users[id], nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.User, error) {
	out := make(map[string]*entity.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (r *memUserRepo) List(_ context.Context) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) UpdateRole(_ context.Context, id string, role entity.Role) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

// recordingNotifier registra cada evento emitido.
type recordingNotifier struct {
	mu     sync.Mutex
	events []entity.EventKind
}

func (n *recordingNotifier) Broadcast(kind entity.EventKind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, kind)
}

func (n *recordingNotifier) Events() []entity.EventKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entity.EventKind(nil), n.events...)
}

// fakeReports devuelve el número de tareas recibidas como "PDF".
type fakeReports struct {
	last ports.TaskReport
}

func (f *fakeReports) GenerateTaskReport(_ context.Context, r ports.TaskReport) ([]byte, error) {
	f.last = r
	return []byte("%PDF-fake"), nil
}
