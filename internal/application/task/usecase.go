// Package task orquesta las operaciones sobre tareas: autoriza con el motor de
// políticas, delega en el repositorio y, solo tras una escritura confirmada,
// notifica a los observadores en tiempo real.
package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/application/ports"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/policy"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

// UseCase casos de uso de tareas con control de acceso por rol.
type UseCase struct {
	tasks    repository.TaskRepository
	users    repository.UserRepository
	notifier ports.ChangeNotifier
	reports  ports.ReportGenerator
	log      zerolog.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. reports puede ser nil si no se expone la exportación PDF.
func NewUseCase(
	tasks repository.TaskRepository,
	users repository.UserRepository,
	notifier ports.ChangeNotifier,
	reports ports.ReportGenerator,
	log zerolog.Logger,
) *UseCase {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &UseCase{
		tasks:    tasks,
		users:    users,
		notifier: notifier,
		reports:  reports,
		log:      log.With().Str("component", "task").Logger(),
		now:      time.Now,
	}
}

// List devuelve las tareas visibles para el actor con creador y asignado resueltos.
// Nunca deniega: un actor sin tareas visibles recibe una lista vacía.
func (uc *UseCase) List(ctx context.Context, actor policy.Actor) ([]dto.TaskResponse, error) {
	filter := policy.VisibilityFilter(actor)
	list, err := uc.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	refs, err := uc.resolveUsers(ctx, list, "")
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTaskResponse(t, refs))
	}
	return out, nil
}

// Create crea una tarea con CreatedBy = actor. Si trae asignado, lo resuelve y
// aplica la regla de asignación antes de escribir.
func (uc *UseCase) Create(ctx context.Context, actor policy.Actor, in dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Invalid("title", "is required")
	}
	priority, ok := entity.ParsePriority(in.Priority)
	if !ok {
		return nil, domain.Invalid("priority", "must be one of low, medium, high")
	}
	status, ok := entity.ParseStatus(in.Status)
	if !ok {
		return nil, domain.Invalid("status", "must be one of open, in-progress, completed, closed")
	}

	var assignee *entity.User
	if id := strings.TrimSpace(in.AssignedTo); id != "" {
		u, err := uc.loadAssignee(ctx, id)
		if err != nil {
			return nil, err
		}
		assignee = u
	}
	if err := policy.AuthorizeCreate(actor, assignee).Err(); err != nil {
		uc.logDenied("create", actor, "", err)
		return nil, err
	}

	now := uc.now()
	task := &entity.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: in.Description,
		Priority:    priority,
		Status:      status,
		DueDate:     in.DueDate,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if assignee != nil {
		id := assignee.ID
		task.AssignedTo = &id
	}
	if err := uc.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	uc.emit(entity.EventTaskCreated, actor, task.ID)
	return uc.respond(ctx, task), nil
}

// Update aplica una actualización parcial si el actor es creador, asignado o Admin.
// CreatedBy nunca se sobrescribe.
func (uc *UseCase) Update(ctx context.Context, actor policy.Actor, id string, in dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeUpdate(actor, task).Err(); err != nil {
		uc.logDenied("update", actor, id, err)
		return nil, err
	}
	if err := uc.merge(ctx, actor, task, in); err != nil {
		return nil, err
	}
	task.UpdatedAt = uc.now()

	if err := uc.tasks.Update(ctx, task, policy.MutationFilter(actor, policy.ActionUpdate)); err != nil {
		return nil, err
	}
	uc.emit(entity.EventTaskUpdated, actor, task.ID)
	return uc.respond(ctx, task), nil
}

// Delete elimina la tarea si el actor es su creador o Admin. El asignado no puede borrar.
func (uc *UseCase) Delete(ctx context.Context, actor policy.Actor, id string) (*dto.DeleteTaskResponse, error) {
	task, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeDelete(actor, task).Err(); err != nil {
		uc.logDenied("delete", actor, id, err)
		return nil, err
	}
	if err := uc.tasks.Delete(ctx, task.ID, policy.MutationFilter(actor, policy.ActionDelete)); err != nil {
		return nil, err
	}
	uc.emit(entity.EventTaskDeleted, actor, task.ID)
	return &dto.DeleteTaskResponse{Message: "task deleted", ID: task.ID}, nil
}

// Export genera el PDF con las mismas tareas que List devuelve al actor.
func (uc *UseCase) Export(ctx context.Context, actor policy.Actor) ([]byte, error) {
	if uc.reports == nil {
		return nil, errors.New("task: report generator not configured")
	}
	list, err := uc.tasks.List(ctx, policy.VisibilityFilter(actor))
	if err != nil {
		return nil, err
	}
	refs, err := uc.resolveUsers(ctx, list, actor.ID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TaskResponse, 0, len(list))
	for _, t := range list {
		items = append(items, toTaskResponse(t, refs))
	}
	return uc.reports.GenerateTaskReport(ctx, ports.TaskReport{
		GeneratedFor: refFor(actor.ID, refs),
		GeneratedAt:  uc.now(),
		Tasks:        items,
	})
}

func (uc *UseCase) load(ctx context.Context, id string) (*entity.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (uc *UseCase) loadAssignee(ctx context.Context, id string) (*entity.User, error) {
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrAssigneeNotFound
	}
	return u, nil
}

// merge valida y aplica los campos presentes sobre task.
func (uc *UseCase) merge(ctx context.Context, actor policy.Actor, task *entity.Task, in dto.UpdateTaskRequest) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return domain.Invalid("title", "must not be empty")
		}
		task.Title = title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Priority != nil {
		p, ok := entity.ParsePriority(*in.Priority)
		if !ok || *in.Priority == "" {
			return domain.Invalid("priority", "must be one of low, medium, high")
		}
		task.Priority = p
	}
	if in.Status != nil {
		s, ok := entity.ParseStatus(*in.Status)
		if !ok || *in.Status == "" {
			return domain.Invalid("status", "must be one of open, in-progress, completed, closed")
		}
		task.Status = s
	}
	switch {
	case in.ClearDueDate && in.DueDate != nil:
		return domain.Invalid("due_date", "cannot set and clear due_date at once")
	case in.ClearDueDate:
		task.DueDate = nil
	case in.DueDate != nil:
		due := *in.DueDate
		task.DueDate = &due
	}
	if in.AssignedTo != nil {
		next := strings.TrimSpace(*in.AssignedTo)
		switch {
		case next == "":
			task.AssignedTo = nil
		case next != task.AssigneeID():
			assignee, err := uc.loadAssignee(ctx, next)
			if err != nil {
				return err
			}
			// La regla de rol del asignado se valida solo al asignar.
			if err := policy.AuthorizeAssign(actor, assignee).Err(); err != nil {
				uc.logDenied("assign", actor, task.ID, err)
				return err
			}
			task.AssignedTo = &assignee.ID
		}
	}
	return nil
}

// emit se invoca únicamente después de que el repositorio confirmó la escritura.
func (uc *UseCase) emit(kind entity.EventKind, actor policy.Actor, taskID string) {
	uc.log.Info().
		Str("event", string(kind)).
		Str("task_id", taskID).
		Str("actor_id", actor.ID).
		Msg("tarea modificada")
	uc.notifier.Broadcast(kind)
}

func (uc *UseCase) logDenied(action string, actor policy.Actor, taskID string, err error) {
	uc.log.Info().
		Str("action", action).
		Str("task_id", taskID).
		Str("actor_id", actor.ID).
		Str("role", string(actor.Role)).
		Str("reason", err.Error()).
		Msg("acceso denegado")
}

// respond arma la respuesta de una escritura ya confirmada. Un fallo al resolver
// usuarios aquí no invalida la escritura: se responde solo con IDs.
func (uc *UseCase) respond(ctx context.Context, task *entity.Task) *dto.TaskResponse {
	refs, err := uc.resolveUsers(ctx, []*entity.Task{task}, "")
	if err != nil {
		uc.log.Warn().Err(err).Str("task_id", task.ID).Msg("resolver usuarios de la tarea")
		refs = nil
	}
	out := toTaskResponse(task, refs)
	return &out
}

func (uc *UseCase) resolveUsers(ctx context.Context, list []*entity.Task, extra string) (map[string]*entity.User, error) {
	seen := make(map[string]struct{}, len(list)*2+1)
	ids := make([]string, 0, len(list)*2+1)
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	add(extra)
	for _, t := range list {
		add(t.CreatedBy)
		add(t.AssigneeID())
	}
	if len(ids) == 0 {
		return map[string]*entity.User{}, nil
	}
	return uc.users.GetByIDs(ctx, ids)
}

func toTaskResponse(t *entity.Task, refs map[string]*entity.User) dto.TaskResponse {
	out := dto.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		CreatedBy:   refFor(t.CreatedBy, refs),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if id := t.AssigneeID(); id != "" {
		ref := refFor(id, refs)
		out.AssignedTo = &ref
	}
	return out
}

func refFor(id string, refs map[string]*entity.User) dto.UserRef {
	ref := dto.UserRef{ID: id}
	if u, ok := refs[id]; ok && u != nil {
		ref.FullName = u.FullName
		ref.Role = string(u.Role)
	}
	return ref
}

type noopNotifier struct{}

func (noopNotifier) Broadcast(entity.EventKind) {}
