package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

const taskColumns = `id, title, description, priority, status, due_date, created_by, assigned_to, created_at, updated_at`

// TaskRepo implementación del puerto TaskRepository sobre PostgreSQL.
type TaskRepo struct {
	db Querier
}

// NewTaskRepository construye el adaptador de persistencia para tareas.
func NewTaskRepository(db Querier) *TaskRepo {
	return &TaskRepo{db: db}
}

// Create persiste una tarea nueva.
func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		t.ID, t.Title, t.Description, string(t.Priority), string(t.Status), t.DueDate,
		t.CreatedBy, t.AssignedTo, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetByID obtiene una tarea por ID. Devuelve (nil, nil) si no existe.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	if !isUUID(id) {
		return nil, nil
	}
	t, err := scanTask(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}
	return t, nil
}

// List devuelve las tareas que cumplen el filtro, más recientes primero.
func (r *TaskRepo) List(ctx context.Context, filter entity.TaskFilter) ([]*entity.Task, error) {
	where, args := filterClause(filter, 1)
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE `+where+` ORDER BY created_at DESC, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	var list []*entity.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update reescribe los campos editables solo si la fila sigue cumpliendo el filtro.
// created_by y created_at nunca se modifican.
func (r *TaskRepo) Update(ctx context.Context, t *entity.Task, filter entity.TaskFilter) error {
	if !isUUID(t.ID) {
		return domain.ErrTaskNotFound
	}
	where, args := filterClause(filter, 9)
	query := `
		UPDATE tasks
		SET title = $2, description = $3, priority = $4, status = $5,
		    due_date = $6, assigned_to = $7, updated_at = $8
		WHERE id = $1 AND ` + where
	params := append([]any{
		t.ID, t.Title, t.Description, string(t.Priority), string(t.Status),
		t.DueDate, t.AssignedTo, t.UpdatedAt,
	}, args...)
	tag, err := r.db.Exec(ctx, query, params...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Delete elimina la tarea solo si cumple el filtro.
func (r *TaskRepo) Delete(ctx context.Context, id string, filter entity.TaskFilter) error {
	if !isUUID(id) {
		return domain.ErrTaskNotFound
	}
	where, args := filterClause(filter, 2)
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND `+where, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// filterClause traduce el filtro a una condición SQL; next es el primer placeholder libre.
func filterClause(f entity.TaskFilter, next int) (string, []any) {
	p := "$" + strconv.Itoa(next) + "::uuid"
	switch f.Scope {
	case entity.ScopeAll:
		return "TRUE", nil
	case entity.ScopeParticipant:
		if !isUUID(f.UserID) {
			return "FALSE", nil
		}
		return "(created_by = " + p + " OR assigned_to = " + p + ")", []any{f.UserID}
	case entity.ScopeCreator:
		if !isUUID(f.UserID) {
			return "FALSE", nil
		}
		return "created_by = " + p, []any{f.UserID}
	default:
		return "FALSE", nil
	}
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var (
		t                entity.Task
		priority, status string
	)
	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &priority, &status, &t.DueDate,
		&t.CreatedBy, &t.AssignedTo, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Priority = entity.Priority(priority)
	t.Status = entity.Status(status)
	return &t, nil
}
