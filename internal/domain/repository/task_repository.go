package repository

import (
	"context"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// TaskRepository define el puerto de persistencia para Task (DIP).
// Update y Delete son escrituras condicionales: solo aplican si la fila sigue
// cumpliendo el filtro; en caso contrario devuelven domain.ErrTaskNotFound.
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	List(ctx context.Context, filter entity.TaskFilter) ([]*entity.Task, error)
	Update(ctx context.Context, task *entity.Task, filter entity.TaskFilter) error
	Delete(ctx context.Context, id string, filter entity.TaskFilter) error
}
