package repository

import (
	"context"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// GetByID y GetByEmail devuelven (nil, nil) cuando no existe el usuario.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByIDs resuelve varios usuarios en una sola consulta; los IDs inexistentes se omiten.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	UpdateRole(ctx context.Context, id string, role entity.Role) error
}
