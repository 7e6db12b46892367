package usecase

import (
	"context"

	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

// UserUseCase gestión de usuarios fuera del núcleo de tareas: listado y cambio de rol.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List lista todos los usuarios (sin password) para elegir asignados.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}

// UpdateRole cambia el rol de un usuario. Las tareas ya asignadas no se revalidan.
func (uc *UserUseCase) UpdateRole(ctx context.Context, id string, in dto.UpdateRoleRequest) (*dto.UserResponse, error) {
	role, ok := entity.ParseRole(in.Role)
	if !ok {
		return nil, domain.Invalid("role", "must be one of Employee, Manager, Admin")
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	user.Role = role
	return auth.ToUserResponse(user), nil
}
