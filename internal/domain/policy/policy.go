// Package policy contiene el motor de control de acceso (RBAC) sobre tareas.
//
// Las funciones son puras y no requieren sincronización. Cada switch sobre
// entity.Role es exhaustivo; un rol desconocido termina en denegación o en
// visibilidad vacía.
package policy

import (
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// Razones de denegación expuestas al cliente.
const (
	ReasonEmployeeCannotAssign = "employees cannot assign tasks"
	ReasonManagerAssignScope   = "managers may only assign to employees"
	ReasonNotAuthorized        = "not authorized"
)

// Action mutación solicitada sobre una tarea existente.
type Action int

const (
	ActionUpdate Action = iota + 1
	ActionDelete
)

// Actor identidad resuelta del solicitante (id + rol).
type Actor struct {
	ID   string
	Role entity.Role
}

// ActorFromUser construye el Actor a partir del usuario resuelto por el proveedor de identidad.
func ActorFromUser(u *entity.User) Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{ID: u.ID, Role: u.Role}
}

// Decision resultado de una evaluación: Allow o Deny(reason).
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow decisión positiva.
func Allow() Decision { return Decision{Allowed: true} }

// Deny decisión negativa con razón legible.
func Deny(reason string) Decision { return Decision{Reason: reason} }

// Err devuelve nil si la decisión permite, o un *domain.DeniedError con la razón.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &domain.DeniedError{Reason: d.Reason}
}

// VisibilityFilter devuelve el predicado de tareas visibles para el actor.
// Manager y Employee comparten la misma regla: creador o asignado.
func VisibilityFilter(actor Actor) entity.TaskFilter {
	switch actor.Role {
	case entity.RoleAdmin:
		return entity.TaskFilter{Scope: entity.ScopeAll}
	case entity.RoleManager, entity.RoleEmployee:
		return entity.TaskFilter{Scope: entity.ScopeParticipant, UserID: actor.ID}
	default:
		return entity.TaskFilter{Scope: entity.ScopeNone}
	}
}

// AuthorizeCreate decide si el actor puede crear una tarea con el asignado propuesto.
// assignee es nil cuando la tarea se crea sin asignar; el llamador debe haber resuelto
// el asignado antes (un asignado inexistente es NotFound, no Allow).
func AuthorizeCreate(actor Actor, assignee *entity.User) Decision {
	if !actor.Role.Valid() {
		return Deny(ReasonNotAuthorized)
	}
	if assignee == nil {
		return Allow()
	}
	return AuthorizeAssign(actor, assignee)
}

// AuthorizeAssign regla de asignación: Employee nunca asigna, Manager solo a Employee, Admin sin restricción.
func AuthorizeAssign(actor Actor, assignee *entity.User) Decision {
	switch actor.Role {
	case entity.RoleEmployee:
		return Deny(ReasonEmployeeCannotAssign)
	case entity.RoleManager:
		if assignee != nil && assignee.Role == entity.RoleEmployee {
			return Allow()
		}
		return Deny(ReasonManagerAssignScope)
	case entity.RoleAdmin:
		return Allow()
	default:
		return Deny(ReasonNotAuthorized)
	}
}

// AuthorizeUpdate permite al creador, al asignado o a un Admin.
func AuthorizeUpdate(actor Actor, task *entity.Task) Decision {
	return authorizeMutate(actor, task, ActionUpdate)
}

// AuthorizeDelete permite al creador o a un Admin. Ser asignado no da derecho a borrar.
func AuthorizeDelete(actor Actor, task *entity.Task) Decision {
	return authorizeMutate(actor, task, ActionDelete)
}

func authorizeMutate(actor Actor, task *entity.Task, action Action) Decision {
	if task == nil {
		return Deny(ReasonNotAuthorized)
	}
	if MutationFilter(actor, action).Matches(task) {
		return Allow()
	}
	return Deny(ReasonNotAuthorized)
}

// MutationFilter predicado derivado del actor para la escritura condicional (update/delete).
// El repositorio lo aplica en el mismo WHERE de la escritura; si la fila dejó de cumplirlo
// entre la lectura y la escritura, no se modifica nada.
func MutationFilter(actor Actor, action Action) entity.TaskFilter {
	switch actor.Role {
	case entity.RoleAdmin:
		return entity.TaskFilter{Scope: entity.ScopeAll}
	case entity.RoleManager, entity.RoleEmployee:
		switch action {
		case ActionUpdate:
			return entity.TaskFilter{Scope: entity.ScopeParticipant, UserID: actor.ID}
		case ActionDelete:
			return entity.TaskFilter{Scope: entity.ScopeCreator, UserID: actor.ID}
		}
	}
	return entity.TaskFilter{Scope: entity.ScopeNone}
}
