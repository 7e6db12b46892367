package dto

import "time"

// CreateTaskRequest entrada para crear una tarea.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=1"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      string     `json:"status" validate:"omitempty,oneof=open in-progress completed closed"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  string     `json:"assigned_to"`
}

// UpdateTaskRequest entrada parcial para actualizar una tarea.
// Los campos nil no se modifican; AssignedTo = "" quita la asignación y
// ClearDueDate quita la fecha límite.
// No existe campo created_by: el creador es inmutable.
type UpdateTaskRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=1"`
	Description  *string    `json:"description"`
	Priority     *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status       *string    `json:"status" validate:"omitempty,oneof=open in-progress completed closed"`
	DueDate      *time.Time `json:"due_date"`
	ClearDueDate bool       `json:"clear_due_date"`
	AssignedTo   *string    `json:"assigned_to"`
}

// UserRef datos de presentación del creador o asignado.
type UserRef struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// TaskResponse salida de una tarea.
// CreatedBy/AssignedTo se resuelven a nombre y rol en el listado; en create/update
// se resuelven cuando el usuario está disponible y, si no, solo llevan el ID.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedBy   UserRef    `json:"created_by"`
	AssignedTo  *UserRef   `json:"assigned_to,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DeleteTaskResponse confirmación de borrado.
type DeleteTaskResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// EventMessage mensaje enviado a los observadores en tiempo real.
type EventMessage struct {
	Event string `json:"event"`
}
