package entity

import (
	"strings"
	"time"
)

// Priority prioridad de una tarea.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority valida una prioridad recibida por la API. Vacío devuelve el valor por defecto (medium).
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(strings.TrimSpace(s)); p {
	case "":
		return PriorityMedium, true
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, true
	default:
		return "", false
	}
}

// Status estado del ciclo de vida de una tarea.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusClosed     Status = "closed"
)

// ParseStatus valida un estado recibido por la API. Vacío devuelve el valor por defecto (open).
func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.TrimSpace(s)); st {
	case "":
		return StatusOpen, true
	case StatusOpen, StatusInProgress, StatusCompleted, StatusClosed:
		return st, true
	default:
		return "", false
	}
}

// Task representa una tarea de trabajo.
// CreatedBy se fija al crear y nunca se reasigna; AssignedTo es opcional.
type Task struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	Status      Status
	DueDate     *time.Time
	CreatedBy   string
	AssignedTo  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsCreator indica si userID creó la tarea.
func (t *Task) IsCreator(userID string) bool {
	return userID != "" && t.CreatedBy == userID
}

// IsAssignee indica si userID es el asignado. Una tarea sin asignado nunca coincide.
func (t *Task) IsAssignee(userID string) bool {
	return userID != "" && t.AssignedTo != nil && *t.AssignedTo == userID
}

// AssigneeID devuelve el ID del asignado o "" si no hay.
func (t *Task) AssigneeID() string {
	if t.AssignedTo == nil {
		return ""
	}
	return *t.AssignedTo
}
