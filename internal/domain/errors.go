package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("not found")
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrTaskNotFound       = fmt.Errorf("task %w", ErrNotFound)
	ErrAssigneeNotFound   = fmt.Errorf("assignee %w", ErrNotFound)
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)

// DeniedError decisión negativa de la política de acceso. errors.Is(err, ErrForbidden) es true.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string { return e.Reason }

func (e *DeniedError) Unwrap() error { return ErrForbidden }

// ValidationError entrada inválida en un campo concreto. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Reason }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
