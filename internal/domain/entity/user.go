package entity

import "time"

// Role es el rol organizacional de un usuario. Conjunto cerrado: Employee, Manager, Admin.
type Role string

// Roles válidos para User.
const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
	RoleAdmin    Role = "Admin"
)

// ParseRole convierte el valor recibido por la API en un Role válido.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleEmployee, RoleManager, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// Valid indica si el rol pertenece al conjunto cerrado.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	FullName     string
	Email        string
	Phone        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
