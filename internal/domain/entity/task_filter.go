package entity

// FilterScope alcance de un predicado sobre tareas.
type FilterScope int

const (
	// ScopeNone no coincide con ninguna tarea.
	ScopeNone FilterScope = iota
	// ScopeAll coincide con todas las tareas.
	ScopeAll
	// ScopeParticipant coincide con tareas creadas por o asignadas a UserID.
	ScopeParticipant
	// ScopeCreator coincide solo con tareas creadas por UserID.
	ScopeCreator
)

// TaskFilter predicado que el núcleo entrega al repositorio para lecturas y escrituras condicionales.
type TaskFilter struct {
	Scope  FilterScope
	UserID string
}

// Matches evalúa el predicado en memoria; el repositorio PostgreSQL lo traduce a SQL.
func (f TaskFilter) Matches(t *Task) bool {
	if t == nil {
		return false
	}
	switch f.Scope {
	case ScopeAll:
		return true
	case ScopeParticipant:
		return t.IsCreator(f.UserID) || t.IsAssignee(f.UserID)
	case ScopeCreator:
		return t.IsCreator(f.UserID)
	default:
		return false
	}
}
