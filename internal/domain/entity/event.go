package entity

// EventKind tipo de evento de cambio emitido tras una mutación exitosa.
// El evento solo indica "vuelve a consultar tu vista"; no lleva el delta.
type EventKind string

const (
	EventTaskCreated EventKind = "taskCreated"
	EventTaskUpdated EventKind = "taskUpdated"
	EventTaskDeleted EventKind = "taskDeleted"
)
