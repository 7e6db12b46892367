package ports

import "github.com/jhoicas/Tareas-api/internal/domain/entity"

// ChangeNotifier define el puerto de salida para avisar a los observadores conectados
// que el estado de las tareas cambió.
//
// Broadcast es fire-and-forget: no bloquea, no devuelve error y no espera
// confirmación. Una falla de entrega nunca debe hacer fallar la mutación que la originó.
type ChangeNotifier interface {
	Broadcast(kind entity.EventKind)
}
