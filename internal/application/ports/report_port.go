package ports

import (
	"context"
	"time"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
)

// TaskReport datos de entrada para el reporte PDF de tareas visibles.
type TaskReport struct {
	GeneratedFor dto.UserRef
	GeneratedAt  time.Time
	Tasks        []dto.TaskResponse
}

// ReportGenerator genera la representación PDF de un listado de tareas.
type ReportGenerator interface {
	GenerateTaskReport(ctx context.Context, report TaskReport) ([]byte, error)
}
