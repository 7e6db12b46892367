// Package pdf genera el reporte PDF de tareas visibles para un usuario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + usuario/rol  │  Fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: total por estado                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Título | Prioridad | Estado | Vence | Creador | Asig │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/application/ports"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

var _ ports.ReportGenerator = (*MarotoTaskReport)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 31, Green: 78, Blue: 121}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorHigh    = &props.Color{Red: 176, Green: 42, Blue: 42}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoTaskReport implementa ports.ReportGenerator usando Maroto v2.
type MarotoTaskReport struct {
	appName string
}

// NewMarotoTaskReport construye el generador; appName aparece como autor del documento.
func NewMarotoTaskReport(appName string) *MarotoTaskReport {
	return &MarotoTaskReport{appName: appName}
}

// GenerateTaskReport genera el PDF y devuelve sus bytes.
func (g *MarotoTaskReport) GenerateTaskReport(ctx context.Context, report ports.TaskReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de tareas", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report.Tasks))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(report.Tasks) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay tareas visibles.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	for _, r := range taskRows(report.Tasks) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report ports.TaskReport) core.Row {
	who := nonEmpty(report.GeneratedFor.FullName, report.GeneratedFor.ID)
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE TAREAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s (%s)", who, nonEmpty(report.GeneratedFor.Role, "-")), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

// summaryRow: cantidad de tareas por estado.
func summaryRow(tasks []dto.TaskResponse) core.Row {
	counts := statusCounts(tasks)
	cell := func(label string, n int) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(fmt.Sprint(n), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 5}),
		)
	}
	return row.New(12).Add(
		cell("Total", len(tasks)),
		cell("Abiertas", counts[entity.StatusOpen]),
		cell("En progreso", counts[entity.StatusInProgress]),
		cell("Completadas", counts[entity.StatusCompleted]),
		cell("Cerradas", counts[entity.StatusClosed]),
		col.New(2),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Título", 4, align.Left),
		h("Prioridad", 1, align.Center),
		h("Estado", 2, align.Center),
		h("Vence", 1, align.Center),
		h("Creador", 2, align.Left),
		h("Asignado", 2, align.Left),
	)
}

// taskRows: una fila por tarea.
func taskRows(tasks []dto.TaskResponse) []core.Row {
	result := make([]core.Row, 0, len(tasks))
	for _, t := range tasks {
		priority := props.Text{Size: 8, Align: align.Center, Top: 1}
		if t.Priority == string(entity.PriorityHigh) {
			priority.Style = fontstyle.Bold
			priority.Color = colorHigh
		}
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format("02/01/2006")
		}
		assignee := "-"
		if t.AssignedTo != nil {
			assignee = refLabel(*t.AssignedTo)
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(truncate(t.Title, 60), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(t.Priority, priority)),
			col.New(2).Add(text.New(t.Status, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(due, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(refLabel(t.CreatedBy), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(assignee, props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusCounts(tasks []dto.TaskResponse) map[entity.Status]int {
	counts := make(map[entity.Status]int, 4)
	for _, t := range tasks {
		counts[entity.Status(t.Status)]++
	}
	return counts
}

func refLabel(u dto.UserRef) string {
	return nonEmpty(u.FullName, u.ID)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// truncate corta s a n runas agregando "…".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
