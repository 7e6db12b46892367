package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/application/task"
)

// TaskHandler maneja las peticiones HTTP para Task (protegido).
type TaskHandler struct {
	uc  *task.UseCase
	log zerolog.Logger
}

// NewTaskHandler construye el handler.
func NewTaskHandler(uc *task.UseCase, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar tareas visibles
// @Description  Admin ve todas; Employee y Manager ven las que crearon o tienen asignadas.
// @Tags         tasks
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.TaskResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear tarea
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTaskRequest  true  "Datos de la tarea"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid body")
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar tarea
// @Description  Campos omitidos no cambian; assigned_to "" quita la asignación. created_by es inmutable.
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la tarea"
// @Param        body  body  dto.UpdateTaskRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fail(c, fiber.StatusBadRequest, "MISSING_ID", "id is required")
	}
	var in dto.UpdateTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid body")
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar tarea
// @Description  Solo el creador o un Admin.
// @Tags         tasks
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.DeleteTaskResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fail(c, fiber.StatusBadRequest, "MISSING_ID", "id is required")
	}
	out, err := h.uc.Delete(c.UserContext(), GetActor(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar tareas visibles a PDF
// @Tags         tasks
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/tasks/export.pdf [get]
func (h *TaskHandler) Export(c *fiber.Ctx) error {
	pdf, err := h.uc.Export(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="tasks.pdf"`)
	return c.Send(pdf)
}
