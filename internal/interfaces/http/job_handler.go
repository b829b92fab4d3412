package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/TallerPos-api/internal/application/dto"
	"github.com/jhoicas/TallerPos-api/internal/application/jobs"
)

// JobHandler maneja las órdenes de reparación (protegido).
type JobHandler struct {
	uc *jobs.UseCase
}

// NewJobHandler construye el handler.
func NewJobHandler(uc *jobs.UseCase) *JobHandler {
	return &JobHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de reparación
// @Description  Registra la orden y reserva los repuestos solicitados. Los
//               faltantes de stock no bloquean la creación: quedan anotados en la orden.
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateJobRequest  true  "store_id, device_model, cliente y repuestos a reservar"
// @Success      201   {object}  entity.Job
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/jobs [post]
func (h *JobHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := jobs.CreateJobInput{
		StoreID:       in.StoreID,
		CustomerID:    in.CustomerID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		DeviceModel:   in.DeviceModel,
		TechnicianID:  in.TechnicianID,
		UserID:        GetUserID(c),
	}
	for _, p := range in.PartsToReserve {
		input.PartsToReserve = append(input.PartsToReserve, jobs.PartRequest{PartID: p.PartID, Qty: p.Qty})
	}
	job, err := h.uc.CreateJob(c.Context(), input)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

// GetByID godoc
// @Summary      Consultar orden de reparación
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  entity.Job
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id} [get]
func (h *JobHandler) GetByID(c *fiber.Ctx) error {
	job, err := h.uc.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(job)
}

// List godoc
// @Summary      Listar órdenes de la sucursal
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Límite (default 20)"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {array}  entity.Job
// @Router       /api/jobs [get]
func (h *JobHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.ListJobs(c.Context(), GetStoreID(c), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "jobs": list})
}

// ReservePart godoc
// @Summary      Reservar repuesto para una orden
// @Description  Mueve qty del stock disponible al reservado. Sin reserva parcial:
//               si no alcanza, falla con 409 e indica lo disponible.
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ReservePartRequest  true  "part_id, qty"
// @Success      200   {object}  dto.StockResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/reserve [post]
func (h *JobHandler) ReservePart(c *fiber.Ctx) error {
	var in dto.ReservePartRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.uc.ReservePart(c.Context(), c.Params("id"), in.PartID, in.Qty, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toStockResponse(rec))
}

// UsePart godoc
// @Summary      Instalar repuesto en el equipo
// @Description  Consume primero lo reservado y el excedente sale del disponible;
//               si el disponible no alcanza, la operación completa se rechaza.
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.UsePartRequest  true  "part_id, qty, serial_number opcional"
// @Success      200   {object}  entity.Job
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/use [post]
func (h *JobHandler) UsePart(c *fiber.Ctx) error {
	var in dto.UsePartRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	job, err := h.uc.UsePart(c.Context(), jobs.UsePartInput{
		JobID:          c.Params("id"),
		PartID:         in.PartID,
		Qty:            in.Qty,
		SerialNumber:   in.SerialNumber,
		Note:           in.Note,
		TechID:         GetUserID(c),
		IdempotencyKey: in.IdempotencyKey,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(job)
}

// ReverseUsePart godoc
// @Summary      Revertir una instalación
// @Description  Devuelve las unidades al stock disponible, asienta job_return y
//               deja nota de auditoría en la orden.
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id       path  string  true  "ID de la orden"
// @Param        usageID  path  string  true  "ID de la instalación a revertir"
// @Success      200  {object}  entity.Job
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/usages/{usageID}/reverse [post]
func (h *JobHandler) ReverseUsePart(c *fiber.Ctx) error {
	job, err := h.uc.ReverseUsePart(c.Context(), c.Params("id"), c.Params("usageID"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(job)
}

// Complete godoc
// @Summary      Completar orden de reparación
// @Description  Consume automáticamente las reservas pendientes y cierra la orden.
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  entity.Job
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/complete [post]
func (h *JobHandler) Complete(c *fiber.Ctx) error {
	job, err := h.uc.CompleteJob(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(job)
}

// Cancel godoc
// @Summary      Cancelar orden de reparación
// @Description  Libera todas las reservas pendientes de vuelta al disponible.
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.CancelJobRequest  true  "reason"
// @Success      200   {object}  entity.Job
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/cancel [post]
func (h *JobHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	job, err := h.uc.CancelJob(c.Context(), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(job)
}

// UpdateStatus godoc
// @Summary      Transicionar estado de la orden
// @Description  Solo transiciones válidas del flujo de taller; completar y
//               cancelar tienen sus endpoints propios.
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.UpdateJobStatusRequest  true  "status destino"
// @Success      200   {object}  entity.Job
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/status [patch]
func (h *JobHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateJobStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	job, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), in.Status, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(job)
}
