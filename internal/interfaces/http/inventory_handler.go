package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/TallerPos-api/internal/application/dto"
	"github.com/jhoicas/TallerPos-api/internal/application/inventory"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
	"github.com/jhoicas/TallerPos-api/internal/domain/repository"
)

// InventoryHandler maneja stock, ajustes, traslados y el historial del libro (protegido).
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

func toStockResponse(rec *entity.StockRecord) dto.StockResponse {
	return dto.StockResponse{
		ID:               rec.ID,
		PartID:           rec.PartID,
		StoreID:          rec.StoreID,
		Quantity:         rec.Quantity,
		ReservedQuantity: rec.ReservedQuantity,
		UpdatedAt:        rec.UpdatedAt,
	}
}

func toTransactionResponse(t *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          t.ID,
		PartID:      t.PartID,
		StoreID:     t.StoreID,
		Type:        t.Type,
		QtyChange:   t.QtyChange,
		PrevQty:     t.PrevQty,
		NewQty:      t.NewQty,
		RefKind:     string(t.Ref.Kind),
		RefID:       t.Ref.ID,
		PerformedBy: t.PerformedBy,
		Reason:      t.Reason,
		Note:        t.Note,
		CreatedAt:   t.CreatedAt,
	}
}

// Adjust godoc
// @Summary      Ajuste manual de inventario
// @Description  Cambio firmado con motivo obligatorio. Un negativo mayor al
//               disponible se rechaza completo: el stock nunca cruza cero.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustInventoryRequest  true  "part_id, store_id, qty_change, reason"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.uc.AdjustInventory(c.Context(), inventory.AdjustInput{
		PartID:         in.PartID,
		StoreID:        in.StoreID,
		QtyChange:      in.QtyChange,
		Reason:         in.Reason,
		Note:           in.Note,
		UserID:         GetUserID(c),
		IdempotencyKey: in.IdempotencyKey,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toStockResponse(rec))
}

// LogUsage godoc
// @Summary      Registrar consumo general de taller
// @Description  Descuenta stock sin orden de reparación (limpieza, pruebas, mostrador).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GeneralUsageRequest  true  "part_id, store_id, qty"
// @Success      200   {object}  dto.StockResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/usage [post]
func (h *InventoryHandler) LogUsage(c *fiber.Ctx) error {
	var in dto.GeneralUsageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.uc.LogGeneralUsage(c.Context(), inventory.GeneralUsageInput{
		PartID:         in.PartID,
		StoreID:        in.StoreID,
		Qty:            in.Qty,
		TechID:         GetUserID(c),
		Note:           in.Note,
		IdempotencyKey: in.IdempotencyKey,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toStockResponse(rec))
}

// Transfer godoc
// @Summary      Traslado de stock entre sucursales
// @Description  Descuenta en origen y suma en destino en una sola transacción,
//               con el par de asientos transfer_out / transfer_in.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "part_id, from_store_id, to_store_id, qty"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	err := h.uc.TransferStock(c.Context(), inventory.TransferInput{
		PartID:      in.PartID,
		FromStoreID: in.FromStoreID,
		ToStoreID:   in.ToStoreID,
		Qty:         in.Qty,
		Note:        in.Note,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "traslado registrado"})
}

// GetStock godoc
// @Summary      Consultar stock de un repuesto en una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        storeID  path  string  true  "Sucursal"
// @Param        partID   path  string  true  "Repuesto"
// @Success      200  {object}  dto.StockResponse
// @Router       /api/inventory/stock/{storeID}/{partID} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	rec, err := h.uc.GetStock(c.Context(), c.Params("partID"), c.Params("storeID"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toStockResponse(rec))
}

// ListStock godoc
// @Summary      Listar stock de una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        storeID  path   string  true   "Sucursal"
// @Param        limit    query  int     false  "Límite (default 20)"
// @Param        offset   query  int     false  "Offset"
// @Success      200  {array}  dto.StockResponse
// @Router       /api/inventory/stock/{storeID} [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	recs, err := h.uc.ListStock(c.Context(), c.Params("storeID"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.StockResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toStockResponse(rec))
	}
	return c.JSON(fiber.Map{"total": len(out), "stock": out})
}

// GetAllocations godoc
// @Summary      Desglose de reservas de un registro de stock
// @Description  Lista qué órdenes abiertas respaldan la cantidad reservada.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del registro de stock"
// @Success      200  {array}   dto.AllocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-records/{id}/allocations [get]
func (h *InventoryHandler) GetAllocations(c *fiber.Ctx) error {
	allocs, err := h.uc.GetAllocations(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.AllocationResponse, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, dto.AllocationResponse{
			JobID:        a.JobID,
			LineID:       a.LineID,
			Qty:          a.Qty,
			TechnicianID: a.TechnicianID,
			JobStatus:    a.JobStatus,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "allocations": out})
}

// History godoc
// @Summary      Historial del libro de transacciones
// @Description  Filtros opcionales por repuesto, sucursal, tipo y rango de fechas
//               (RFC 3339). Ordenado del más reciente al más antiguo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        part_id   query  string  false  "Repuesto"
// @Param        store_id  query  string  false  "Sucursal"
// @Param        type      query  string  false  "Tipo de asiento"
// @Param        from      query  string  false  "Desde (RFC 3339)"
// @Param        to        query  string  false  "Hasta (RFC 3339)"
// @Success      200  {array}   dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	var in dto.TransactionHistoryRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	filter := repository.TransactionFilter{
		PartID:  in.PartID,
		StoreID: in.StoreID,
		Type:    in.Type,
		Limit:   in.Limit,
		Offset:  in.Offset,
	}
	if in.From != "" {
		t, err := time.Parse(time.RFC3339, in.From)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC 3339"})
		}
		filter.From = &t
	}
	if in.To != "" {
		t, err := time.Parse(time.RFC3339, in.To)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC 3339"})
		}
		filter.To = &t
	}
	txs, err := h.uc.GetTransactionHistory(c.Context(), filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	return c.JSON(fiber.Map{"total": len(out), "transactions": out})
}
