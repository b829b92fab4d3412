package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/TallerPos-api/internal/application/dto"
	"github.com/jhoicas/TallerPos-api/internal/application/purchasing"
)

// PurchaseOrderHandler maneja el ciclo de compras (protegido).
type PurchaseOrderHandler struct {
	uc *purchasing.UseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *purchasing.UseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "store_id, supplier_id, lines"
// @Success      201   {object}  entity.PurchaseOrder
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := purchasing.CreateInput{
		StoreID:    in.StoreID,
		SupplierID: in.SupplierID,
		Note:       in.Note,
		UserID:     GetUserID(c),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, purchasing.CreateLineInput{PartID: l.PartID, Qty: l.Qty, UnitCost: l.UnitCost})
	}
	po, err := h.uc.CreatePurchaseOrder(c.Context(), input)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(po)
}

// GetByID godoc
// @Summary      Consultar orden de compra
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden de compra"
// @Success      200  {object}  entity.PurchaseOrder
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	po, err := h.uc.GetPurchaseOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(po)
}

// List godoc
// @Summary      Listar órdenes de compra de la sucursal
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Límite (default 20)"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {array}  entity.PurchaseOrder
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.ListPurchaseOrders(c.Context(), GetStoreID(c), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "purchase_orders": list})
}

// Receive godoc
// @Summary      Registrar recepción de mercancía
// @Description  Procesa un lote (posiblemente parcial): suma al stock, asienta
//               purchase_receive por repuesto y recalcula el estado de la orden.
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden de compra"
// @Param        body  body  dto.ReceivePurchaseOrderRequest  true  "items recibidos"
// @Success      200   {object}  entity.PurchaseOrder
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := purchasing.ReceiveInput{
		POID:   c.Params("id"),
		Note:   in.Note,
		UserID: GetUserID(c),
	}
	for _, it := range in.Items {
		input.Items = append(input.Items, purchasing.ReceiptItemInput{PartID: it.PartID, Qty: it.Qty, SerialNumbers: it.SerialNumbers})
	}
	po, err := h.uc.ReceivePurchaseOrder(c.Context(), input)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(po)
}

// Cancel godoc
// @Summary      Cancelar orden de compra
// @Description  Solo órdenes en estado ordered sin recepciones registradas.
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden de compra"
// @Success      200  {object}  entity.PurchaseOrder
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	po, err := h.uc.CancelPurchaseOrder(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(po)
}

// ReturnToVendor godoc
// @Summary      Devolución de mercancía al proveedor
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VendorReturnRequest  true  "part_id, store_id, qty, reason; po_id opcional"
// @Success      200   {object}  dto.StockResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/returns [post]
func (h *PurchaseOrderHandler) ReturnToVendor(c *fiber.Ctx) error {
	var in dto.VendorReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.uc.ReturnToVendor(c.Context(), purchasing.VendorReturnInput{
		POID:    in.POID,
		PartID:  in.PartID,
		StoreID: in.StoreID,
		Qty:     in.Qty,
		Reason:  in.Reason,
		UserID:  GetUserID(c),
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toStockResponse(rec))
}
