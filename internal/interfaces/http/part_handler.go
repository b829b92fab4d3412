package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/TallerPos-api/internal/application/dto"
	"github.com/jhoicas/TallerPos-api/internal/application/usecase"
	"github.com/jhoicas/TallerPos-api/internal/domain"
)

// PartHandler maneja el catálogo de repuestos (protegido).
type PartHandler struct {
	uc *usecase.PartUseCase
}

// NewPartHandler construye el handler.
func NewPartHandler(uc *usecase.PartUseCase) *PartHandler {
	return &PartHandler{uc: uc}
}

// Create godoc
// @Summary      Crear repuesto
// @Tags         parts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartRequest  true  "sku, name, brand, cost, price"
// @Success      201   {object}  entity.Part
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/parts [post]
func (h *PartHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	part, err := h.uc.Create(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SKU_EXISTS", Message: "el SKU ya existe en el catálogo"})
		}
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(part)
}

// GetByID godoc
// @Summary      Consultar repuesto
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del repuesto"
// @Success      200  {object}  entity.Part
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id} [get]
func (h *PartHandler) GetByID(c *fiber.Ctx) error {
	part, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(part)
}

// Update godoc
// @Summary      Actualizar repuesto
// @Description  Solo campos mutables; el SKU es inmutable.
// @Tags         parts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del repuesto"
// @Param        body  body  dto.UpdatePartRequest  true  "campos a actualizar"
// @Success      200   {object}  entity.Part
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/parts/{id} [put]
func (h *PartHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePartRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	part, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(part)
}

// List godoc
// @Summary      Listar catálogo de repuestos
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {array}  entity.Part
// @Router       /api/parts [get]
func (h *PartHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "parts": list})
}
