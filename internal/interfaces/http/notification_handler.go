package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/TallerPos-api/internal/application/dto"
	"github.com/jhoicas/TallerPos-api/internal/application/usecase"
)

// NotificationHandler maneja las alertas de stock bajo (protegido).
type NotificationHandler struct {
	uc *usecase.NotificationUseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List godoc
// @Summary      Listar alertas de la sucursal
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        unread  query  bool  false  "Solo alertas sin leer"
// @Param        limit   query  int   false  "Límite (default 20)"
// @Param        offset  query  int   false  "Offset"
// @Success      200  {array}  entity.Notification
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	onlyUnread := c.QueryBool("unread")
	list, err := h.uc.ListByStore(c.Context(), GetStoreID(c), onlyUnread, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "notifications": list})
}

// MarkRead godoc
// @Summary      Marcar alerta como leída
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  map[string]string
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "alerta marcada como leída"})
}
