package usecase

import (
	"context"

	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
	"github.com/jhoicas/TallerPos-api/internal/domain/repository"
)

// NotificationUseCase lectura y descarte de alertas (el motor las crea).
type NotificationUseCase struct {
	notifRepo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso de notificaciones.
func NewNotificationUseCase(notifRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notifRepo: notifRepo}
}

// ListByStore lista las alertas de una sucursal.
func (uc *NotificationUseCase) ListByStore(ctx context.Context, storeID string, onlyUnread bool, limit, offset int) ([]*entity.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	return uc.notifRepo.ListByStore(ctx, storeID, onlyUnread, limit, offset)
}

// MarkRead marca una alerta como leída.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id string) error {
	return uc.notifRepo.MarkRead(ctx, id)
}
