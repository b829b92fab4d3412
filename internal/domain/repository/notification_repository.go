package repository

import (
	"context"

	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
)

// NotificationRepository puerto de persistencia de notificaciones derivadas.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	// GetUnread devuelve la alerta sin leer del tipo para (store, part), o nil.
	GetUnread(ctx context.Context, storeID, partID, notifType string) (*entity.Notification, error)
	// MarkReadFor marca como leídas todas las alertas sin leer del tipo para (store, part).
	MarkReadFor(ctx context.Context, storeID, partID, notifType string) error
	MarkRead(ctx context.Context, id string) error
	ListByStore(ctx context.Context, storeID string, onlyUnread bool, limit, offset int) ([]*entity.Notification, error)
}
