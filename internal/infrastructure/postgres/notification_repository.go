package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
	"github.com/jhoicas/TallerPos-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo alertas derivadas sobre PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

const notifColumns = "id, type, store_id, part_id, message, is_read, created_at"

// Create persiste una alerta.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (` + notifColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, n.ID, n.Type, n.StoreID, n.PartID, n.Message, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// GetUnread devuelve la alerta sin leer del tipo para (store, part), o nil.
func (r *NotificationRepo) GetUnread(ctx context.Context, storeID, partID, notifType string) (*entity.Notification, error) {
	query := `
		SELECT ` + notifColumns + `
		FROM notifications
		WHERE store_id = $1 AND part_id = $2 AND type = $3 AND is_read = false
		LIMIT 1`
	var n entity.Notification
	err := r.q.QueryRow(ctx, query, storeID, partID, notifType).Scan(
		&n.ID, &n.Type, &n.StoreID, &n.PartID, &n.Message, &n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unread notification: %w", err)
	}
	return &n, nil
}

// MarkReadFor marca como leídas todas las alertas sin leer del tipo para (store, part).
func (r *NotificationRepo) MarkReadFor(ctx context.Context, storeID, partID, notifType string) error {
	query := `
		UPDATE notifications SET is_read = true
		WHERE store_id = $1 AND part_id = $2 AND type = $3 AND is_read = false`
	if _, err := r.q.Exec(ctx, query, storeID, partID, notifType); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

// MarkRead marca una alerta como leída.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `UPDATE notifications SET is_read = true WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// ListByStore lista las alertas de una sucursal.
func (r *NotificationRepo) ListByStore(ctx context.Context, storeID string, onlyUnread bool, limit, offset int) ([]*entity.Notification, error) {
	query := `SELECT ` + notifColumns + ` FROM notifications WHERE store_id = $1`
	if onlyUnread {
		query += " AND is_read = false"
	}
	query += " ORDER BY created_at DESC LIMIT $2 OFFSET $3"
	rows, err := r.q.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.StoreID, &n.PartID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}
