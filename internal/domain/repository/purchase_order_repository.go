package repository

import (
	"context"

	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
)

// PurchaseOrderRepository puerto de persistencia de órdenes de compra
// (agregado con líneas y lotes de recepción embebidos).
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	ListByStore(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
}
