package repository

import (
	"context"

	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
)

// PartRepository puerto de persistencia del catálogo de repuestos.
// Sin Delete: los repuestos nunca se eliminan físicamente (los referencia el historial).
type PartRepository interface {
	Create(ctx context.Context, part *entity.Part) error
	GetByID(ctx context.Context, id string) (*entity.Part, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Part, error)
	Update(ctx context.Context, part *entity.Part) error
	List(ctx context.Context, limit, offset int) ([]*entity.Part, error)
}
