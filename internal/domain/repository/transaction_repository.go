package repository

import (
	"context"
	"time"

	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
)

// TransactionFilter filtros para el historial del libro de inventario.
type TransactionFilter struct {
	PartID  string
	StoreID string
	Type    string
	RefKind entity.RefKind
	RefID   string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// TransactionRepository puerto del libro de transacciones. Solo inserta y
// consulta: los asientos jamás se actualizan ni se borran.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)
	// ExistsIdempotencyKey true si una operación con esa llave ya fue aplicada.
	ExistsIdempotencyKey(ctx context.Context, key string) (bool, error)
}
