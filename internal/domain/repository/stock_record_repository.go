package repository

import (
	"context"

	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
)

// StockRecordRepository puerto de persistencia del stock por repuesto y sucursal.
//
// Las operaciones mutadoras son actualizaciones condicionales de un solo paso
// (check-and-decrement atómico): bajo callers concurrentes sobre la misma clave
// (part, store) nunca se cruza el cero. Un read-modify-write ingenuo es una
// condición de carrera y no se usa. Cuando la guarda falla devuelven
// domain.InsufficientStockError con lo solicitado vs. lo disponible.
type StockRecordRepository interface {
	// Get devuelve el registro o uno en cero si aún no existe (creación perezosa).
	Get(ctx context.Context, partID, storeID string) (*entity.StockRecord, error)
	GetByID(ctx context.Context, id string) (*entity.StockRecord, error)
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.StockRecord, error)

	// Reserve mueve qty de Quantity a ReservedQuantity si Quantity >= qty. Sin reserva parcial.
	Reserve(ctx context.Context, partID, storeID string, qty int) (*entity.StockRecord, error)
	// Release inverso de Reserve (cancelación): devuelve qty de ReservedQuantity a Quantity.
	Release(ctx context.Context, partID, storeID string, qty int) (*entity.StockRecord, error)
	// ConsumeReserved descuenta qty de ReservedQuantity (el stock ya salió de Quantity al reservar).
	ConsumeReserved(ctx context.Context, partID, storeID string, qty int) (*entity.StockRecord, error)
	// ConsumeOnHand descuenta qty de Quantity si Quantity >= qty (uso sin reserva previa o excedente).
	ConsumeOnHand(ctx context.Context, partID, storeID string, qty int) (*entity.StockRecord, error)
	// AddOnHand suma qty a Quantity, creando el registro si no existe
	// (recepción de mercancía o reversión de un uso).
	AddOnHand(ctx context.Context, partID, storeID string, qty int) (*entity.StockRecord, error)
}
