package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/TallerPos-api/internal/domain"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
	"github.com/jhoicas/TallerPos-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL
// (usable con pool o tx).
//
// Las mutaciones son UPDATEs condicionales de un solo statement: la guarda
// (quantity >= $n, reserved_quantity >= $n) viaja en el WHERE, así el
// check-and-decrement es atómico frente a callers concurrentes sobre la misma
// clave (part, store) y el orden de los asientos refleja el orden de commit.
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

const stockColumns = "id, part_id, store_id, location_id, quantity, reserved_quantity, updated_at"

func scanStock(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := row.Scan(&s.ID, &s.PartID, &s.StoreID, &s.LocationID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get obtiene el registro de stock, o uno en cero si aún no existe
// (la fila se crea perezosamente con el primer evento de stock).
func (r *StockRecordRepo) Get(ctx context.Context, partID, storeID string) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_records WHERE part_id = $1 AND store_id = $2`
	s, err := scanStock(r.q.QueryRow(ctx, query, partID, storeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockRecord{PartID: partID, StoreID: storeID}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// GetByID obtiene el registro por ID, o nil si no existe.
func (r *StockRecordRepo) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_records WHERE id = $1`
	s, err := scanStock(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock by id: %w", err)
	}
	return s, nil
}

// ListByStore lista el stock de una sucursal.
func (r *StockRecordRepo) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.StockRecord, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_records WHERE store_id = $1
		ORDER BY part_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Reserve mueve qty del disponible a reservado si alcanza; sin reserva parcial.
func (r *StockRecordRepo) Reserve(ctx context.Context, partID, storeID string, qty int) (*entity.StockRecord, error) {
	query := `
		UPDATE stock_records
		SET quantity = quantity - $3, reserved_quantity = reserved_quantity + $3, updated_at = now()
		WHERE part_id = $1 AND store_id = $2 AND quantity >= $3
		RETURNING ` + stockColumns
	s, err := scanStock(r.q.QueryRow(ctx, query, partID, storeID, qty))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.insufficient(ctx, partID, storeID, qty, false)
		}
		return nil, fmt.Errorf("reserve stock: %w", err)
	}
	return s, nil
}

// Release inverso de Reserve: devuelve qty del reservado al disponible.
func (r *StockRecordRepo) Release(ctx context.Context, partID, storeID string, qty int) (*entity.StockRecord, error) {
	query := `
		UPDATE stock_records
		SET quantity = quantity + $3, reserved_quantity = reserved_quantity - $3, updated_at = now()
		WHERE part_id = $1 AND store_id = $2 AND reserved_quantity >= $3
		RETURNING ` + stockColumns
	s, err := scanStock(r.q.QueryRow(ctx, query, partID, storeID, qty))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.insufficient(ctx, partID, storeID, qty, true)
		}
		return nil, fmt.Errorf("release stock: %w", err)
	}
	return s, nil
}

// ConsumeReserved descuenta qty del reservado (el stock ya salió del disponible al reservar).
func (r *StockRecordRepo) ConsumeReserved(ctx context.Context, partID, storeID string, qty int) (*entity.StockRecord, error) {
	query := `
		UPDATE stock_records
		SET reserved_quantity = reserved_quantity - $3, updated_at = now()
		WHERE part_id = $1 AND store_id = $2 AND reserved_quantity >= $3
		RETURNING ` + stockColumns
	s, err := scanStock(r.q.QueryRow(ctx, query, partID, storeID, qty))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.insufficient(ctx, partID, storeID, qty, true)
		}
		return nil, fmt.Errorf("consume reserved: %w", err)
	}
	return s, nil
}

// ConsumeOnHand descuenta qty del disponible si alcanza.
func (r *StockRecordRepo) ConsumeOnHand(ctx context.Context, partID, storeID string, qty int) (*entity.StockRecord, error) {
	query := `
		UPDATE stock_records
		SET quantity = quantity - $3, updated_at = now()
		WHERE part_id = $1 AND store_id = $2 AND quantity >= $3
		RETURNING ` + stockColumns
	s, err := scanStock(r.q.QueryRow(ctx, query, partID, storeID, qty))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.insufficient(ctx, partID, storeID, qty, false)
		}
		return nil, fmt.Errorf("consume on hand: %w", err)
	}
	return s, nil
}

// AddOnHand suma qty al disponible, creando la fila si no existe.
func (r *StockRecordRepo) AddOnHand(ctx context.Context, partID, storeID string, qty int) (*entity.StockRecord, error) {
	query := `
		INSERT INTO stock_records (id, part_id, store_id, location_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, '', $4, 0, now())
		ON CONFLICT (part_id, store_id, location_id)
		DO UPDATE SET quantity = stock_records.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING ` + stockColumns
	s, err := scanStock(r.q.QueryRow(ctx, query, uuid.New().String(), partID, storeID, qty))
	if err != nil {
		return nil, fmt.Errorf("add on hand: %w", err)
	}
	return s, nil
}

// insufficient arma el error con solicitado vs. disponible leyendo el estado actual.
func (r *StockRecordRepo) insufficient(ctx context.Context, partID, storeID string, qty int, reserved bool) error {
	current, err := r.Get(ctx, partID, storeID)
	if err != nil {
		return err
	}
	available := current.Quantity
	if reserved {
		available = current.ReservedQuantity
	}
	return &domain.InsufficientStockError{Requested: qty, Available: available}
}
