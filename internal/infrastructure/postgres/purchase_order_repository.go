package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
	"github.com/jhoicas/TallerPos-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra sobre PostgreSQL; líneas y lotes de
// recepción embebidos como JSONB (el historial de recepciones solo crece).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const poColumns = `id, store_id, supplier_id, status, lines, receipts, note, created_by, created_at, updated_at`

func poArgs(po *entity.PurchaseOrder) ([]any, error) {
	lines, err := json.Marshal(po.Lines)
	if err != nil {
		return nil, fmt.Errorf("marshal lines: %w", err)
	}
	receipts, err := json.Marshal(po.Receipts)
	if err != nil {
		return nil, fmt.Errorf("marshal receipts: %w", err)
	}
	return []any{
		po.ID, po.StoreID, po.SupplierID, po.Status, lines, receipts,
		nullable(po.Note), nullable(po.CreatedBy), po.CreatedAt, po.UpdatedAt,
	}, nil
}

func scanPO(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var lines, receipts []byte
	var note, createdBy *string
	err := row.Scan(&po.ID, &po.StoreID, &po.SupplierID, &po.Status, &lines, &receipts,
		&note, &createdBy, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		return nil, err
	}
	po.Note = fromNullable(note)
	po.CreatedBy = fromNullable(createdBy)
	if err := json.Unmarshal(lines, &po.Lines); err != nil {
		return nil, fmt.Errorf("unmarshal lines: %w", err)
	}
	if err := json.Unmarshal(receipts, &po.Receipts); err != nil {
		return nil, fmt.Errorf("unmarshal receipts: %w", err)
	}
	return &po, nil
}

// Create persiste la orden de compra.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	args, err := poArgs(po)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO purchase_orders (` + poColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create purchase order: %w", err)
	}
	return nil
}

// GetByID obtiene la orden completa, o nil si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE id = $1`
	po, err := scanPO(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return po, nil
}

// Update reescribe el agregado completo.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	args, err := poArgs(po)
	if err != nil {
		return err
	}
	query := `
		UPDATE purchase_orders SET store_id = $2, supplier_id = $3, status = $4, lines = $5,
			receipts = $6, note = $7, created_by = $8, created_at = $9, updated_at = $10
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	return nil
}

// ListByStore lista órdenes de una sucursal, opcionalmente por estado.
func (r *PurchaseOrderRepo) ListByStore(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE store_id = $1`
	args := []any{storeID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPO(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	return list, rows.Err()
}
