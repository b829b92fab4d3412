package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/TallerPos-api/internal/domain"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
	"github.com/jhoicas/TallerPos-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo libro de transacciones sobre PostgreSQL. Solo INSERT y
// SELECT: la tabla es append-only por contrato (y sin UPDATE/DELETE aquí).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste un asiento. La llave de idempotencia tiene índice único:
// un reintento ciego de la misma operación devuelve ErrDuplicate.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, part_id, store_id, type, qty_change, prev_qty, new_qty,
			ref_kind, ref_id, performed_by, reason, note, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.PartID, t.StoreID, t.Type, t.QtyChange, t.PrevQty, t.NewQty,
		string(t.Ref.Kind), nullable(t.Ref.ID), nullable(t.PerformedBy),
		nullable(t.Reason), nullable(t.Note), nullable(t.IdempotencyKey), t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

const txColumns = `id, part_id, store_id, type, qty_change, prev_qty, new_qty,
	ref_kind, ref_id, performed_by, reason, note, idempotency_key, created_at`

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	var kind string
	var refID, performedBy, reason, note, idemKey *string
	err := row.Scan(&t.ID, &t.PartID, &t.StoreID, &t.Type, &t.QtyChange, &t.PrevQty, &t.NewQty,
		&kind, &refID, &performedBy, &reason, &note, &idemKey, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Ref = entity.TxRef{Kind: entity.RefKind(kind), ID: fromNullable(refID)}
	t.PerformedBy = fromNullable(performedBy)
	t.Reason = fromNullable(reason)
	t.Note = fromNullable(note)
	t.IdempotencyKey = fromNullable(idemKey)
	return &t, nil
}

// GetByID obtiene un asiento por ID, o nil si no existe.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE id = $1`
	t, err := scanTransaction(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// List consulta el historial con filtros opcionales, ordenado del más reciente.
func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE 1=1`
	var args []any
	pos := 1
	add := func(clause string, val any) {
		query += fmt.Sprintf(" AND "+clause, pos)
		args = append(args, val)
		pos++
	}
	if filter.PartID != "" {
		add("part_id = $%d", filter.PartID)
	}
	if filter.StoreID != "" {
		add("store_id = $%d", filter.StoreID)
	}
	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if filter.RefKind != entity.RefNone {
		add("ref_kind = $%d", string(filter.RefKind))
	}
	if filter.RefID != "" {
		add("ref_id = $%d", filter.RefID)
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at <= $%d", *filter.To)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// ExistsIdempotencyKey true si ya hay un asiento con esa llave.
func (r *TransactionRepo) ExistsIdempotencyKey(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM transactions WHERE idempotency_key = $1)`, key,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check idempotency key: %w", err)
	}
	return exists, nil
}
