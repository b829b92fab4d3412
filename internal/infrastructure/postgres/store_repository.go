package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
	"github.com/jhoicas/TallerPos-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo sucursales sobre PostgreSQL.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

const storeColumns = "id, name, address, phone, created_at, updated_at"

func scanStore(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	if err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepo) Create(ctx context.Context, store *entity.Store) error {
	query := `INSERT INTO stores (` + storeColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, store.ID, store.Name, store.Address, store.Phone, store.CreatedAt, store.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	return nil
}

func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	s, err := scanStore(r.q.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return s, nil
}

func (r *StoreRepo) Update(ctx context.Context, store *entity.Store) error {
	query := `UPDATE stores SET name = $2, address = $3, phone = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, store.ID, store.Name, store.Address, store.Phone, store.UpdatedAt); err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	return nil
}

func (r *StoreRepo) List(ctx context.Context, limit, offset int) ([]*entity.Store, error) {
	rows, err := r.q.Query(ctx, `SELECT `+storeColumns+` FROM stores ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
