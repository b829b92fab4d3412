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

var _ repository.PartRepository = (*PartRepo)(nil)

// PartRepo catálogo de repuestos sobre PostgreSQL.
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

const partColumns = `id, sku, name, brand, category, series, cost, price,
	reorder_threshold, serialized, created_at, updated_at`

func scanPart(row pgx.Row) (*entity.Part, error) {
	var p entity.Part
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Brand, &p.Category, &p.Series,
		&p.Cost, &p.Price, &p.ReorderThreshold, &p.Serialized, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un repuesto nuevo. SKU duplicado devuelve ErrDuplicate.
func (r *PartRepo) Create(ctx context.Context, part *entity.Part) error {
	query := `
		INSERT INTO parts (` + partColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		part.ID, part.SKU, part.Name, part.Brand, part.Category, part.Series,
		part.Cost, part.Price, part.ReorderThreshold, part.Serialized,
		part.CreatedAt, part.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create part: %w", err)
	}
	return nil
}

// GetByID obtiene un repuesto por ID, o nil si no existe.
func (r *PartRepo) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE id = $1`
	p, err := scanPart(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un repuesto por SKU, o nil si no existe.
func (r *PartRepo) GetBySKU(ctx context.Context, sku string) (*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE sku = $1`
	p, err := scanPart(r.q.QueryRow(ctx, query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part by sku: %w", err)
	}
	return p, nil
}

// Update actualiza los campos mutables. El SKU no cambia.
func (r *PartRepo) Update(ctx context.Context, part *entity.Part) error {
	query := `
		UPDATE parts SET name = $2, brand = $3, category = $4, series = $5,
			cost = $6, price = $7, reorder_threshold = $8, serialized = $9, updated_at = $10
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query,
		part.ID, part.Name, part.Brand, part.Category, part.Series,
		part.Cost, part.Price, part.ReorderThreshold, part.Serialized, part.UpdatedAt,
	); err != nil {
		return fmt.Errorf("update part: %w", err)
	}
	return nil
}

// List pagina el catálogo ordenado por nombre.
func (r *PartRepo) List(ctx context.Context, limit, offset int) ([]*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
