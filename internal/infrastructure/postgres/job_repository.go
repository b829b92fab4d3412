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

var _ repository.JobRepository = (*JobRepo)(nil)

// JobRepo órdenes de reparación sobre PostgreSQL. El agregado se guarda con
// las líneas, instalaciones y notas embebidas como JSONB (una orden la escribe
// una sola operación lógica a la vez; last-write-wins es aceptable).
type JobRepo struct {
	q Querier
}

// NewJobRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJobRepository(q Querier) *JobRepo {
	return &JobRepo{q: q}
}

const jobColumns = `id, store_id, customer_id, customer_name, customer_phone, device_model,
	status, technician_id, part_lines, parts_used, notes, completed_at, created_at, updated_at`

func jobArgs(job *entity.Job) ([]any, error) {
	lines, err := json.Marshal(job.PartLines)
	if err != nil {
		return nil, fmt.Errorf("marshal part_lines: %w", err)
	}
	used, err := json.Marshal(job.PartsUsed)
	if err != nil {
		return nil, fmt.Errorf("marshal parts_used: %w", err)
	}
	notes, err := json.Marshal(job.Notes)
	if err != nil {
		return nil, fmt.Errorf("marshal notes: %w", err)
	}
	return []any{
		job.ID, job.StoreID, nullable(job.CustomerID), job.CustomerName, nullable(job.CustomerPhone),
		job.DeviceModel, job.Status, nullable(job.TechnicianID), lines, used, notes,
		job.CompletedAt, job.CreatedAt, job.UpdatedAt,
	}, nil
}

func scanJob(row pgx.Row) (*entity.Job, error) {
	var j entity.Job
	var customerID, customerPhone, technicianID *string
	var lines, used, notes []byte
	err := row.Scan(&j.ID, &j.StoreID, &customerID, &j.CustomerName, &customerPhone, &j.DeviceModel,
		&j.Status, &technicianID, &lines, &used, &notes, &j.CompletedAt, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	j.CustomerID = fromNullable(customerID)
	j.CustomerPhone = fromNullable(customerPhone)
	j.TechnicianID = fromNullable(technicianID)
	if err := json.Unmarshal(lines, &j.PartLines); err != nil {
		return nil, fmt.Errorf("unmarshal part_lines: %w", err)
	}
	if err := json.Unmarshal(used, &j.PartsUsed); err != nil {
		return nil, fmt.Errorf("unmarshal parts_used: %w", err)
	}
	if err := json.Unmarshal(notes, &j.Notes); err != nil {
		return nil, fmt.Errorf("unmarshal notes: %w", err)
	}
	return &j, nil
}

// Create persiste la orden completa.
func (r *JobRepo) Create(ctx context.Context, job *entity.Job) error {
	args, err := jobArgs(job)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

// GetByID obtiene la orden completa, o nil si no existe.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	j, err := scanJob(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// Update reescribe el agregado completo.
func (r *JobRepo) Update(ctx context.Context, job *entity.Job) error {
	args, err := jobArgs(job)
	if err != nil {
		return err
	}
	query := `
		UPDATE jobs SET store_id = $2, customer_id = $3, customer_name = $4, customer_phone = $5,
			device_model = $6, status = $7, technician_id = $8, part_lines = $9, parts_used = $10,
			notes = $11, completed_at = $12, created_at = $13, updated_at = $14
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

// ListByStore lista órdenes de una sucursal, opcionalmente filtradas por estado.
func (r *JobRepo) ListByStore(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE store_id = $1`
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
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	var list []*entity.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		list = append(list, j)
	}
	return list, rows.Err()
}

// ListOpenReservations desglosa las líneas reserved de órdenes no terminales
// para un (part, store): es el detalle que respalda ReservedQuantity.
func (r *JobRepo) ListOpenReservations(ctx context.Context, partID, storeID string) ([]repository.ReservationAllocation, error) {
	query := `
		SELECT j.id, line->>'id', (line->>'qty')::int, COALESCE(j.technician_id, ''), j.status
		FROM jobs j, jsonb_array_elements(j.part_lines) AS line
		WHERE j.store_id = $1
		  AND j.status NOT IN ('completed', 'cancelled', 'returned')
		  AND line->>'part_id' = $2
		  AND line->>'status' = 'reserved'
		ORDER BY j.created_at`
	rows, err := r.q.Query(ctx, query, storeID, partID)
	if err != nil {
		return nil, fmt.Errorf("list open reservations: %w", err)
	}
	defer rows.Close()
	var list []repository.ReservationAllocation
	for rows.Next() {
		var a repository.ReservationAllocation
		if err := rows.Scan(&a.JobID, &a.LineID, &a.Qty, &a.TechnicianID, &a.JobStatus); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
