package repository

import (
	"context"

	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
)

// ReservationAllocation línea reservada de una orden abierta contra un stock concreto.
type ReservationAllocation struct {
	JobID        string
	LineID       string
	Qty          int
	TechnicianID string
	JobStatus    string
}

// JobRepository puerto de persistencia de órdenes de reparación (agregado con
// líneas, instalaciones y notas embebidas).
type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	GetByID(ctx context.Context, id string) (*entity.Job, error)
	Update(ctx context.Context, job *entity.Job) error
	ListByStore(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.Job, error)
	// ListOpenReservations devuelve las líneas reserved de órdenes no terminales
	// para un (part, store); es el desglose de ReservedQuantity del StockRecord.
	ListOpenReservations(ctx context.Context, partID, storeID string) ([]ReservationAllocation, error)
}
