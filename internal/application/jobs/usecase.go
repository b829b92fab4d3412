package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/TallerPos-api/internal/application/alerts"
	"github.com/jhoicas/TallerPos-api/internal/application/events"
	"github.com/jhoicas/TallerPos-api/internal/domain"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
	"github.com/jhoicas/TallerPos-api/internal/domain/repository"
)

// UseCase motor de reserva y consumo de repuestos por orden de reparación.
// Cada línea solicitada sigue la máquina pending → reserved → used, o
// reserved → cancelled. Toda operación mutadora corre dentro de una única
// transacción de BD (TxRunner): mutación de stock, asiento del libro, guardado
// de la orden y chequeo de alertas comitean o revierten juntos. Los eventos
// stock_update/job_update se publican solo tras el commit.
type UseCase struct {
	txRunner     repository.TxRunner
	jobRepo      repository.JobRepository
	partRepo     repository.PartRepository
	storeRepo    repository.StoreRepository
	customerRepo repository.CustomerRepository
	publisher    events.Publisher
}

// NewUseCase construye el motor de órdenes.
func NewUseCase(
	txRunner repository.TxRunner,
	jobRepo repository.JobRepository,
	partRepo repository.PartRepository,
	storeRepo repository.StoreRepository,
	customerRepo repository.CustomerRepository,
	publisher events.Publisher,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		jobRepo:      jobRepo,
		partRepo:     partRepo,
		storeRepo:    storeRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
	}
}

// PartRequest repuesto a reservar al crear la orden.
type PartRequest struct {
	PartID string
	Qty    int
}

// CreateJobInput datos para registrar una orden de reparación.
type CreateJobInput struct {
	StoreID        string
	CustomerID     string // opcional si se pasan nombre y teléfono sueltos
	CustomerName   string
	CustomerPhone  string
	DeviceModel    string
	TechnicianID   string
	PartsToReserve []PartRequest
	UserID         string
}

// CreateJob registra la orden y reserva los repuestos solicitados. Las reservas
// que fallan por stock insuficiente (o repuesto inexistente) se omiten y quedan
// anotadas en la orden; la creación nunca falla solo por un faltante.
func (uc *UseCase) CreateJob(ctx context.Context, in CreateJobInput) (*entity.Job, error) {
	if in.StoreID == "" || in.DeviceModel == "" {
		return nil, domain.ErrInvalidInput
	}
	store, err := uc.storeRepo.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	name, phone := in.CustomerName, in.CustomerPhone
	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
		// Snapshot: editar el cliente después no reescribe la orden
		name, phone = customer.Name, customer.Phone
	}
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	job := &entity.Job{
		ID:            uuid.New().String(),
		StoreID:       in.StoreID,
		CustomerID:    in.CustomerID,
		CustomerName:  name,
		CustomerPhone: phone,
		DeviceModel:   in.DeviceModel,
		Status:        entity.JobStatusPending,
		TechnicianID:  in.TechnicianID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var reservedParts []string
	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		for _, req := range in.PartsToReserve {
			if req.Qty <= 0 {
				continue
			}
			part, err := r.Parts.GetByID(ctx, req.PartID)
			if err != nil {
				return err
			}
			if part == nil {
				job.AppendNote(fmt.Sprintf("repuesto %s no existe, línea omitida", req.PartID), in.UserID, now)
				continue
			}
			rec, err := r.Stock.Reserve(ctx, req.PartID, in.StoreID, req.Qty)
			if err != nil {
				if isInsufficientStock(err) {
					// No fatal: la orden se crea igual, la línea se omite
					job.AppendNote(fmt.Sprintf("sin stock para reservar %d x %s, línea omitida", req.Qty, part.SKU), in.UserID, now)
					continue
				}
				return err
			}
			job.PartLines = append(job.PartLines, entity.PartLine{
				ID:        uuid.New().String(),
				PartID:    req.PartID,
				Qty:       req.Qty,
				Status:    entity.PartLineStatusReserved,
				CreatedAt: now,
			})
			reservedParts = append(reservedParts, req.PartID)
			// Reservar baja la disponibilidad y puede disparar la alerta
			if err := alerts.CheckLowStock(ctx, r.Notifications, part, rec); err != nil {
				return err
			}
		}
		return r.Jobs.Create(ctx, job)
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.JobUpdate(ctx, job.ID)
	for _, partID := range reservedParts {
		uc.publisher.StockUpdate(ctx, partID, in.StoreID)
	}
	return job, nil
}

// ReservePart reserva qty unidades para una orden abierta. A diferencia de la
// reserva en la creación, aquí el faltante sí es un error visible al cliente.
func (uc *UseCase) ReservePart(ctx context.Context, jobID, partID string, qty int, userID string) (*entity.StockRecord, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var rec *entity.StockRecord
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		job, err := openJob(ctx, r, jobID)
		if err != nil {
			return err
		}
		part, err := mustPart(ctx, r, partID)
		if err != nil {
			return err
		}
		rec, err = r.Stock.Reserve(ctx, partID, job.StoreID, qty)
		if err != nil {
			return err
		}
		now := time.Now()
		job.PartLines = append(job.PartLines, entity.PartLine{
			ID:        uuid.New().String(),
			PartID:    partID,
			Qty:       qty,
			Status:    entity.PartLineStatusReserved,
			CreatedAt: now,
		})
		job.UpdatedAt = now
		if err := alerts.CheckLowStock(ctx, r.Notifications, part, rec); err != nil {
			return err
		}
		return r.Jobs.Update(ctx, job)
	})
	if err != nil {
		return nil, err
	}
	uc.publisher.StockUpdate(ctx, partID, rec.StoreID)
	uc.publisher.JobUpdate(ctx, jobID)
	return rec, nil
}

// UsePartInput datos para instalar un repuesto.
type UsePartInput struct {
	JobID          string
	PartID         string
	Qty            int
	SerialNumber   string
	Note           string
	TechID         string
	IdempotencyKey string // opcional: rechaza reintentos ciegos de la misma instalación
}

// UsePart instala qty unidades en el equipo. Cubre primero lo reservado
// (min(reservado, qty)) y el excedente sale directo del stock disponible; si el
// disponible no alcanza para el excedente, la operación completa se rechaza sin
// aplicar nada. Deja el asiento job_use (-qty), el registro en PartsUsed y una
// nota de auditoría.
func (uc *UseCase) UsePart(ctx context.Context, in UsePartInput) (*entity.Job, error) {
	if in.Qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var job *entity.Job
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		if err := checkIdempotency(ctx, r, in.IdempotencyKey); err != nil {
			return err
		}
		var err error
		job, err = openJob(ctx, r, in.JobID)
		if err != nil {
			return err
		}
		part, err := mustPart(ctx, r, in.PartID)
		if err != nil {
			return err
		}

		line := job.ReservedLineFor(in.PartID)
		fromReserved := 0
		if line != nil {
			fromReserved = min(line.Qty, in.Qty)
		}
		shortfall := in.Qty - fromReserved

		var rec *entity.StockRecord
		if shortfall > 0 {
			// Excedente sin reserva: descuento condicional del disponible.
			// Si no alcanza, el error revierte toda la operación.
			rec, err = r.Stock.ConsumeOnHand(ctx, in.PartID, job.StoreID, shortfall)
			if err != nil {
				return err
			}
		}
		if fromReserved > 0 {
			rec, err = r.Stock.ConsumeReserved(ctx, in.PartID, job.StoreID, fromReserved)
			if err != nil {
				return err
			}
		}

		now := time.Now()
		lineID := ""
		if line != nil {
			lineID = line.ID
			if fromReserved == line.Qty {
				line.Status = entity.PartLineStatusUsed
			} else {
				line.Qty -= fromReserved
			}
		}
		usage := entity.PartUsage{
			ID:           uuid.New().String(),
			LineID:       lineID,
			PartID:       in.PartID,
			Qty:          in.Qty,
			SerialNumber: in.SerialNumber,
			TechID:       in.TechID,
			UsedAt:       now,
		}
		job.PartsUsed = append(job.PartsUsed, usage)
		job.AppendNote(fmt.Sprintf("instaló %d x %s", in.Qty, part.SKU), in.TechID, now)
		job.UpdatedAt = now

		if err := r.Ledger.Create(ctx, &entity.Transaction{
			ID:             uuid.New().String(),
			PartID:         in.PartID,
			StoreID:        job.StoreID,
			Type:           entity.TxTypeJobUse,
			QtyChange:      -in.Qty,
			PrevQty:        rec.Total() + in.Qty,
			NewQty:         rec.Total(),
			Ref:            entity.TxRef{Kind: entity.RefJob, ID: job.ID},
			PerformedBy:    in.TechID,
			Note:           in.Note,
			IdempotencyKey: in.IdempotencyKey,
			CreatedAt:      now,
		}); err != nil {
			return err
		}
		if err := alerts.CheckLowStock(ctx, r.Notifications, part, rec); err != nil {
			return err
		}
		return r.Jobs.Update(ctx, job)
	})
	if err != nil {
		return nil, err
	}
	uc.publisher.StockUpdate(ctx, in.PartID, job.StoreID)
	uc.publisher.JobUpdate(ctx, in.JobID)
	return job, nil
}

// ReverseUsePart deshace una instalación: devuelve la cantidad al stock
// disponible, asienta job_return (+qty), elimina el registro de PartsUsed y
// anota la reversión. Irreversible: el registro desaparece y no hay
// re-reversión de una reversión.
func (uc *UseCase) ReverseUsePart(ctx context.Context, jobID, usageID, userID string) (*entity.Job, error) {
	var job *entity.Job
	var partID string
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		var err error
		job, err = loadJob(ctx, r, jobID)
		if err != nil {
			return err
		}
		usage := job.FindUsage(usageID)
		if usage == nil {
			return domain.ErrNotFound
		}
		partID = usage.PartID
		part, err := mustPart(ctx, r, usage.PartID)
		if err != nil {
			return err
		}
		rec, err := r.Stock.AddOnHand(ctx, usage.PartID, job.StoreID, usage.Qty)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := r.Ledger.Create(ctx, &entity.Transaction{
			ID:          uuid.New().String(),
			PartID:      usage.PartID,
			StoreID:     job.StoreID,
			Type:        entity.TxTypeJobReturn,
			QtyChange:   usage.Qty,
			PrevQty:     rec.Total() - usage.Qty,
			NewQty:      rec.Total(),
			Ref:         entity.TxRef{Kind: entity.RefJob, ID: job.ID},
			PerformedBy: userID,
			Reason:      "reversión de instalación",
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		job.AppendNote(fmt.Sprintf("revirtió instalación de %d x %s", usage.Qty, part.SKU), userID, now)
		job.RemoveUsage(usageID)
		job.UpdatedAt = now
		if err := alerts.CheckLowStock(ctx, r.Notifications, part, rec); err != nil {
			return err
		}
		return r.Jobs.Update(ctx, job)
	})
	if err != nil {
		return nil, err
	}
	uc.publisher.StockUpdate(ctx, partID, job.StoreID)
	uc.publisher.JobUpdate(ctx, jobID)
	return job, nil
}

// CompleteJob cierra la orden: toda línea aún reservada se consume completa
// (asiento job_use y registro en PartsUsed), el estado pasa a completed y se
// estampa CompletedAt.
func (uc *UseCase) CompleteJob(ctx context.Context, jobID, userID string) (*entity.Job, error) {
	var job *entity.Job
	var touchedParts []string
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		var err error
		job, err = openJob(ctx, r, jobID)
		if err != nil {
			return err
		}
		now := time.Now()
		for i := range job.PartLines {
			line := &job.PartLines[i]
			if line.Status != entity.PartLineStatusReserved {
				continue
			}
			part, err := mustPart(ctx, r, line.PartID)
			if err != nil {
				return err
			}
			rec, err := r.Stock.ConsumeReserved(ctx, line.PartID, job.StoreID, line.Qty)
			if err != nil {
				return err
			}
			if err := r.Ledger.Create(ctx, &entity.Transaction{
				ID:          uuid.New().String(),
				PartID:      line.PartID,
				StoreID:     job.StoreID,
				Type:        entity.TxTypeJobUse,
				QtyChange:   -line.Qty,
				PrevQty:     rec.Total() + line.Qty,
				NewQty:      rec.Total(),
				Ref:         entity.TxRef{Kind: entity.RefJob, ID: job.ID},
				PerformedBy: userID,
				Reason:      "consumo automático al completar",
				CreatedAt:   now,
			}); err != nil {
				return err
			}
			job.PartsUsed = append(job.PartsUsed, entity.PartUsage{
				ID:     uuid.New().String(),
				LineID: line.ID,
				PartID: line.PartID,
				Qty:    line.Qty,
				TechID: userID,
				UsedAt: now,
			})
			line.Status = entity.PartLineStatusUsed
			touchedParts = append(touchedParts, line.PartID)
			if err := alerts.CheckLowStock(ctx, r.Notifications, part, rec); err != nil {
				return err
			}
		}
		job.Status = entity.JobStatusCompleted
		job.CompletedAt = &now
		job.UpdatedAt = now
		return r.Jobs.Update(ctx, job)
	})
	if err != nil {
		return nil, err
	}
	uc.publisher.JobUpdate(ctx, jobID)
	for _, partID := range touchedParts {
		uc.publisher.StockUpdate(ctx, partID, job.StoreID)
	}
	return job, nil
}

// CancelJob cancela la orden: toda línea aún reservada vuelve al disponible
// (Release) y queda asentada como reservation_release con QtyChange 0 — el
// stock total no cambia, solo se libera el compromiso.
func (uc *UseCase) CancelJob(ctx context.Context, jobID, reason, userID string) (*entity.Job, error) {
	var job *entity.Job
	var touchedParts []string
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		var err error
		job, err = openJob(ctx, r, jobID)
		if err != nil {
			return err
		}
		now := time.Now()
		for i := range job.PartLines {
			line := &job.PartLines[i]
			if line.Status != entity.PartLineStatusReserved {
				continue
			}
			part, err := mustPart(ctx, r, line.PartID)
			if err != nil {
				return err
			}
			rec, err := r.Stock.Release(ctx, line.PartID, job.StoreID, line.Qty)
			if err != nil {
				return err
			}
			if err := r.Ledger.Create(ctx, &entity.Transaction{
				ID:          uuid.New().String(),
				PartID:      line.PartID,
				StoreID:     job.StoreID,
				Type:        entity.TxTypeReservationRelease,
				QtyChange:   0,
				PrevQty:     rec.Total(),
				NewQty:      rec.Total(),
				Ref:         entity.TxRef{Kind: entity.RefJob, ID: job.ID},
				PerformedBy: userID,
				Reason:      reason,
				Note:        fmt.Sprintf("liberadas %d unidades reservadas", line.Qty),
				CreatedAt:   now,
			}); err != nil {
				return err
			}
			line.Status = entity.PartLineStatusCancelled
			touchedParts = append(touchedParts, line.PartID)
			// Liberar sube la disponibilidad y puede limpiar la alerta
			if err := alerts.CheckLowStock(ctx, r.Notifications, part, rec); err != nil {
				return err
			}
		}
		job.Status = entity.JobStatusCancelled
		if reason != "" {
			job.AppendNote("cancelada: "+reason, userID, now)
		}
		job.UpdatedAt = now
		return r.Jobs.Update(ctx, job)
	})
	if err != nil {
		return nil, err
	}
	uc.publisher.JobUpdate(ctx, jobID)
	for _, partID := range touchedParts {
		uc.publisher.StockUpdate(ctx, partID, job.StoreID)
	}
	return job, nil
}

// UpdateStatus avanza el estado de la orden validando la transición. Los
// estados completed y cancelled tienen operaciones propias (CompleteJob,
// CancelJob) porque mueven stock; aquí se rechazan.
func (uc *UseCase) UpdateStatus(ctx context.Context, jobID, newStatus, userID string) (*entity.Job, error) {
	if newStatus == entity.JobStatusCompleted || newStatus == entity.JobStatusCancelled {
		return nil, domain.ErrInvalidInput
	}
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransition(job.Status, newStatus) {
		return nil, domain.ErrConflict
	}
	job.Status = newStatus
	job.UpdatedAt = time.Now()
	if err := uc.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	uc.publisher.JobUpdate(ctx, jobID)
	return job, nil
}

// GetJob devuelve la orden completa.
func (uc *UseCase) GetJob(ctx context.Context, jobID string) (*entity.Job, error) {
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

// ListJobs lista órdenes de una sucursal, opcionalmente filtradas por estado.
func (uc *UseCase) ListJobs(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.Job, error) {
	return uc.jobRepo.ListByStore(ctx, storeID, status, limit, offset)
}

// ── helpers ──

// loadJob obtiene la orden o ErrNotFound.
func loadJob(ctx context.Context, r repository.TxRepos, jobID string) (*entity.Job, error) {
	job, err := r.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

// openJob obtiene la orden y exige que no esté en estado terminal.
func openJob(ctx context.Context, r repository.TxRepos, jobID string) (*entity.Job, error) {
	job, err := loadJob(ctx, r, jobID)
	if err != nil {
		return nil, err
	}
	if entity.IsTerminalJobStatus(job.Status) {
		return nil, domain.ErrConflict
	}
	return job, nil
}

// mustPart obtiene el repuesto o ErrNotFound.
func mustPart(ctx context.Context, r repository.TxRepos, partID string) (*entity.Part, error) {
	part, err := r.Parts.GetByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	return part, nil
}

// checkIdempotency rechaza con ErrDuplicate si la llave ya fue aplicada.
func checkIdempotency(ctx context.Context, r repository.TxRepos, key string) error {
	if key == "" {
		return nil
	}
	exists, err := r.Ledger.ExistsIdempotencyKey(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicate
	}
	return nil
}

func isInsufficientStock(err error) bool {
	return errors.Is(err, domain.ErrInsufficientStock)
}
