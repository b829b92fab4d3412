package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/TallerPos-api/internal/application/alerts"
	"github.com/jhoicas/TallerPos-api/internal/application/events"
	"github.com/jhoicas/TallerPos-api/internal/domain"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
	"github.com/jhoicas/TallerPos-api/internal/domain/repository"
)

// UseCase operaciones de stock fuera del ciclo de órdenes: ajustes manuales,
// uso general (consumo de taller sin orden), traslados entre sucursales y el
// lado de lectura (stock, asignaciones, historial del libro).
type UseCase struct {
	txRunner  repository.TxRunner
	stockRepo repository.StockRecordRepository
	ledger    repository.TransactionRepository
	partRepo  repository.PartRepository
	storeRepo repository.StoreRepository
	jobRepo   repository.JobRepository
	publisher events.Publisher
}

// NewUseCase construye el caso de uso de inventario.
func NewUseCase(
	txRunner repository.TxRunner,
	stockRepo repository.StockRecordRepository,
	ledger repository.TransactionRepository,
	partRepo repository.PartRepository,
	storeRepo repository.StoreRepository,
	jobRepo repository.JobRepository,
	publisher events.Publisher,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		stockRepo: stockRepo,
		ledger:    ledger,
		partRepo:  partRepo,
		storeRepo: storeRepo,
		jobRepo:   jobRepo,
		publisher: publisher,
	}
}

// AdjustInput ajuste manual de inventario (conteo físico, merma, corrección).
type AdjustInput struct {
	PartID         string
	StoreID        string
	QtyChange      int // firmado; negativo descuenta con guarda de no-negatividad
	Reason         string
	Note           string
	UserID         string
	IdempotencyKey string
}

// AdjustInventory aplica un ajuste firmado. Un ajuste negativo mayor que el
// disponible se rechaza completo (InsufficientStock); nunca se cruza el cero.
func (uc *UseCase) AdjustInventory(ctx context.Context, in AdjustInput) (*entity.StockRecord, error) {
	if in.QtyChange == 0 || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.mustExist(ctx, in.PartID, in.StoreID); err != nil {
		return nil, err
	}
	var rec *entity.StockRecord
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		if err := checkIdempotency(ctx, r, in.IdempotencyKey); err != nil {
			return err
		}
		part, err := r.Parts.GetByID(ctx, in.PartID)
		if err != nil {
			return err
		}
		if in.QtyChange > 0 {
			rec, err = r.Stock.AddOnHand(ctx, in.PartID, in.StoreID, in.QtyChange)
		} else {
			rec, err = r.Stock.ConsumeOnHand(ctx, in.PartID, in.StoreID, -in.QtyChange)
		}
		if err != nil {
			return err
		}
		now := time.Now()
		if err := r.Ledger.Create(ctx, &entity.Transaction{
			ID:             uuid.New().String(),
			PartID:         in.PartID,
			StoreID:        in.StoreID,
			Type:           entity.TxTypeAdjustment,
			QtyChange:      in.QtyChange,
			PrevQty:        rec.Total() - in.QtyChange,
			NewQty:         rec.Total(),
			PerformedBy:    in.UserID,
			Reason:         in.Reason,
			Note:           in.Note,
			IdempotencyKey: in.IdempotencyKey,
			CreatedAt:      now,
		}); err != nil {
			return err
		}
		return alerts.CheckLowStock(ctx, r.Notifications, part, rec)
	})
	if err != nil {
		return nil, err
	}
	uc.publisher.StockUpdate(ctx, in.PartID, in.StoreID)
	return rec, nil
}

// GeneralUsageInput consumo de taller sin orden asociada (limpieza, pruebas).
type GeneralUsageInput struct {
	PartID         string
	StoreID        string
	Qty            int
	TechID         string
	Note           string
	IdempotencyKey string
}

// LogGeneralUsage descuenta stock disponible sin orden de por medio y deja el
// asiento job_use sin referencia.
func (uc *UseCase) LogGeneralUsage(ctx context.Context, in GeneralUsageInput) (*entity.StockRecord, error) {
	if in.Qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.mustExist(ctx, in.PartID, in.StoreID); err != nil {
		return nil, err
	}
	var rec *entity.StockRecord
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		if err := checkIdempotency(ctx, r, in.IdempotencyKey); err != nil {
			return err
		}
		part, err := r.Parts.GetByID(ctx, in.PartID)
		if err != nil {
			return err
		}
		rec, err = r.Stock.ConsumeOnHand(ctx, in.PartID, in.StoreID, in.Qty)
		if err != nil {
			return err
		}
		if err := r.Ledger.Create(ctx, &entity.Transaction{
			ID:             uuid.New().String(),
			PartID:         in.PartID,
			StoreID:        in.StoreID,
			Type:           entity.TxTypeJobUse,
			QtyChange:      -in.Qty,
			PrevQty:        rec.Total() + in.Qty,
			NewQty:         rec.Total(),
			PerformedBy:    in.TechID,
			Reason:         "uso general",
			Note:           in.Note,
			IdempotencyKey: in.IdempotencyKey,
			CreatedAt:      time.Now(),
		}); err != nil {
			return err
		}
		return alerts.CheckLowStock(ctx, r.Notifications, part, rec)
	})
	if err != nil {
		return nil, err
	}
	uc.publisher.StockUpdate(ctx, in.PartID, in.StoreID)
	return rec, nil
}

// TransferInput traslado de stock disponible entre sucursales.
type TransferInput struct {
	PartID      string
	FromStoreID string
	ToStoreID   string
	Qty         int
	Note        string
	UserID      string
}

// TransferStock descuenta del disponible en origen (condicional) y suma en
// destino dentro de una misma transacción; deja el par de asientos
// transfer_out / transfer_in con la misma nota.
func (uc *UseCase) TransferStock(ctx context.Context, in TransferInput) error {
	if in.Qty <= 0 || in.FromStoreID == in.ToStoreID {
		return domain.ErrInvalidInput
	}
	if err := uc.mustExist(ctx, in.PartID, in.FromStoreID); err != nil {
		return err
	}
	if err := uc.mustStore(ctx, in.ToStoreID); err != nil {
		return err
	}
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		part, err := r.Parts.GetByID(ctx, in.PartID)
		if err != nil {
			return err
		}
		origin, err := r.Stock.ConsumeOnHand(ctx, in.PartID, in.FromStoreID, in.Qty)
		if err != nil {
			return err
		}
		dest, err := r.Stock.AddOnHand(ctx, in.PartID, in.ToStoreID, in.Qty)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := r.Ledger.Create(ctx, &entity.Transaction{
			ID:          uuid.New().String(),
			PartID:      in.PartID,
			StoreID:     in.FromStoreID,
			Type:        entity.TxTypeTransferOut,
			QtyChange:   -in.Qty,
			PrevQty:     origin.Total() + in.Qty,
			NewQty:      origin.Total(),
			PerformedBy: in.UserID,
			Note:        in.Note,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		if err := r.Ledger.Create(ctx, &entity.Transaction{
			ID:          uuid.New().String(),
			PartID:      in.PartID,
			StoreID:     in.ToStoreID,
			Type:        entity.TxTypeTransferIn,
			QtyChange:   in.Qty,
			PrevQty:     dest.Total() - in.Qty,
			NewQty:      dest.Total(),
			PerformedBy: in.UserID,
			Note:        in.Note,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		if err := alerts.CheckLowStock(ctx, r.Notifications, part, origin); err != nil {
			return err
		}
		return alerts.CheckLowStock(ctx, r.Notifications, part, dest)
	})
	if err != nil {
		return err
	}
	uc.publisher.StockUpdate(ctx, in.PartID, in.FromStoreID)
	uc.publisher.StockUpdate(ctx, in.PartID, in.ToStoreID)
	return nil
}

// GetStock devuelve el registro de stock (en cero si aún no existe).
func (uc *UseCase) GetStock(ctx context.Context, partID, storeID string) (*entity.StockRecord, error) {
	if err := uc.mustExist(ctx, partID, storeID); err != nil {
		return nil, err
	}
	return uc.stockRepo.Get(ctx, partID, storeID)
}

// ListStock lista el stock de una sucursal.
func (uc *UseCase) ListStock(ctx context.Context, storeID string, limit, offset int) ([]*entity.StockRecord, error) {
	return uc.stockRepo.ListByStore(ctx, storeID, limit, offset)
}

// GetAllocations desglosa ReservedQuantity de un registro de stock: qué órdenes
// abiertas tienen líneas reservadas contra él.
func (uc *UseCase) GetAllocations(ctx context.Context, stockRecordID string) ([]repository.ReservationAllocation, error) {
	rec, err := uc.stockRepo.GetByID(ctx, stockRecordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return uc.jobRepo.ListOpenReservations(ctx, rec.PartID, rec.StoreID)
}

// GetTransactionHistory historial del libro con filtros.
func (uc *UseCase) GetTransactionHistory(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return uc.ledger.List(ctx, filter)
}

// mustExist verifica que el repuesto y la sucursal existan.
func (uc *UseCase) mustExist(ctx context.Context, partID, storeID string) error {
	part, err := uc.partRepo.GetByID(ctx, partID)
	if err != nil {
		return err
	}
	if part == nil {
		return domain.ErrNotFound
	}
	return uc.mustStore(ctx, storeID)
}

func (uc *UseCase) mustStore(ctx context.Context, storeID string) error {
	store, err := uc.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store == nil {
		return domain.ErrNotFound
	}
	return nil
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
