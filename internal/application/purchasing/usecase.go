package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/TallerPos-api/internal/application/alerts"
	"github.com/jhoicas/TallerPos-api/internal/application/events"
	"github.com/jhoicas/TallerPos-api/internal/domain"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
	"github.com/jhoicas/TallerPos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// UseCase órdenes de compra: creación, recepción de mercancía (camino
// independiente hacia los mismos invariantes de stock), devoluciones a
// proveedor y cancelación.
type UseCase struct {
	txRunner     repository.TxRunner
	poRepo       repository.PurchaseOrderRepository
	partRepo     repository.PartRepository
	storeRepo    repository.StoreRepository
	supplierRepo repository.SupplierRepository
	publisher    events.Publisher
}

// NewUseCase construye el caso de uso de compras.
func NewUseCase(
	txRunner repository.TxRunner,
	poRepo repository.PurchaseOrderRepository,
	partRepo repository.PartRepository,
	storeRepo repository.StoreRepository,
	supplierRepo repository.SupplierRepository,
	publisher events.Publisher,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		poRepo:       poRepo,
		partRepo:     partRepo,
		storeRepo:    storeRepo,
		supplierRepo: supplierRepo,
		publisher:    publisher,
	}
}

// CreateLineInput línea de una orden de compra nueva.
type CreateLineInput struct {
	PartID   string
	Qty      int
	UnitCost decimal.Decimal
}

// CreateInput datos para crear una orden de compra.
type CreateInput struct {
	StoreID    string
	SupplierID string
	Note       string
	Lines      []CreateLineInput
	UserID     string
}

// CreatePurchaseOrder crea la orden en estado ordered.
func (uc *UseCase) CreatePurchaseOrder(ctx context.Context, in CreateInput) (*entity.PurchaseOrder, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	store, err := uc.storeRepo.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if store == nil || supplier == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		StoreID:    in.StoreID,
		SupplierID: in.SupplierID,
		Status:     entity.POStatusOrdered,
		Note:       in.Note,
		CreatedBy:  in.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, line := range in.Lines {
		if line.Qty <= 0 {
			return nil, domain.ErrInvalidInput
		}
		part, err := uc.partRepo.GetByID(ctx, line.PartID)
		if err != nil {
			return nil, err
		}
		if part == nil {
			return nil, domain.ErrNotFound
		}
		po.Lines = append(po.Lines, entity.POLine{
			ID:         uuid.New().String(),
			PartID:     line.PartID,
			OrderedQty: line.Qty,
			UnitCost:   line.UnitCost,
		})
	}
	if err := uc.poRepo.Create(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// ReceiptItemInput repuesto recibido en un lote.
type ReceiptItemInput struct {
	PartID        string
	Qty           int
	SerialNumbers []string
}

// ReceiveInput lote de recepción contra una orden de compra.
type ReceiveInput struct {
	POID   string
	Items  []ReceiptItemInput
	Note   string
	UserID string
}

// ReceivePurchaseOrder procesa un lote de recepción: por línea incrementa
// ReceivedQty, suma al stock disponible (creando el registro si no existe),
// asienta purchase_receive referenciando la orden y corre el notificador (una
// recepción puede limpiar una alerta). Al final recalcula el estado derivado y
// guarda el lote completo como sub-registro inmutable. Recibir contra una orden
// received o cancelled se rechaza (ErrConflict).
func (uc *UseCase) ReceivePurchaseOrder(ctx context.Context, in ReceiveInput) (*entity.PurchaseOrder, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var po *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		var err error
		po, err = r.PurchaseOrders.GetByID(ctx, in.POID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if po.IsTerminal() {
			return domain.ErrConflict
		}
		now := time.Now()
		receipt := entity.POReceipt{
			ID:         uuid.New().String(),
			ReceivedBy: in.UserID,
			Note:       in.Note,
			ReceivedAt: now,
		}
		for _, item := range in.Items {
			if item.Qty <= 0 {
				return domain.ErrInvalidInput
			}
			line := po.FindLine(item.PartID)
			if line == nil {
				// El repuesto no está en la orden
				return domain.ErrInvalidInput
			}
			part, err := r.Parts.GetByID(ctx, item.PartID)
			if err != nil {
				return err
			}
			if part == nil {
				return domain.ErrNotFound
			}
			line.ReceivedQty += item.Qty
			rec, err := r.Stock.AddOnHand(ctx, item.PartID, po.StoreID, item.Qty)
			if err != nil {
				return err
			}
			if err := r.Ledger.Create(ctx, &entity.Transaction{
				ID:          uuid.New().String(),
				PartID:      item.PartID,
				StoreID:     po.StoreID,
				Type:        entity.TxTypePurchaseReceive,
				QtyChange:   item.Qty,
				PrevQty:     rec.Total() - item.Qty,
				NewQty:      rec.Total(),
				Ref:         entity.TxRef{Kind: entity.RefPurchaseOrder, ID: po.ID},
				PerformedBy: in.UserID,
				Note:        in.Note,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
			receipt.Items = append(receipt.Items, entity.POReceiptItem{
				PartID:        item.PartID,
				Qty:           item.Qty,
				SerialNumbers: item.SerialNumbers,
			})
			if err := alerts.CheckLowStock(ctx, r.Notifications, part, rec); err != nil {
				return err
			}
		}
		po.Receipts = append(po.Receipts, receipt)
		po.RecomputeStatus()
		po.UpdatedAt = now
		return r.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	for _, item := range in.Items {
		uc.publisher.StockUpdate(ctx, item.PartID, po.StoreID)
	}
	return po, nil
}

// VendorReturnInput devolución de mercancía al proveedor.
type VendorReturnInput struct {
	POID    string // opcional: orden de compra origen
	PartID  string
	StoreID string
	Qty     int
	Reason  string
	UserID  string
}

// ReturnToVendor descuenta del disponible (condicional) y asienta vendor_return;
// si se indica la orden de compra origen, el asiento la referencia.
func (uc *UseCase) ReturnToVendor(ctx context.Context, in VendorReturnInput) (*entity.StockRecord, error) {
	if in.Qty <= 0 || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	var rec *entity.StockRecord
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		part, err := r.Parts.GetByID(ctx, in.PartID)
		if err != nil {
			return err
		}
		if part == nil {
			return domain.ErrNotFound
		}
		ref := entity.TxRef{}
		if in.POID != "" {
			po, err := r.PurchaseOrders.GetByID(ctx, in.POID)
			if err != nil {
				return err
			}
			if po == nil {
				return domain.ErrNotFound
			}
			ref = entity.TxRef{Kind: entity.RefPurchaseOrder, ID: po.ID}
		}
		rec, err = r.Stock.ConsumeOnHand(ctx, in.PartID, in.StoreID, in.Qty)
		if err != nil {
			return err
		}
		if err := r.Ledger.Create(ctx, &entity.Transaction{
			ID:          uuid.New().String(),
			PartID:      in.PartID,
			StoreID:     in.StoreID,
			Type:        entity.TxTypeVendorReturn,
			QtyChange:   -in.Qty,
			PrevQty:     rec.Total() + in.Qty,
			NewQty:      rec.Total(),
			Ref:         ref,
			PerformedBy: in.UserID,
			Reason:      in.Reason,
			CreatedAt:   time.Now(),
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

// CancelPurchaseOrder cancela una orden sin recepciones; con mercancía ya
// recibida se rechaza (ErrConflict).
func (uc *UseCase) CancelPurchaseOrder(ctx context.Context, poID, userID string) (*entity.PurchaseOrder, error) {
	po, err := uc.poRepo.GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.Status != entity.POStatusOrdered || len(po.Receipts) > 0 {
		return nil, domain.ErrConflict
	}
	po.Status = entity.POStatusCancelled
	po.UpdatedAt = time.Now()
	if err := uc.poRepo.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// GetPurchaseOrder devuelve la orden completa.
func (uc *UseCase) GetPurchaseOrder(ctx context.Context, poID string) (*entity.PurchaseOrder, error) {
	po, err := uc.poRepo.GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return po, nil
}

// ListPurchaseOrders lista órdenes de una sucursal, opcionalmente por estado.
func (uc *UseCase) ListPurchaseOrders(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	return uc.poRepo.ListByStore(ctx, storeID, status, limit, offset)
}
