package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra. El estado de recepción es derivado:
// received si toda línea tiene ReceivedQty >= OrderedQty, si no partial_received.
const (
	POStatusOrdered         = "ordered"
	POStatusPartialReceived = "partial_received"
	POStatusReceived        = "received"
	POStatusCancelled       = "cancelled"
)

// POLine línea de una orden de compra.
type POLine struct {
	ID          string          `json:"id"`
	PartID      string          `json:"part_id"`
	OrderedQty  int             `json:"ordered_qty"`
	ReceivedQty int             `json:"received_qty"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// POReceiptItem repuesto recibido dentro de un lote de recepción.
type POReceiptItem struct {
	PartID        string   `json:"part_id"`
	Qty           int      `json:"qty"`
	SerialNumbers []string `json:"serial_numbers,omitempty"`
}

// POReceipt lote de recepción contra la orden; sub-registro inmutable para
// auditoría. Soporta recepciones parciales múltiples a lo largo del tiempo.
type POReceipt struct {
	ID         string          `json:"id"`
	Items      []POReceiptItem `json:"items"`
	ReceivedBy string          `json:"received_by"`
	Note       string          `json:"note,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
}

// PurchaseOrder orden de compra a un proveedor con historial de recepciones.
type PurchaseOrder struct {
	ID         string
	StoreID    string
	SupplierID string
	Status     string
	Lines      []POLine
	Receipts   []POReceipt
	Note       string
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FindLine devuelve la línea del repuesto o nil.
func (po *PurchaseOrder) FindLine(partID string) *POLine {
	for i := range po.Lines {
		if po.Lines[i].PartID == partID {
			return &po.Lines[i]
		}
	}
	return nil
}

// RecomputeStatus recalcula el estado derivado tras una recepción.
// No toca órdenes canceladas.
func (po *PurchaseOrder) RecomputeStatus() {
	if po.Status == POStatusCancelled {
		return
	}
	complete := true
	for i := range po.Lines {
		if po.Lines[i].ReceivedQty < po.Lines[i].OrderedQty {
			complete = false
			break
		}
	}
	if complete {
		po.Status = POStatusReceived
		return
	}
	for i := range po.Lines {
		if po.Lines[i].ReceivedQty > 0 {
			po.Status = POStatusPartialReceived
			return
		}
	}
	po.Status = POStatusOrdered
}

// IsTerminal true si la orden ya no acepta recepciones.
func (po *PurchaseOrder) IsTerminal() bool {
	return po.Status == POStatusReceived || po.Status == POStatusCancelled
}
