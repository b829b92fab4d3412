package entity

import "time"

// Tipos de transacción de inventario (libro append-only).
const (
	TxTypeAdjustment         = "adjustment"
	TxTypeJobUse             = "job_use"
	TxTypeJobReturn          = "job_return"
	TxTypePurchaseReceive    = "purchase_receive"
	TxTypeTransferIn         = "transfer_in"
	TxTypeTransferOut        = "transfer_out"
	TxTypeVendorReturn       = "vendor_return"
	TxTypeReservationRelease = "reservation_release" // liberación de reserva al cancelar una orden
)

// RefKind conjunto cerrado de tipos de referencia de una transacción.
// Reemplaza la foreign key polimórfica por un par (kind, id) que el lector
// puede hacer match exhaustivo.
type RefKind string

const (
	RefNone          RefKind = ""
	RefJob           RefKind = "job"
	RefPurchaseOrder RefKind = "purchase_order"
)

// TxRef referencia opcional de una transacción a su documento origen.
type TxRef struct {
	Kind RefKind
	ID   string
}

// Transaction asiento inmutable del libro de inventario: todo cambio de cantidad
// de un repuesto en una sucursal deja exactamente un registro. Nunca se muta.
// PrevQty/NewQty son snapshots del stock TOTAL (disponible + reservado), de modo
// que sum(QtyChange) por (part, store) concilia con Quantity+ReservedQuantity.
// IdempotencyKey (opcional, único) rechaza reintentos ciegos de la misma operación.
type Transaction struct {
	ID             string
	PartID         string
	StoreID        string
	Type           string
	QtyChange      int // firmado: negativo consume, positivo ingresa
	PrevQty        int
	NewQty         int
	Ref            TxRef
	PerformedBy    string
	Reason         string
	Note           string
	IdempotencyKey string
	CreatedAt      time.Time
}
