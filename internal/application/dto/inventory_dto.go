package dto

import "time"

// AdjustInventoryRequest ajuste manual firmado.
type AdjustInventoryRequest struct {
	PartID         string `json:"part_id"`
	StoreID        string `json:"store_id"`
	QtyChange      int    `json:"qty_change"`
	Reason         string `json:"reason"`
	Note           string `json:"note"`
	IdempotencyKey string `json:"idempotency_key"`
}

// GeneralUsageRequest consumo de taller sin orden.
type GeneralUsageRequest struct {
	PartID         string `json:"part_id"`
	StoreID        string `json:"store_id"`
	Qty            int    `json:"qty"`
	Note           string `json:"note"`
	IdempotencyKey string `json:"idempotency_key"`
}

// TransferStockRequest traslado entre sucursales.
type TransferStockRequest struct {
	PartID      string `json:"part_id"`
	FromStoreID string `json:"from_store_id"`
	ToStoreID   string `json:"to_store_id"`
	Qty         int    `json:"qty"`
	Note        string `json:"note"`
}

// StockResponse registro de stock.
type StockResponse struct {
	ID               string    `json:"id,omitempty"`
	PartID           string    `json:"part_id"`
	StoreID          string    `json:"store_id"`
	Quantity         int       `json:"quantity"`
	ReservedQuantity int       `json:"reserved_quantity"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TransactionHistoryRequest filtros del historial del libro.
type TransactionHistoryRequest struct {
	PartID  string `query:"part_id"`
	StoreID string `query:"store_id"`
	Type    string `query:"type"`
	From    string `query:"from"` // RFC 3339
	To      string `query:"to"`
	Limit   int    `query:"limit"`
	Offset  int    `query:"offset"`
}

// TransactionResponse asiento del libro.
type TransactionResponse struct {
	ID          string    `json:"id"`
	PartID      string    `json:"part_id"`
	StoreID     string    `json:"store_id"`
	Type        string    `json:"type"`
	QtyChange   int       `json:"qty_change"`
	PrevQty     int       `json:"prev_qty"`
	NewQty      int       `json:"new_qty"`
	RefKind     string    `json:"ref_kind,omitempty"`
	RefID       string    `json:"ref_id,omitempty"`
	PerformedBy string    `json:"performed_by"`
	Reason      string    `json:"reason,omitempty"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AllocationResponse línea reservada de una orden abierta.
type AllocationResponse struct {
	JobID        string `json:"job_id"`
	LineID       string `json:"line_id"`
	Qty          int    `json:"qty"`
	TechnicianID string `json:"technician_id,omitempty"`
	JobStatus    string `json:"job_status"`
}
