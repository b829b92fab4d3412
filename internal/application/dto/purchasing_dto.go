package dto

import "github.com/shopspring/decimal"

// POLineRequest línea de una orden de compra nueva.
type POLineRequest struct {
	PartID   string          `json:"part_id"`
	Qty      int             `json:"qty"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest alta de orden de compra.
type CreatePurchaseOrderRequest struct {
	StoreID    string          `json:"store_id"`
	SupplierID string          `json:"supplier_id"`
	Note       string          `json:"note"`
	Lines      []POLineRequest `json:"lines"`
}

// ReceiptItemRequest repuesto recibido en un lote.
type ReceiptItemRequest struct {
	PartID        string   `json:"part_id"`
	Qty           int      `json:"qty"`
	SerialNumbers []string `json:"serial_numbers"`
}

// ReceivePurchaseOrderRequest lote de recepción contra una orden.
type ReceivePurchaseOrderRequest struct {
	Items []ReceiptItemRequest `json:"items"`
	Note  string               `json:"note"`
}

// VendorReturnRequest devolución de mercancía al proveedor.
type VendorReturnRequest struct {
	POID    string `json:"po_id"`
	PartID  string `json:"part_id"`
	StoreID string `json:"store_id"`
	Qty     int    `json:"qty"`
	Reason  string `json:"reason"`
}
