package dto

import "github.com/shopspring/decimal"

// CreatePartRequest alta de repuesto en catálogo.
type CreatePartRequest struct {
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Brand            string          `json:"brand"`
	Category         string          `json:"category"`
	Series           string          `json:"series"`
	Cost             decimal.Decimal `json:"cost"`
	Price            decimal.Decimal `json:"price"`
	ReorderThreshold int             `json:"reorder_threshold"`
	Serialized       bool            `json:"serialized"`
}

// UpdatePartRequest campos mutables de un repuesto (SKU es inmutable).
type UpdatePartRequest struct {
	Name             string           `json:"name"`
	Brand            string           `json:"brand"`
	Category         string           `json:"category"`
	Series           string           `json:"series"`
	Cost             *decimal.Decimal `json:"cost"`
	Price            *decimal.Decimal `json:"price"`
	ReorderThreshold *int             `json:"reorder_threshold"`
}

// CreateStoreRequest alta de sucursal.
type CreateStoreRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// CreateSupplierRequest alta de proveedor.
type CreateSupplierRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateCustomerRequest alta de cliente.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}
