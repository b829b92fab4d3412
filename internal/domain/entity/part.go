package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultReorderThreshold umbral de reorden cuando el repuesto no define uno propio.
const DefaultReorderThreshold = 5

// Part representa un repuesto del catálogo (pantallas, baterías, flex, etc.).
// El SKU es la identidad inmutable; precio y umbral los ajusta el encargado de catálogo.
// Nunca se elimina físicamente: el historial de transacciones lo referencia.
type Part struct {
	ID               string
	SKU              string // único
	Name             string
	Brand            string
	Category         string
	Series           string
	Cost             decimal.Decimal // costo de compra
	Price            decimal.Decimal // precio al público
	ReorderThreshold int             // 0 = usar DefaultReorderThreshold
	Serialized       bool            // true si cada unidad lleva número de serie
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Threshold devuelve el umbral efectivo de reorden.
func (p *Part) Threshold() int {
	if p.ReorderThreshold > 0 {
		return p.ReorderThreshold
	}
	return DefaultReorderThreshold
}
