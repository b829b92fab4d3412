package entity

import "time"

// StockRecord stock de un repuesto en una sucursal (clave única part+store[+location]).
// Quantity es lo disponible para nuevas reservas; ReservedQuantity lo comprometido
// a órdenes abiertas. Reservar MUEVE unidades de Quantity a ReservedQuantity, no
// las duplica. Invariante: Quantity >= 0 y ReservedQuantity >= 0 siempre.
// Se crea perezosamente con el primer evento de stock; nunca se elimina.
type StockRecord struct {
	ID               string
	PartID           string
	StoreID          string
	LocationID       string // opcional: estante/vitrina dentro de la sucursal
	Quantity         int
	ReservedQuantity int
	UpdatedAt        time.Time
}

// Total stock físico (disponible + reservado). Es la magnitud que concilia
// contra la suma de QtyChange del libro de transacciones.
func (s *StockRecord) Total() int {
	return s.Quantity + s.ReservedQuantity
}
