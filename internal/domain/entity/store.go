package entity

import "time"

// Store representa una sucursal del taller; delimita inventario y órdenes de reparación.
type Store struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
