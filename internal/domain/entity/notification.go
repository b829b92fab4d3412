package entity

import "time"

// Tipos de notificación.
const (
	NotificationTypeLowStock = "low_stock"
)

// Notification alerta derivada ligada a (sucursal, repuesto).
// A lo sumo una alerta low_stock sin leer por par a la vez.
type Notification struct {
	ID        string
	Type      string
	StoreID   string
	PartID    string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
