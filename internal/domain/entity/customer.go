package entity

import "time"

// Customer cliente del taller. Las órdenes guardan un snapshot de nombre y
// teléfono al momento de crearse, así que editar el cliente no reescribe historial.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
