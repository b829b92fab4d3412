package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleTechnician = "technician"
)

// User usuario del sistema, asignado a una sucursal.
type User struct {
	ID           string
	StoreID      string
	Email        string
	PasswordHash string // bcrypt, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, manager, technician
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
