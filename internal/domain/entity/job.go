package entity

import "time"

// Estados de una orden de reparación.
const (
	JobStatusPending      = "pending"
	JobStatusDiagnosing   = "diagnosing"
	JobStatusWaitingParts = "waiting_parts"
	JobStatusInProgress   = "in_progress"
	JobStatusCompleted    = "completed"
	JobStatusCancelled    = "cancelled"
	JobStatusReturned     = "returned"
)

// Estados de una línea de repuesto solicitada (ciclo de reserva).
const (
	PartLineStatusPending   = "pending"
	PartLineStatusReserved  = "reserved"
	PartLineStatusUsed      = "used"
	PartLineStatusCancelled = "cancelled"
)

// jobTransitions transiciones de estado permitidas.
var jobTransitions = map[string][]string{
	JobStatusPending:      {JobStatusDiagnosing, JobStatusWaitingParts, JobStatusInProgress, JobStatusCancelled},
	JobStatusDiagnosing:   {JobStatusWaitingParts, JobStatusInProgress, JobStatusCancelled},
	JobStatusWaitingParts: {JobStatusInProgress, JobStatusCancelled},
	JobStatusInProgress:   {JobStatusCompleted, JobStatusCancelled, JobStatusReturned},
}

// CanTransition indica si el paso from→to está permitido.
func CanTransition(from, to string) bool {
	for _, s := range jobTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminalJobStatus true para completed, cancelled y returned.
func IsTerminalJobStatus(status string) bool {
	return status == JobStatusCompleted || status == JobStatusCancelled || status == JobStatusReturned
}

// PartLine línea de repuesto solicitada en una orden; sigue el ciclo de reserva
// pending → reserved → used | cancelled. Qty es lo que queda vivo en ese estado
// (al consumir parcialmente se decrementa).
type PartLine struct {
	ID        string    `json:"id"`
	PartID    string    `json:"part_id"`
	Qty       int       `json:"qty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// PartUsage registro inmutable de instalación de un repuesto en el equipo.
// Referencia la línea de la que se consumió (LineID vacío = consumo directo sin reserva).
// Solo se elimina mediante la reversión explícita (ReverseUsePart).
type PartUsage struct {
	ID           string    `json:"id"`
	LineID       string    `json:"line_id,omitempty"`
	PartID       string    `json:"part_id"`
	Qty          int       `json:"qty"`
	SerialNumber string    `json:"serial_number,omitempty"`
	TechID       string    `json:"tech_id"`
	UsedAt       time.Time `json:"used_at"`
}

// JobNote nota de auditoría sobre la orden (uso, reversión, cancelación, etc.).
type JobNote struct {
	Text      string    `json:"text"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Job orden de reparación: snapshot del cliente, equipo, técnico asignado y
// las dos listas de repuestos (solicitados y efectivamente instalados).
// Invariante: la suma de Qty reservado por repuesto en órdenes abiertas no debe
// exceder ReservedQuantity del StockRecord de esa sucursal (espejo agregado).
type Job struct {
	ID            string
	StoreID       string
	CustomerID    string
	CustomerName  string // snapshot al crear la orden
	CustomerPhone string
	DeviceModel   string
	Status        string
	TechnicianID  string
	PartLines     []PartLine
	PartsUsed     []PartUsage
	Notes         []JobNote
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FindLine devuelve la línea por ID o nil.
func (j *Job) FindLine(lineID string) *PartLine {
	for i := range j.PartLines {
		if j.PartLines[i].ID == lineID {
			return &j.PartLines[i]
		}
	}
	return nil
}

// ReservedLineFor devuelve la primera línea en estado reserved para el repuesto, o nil.
func (j *Job) ReservedLineFor(partID string) *PartLine {
	for i := range j.PartLines {
		if j.PartLines[i].PartID == partID && j.PartLines[i].Status == PartLineStatusReserved {
			return &j.PartLines[i]
		}
	}
	return nil
}

// FindUsage devuelve el registro de instalación por ID o nil.
func (j *Job) FindUsage(usageID string) *PartUsage {
	for i := range j.PartsUsed {
		if j.PartsUsed[i].ID == usageID {
			return &j.PartsUsed[i]
		}
	}
	return nil
}

// RemoveUsage elimina el registro de instalación por ID (reversión).
func (j *Job) RemoveUsage(usageID string) {
	for i := range j.PartsUsed {
		if j.PartsUsed[i].ID == usageID {
			j.PartsUsed = append(j.PartsUsed[:i], j.PartsUsed[i+1:]...)
			return
		}
	}
}

// AppendNote agrega una nota de auditoría.
func (j *Job) AppendNote(text, userID string, at time.Time) {
	j.Notes = append(j.Notes, JobNote{Text: text, UserID: userID, CreatedAt: at})
}
