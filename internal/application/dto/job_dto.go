package dto

// JobPartRequest repuesto a reservar al crear la orden.
type JobPartRequest struct {
	PartID string `json:"part_id"`
	Qty    int    `json:"qty"`
}

// CreateJobRequest alta de orden de reparación.
type CreateJobRequest struct {
	StoreID        string           `json:"store_id"`
	CustomerID     string           `json:"customer_id"`
	CustomerName   string           `json:"customer_name"`
	CustomerPhone  string           `json:"customer_phone"`
	DeviceModel    string           `json:"device_model"`
	TechnicianID   string           `json:"technician_id"`
	PartsToReserve []JobPartRequest `json:"parts_to_reserve"`
}

// ReservePartRequest reserva explícita sobre una orden abierta.
type ReservePartRequest struct {
	PartID string `json:"part_id"`
	Qty    int    `json:"qty"`
}

// UsePartRequest instalación de un repuesto.
type UsePartRequest struct {
	PartID         string `json:"part_id"`
	Qty            int    `json:"qty"`
	SerialNumber   string `json:"serial_number"`
	Note           string `json:"note"`
	IdempotencyKey string `json:"idempotency_key"`
}

// UpdateJobStatusRequest transición de estado de la orden.
type UpdateJobStatusRequest struct {
	Status string `json:"status"`
}

// CancelJobRequest cancelación con motivo.
type CancelJobRequest struct {
	Reason string `json:"reason"`
}
