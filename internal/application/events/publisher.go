package events

import "context"

// Nombres de evento emitidos a los colaboradores (UI en vivo).
const (
	EventStockUpdate = "stock_update"
	EventJobUpdate   = "job_update"
)

// Publisher puerto de fan-out de eventos hacia los clientes conectados.
// Fire-and-forget: la entrega es best-effort y nunca bloquea ni revierte la
// mutación subyacente, por eso los métodos no devuelven error. Los casos de uso
// publican únicamente después del commit.
type Publisher interface {
	StockUpdate(ctx context.Context, partID, storeID string)
	JobUpdate(ctx context.Context, jobID string)
}

// Nop descarta los eventos (tests o despliegues sin Redis).
type Nop struct{}

func (Nop) StockUpdate(context.Context, string, string) {}
func (Nop) JobUpdate(context.Context, string)           {}
