package repository

import "context"

// TxRepos repositorios atados a una misma transacción de base de datos.
type TxRepos struct {
	Stock          StockRecordRepository
	Ledger         TransactionRepository
	Jobs           JobRepository
	Notifications  NotificationRepository
	PurchaseOrders PurchaseOrderRepository
	Parts          PartRepository
}

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a
// esa tx. Cada operación lógica del motor (reservar, usar, revertir, recibir,
// ajustar) corre completa dentro de un Run: mutación de stock, asiento del
// libro, guardado de la orden y chequeo de alertas comitean o revierten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
