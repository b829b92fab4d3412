package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/TallerPos-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repositorios atados a esa tx
// y hace Commit si fn retorna nil, Rollback si no. Así cada operación lógica
// del motor (mutación de stock + asiento del libro + orden + alertas) es una
// unidad: un fallo parcial nunca deja Stock/Libro/Orden inconsistentes.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := repository.TxRepos{
		Stock:          NewStockRecordRepository(tx),
		Ledger:         NewTransactionRepository(tx),
		Jobs:           NewJobRepository(tx),
		Notifications:  NewNotificationRepository(tx),
		PurchaseOrders: NewPurchaseOrderRepository(tx),
		Parts:          NewPartRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
