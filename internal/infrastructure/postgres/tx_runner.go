package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
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

// Run inicia una transacción, ejecuta fn con el paquete completo de
// repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx *repository.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := &repository.Tx{
		Products:    NewProductRepository(tx),
		Suppliers:   NewSupplierRepository(tx),
		Customers:   NewCustomerRepository(tx),
		Shipments:   NewShipmentRepository(tx),
		Batches:     NewBatchRepository(tx),
		Carryovers:  NewCarryoverRepository(tx),
		Invoices:    NewInvoiceRepository(tx),
		Collections: NewCollectionRepository(tx),
		Accounts:    NewAccountRepository(tx),
		Expenses:    NewExpenseRepository(tx),
		Workdays:    NewWorkdayRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
