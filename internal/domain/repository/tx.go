package repository

import "context"

// Tx agrupa los repositorios atados a una misma transacción. Toda
// mutación multi-entidad (factura, cobro, liquidación, tesorería) pasa
// por aquí: o se aplica completa o no se observa nada.
type Tx struct {
	Products    ProductRepository
	Suppliers   SupplierRepository
	Customers   CustomerRepository
	Shipments   ShipmentRepository
	Batches     BatchRepository
	Carryovers  CarryoverRepository
	Invoices    InvoiceRepository
	Collections CollectionRepository
	Accounts    AccountRepository
	Expenses    ExpenseRepository
	Workdays    WorkdayRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn retorna
// nil, Rollback si retorna error.
type TxRunner interface {
	Run(ctx context.Context, fn func(r *Tx) error) error
}
