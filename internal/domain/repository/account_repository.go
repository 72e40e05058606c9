package repository

import (
	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia de cuentas de
// tesorería. GetActiveForUpdate toma el bloqueo exclusivo de fila sobre
// la única cuenta activa del tipo dado (SELECT ... FOR UPDATE), para que
// dos operaciones concurrentes no calculen balance_after desde una
// lectura obsoleta.
type AccountRepository interface {
	Create(account *entity.Account) error
	GetByID(id string) (*entity.Account, error)
	GetActive(accountType string) (*entity.Account, error)
	GetActiveForUpdate(accountType string) (*entity.Account, error)
	UpdateBalance(id string, balance decimal.Decimal) error
	List() ([]*entity.Account, error)

	CreateTransaction(txn *entity.AccountTransaction) error
	ListTransactions(accountID string, limit int) ([]*entity.AccountTransaction, error)
}

// ExpenseRepository define el puerto de persistencia de gastos.
type ExpenseRepository interface {
	Create(expense *entity.Expense) error
	GetByID(id string) (*entity.Expense, error)
	ListByShipment(shipmentID string) ([]*entity.Expense, error)
	TotalByShipment(shipmentID string) (decimal.Decimal, error)
}
