package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación de AccountRepository (usable con pool o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// Create persiste una cuenta de tesorería.
func (r *AccountRepo) Create(account *entity.Account) error {
	query := `
		INSERT INTO accounts (id, type, name, balance, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.Type, account.Name, account.Balance, account.Active,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *AccountRepo) GetByID(id string) (*entity.Account, error) {
	query := `
		SELECT id, type, name, balance, active, created_at, updated_at
		FROM accounts WHERE id = $1`
	return r.scanOne(query, id)
}

// GetActive obtiene la única cuenta activa del tipo dado.
func (r *AccountRepo) GetActive(accountType string) (*entity.Account, error) {
	query := `
		SELECT id, type, name, balance, active, created_at, updated_at
		FROM accounts WHERE type = $1 AND active`
	return r.scanOne(query, accountType)
}

// GetActiveForUpdate toma el bloqueo exclusivo de fila sobre la cuenta
// activa del tipo dado, para que dos operaciones concurrentes no calculen
// balance_after desde una lectura obsoleta.
func (r *AccountRepo) GetActiveForUpdate(accountType string) (*entity.Account, error) {
	query := `
		SELECT id, type, name, balance, active, created_at, updated_at
		FROM accounts WHERE type = $1 AND active FOR UPDATE`
	return r.scanOne(query, accountType)
}

func (r *AccountRepo) scanOne(query string, arg any) (*entity.Account, error) {
	var a entity.Account
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&a.ID, &a.Type, &a.Name, &a.Balance, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

// UpdateBalance fija el saldo de la cuenta. El caller debe tener el
// bloqueo de GetActiveForUpdate.
func (r *AccountRepo) UpdateBalance(id string, balance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, balance)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista todas las cuentas.
func (r *AccountRepo) List() ([]*entity.Account, error) {
	query := `
		SELECT id, type, name, balance, active, created_at, updated_at
		FROM accounts ORDER BY type`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Account
	for rows.Next() {
		var a entity.Account
		if err := rows.Scan(&a.ID, &a.Type, &a.Name, &a.Balance, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// CreateTransaction persiste un movimiento con su foto del saldo.
func (r *AccountRepo) CreateTransaction(txn *entity.AccountTransaction) error {
	query := `
		INSERT INTO account_transactions (id, account_id, type, amount, balance_after,
			description, ref_kind, ref_id, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	refKind := (*string)(nil)
	refID := (*string)(nil)
	if txn.Ref.Kind != "" {
		kind := string(txn.Ref.Kind)
		refKind = &kind
		refID = &txn.Ref.ID
	}
	_, err := r.q.Exec(context.Background(), query,
		txn.ID, txn.AccountID, txn.Type, txn.Amount, txn.BalanceAfter,
		txn.Description, refKind, refID, txn.Date, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account transaction: %w", err)
	}
	return nil
}

// ListTransactions lista movimientos de una cuenta, el más reciente primero.
func (r *AccountRepo) ListTransactions(accountID string, limit int) ([]*entity.AccountTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, account_id, type, amount, balance_after, description, ref_kind,
			ref_id, date, created_at
		FROM account_transactions WHERE account_id = $1
		ORDER BY created_at DESC LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list account transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.AccountTransaction
	for rows.Next() {
		var t entity.AccountTransaction
		var refKind, refID *string
		if err := rows.Scan(
			&t.ID, &t.AccountID, &t.Type, &t.Amount, &t.BalanceAfter, &t.Description,
			&refKind, &refID, &t.Date, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account transaction: %w", err)
		}
		if refKind != nil && refID != nil {
			t.Ref = entity.TxnRef{Kind: entity.TxnRefKind(*refKind), ID: *refID}
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo implementación de ExpenseRepository (usable con pool o tx).
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// Create persiste un gasto.
func (r *ExpenseRepo) Create(expense *entity.Expense) error {
	query := `
		INSERT INTO expenses (id, account_id, amount, category, description,
			shipment_id, supplier_id, date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		expense.ID, expense.AccountID, expense.Amount, expense.Category,
		expense.Description, expense.ShipmentID, expense.SupplierID,
		expense.Date, expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// GetByID obtiene un gasto por ID.
func (r *ExpenseRepo) GetByID(id string) (*entity.Expense, error) {
	query := `
		SELECT id, account_id, amount, category, description, shipment_id,
			supplier_id, date, created_by, created_at
		FROM expenses WHERE id = $1`
	var e entity.Expense
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.AccountID, &e.Amount, &e.Category, &e.Description,
		&e.ShipmentID, &e.SupplierID, &e.Date, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

// ListByShipment lista los gastos atados a un embarque.
func (r *ExpenseRepo) ListByShipment(shipmentID string) ([]*entity.Expense, error) {
	query := `
		SELECT id, account_id, amount, category, description, shipment_id,
			supplier_id, date, created_by, created_at
		FROM expenses WHERE shipment_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Expense
	for rows.Next() {
		var e entity.Expense
		if err := rows.Scan(
			&e.ID, &e.AccountID, &e.Amount, &e.Category, &e.Description,
			&e.ShipmentID, &e.SupplierID, &e.Date, &e.CreatedBy, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// TotalByShipment suma los gastos atados a un embarque.
func (r *ExpenseRepo) TotalByShipment(shipmentID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE shipment_id = $1`
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, shipmentID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total expenses by shipment: %w", err)
	}
	return total, nil
}
