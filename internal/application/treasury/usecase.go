package treasury

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/audit"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/workday"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

// UseCase expone las operaciones de tesorería: depósito, retiro,
// transferencia entre caja y banco, y registro de gastos.
type UseCase struct {
	txRunner    repository.TxRunner
	accountRepo repository.AccountRepository
	notifier    audit.Notifier
}

// NewUseCase construye el caso de uso de tesorería.
func NewUseCase(txRunner repository.TxRunner, accountRepo repository.AccountRepository, notifier audit.Notifier) *UseCase {
	return &UseCase{txRunner: txRunner, accountRepo: accountRepo, notifier: notifier}
}

// Deposit acredita un monto manual (aporte, ajuste a favor) a la cuenta
// activa del tipo dado. Exige jornada abierta.
func (uc *UseCase) Deposit(ctx context.Context, accountType string, amount decimal.Decimal, description, userID string) (*entity.AccountTransaction, error) {
	var txn *entity.AccountTransaction
	err := uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		date, err := workday.OpenDateInTx(r)
		if err != nil {
			return err
		}
		txn, err = DepositInTx(r, accountType, amount, description, entity.TxnRef{}, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify("account_transaction", txn.ID, "deposit", userID)
	return txn, nil
}

// Withdraw debita un monto manual de la cuenta activa del tipo dado.
func (uc *UseCase) Withdraw(ctx context.Context, accountType string, amount decimal.Decimal, description, userID string) (*entity.AccountTransaction, error) {
	var txn *entity.AccountTransaction
	err := uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		date, err := workday.OpenDateInTx(r)
		if err != nil {
			return err
		}
		txn, err = WithdrawInTx(r, accountType, amount, description, entity.TxnRef{}, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify("account_transaction", txn.ID, "withdraw", userID)
	return txn, nil
}

// Transfer mueve un monto entre caja y banco: debita el origen y
// acredita el destino en la misma transacción, con un movimiento por
// lado referenciando el mismo id de transferencia.
func (uc *UseCase) Transfer(ctx context.Context, fromType, toType string, amount decimal.Decimal, description, userID string) (string, error) {
	if fromType == toType {
		return "", fmt.Errorf("%w: origen y destino son la misma cuenta", domain.ErrInvalidInput)
	}
	transferID := uuid.New().String()
	err := uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		date, err := workday.OpenDateInTx(r)
		if err != nil {
			return err
		}
		ref := entity.RefTransfer(transferID)
		if _, err := WithdrawInTx(r, fromType, amount, description, ref, date); err != nil {
			return err
		}
		_, err = DepositInTx(r, toType, amount, description, ref, date)
		return err
	})
	if err != nil {
		return "", err
	}
	uc.notifier.Notify("transfer", transferID, "create", userID)
	return transferID, nil
}

// ExpenseInput entrada para registrar un gasto.
type ExpenseInput struct {
	AccountType string
	Amount      decimal.Decimal
	Category    string
	Description string
	ShipmentID  *string
	SupplierID  *string
}

// RecordExpense registra un gasto: retira de la cuenta y persiste la
// fila de gasto en la misma transacción. Un gasto atado a un embarque
// alimenta los totales de su liquidación; un pago a proveedor reduce el
// saldo del proveedor.
func (uc *UseCase) RecordExpense(ctx context.Context, in ExpenseInput, userID string) (*entity.Expense, error) {
	if in.Category == "" {
		in.Category = entity.ExpenseCategoryGeneral
	}
	expense := &entity.Expense{
		ID:          uuid.New().String(),
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		ShipmentID:  in.ShipmentID,
		SupplierID:  in.SupplierID,
		CreatedBy:   userID,
		CreatedAt:   time.Now(),
	}
	err := uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		date, err := workday.OpenDateInTx(r)
		if err != nil {
			return err
		}
		if in.ShipmentID != nil {
			shipment, err := r.Shipments.GetByID(*in.ShipmentID)
			if err != nil {
				return err
			}
			if shipment == nil {
				return fmt.Errorf("%w: embarque %s", domain.ErrNotFound, *in.ShipmentID)
			}
			if shipment.Status == entity.ShipmentStatusSettled {
				return fmt.Errorf("%w: embarque %s", domain.ErrAlreadySettled, shipment.ID)
			}
		}
		txn, err := WithdrawInTx(r, in.AccountType, in.Amount, in.Description, entity.RefExpense(expense.ID), date)
		if err != nil {
			return err
		}
		expense.AccountID = txn.AccountID
		expense.Date = date
		if err := r.Expenses.Create(expense); err != nil {
			return err
		}
		if in.SupplierID != nil {
			if err := r.Suppliers.AddBalance(*in.SupplierID, in.Amount.Neg()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify("expense", expense.ID, "create", userID)
	return expense, nil
}

// Accounts lista las cuentas con sus saldos actuales.
func (uc *UseCase) Accounts() ([]*entity.Account, error) {
	return uc.accountRepo.List()
}

// Transactions lista los últimos movimientos de una cuenta.
func (uc *UseCase) Transactions(accountID string, limit int) ([]*entity.AccountTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	return uc.accountRepo.ListTransactions(accountID, limit)
}
