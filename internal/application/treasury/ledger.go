package treasury

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

// DepositInTx acredita un monto a la única cuenta activa del tipo dado,
// dentro de la transacción del caller. Bloquea la fila de la cuenta,
// actualiza el saldo y escribe el movimiento con balance_after capturado
// en ese instante (foto, nunca recalculada). El par (movimiento,
// actualización de saldo) viaja en la misma transacción que el evento
// de negocio que lo causa.
func DepositInTx(r *repository.Tx, accountType string, amount decimal.Decimal, description string, ref entity.TxnRef, date time.Time) (*entity.AccountTransaction, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: el monto del depósito debe ser positivo", domain.ErrInvalidInput)
	}
	account, err := lockActive(r, accountType)
	if err != nil {
		return nil, err
	}
	newBalance := account.Balance.Add(amount)
	return writeMovement(r, account, entity.AccountTxnIn, amount, newBalance, description, ref, date)
}

// WithdrawInTx debita un monto de la única cuenta activa del tipo dado.
// Falla con ErrInsufficientBalance si el monto excede el saldo.
func WithdrawInTx(r *repository.Tx, accountType string, amount decimal.Decimal, description string, ref entity.TxnRef, date time.Time) (*entity.AccountTransaction, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: el monto del retiro debe ser positivo", domain.ErrInvalidInput)
	}
	account, err := lockActive(r, accountType)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(account.Balance) {
		return nil, fmt.Errorf("%w: cuenta %s, retiro %s, saldo %s",
			domain.ErrInsufficientBalance, account.ID, amount.String(), account.Balance.String())
	}
	newBalance := account.Balance.Sub(amount)
	return writeMovement(r, account, entity.AccountTxnOut, amount, newBalance, description, ref, date)
}

func lockActive(r *repository.Tx, accountType string) (*entity.Account, error) {
	account, err := r.Accounts.GetActiveForUpdate(accountType)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: tipo %s", domain.ErrAccountNotFound, accountType)
	}
	return account, nil
}

func writeMovement(r *repository.Tx, account *entity.Account, txnType string, amount, newBalance decimal.Decimal, description string, ref entity.TxnRef, date time.Time) (*entity.AccountTransaction, error) {
	if err := r.Accounts.UpdateBalance(account.ID, newBalance); err != nil {
		return nil, err
	}
	account.Balance = newBalance
	txn := &entity.AccountTransaction{
		ID:           uuid.New().String(),
		AccountID:    account.ID,
		Type:         txnType,
		Amount:       amount,
		BalanceAfter: newBalance,
		Description:  description,
		Ref:          ref,
		Date:         date,
		CreatedAt:    time.Now(),
	}
	if err := r.Accounts.CreateTransaction(txn); err != nil {
		return nil, err
	}
	return txn, nil
}
