package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountResponse cuenta de tesorería (caja o banco).
type AccountResponse struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// AccountTransactionResponse movimiento de cuenta con la foto del saldo.
type AccountTransactionResponse struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Description  string          `json:"description"`
	RefKind      string          `json:"ref_kind,omitempty"`
	RefID        string          `json:"ref_id,omitempty"`
	Date         time.Time       `json:"date"`
}

// TransferRequest body para POST /api/treasury/transfer.
type TransferRequest struct {
	FromType    string          `json:"from_type" validate:"required,oneof=cashbox bank"`
	ToType      string          `json:"to_type" validate:"required,oneof=cashbox bank"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"omitempty,max=300"`
}

// RecordExpenseRequest body para POST /api/expenses.
type RecordExpenseRequest struct {
	AccountType string          `json:"account_type" validate:"required,oneof=cashbox bank"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" validate:"required,oneof=general freight customs supplier_payment"`
	Description string          `json:"description" validate:"omitempty,max=300"`
	ShipmentID  string          `json:"shipment_id,omitempty" validate:"omitempty,uuid"`
	SupplierID  string          `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
}

// ExpenseResponse gasto en respuestas.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	ShipmentID  string          `json:"shipment_id,omitempty"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	Date        time.Time       `json:"date"`
}
