package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cuenta de tesorería. Hay exactamente una cuenta activa de
// cada tipo en todo el sistema.
const (
	AccountTypeCashbox = "cashbox"
	AccountTypeBank    = "bank"
)

// Account representa la caja o la cuenta bancaria. El saldo solo se
// muta a través de pares (AccountTransaction, actualización de saldo)
// dentro de la misma transacción, con bloqueo exclusivo de fila.
type Account struct {
	ID        string
	Type      string
	Name      string
	Balance   decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Direcciones de un movimiento de cuenta.
const (
	AccountTxnIn  = "in"
	AccountTxnOut = "out"
)

// TxnRefKind identifica la entidad causante de un movimiento de cuenta.
// Unión etiquetada sobre las causas conocidas, en lugar de un par
// (string, id) sin tipo.
type TxnRefKind string

const (
	TxnRefCollection TxnRefKind = "collection"
	TxnRefExpense    TxnRefKind = "expense"
	TxnRefTransfer   TxnRefKind = "transfer"
	TxnRefInvoice    TxnRefKind = "invoice"
)

// TxnRef referencia tipada a la entidad que causó el movimiento.
type TxnRef struct {
	Kind TxnRefKind
	ID   string
}

// RefCollection construye la referencia a un cobro.
func RefCollection(id string) TxnRef { return TxnRef{Kind: TxnRefCollection, ID: id} }

// RefExpense construye la referencia a un gasto.
func RefExpense(id string) TxnRef { return TxnRef{Kind: TxnRefExpense, ID: id} }

// RefTransfer construye la referencia a una transferencia entre cuentas.
func RefTransfer(id string) TxnRef { return TxnRef{Kind: TxnRefTransfer, ID: id} }

// RefInvoice construye la referencia a una factura.
func RefInvoice(id string) TxnRef { return TxnRef{Kind: TxnRefInvoice, ID: id} }

// AccountTransaction representa un movimiento de caja o banco.
// BalanceAfter es una foto del saldo en ese instante: se captura al
// escribir y nunca se recalcula después.
type AccountTransaction struct {
	ID           string
	AccountID    string
	Type         string // in, out
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Description  string
	Ref          TxnRef
	Date         time.Time
	CreatedAt    time.Time
}
