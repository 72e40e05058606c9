package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de gasto. Los gastos ligados a un embarque alimentan los
// totales de su liquidación; los pagos a proveedor reducen su saldo.
const (
	ExpenseCategoryGeneral         = "general"
	ExpenseCategoryFreight         = "freight"
	ExpenseCategoryCustoms         = "customs"
	ExpenseCategorySupplierPayment = "supplier_payment"
)

// Expense representa un gasto pagado desde caja o banco.
type Expense struct {
	ID          string
	AccountID   string
	Amount      decimal.Decimal
	Category    string
	Description string
	ShipmentID  *string // opcional: gasto atado a un embarque
	SupplierID  *string // opcional: pago o gasto de un proveedor
	Date        time.Time
	CreatedBy   string
	CreatedAt   time.Time
}
