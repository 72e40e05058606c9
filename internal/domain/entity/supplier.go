package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier representa un proveedor que envía embarques.
// Balance positivo = le debemos al proveedor.
type Supplier struct {
	ID        string
	Name      string
	Phone     string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
