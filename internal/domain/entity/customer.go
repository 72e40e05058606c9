package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente mayorista.
// Balance es un saldo corrido: positivo = el cliente nos debe.
// Toda mutación del saldo va emparejada, en la misma transacción,
// con el evento que la causó (factura o cobro).
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
