package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados, medios de pago y métodos de distribución de un cobro.
// Un cobro jamás se elimina; solo se anula, y cancelled -> confirmed
// está prohibido.
const (
	CollectionStatusConfirmed = "confirmed"
	CollectionStatusCancelled = "cancelled"

	PaymentMethodCash = "cash"
	PaymentMethodBank = "bank"

	DistributionAutoOldest = "auto_oldest"
	DistributionAutoNewest = "auto_newest"
	DistributionManual     = "manual"
)

// Collection representa un cobro a un cliente, distribuido entre sus
// facturas pendientes. AllocatedAmount siempre se re-deriva de la suma
// viva de sus asignaciones (nunca se incrementa por separado);
// UnallocatedAmount = Amount - AllocatedAmount queda como crédito
// a favor del cliente.
type Collection struct {
	ID                 string
	CustomerID         string
	Amount             decimal.Decimal
	PaymentMethod      string
	DistributionMethod string
	AllocatedAmount    decimal.Decimal
	UnallocatedAmount  decimal.Decimal
	Status             string
	Date               time.Time
	CreatedBy          string
	CancelledAt        *time.Time
	CancelledBy        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CollectionAllocation enlaza un cobro con una factura por un monto.
// Crearla aumenta PaidAmount y reduce Balance de la factura; borrarla
// hace exactamente lo inverso.
type CollectionAllocation struct {
	ID           string
	CollectionID string
	InvoiceID    string
	Amount       decimal.Decimal
	CreatedAt    time.Time
}
