package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados y tipos de factura. La anulación es terminal y unidireccional:
// cancelled -> active está prohibido. Las facturas jamás se eliminan.
const (
	InvoiceStatusActive    = "active"
	InvoiceStatusCancelled = "cancelled"

	InvoiceTypeSale    = "sale"
	InvoiceTypeWastage = "wastage" // registra mermas: no genera cuenta por cobrar
)

// Invoice representa la cabecera de una factura de venta.
// Invariantes: Total = Subtotal - Discount; Balance = Total - PaidAmount.
// Para tipo wastage el Balance se fuerza a cero (pérdida, no venta).
type Invoice struct {
	ID          string
	CustomerID  string
	Number      int64 // consecutivo por secuencia de BD
	Type        string
	Status      string
	Date        time.Time // fecha de la jornada abierta, no del caller
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	PaidAmount  decimal.Decimal
	Balance     decimal.Decimal
	CreatedBy   string
	CancelledAt *time.Time
	CancelledBy string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvoiceLine representa una línea de factura atada a exactamente un lote
// (su origen FIFO). UnitCost se copia del lote al asignar, para margen.
type InvoiceLine struct {
	ID        string
	InvoiceID string
	BatchID   string
	ProductID string
	Cartons   int64
	Quantity  decimal.Decimal // peso = cartones * peso por cartón
	UnitPrice decimal.Decimal // precio por unidad de peso
	UnitCost  decimal.Decimal // costo por cartón, copiado del lote
	Subtotal  decimal.Decimal // Quantity * UnitPrice
}
