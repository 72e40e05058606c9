package repository

import (
	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia de facturas.
// Create asigna el consecutivo Number desde la secuencia de la BD.
// No existe Delete: las facturas solo se anulan.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateLine(line *entity.InvoiceLine) error
	Update(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	GetForUpdate(id string) (*entity.Invoice, error)
	GetLines(invoiceID string) ([]*entity.InvoiceLine, error)
	ListByCustomer(customerID string) ([]*entity.Invoice, error)
	// ListUnpaidByCustomer devuelve facturas activas con saldo > 0,
	// ordenadas por fecha (y creación) ascendente o descendente.
	ListUnpaidByCustomer(customerID string, oldestFirst bool) ([]*entity.Invoice, error)
	// SalesTotalByShipment suma los subtotales de líneas activas cuyos
	// lotes pertenecen al embarque (para totales de liquidación).
	SalesTotalByShipment(shipmentID string) (decimal.Decimal, error)
	// HasLinesForBatch reporta si alguna línea de factura (activa o
	// anulada) referencia el lote.
	HasLinesForBatch(batchID string) (bool, error)
}
