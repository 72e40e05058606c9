package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un embarque.
const (
	ShipmentStatusOpen    = "open"    // recibido, vendiendo
	ShipmentStatusClosed  = "closed"  // sin stock restante (o cerrado para liquidar)
	ShipmentStatusSettled = "settled" // liquidado: totales calculados, campos congelados
)

// Shipment representa un embarque de un proveedor.
// FifoSequence es inmutable: se asigna una sola vez al crear el embarque
// (secuencia atómica, monótona, nunca reutilizada) y define el orden de
// asignación FIFO. La fecha es solo informativa y puede retro-datarse.
type Shipment struct {
	ID           string
	SupplierID   string
	FifoSequence int64
	Date         time.Time
	Status       string
	TotalCost    decimal.Decimal

	// Totales de liquidación: se calculan y persisten al liquidar.
	TotalSales        decimal.Decimal
	TotalWastage      decimal.Decimal
	TotalCarryoverOut int64
	TotalExpenses     decimal.Decimal
	SettledAt         *time.Time
	SettledBy         string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShipmentBatch representa un lote (producto dentro de un embarque):
// la unidad atómica de la asignación FIFO.
// Invariante estructural (también CHECK en la tabla):
// SoldCartons <= Cartons + CarryoverInCartons - CarryoverOutCartons.
type ShipmentBatch struct {
	ID                  string
	ShipmentID          string
	ProductID           string
	Position            int // orden de creación dentro del embarque
	Cartons             int64
	SoldCartons         int64
	CarryoverInCartons  int64
	CarryoverOutCartons int64
	WastageQuantity     decimal.Decimal // peso perdido (mermas)
	WeightPerUnit       decimal.Decimal // peso por cartón
	UnitCost            decimal.Decimal // costo por cartón
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// RemainingCartons devuelve el stock disponible del lote (siempre derivado,
// nunca almacenado): cartones + traslados de entrada - vendidos - traslados de salida.
func (b *ShipmentBatch) RemainingCartons() int64 {
	return b.Cartons + b.CarryoverInCartons - b.SoldCartons - b.CarryoverOutCartons
}

// Carryover registra el traslado de cartones de un lote de un embarque en
// liquidación hacia un lote del embarque sucesor.
type Carryover struct {
	ID             string
	FromBatchID    string
	ToBatchID      string
	FromShipmentID string
	ToShipmentID   string
	ProductID      string
	Cartons        int64
	Reason         string
	CreatedAt      time.Time
}
