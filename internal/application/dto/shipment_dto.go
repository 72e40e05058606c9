package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentBatchRequest lote dentro del body de creación de embarque.
type ShipmentBatchRequest struct {
	ProductID     string          `json:"product_id" validate:"required,uuid"`
	Cartons       int64           `json:"cartons" validate:"required,gt=0"`
	WeightPerUnit decimal.Decimal `json:"weight_per_unit"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
}

// CreateShipmentRequest body para POST /api/shipments.
// Date es opcional e informativa; el orden FIFO lo fija la secuencia.
type CreateShipmentRequest struct {
	SupplierID string                 `json:"supplier_id" validate:"required,uuid"`
	Date       *time.Time             `json:"date,omitempty"`
	Batches    []ShipmentBatchRequest `json:"batches" validate:"required,min=1,dive"`
}

// UpdateShipmentDateRequest body para PATCH /api/shipments/:id/date.
type UpdateShipmentDateRequest struct {
	Date time.Time `json:"date" validate:"required"`
}

// SettleShipmentRequest body para POST /api/shipments/:id/settle.
// SuccessorID: embarque destino de los traslados del stock restante.
// Va vacío cuando no queda stock que trasladar.
type SettleShipmentRequest struct {
	SuccessorID string `json:"successor_id,omitempty" validate:"omitempty,uuid"`
}

// ShipmentBatchResponse lote en respuestas, con el stock derivado.
type ShipmentBatchResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Position         int             `json:"position"`
	Cartons          int64           `json:"cartons"`
	SoldCartons      int64           `json:"sold_cartons"`
	CarryoverIn      int64           `json:"carryover_in_cartons"`
	CarryoverOut     int64           `json:"carryover_out_cartons"`
	RemainingCartons int64           `json:"remaining_cartons"`
	WastageQuantity  decimal.Decimal `json:"wastage_quantity"`
	WeightPerUnit    decimal.Decimal `json:"weight_per_unit"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
}

// ShipmentResponse embarque con sus lotes.
type ShipmentResponse struct {
	ID           string                  `json:"id"`
	SupplierID   string                  `json:"supplier_id"`
	FifoSequence int64                   `json:"fifo_sequence"`
	Date         time.Time               `json:"date"`
	Status       string                  `json:"status"`
	TotalCost    decimal.Decimal         `json:"total_cost"`
	TotalSales   decimal.Decimal         `json:"total_sales"`
	TotalWastage decimal.Decimal         `json:"total_wastage"`
	TotalExpenses decimal.Decimal        `json:"total_expenses"`
	SettledAt    *time.Time              `json:"settled_at,omitempty"`
	Batches      []ShipmentBatchResponse `json:"batches,omitempty"`
}

// ProductStockResponse stock derivado de un producto para GET /api/stock.
type ProductStockResponse struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	RemainingCartons int64           `json:"remaining_cartons"`
	Batches          int             `json:"batches"`
	OldestSequence   int64           `json:"oldest_sequence"`
	AvgUnitCost      decimal.Decimal `json:"avg_unit_cost"`
}
