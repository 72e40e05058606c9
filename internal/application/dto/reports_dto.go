package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentSummaryResponse resumen económico de un embarque.
type ShipmentSummaryResponse struct {
	ShipmentID       string                 `json:"shipment_id"`
	Status           string                 `json:"status"`
	TotalCartons     int64                  `json:"total_cartons"`
	SoldCartons      int64                  `json:"sold_cartons"`
	RemainingCartons int64                  `json:"remaining_cartons"`
	CarryoverOut     int64                  `json:"carryover_out_cartons"`
	SalesTotal       decimal.Decimal        `json:"sales_total"`
	CostOfGoodsSold  decimal.Decimal        `json:"cost_of_goods_sold"`
	ExpensesTotal    decimal.Decimal        `json:"expenses_total"`
	WastageTotal     decimal.Decimal        `json:"wastage_total"`
	GrossMargin      decimal.Decimal        `json:"gross_margin"`
	Batches          []BatchSummaryResponse `json:"batches"`
}

// BatchSummaryResponse detalle por lote dentro del resumen.
type BatchSummaryResponse struct {
	BatchID          string          `json:"batch_id"`
	ProductID        string          `json:"product_id"`
	Cartons          int64           `json:"cartons"`
	SoldCartons      int64           `json:"sold_cartons"`
	RemainingCartons int64           `json:"remaining_cartons"`
	WastageQuantity  decimal.Decimal `json:"wastage_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	CostOfGoodsSold  decimal.Decimal `json:"cost_of_goods_sold"`
}

// StatementEntryResponse movimiento del estado de cuenta con saldo corrido.
type StatementEntryResponse struct {
	Date        time.Time       `json:"date"`
	Type        string          `json:"type"`
	RefID       string          `json:"ref_id"`
	Number      int64           `json:"number,omitempty"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// CustomerStatementResponse estado de cuenta de un cliente.
type CustomerStatementResponse struct {
	CustomerID   string                   `json:"customer_id"`
	CustomerName string                   `json:"customer_name"`
	Balance      decimal.Decimal          `json:"balance"`
	Entries      []StatementEntryResponse `json:"entries"`
}
