package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLineRequest línea del body de creación de factura.
// Quantity es el peso pesado en báscula de esos cartones.
type InvoiceLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Cartons   int64           `json:"cartons" validate:"required,gt=0"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	CustomerID string               `json:"customer_id" validate:"required,uuid"`
	Type       string               `json:"type" validate:"omitempty,oneof=sale wastage"`
	Discount   decimal.Decimal      `json:"discount"`
	Lines      []InvoiceLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// InvoiceLineResponse línea en la respuesta, con su lote de origen FIFO.
type InvoiceLineResponse struct {
	ID        string          `json:"id"`
	BatchID   string          `json:"batch_id"`
	ProductID string          `json:"product_id"`
	Cartons   int64           `json:"cartons"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse factura con detalle.
type InvoiceResponse struct {
	ID         string                `json:"id"`
	Number     int64                 `json:"number"`
	CustomerID string                `json:"customer_id"`
	Type       string                `json:"type"`
	Status     string                `json:"status"`
	Date       time.Time             `json:"date"`
	Subtotal   decimal.Decimal       `json:"subtotal"`
	Discount   decimal.Decimal       `json:"discount"`
	Total      decimal.Decimal       `json:"total"`
	PaidAmount decimal.Decimal       `json:"paid_amount"`
	Balance    decimal.Decimal       `json:"balance"`
	Lines      []InvoiceLineResponse `json:"lines,omitempty"`
}
