package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/dto"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/reports"
)

// ReportsHandler expone los reportes derivados en vivo.
type ReportsHandler struct {
	uc *reports.UseCase
}

// NewReportsHandler construye el handler.
func NewReportsHandler(uc *reports.UseCase) *ReportsHandler {
	return &ReportsHandler{uc: uc}
}

// ShipmentSummary resumen económico de un embarque, en cualquier estado.
// GET /api/reports/shipments/:id
func (h *ReportsHandler) ShipmentSummary(c *fiber.Ctx) error {
	summary, err := h.uc.ShipmentSummary(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.ShipmentSummaryResponse{
		ShipmentID:       summary.Shipment.ID,
		Status:           summary.Shipment.Status,
		TotalCartons:     summary.TotalCartons,
		SoldCartons:      summary.SoldCartons,
		RemainingCartons: summary.RemainingCartons,
		CarryoverOut:     summary.CarryoverOut,
		SalesTotal:       summary.SalesTotal,
		CostOfGoodsSold:  summary.CostOfGoodsSold,
		ExpensesTotal:    summary.ExpensesTotal,
		WastageTotal:     summary.WastageTotal,
		GrossMargin:      summary.GrossMargin,
		Batches:          make([]dto.BatchSummaryResponse, 0, len(summary.Batches)),
	}
	for _, b := range summary.Batches {
		resp.Batches = append(resp.Batches, dto.BatchSummaryResponse{
			BatchID:          b.BatchID,
			ProductID:        b.ProductID,
			Cartons:          b.Cartons,
			SoldCartons:      b.SoldCartons,
			RemainingCartons: b.RemainingCartons,
			WastageQuantity:  b.WastageQuantity,
			UnitCost:         b.UnitCost,
			CostOfGoodsSold:  b.CostOfGoodsSold,
		})
	}
	return c.JSON(resp)
}

// CustomerStatement estado de cuenta de un cliente con saldo corrido.
// GET /api/reports/customers/:id/statement
func (h *ReportsHandler) CustomerStatement(c *fiber.Ctx) error {
	statement, err := h.uc.CustomerStatement(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.CustomerStatementResponse{
		CustomerID:   statement.Customer.ID,
		CustomerName: statement.Customer.Name,
		Balance:      statement.Balance,
		Entries:      make([]dto.StatementEntryResponse, 0, len(statement.Entries)),
	}
	for _, e := range statement.Entries {
		resp.Entries = append(resp.Entries, dto.StatementEntryResponse{
			Date:        e.Date,
			Type:        e.Type,
			RefID:       e.RefID,
			Number:      e.Number,
			Description: e.Description,
			Debit:       e.Debit,
			Credit:      e.Credit,
			Balance:     e.Balance,
		})
	}
	return c.JSON(resp)
}
