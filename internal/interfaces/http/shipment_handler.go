package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/dto"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/inventory"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/settlement"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/shipments"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
)

// ShipmentHandler maneja embarques, su ciclo de vida y el stock derivado.
type ShipmentHandler struct {
	uc         *shipments.UseCase
	settlement *settlement.UseCase
	stock      *inventory.StockUseCase
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(uc *shipments.UseCase, st *settlement.UseCase, stock *inventory.StockUseCase) *ShipmentHandler {
	return &ShipmentHandler{uc: uc, settlement: st, stock: stock}
}

// Create registra un embarque con sus lotes.
// POST /api/shipments
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := shipments.CreateShipmentInput{
		SupplierID: in.SupplierID,
		Batches:    make([]shipments.BatchInput, 0, len(in.Batches)),
	}
	if in.Date != nil {
		input.Date = *in.Date
	} else {
		input.Date = time.Now()
	}
	for _, b := range in.Batches {
		input.Batches = append(input.Batches, shipments.BatchInput{
			ProductID:     b.ProductID,
			Cartons:       b.Cartons,
			WeightPerUnit: b.WeightPerUnit,
			UnitCost:      b.UnitCost,
		})
	}
	result, err := h.uc.CreateShipment(c.Context(), input, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toShipmentResponse(result.Shipment, result.Batches))
}

// Get obtiene un embarque con sus lotes.
// GET /api/shipments/:id
func (h *ShipmentHandler) Get(c *fiber.Ctx) error {
	result, err := h.uc.GetShipment(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toShipmentResponse(result.Shipment, result.Batches))
}

// List lista embarques, opcionalmente filtrados por estado.
// GET /api/shipments?status=open
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ShipmentResponse, 0, len(list))
	for _, sh := range list {
		out = append(out, toShipmentResponse(sh, nil))
	}
	return c.JSON(out)
}

// UpdateDate corrige la fecha informativa del embarque. No toca la
// secuencia FIFO.
// PATCH /api/shipments/:id/date
func (h *ShipmentHandler) UpdateDate(c *fiber.Ctx) error {
	var in dto.UpdateShipmentDateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.UpdateDate(c.Context(), c.Params("id"), in.Date, GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	result, err := h.uc.GetShipment(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toShipmentResponse(result.Shipment, result.Batches))
}

// Close cierra el embarque (deja de recibir asignaciones nuevas).
// POST /api/shipments/:id/close
func (h *ShipmentHandler) Close(c *fiber.Ctx) error {
	if err := h.settlement.Close(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	result, err := h.uc.GetShipment(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toShipmentResponse(result.Shipment, result.Batches))
}

// Settle liquida el embarque: congela totales y traslada el stock
// restante al embarque sucesor si se indica.
// POST /api/shipments/:id/settle
func (h *ShipmentHandler) Settle(c *fiber.Ctx) error {
	var in dto.SettleShipmentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	var successor *string
	if in.SuccessorID != "" {
		successor = &in.SuccessorID
	}
	if err := h.settlement.Settle(c.Context(), c.Params("id"), successor, GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	result, err := h.uc.GetShipment(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toShipmentResponse(result.Shipment, result.Batches))
}

// Unsettle revierte la liquidación: deshace traslados y descongela totales.
// POST /api/shipments/:id/unsettle
func (h *ShipmentHandler) Unsettle(c *fiber.Ctx) error {
	if err := h.settlement.Unsettle(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	result, err := h.uc.GetShipment(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toShipmentResponse(result.Shipment, result.Batches))
}

// Stock devuelve la disponibilidad derivada por producto.
// GET /api/stock
func (h *ShipmentHandler) Stock(c *fiber.Ctx) error {
	summary, err := h.stock.Summary()
	if err != nil {
		return respondError(c, err)
	}
	productID := c.Query("product_id")
	out := make([]dto.ProductStockResponse, 0, len(summary))
	for _, s := range summary {
		if productID != "" && s.ProductID != productID {
			continue
		}
		out = append(out, dto.ProductStockResponse{
			ProductID:        s.ProductID,
			ProductName:      s.ProductName,
			RemainingCartons: s.RemainingCartons,
			Batches:          s.Batches,
			OldestSequence:   s.OldestSequence,
			AvgUnitCost:      s.AvgUnitCost,
		})
	}
	return c.JSON(out)
}

func toShipmentResponse(sh *entity.Shipment, batches []*entity.ShipmentBatch) dto.ShipmentResponse {
	resp := dto.ShipmentResponse{
		ID:            sh.ID,
		SupplierID:    sh.SupplierID,
		FifoSequence:  sh.FifoSequence,
		Date:          sh.Date,
		Status:        sh.Status,
		TotalCost:     sh.TotalCost,
		TotalSales:    sh.TotalSales,
		TotalWastage:  sh.TotalWastage,
		TotalExpenses: sh.TotalExpenses,
		SettledAt:     sh.SettledAt,
	}
	for _, b := range batches {
		resp.Batches = append(resp.Batches, dto.ShipmentBatchResponse{
			ID:               b.ID,
			ProductID:        b.ProductID,
			Position:         b.Position,
			Cartons:          b.Cartons,
			SoldCartons:      b.SoldCartons,
			CarryoverIn:      b.CarryoverInCartons,
			CarryoverOut:     b.CarryoverOutCartons,
			RemainingCartons: b.RemainingCartons(),
			WastageQuantity:  b.WastageQuantity,
			WeightPerUnit:    b.WeightPerUnit,
			UnitCost:         b.UnitCost,
		})
	}
	return resp
}
