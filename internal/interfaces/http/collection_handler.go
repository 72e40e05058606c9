package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/collections"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/dto"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
)

// CollectionHandler maneja cobros y su distribución entre facturas.
type CollectionHandler struct {
	uc *collections.UseCase
}

// NewCollectionHandler construye el handler.
func NewCollectionHandler(uc *collections.UseCase) *CollectionHandler {
	return &CollectionHandler{uc: uc}
}

// Record registra un cobro y lo distribuye según el método indicado.
// POST /api/collections
func (h *CollectionHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordCollectionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	col, err := h.uc.RecordCollection(c.Context(), collections.RecordCollectionInput{
		CustomerID:         in.CustomerID,
		Amount:             in.Amount,
		PaymentMethod:      in.PaymentMethod,
		DistributionMethod: in.DistributionMethod,
		ManualAllocations:  in.ManualAllocations,
	}, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCollectionResponse(col, nil))
}

// Get obtiene un cobro con sus asignaciones.
// GET /api/collections/:id
func (h *CollectionHandler) Get(c *fiber.Ctx) error {
	col, allocs, err := h.uc.GetCollection(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCollectionResponse(col, allocs))
}

// ListByCustomer lista los cobros de un cliente.
// GET /api/customers/:id/collections
func (h *CollectionHandler) ListByCustomer(c *fiber.Ctx) error {
	list, err := h.uc.ListByCustomer(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CollectionResponse, 0, len(list))
	for _, col := range list {
		out = append(out, toCollectionResponse(col, nil))
	}
	return c.JSON(out)
}

// Distribute asigna manualmente el monto sin asignar de un cobro.
// POST /api/collections/:id/distribute
func (h *CollectionHandler) Distribute(c *fiber.Ctx) error {
	var in dto.DistributeCollectionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if _, err := h.uc.DistributeManual(c.Context(), c.Params("id"), in.Allocations, GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	col, allocs, err := h.uc.GetCollection(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCollectionResponse(col, allocs))
}

// Cancel anula el cobro y revierte tesorería y facturas. Solo admin.
// POST /api/collections/:id/cancel
func (h *CollectionHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.CancelCollection(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	col, allocs, err := h.uc.GetCollection(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCollectionResponse(col, allocs))
}

// Delete siempre rechaza: los cobros se anulan, jamás se eliminan.
// DELETE /api/collections/:id
func (h *CollectionHandler) Delete(c *fiber.Ctx) error {
	return respondError(c, h.uc.DeleteCollection(c.Params("id")))
}

func toCollectionResponse(col *entity.Collection, allocs []*entity.CollectionAllocation) dto.CollectionResponse {
	resp := dto.CollectionResponse{
		ID:                 col.ID,
		CustomerID:         col.CustomerID,
		Amount:             col.Amount,
		PaymentMethod:      col.PaymentMethod,
		DistributionMethod: col.DistributionMethod,
		AllocatedAmount:    col.AllocatedAmount,
		UnallocatedAmount:  col.UnallocatedAmount,
		Status:             col.Status,
		Date:               col.Date,
	}
	for _, a := range allocs {
		resp.Allocations = append(resp.Allocations, dto.CollectionAllocationResponse{
			ID:        a.ID,
			InvoiceID: a.InvoiceID,
			Amount:    a.Amount,
		})
	}
	return resp
}
