package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/billing"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/dto"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
)

// InvoiceHandler maneja facturas de venta y de mermas.
type InvoiceHandler struct {
	uc  *billing.UseCase
	pdf *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.UseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdf: pdf}
}

// Create emite una factura con asignación FIFO de sus líneas.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := billing.CreateInvoiceInput{
		CustomerID: in.CustomerID,
		Type:       in.Type,
		Discount:   in.Discount,
		Lines:      make([]billing.LineInput, 0, len(in.Lines)),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, billing.LineInput{
			ProductID: l.ProductID,
			Cartons:   l.Cartons,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	result, err := h.uc.CreateInvoice(c.Context(), input, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(result.Invoice, result.Lines))
}

// Get obtiene una factura con sus líneas.
// GET /api/invoices/:id
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	result, err := h.uc.GetInvoice(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInvoiceResponse(result.Invoice, result.Lines))
}

// ListByCustomer lista las facturas de un cliente.
// GET /api/customers/:id/invoices
func (h *InvoiceHandler) ListByCustomer(c *fiber.Ctx) error {
	list, err := h.uc.ListByCustomer(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv, nil))
	}
	return c.JSON(out)
}

// Cancel anula la factura y revierte stock y saldos. Solo admin.
// POST /api/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.CancelInvoice(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	result, err := h.uc.GetInvoice(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInvoiceResponse(result.Invoice, result.Lines))
}

// Delete siempre rechaza: las facturas se anulan, jamás se eliminan.
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	return respondError(c, h.uc.DeleteInvoice(c.Params("id")))
}

// PDF genera el documento imprimible de la factura.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	doc, err := h.pdf.InvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="factura-%s.pdf"`, c.Params("id")))
	return c.Send(doc)
}

func toInvoiceResponse(inv *entity.Invoice, lines []*entity.InvoiceLine) dto.InvoiceResponse {
	resp := dto.InvoiceResponse{
		ID:         inv.ID,
		Number:     inv.Number,
		CustomerID: inv.CustomerID,
		Type:       inv.Type,
		Status:     inv.Status,
		Date:       inv.Date,
		Subtotal:   inv.Subtotal,
		Discount:   inv.Discount,
		Total:      inv.Total,
		PaidAmount: inv.PaidAmount,
		Balance:    inv.Balance,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID:        l.ID,
			BatchID:   l.BatchID,
			ProductID: l.ProductID,
			Cartons:   l.Cartons,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return resp
}
