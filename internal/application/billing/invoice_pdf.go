package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

// InvoiceLineForPDF línea lista para el render: producto resuelto a nombre.
type InvoiceLineForPDF struct {
	ProductName string
	Cartons     int64
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// InvoicePDFGenerator puerto del renderizador de facturas.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, customer *entity.Customer, lines []InvoiceLineForPDF) ([]byte, error)
}

// PDFUseCase arma los datos de la factura y delega el render al generador.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso de exportación a PDF.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		generator:    generator,
	}
}

// InvoicePDF genera el PDF de una factura existente.
func (uc *PDFUseCase) InvoicePDF(ctx context.Context, invoiceID string) ([]byte, error) {
	invoice, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
	}
	customer, err := uc.customerRepo.GetByID(invoice.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, invoice.CustomerID)
	}
	lines, err := uc.invoiceRepo.GetLines(invoiceID)
	if err != nil {
		return nil, err
	}
	pdfLines := make([]InvoiceLineForPDF, 0, len(lines))
	for _, l := range lines {
		name := l.ProductID
		if product, err := uc.productRepo.GetByID(l.ProductID); err == nil && product != nil {
			name = product.Name
		}
		pdfLines = append(pdfLines, InvoiceLineForPDF{
			ProductName: name,
			Cartons:     l.Cartons,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	return uc.generator.GenerateInvoicePDF(ctx, invoice, customer, pdfLines)
}
