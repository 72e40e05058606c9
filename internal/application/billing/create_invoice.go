package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/audit"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/inventory"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/settlement"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/workday"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

// Config política de facturación: ventana (en días desde la fecha de la
// factura) dentro de la cual se permite anular.
type Config struct {
	EditWindowDays int
}

// UseCase crea y anula facturas de venta manteniendo los invariantes
// subtotal/descuento/total/pagado/saldo y el saldo del cliente, y
// conduciendo el asignador FIFO.
type UseCase struct {
	txRunner     repository.TxRunner
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	invoiceRepo  repository.InvoiceRepository
	cfg          Config
	notifier     audit.Notifier
}

// NewUseCase construye el caso de uso de facturación.
func NewUseCase(
	txRunner repository.TxRunner,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	cfg Config,
	notifier audit.Notifier,
) *UseCase {
	if cfg.EditWindowDays <= 0 {
		cfg.EditWindowDays = 3
	}
	return &UseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		invoiceRepo:  invoiceRepo,
		cfg:          cfg,
		notifier:     notifier,
	}
}

// LineInput una línea solicitada: cartones pedidos, peso pesado en
// báscula y precio por unidad de peso. El asignador puede partirla en
// varias líneas reales (una por lote de origen).
type LineInput struct {
	ProductID string
	Cartons   int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// CreateInvoiceInput entrada para crear una factura.
type CreateInvoiceInput struct {
	CustomerID string
	Type       string // sale (default) o wastage
	Discount   decimal.Decimal
	Lines      []LineInput
}

// InvoiceResult factura creada con sus líneas.
type InvoiceResult struct {
	Invoice *entity.Invoice
	Lines   []*entity.InvoiceLine
}

// CreateInvoice valida jornada abierta, verifica descuento contra
// subtotal ANTES de asignar (para no dejar asignación parcial sobre una
// solicitud rechazada), asigna cada línea vía FIFO (una línea pedida
// puede partirse en varias, cada una con su lote y su costo unitario
// para margen) y aumenta el saldo del cliente por el total. Una factura
// de mermas (wastage) fuerza saldo cero: registra pérdida, no venta.
func (uc *UseCase) CreateInvoice(ctx context.Context, in CreateInvoiceInput, userID string) (*InvoiceResult, error) {
	if in.CustomerID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Type == "" {
		in.Type = entity.InvoiceTypeSale
	}
	if in.Type != entity.InvoiceTypeSale && in.Type != entity.InvoiceTypeWastage {
		return nil, fmt.Errorf("%w: tipo de factura %q", domain.ErrInvalidInput, in.Type)
	}
	if in.Discount.IsNegative() {
		return nil, fmt.Errorf("%w: descuento negativo", domain.ErrInvalidInput)
	}

	subtotal := decimal.Zero
	for _, l := range in.Lines {
		if l.ProductID == "" || l.Cartons <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if !l.Quantity.GreaterThan(decimal.Zero) || l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
		}
		subtotal = subtotal.Add(l.Quantity.Mul(l.UnitPrice))
	}
	// El descuento se rechaza aquí, antes de tocar inventario.
	if in.Discount.GreaterThan(subtotal) {
		return nil, fmt.Errorf("%w: descuento %s excede subtotal %s",
			domain.ErrInvalidInput, in.Discount.String(), subtotal.String())
	}

	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
	}

	total := subtotal.Sub(in.Discount)
	invoiceID := uuid.New().String()
	var result InvoiceResult

	err = uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		date, err := workday.OpenDateInTx(r)
		if err != nil {
			return err
		}

		var lines []*entity.InvoiceLine
		touchedShipments := make(map[string]bool)
		for _, l := range in.Lines {
			allocs, err := inventory.Allocate(r, l.ProductID, l.Cartons)
			if err != nil {
				return err
			}
			// El peso pesado se reparte pro-rata por cartones; el último
			// tramo recibe el remanente para que la suma cierre exacta.
			remainingQty := l.Quantity
			for i, a := range allocs {
				qty := remainingQty
				if i < len(allocs)-1 {
					qty = l.Quantity.Mul(decimal.NewFromInt(a.Cartons)).Div(decimal.NewFromInt(l.Cartons)).Round(3)
				}
				remainingQty = remainingQty.Sub(qty)
				line := &entity.InvoiceLine{
					ID:        uuid.New().String(),
					InvoiceID: invoiceID,
					BatchID:   a.Batch.ID,
					ProductID: l.ProductID,
					Cartons:   a.Cartons,
					Quantity:  qty,
					UnitPrice: l.UnitPrice,
					UnitCost:  a.Batch.UnitCost,
					Subtotal:  qty.Mul(l.UnitPrice),
				}
				lines = append(lines, line)
				touchedShipments[a.Batch.ShipmentID] = true
				if in.Type == entity.InvoiceTypeWastage {
					a.Batch.WastageQuantity = a.Batch.WastageQuantity.Add(qty)
					if err := r.Batches.Update(a.Batch); err != nil {
						return err
					}
				}
			}
		}

		now := time.Now()
		invoice := &entity.Invoice{
			ID:         invoiceID,
			CustomerID: in.CustomerID,
			Type:       in.Type,
			Status:     entity.InvoiceStatusActive,
			Date:       date,
			Subtotal:   subtotal,
			Discount:   in.Discount,
			Total:      total,
			PaidAmount: decimal.Zero,
			Balance:    total,
			CreatedBy:  userID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if in.Type == entity.InvoiceTypeWastage {
			// Sin cuenta por cobrar: la merma es pérdida nuestra.
			invoice.Balance = decimal.Zero
		}
		if err := r.Invoices.Create(invoice); err != nil {
			return err
		}
		for _, line := range lines {
			if err := r.Invoices.CreateLine(line); err != nil {
				return err
			}
		}
		if in.Type != entity.InvoiceTypeWastage {
			if err := r.Customers.AddBalance(in.CustomerID, total); err != nil {
				return err
			}
		}
		for shipmentID := range touchedShipments {
			if err := settlement.AutoCloseInTx(r, shipmentID); err != nil {
				return err
			}
		}
		result = InvoiceResult{Invoice: invoice, Lines: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify("invoice", invoiceID, "create", userID)
	return &result, nil
}

// GetInvoice obtiene una factura con sus líneas.
func (uc *UseCase) GetInvoice(id string) (*InvoiceResult, error) {
	invoice, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	lines, err := uc.invoiceRepo.GetLines(id)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{Invoice: invoice, Lines: lines}, nil
}

// ListByCustomer lista las facturas de un cliente.
func (uc *UseCase) ListByCustomer(customerID string) ([]*entity.Invoice, error) {
	return uc.invoiceRepo.ListByCustomer(customerID)
}

// DeleteInvoice existe solo para fallar: las facturas jamás se
// eliminan, en cualquier estado. La anulación es la única vía, y
// preserva el historial completo.
func (uc *UseCase) DeleteInvoice(string) error {
	return domain.ErrDeletionForbidden
}
