package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/collections"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/inventory"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/workday"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

// CancelInvoice anula una factura activa dentro de la ventana de
// edición. En una sola transacción: (1) revierte la asignación FIFO de
// cada línea, devolviendo los cartones a sus lotes; (2) borra toda
// asignación de cobro que apunte a la factura y recalcula los montos de
// los cobros afectados — el saldo de la factura no se restaura por la
// reversa genérica sino que se fuerza a cero, porque la factura entera
// se está descartando; (3) descuenta el total del saldo del cliente
// (salvo mermas, que nunca lo sumaron). La transición active ->
// cancelled es unidireccional.
func (uc *UseCase) CancelInvoice(ctx context.Context, invoiceID, userID string) error {
	err := uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		gateDate, err := workday.OpenDateInTx(r)
		if err != nil {
			return err
		}
		invoice, err := r.Invoices.GetForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
		}
		if invoice.Status != entity.InvoiceStatusActive {
			return fmt.Errorf("%w: factura %s", domain.ErrAlreadyCancelled, invoiceID)
		}
		window := time.Duration(uc.cfg.EditWindowDays) * 24 * time.Hour
		if gateDate.Sub(invoice.Date) > window {
			return fmt.Errorf("%w: la factura %s está fuera de la ventana de edición de %d días",
				domain.ErrForbidden, invoiceID, uc.cfg.EditWindowDays)
		}

		lines, err := r.Invoices.GetLines(invoiceID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := inventory.Reverse(r, line); err != nil {
				return err
			}
			if invoice.Type == entity.InvoiceTypeWastage {
				batch, err := r.Batches.GetForUpdate(line.BatchID)
				if err != nil {
					return err
				}
				if batch != nil {
					batch.WastageQuantity = batch.WastageQuantity.Sub(line.Quantity)
					if err := r.Batches.Update(batch); err != nil {
						return err
					}
				}
			}
		}

		allocs, err := r.Collections.ListAllocationsByInvoice(invoiceID)
		if err != nil {
			return err
		}
		touched := make(map[string]bool)
		for _, a := range allocs {
			if err := r.Collections.DeleteAllocation(a.ID); err != nil {
				return err
			}
			touched[a.CollectionID] = true
		}
		for collectionID := range touched {
			if err := collections.RecomputeInTx(r, collectionID); err != nil {
				return err
			}
		}

		if invoice.Type != entity.InvoiceTypeWastage {
			if err := r.Customers.AddBalance(invoice.CustomerID, invoice.Total.Neg()); err != nil {
				return err
			}
		}

		now := time.Now()
		invoice.Status = entity.InvoiceStatusCancelled
		invoice.PaidAmount = decimal.Zero
		invoice.Balance = decimal.Zero
		invoice.CancelledAt = &now
		invoice.CancelledBy = userID
		invoice.UpdatedAt = now
		return r.Invoices.Update(invoice)
	})
	if err != nil {
		return err
	}
	uc.notifier.Notify("invoice", invoiceID, "cancel", userID)
	return nil
}
