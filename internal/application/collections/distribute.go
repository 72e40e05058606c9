package collections

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

// distributeAutoInTx recorre las facturas activas con saldo del cliente
// — ascendente por fecha para auto_oldest, descendente para auto_newest —
// asignando min(saldo de la factura, monto restante del cobro) a cada
// una hasta agotar el cobro o las facturas. El sobrante queda sin
// asignar, sin error.
func distributeAutoInTx(r *repository.Tx, collection *entity.Collection) error {
	oldestFirst := collection.DistributionMethod == entity.DistributionAutoOldest
	invoices, err := r.Invoices.ListUnpaidByCustomer(collection.CustomerID, oldestFirst)
	if err != nil {
		return err
	}
	remaining := collection.Amount
	for _, invoice := range invoices {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		amount := decimal.Min(remaining, invoice.Balance)
		if err := applyAllocationInTx(r, collection.ID, invoice, amount); err != nil {
			return err
		}
		remaining = remaining.Sub(amount)
	}
	return RecomputeInTx(r, collection.ID)
}

// distributeManualInTx aplica asignaciones indicadas por el caller.
// Cada monto no puede exceder el saldo actual de su factura, y la suma
// no puede exceder lo que el cobro todavía tiene sin asignar (una suma
// menor es válida: el resto queda sin asignar).
func distributeManualInTx(r *repository.Tx, collection *entity.Collection, amounts map[string]decimal.Decimal) error {
	total := decimal.Zero
	for _, amount := range amounts {
		if !amount.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: monto de asignación no positivo", domain.ErrInvalidInput)
		}
		total = total.Add(amount)
	}
	if total.GreaterThan(collection.UnallocatedAmount) {
		return fmt.Errorf("%w: asignado %s excede el monto sin asignar %s del cobro",
			domain.ErrInvalidInput, total.String(), collection.UnallocatedAmount.String())
	}
	for invoiceID, amount := range amounts {
		invoice, err := r.Invoices.GetForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
		}
		if invoice.Status != entity.InvoiceStatusActive || invoice.CustomerID != collection.CustomerID {
			return fmt.Errorf("%w: factura %s no es asignable para este cobro", domain.ErrInvalidInput, invoiceID)
		}
		if amount.GreaterThan(invoice.Balance) {
			return fmt.Errorf("%w: factura %s, asignado %s, saldo %s",
				domain.ErrAllocationExceedsBalance, invoiceID, amount.String(), invoice.Balance.String())
		}
		if err := applyAllocationInTx(r, collection.ID, invoice, amount); err != nil {
			return err
		}
	}
	return RecomputeInTx(r, collection.ID)
}

// applyAllocationInTx crea la asignación y aplica su efecto emparejado
// sobre la factura: pagado += monto, saldo = total - pagado.
func applyAllocationInTx(r *repository.Tx, collectionID string, invoice *entity.Invoice, amount decimal.Decimal) error {
	alloc := &entity.CollectionAllocation{
		ID:           uuid.New().String(),
		CollectionID: collectionID,
		InvoiceID:    invoice.ID,
		Amount:       amount,
		CreatedAt:    time.Now(),
	}
	if err := r.Collections.CreateAllocation(alloc); err != nil {
		return err
	}
	invoice.PaidAmount = invoice.PaidAmount.Add(amount)
	invoice.Balance = invoice.Total.Sub(invoice.PaidAmount)
	invoice.UpdatedAt = time.Now()
	return r.Invoices.Update(invoice)
}

// removeAllocationInTx borra una asignación aplicando el inverso exacto
// sobre su factura.
func removeAllocationInTx(r *repository.Tx, alloc *entity.CollectionAllocation) error {
	invoice, err := r.Invoices.GetForUpdate(alloc.InvoiceID)
	if err != nil {
		return err
	}
	if invoice != nil {
		invoice.PaidAmount = invoice.PaidAmount.Sub(alloc.Amount)
		invoice.Balance = invoice.Total.Sub(invoice.PaidAmount)
		invoice.UpdatedAt = time.Now()
		if err := r.Invoices.Update(invoice); err != nil {
			return err
		}
	}
	return r.Collections.DeleteAllocation(alloc.ID)
}

// RecomputeInTx re-deriva AllocatedAmount/UnallocatedAmount de un cobro
// desde la suma viva de sus asignaciones. Nunca se incrementan por
// separado: re-derivar es lo que auto-sana el cobro cuando un borrado
// en otra parte (anulación de factura) cancela una asignación.
func RecomputeInTx(r *repository.Tx, collectionID string) error {
	collection, err := r.Collections.GetForUpdate(collectionID)
	if err != nil {
		return err
	}
	if collection == nil {
		return fmt.Errorf("%w: cobro %s", domain.ErrNotFound, collectionID)
	}
	allocated, err := r.Collections.SumAllocations(collectionID)
	if err != nil {
		return err
	}
	collection.AllocatedAmount = allocated
	collection.UnallocatedAmount = collection.Amount.Sub(allocated)
	collection.UpdatedAt = time.Now()
	return r.Collections.Update(collection)
}
