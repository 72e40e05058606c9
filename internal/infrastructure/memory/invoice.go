package memory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
)

type invoiceRepo struct{ s *Store }

func (r *invoiceRepo) Create(inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[inv.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.invoiceNumber++
	inv.Number = r.s.invoiceNumber
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r *invoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.invoiceLines[line.InvoiceID] = append(r.s.invoiceLines[line.InvoiceID], *line)
	return nil
}

func (r *invoiceRepo) Update(inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r *invoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *invoiceRepo) GetForUpdate(id string) (*entity.Invoice, error) {
	return r.GetByID(id)
}

func (r *invoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	lines := r.s.invoiceLines[invoiceID]
	out := make([]*entity.InvoiceLine, 0, len(lines))
	for i := range lines {
		line := lines[i]
		out = append(out, &line)
	}
	return out, nil
}

func (r *invoiceRepo) ListByCustomer(customerID string) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Invoice
	for id := range r.s.invoices {
		inv := r.s.invoices[id]
		if inv.CustomerID == customerID {
			out = append(out, &inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *invoiceRepo) ListUnpaidByCustomer(customerID string, oldestFirst bool) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Invoice
	for id := range r.s.invoices {
		inv := r.s.invoices[id]
		if inv.CustomerID != customerID || inv.Status != entity.InvoiceStatusActive {
			continue
		}
		if !inv.Balance.IsPositive() {
			continue
		}
		out = append(out, &inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			if oldestFirst {
				return out[i].Date.Before(out[j].Date)
			}
			return out[i].Date.After(out[j].Date)
		}
		if oldestFirst {
			return out[i].Number < out[j].Number
		}
		return out[i].Number > out[j].Number
	})
	return out, nil
}

func (r *invoiceRepo) SalesTotalByShipment(shipmentID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for invoiceID, lines := range r.s.invoiceLines {
		inv, ok := r.s.invoices[invoiceID]
		if !ok || inv.Status != entity.InvoiceStatusActive || inv.Type != entity.InvoiceTypeSale {
			continue
		}
		for i := range lines {
			batch, ok := r.s.batches[lines[i].BatchID]
			if ok && batch.ShipmentID == shipmentID {
				total = total.Add(lines[i].Subtotal)
			}
		}
	}
	return total, nil
}

func (r *invoiceRepo) HasLinesForBatch(batchID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, lines := range r.s.invoiceLines {
		for i := range lines {
			if lines[i].BatchID == batchID {
				return true, nil
			}
		}
	}
	return false, nil
}
