package memory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
)

type collectionRepo struct{ s *Store }

func (r *collectionRepo) Create(c *entity.Collection) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.collections[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.collections[c.ID] = *c
	return nil
}

func (r *collectionRepo) Update(c *entity.Collection) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.collections[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.collections[c.ID] = *c
	return nil
}

func (r *collectionRepo) GetByID(id string) (*entity.Collection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.collections[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *collectionRepo) GetForUpdate(id string) (*entity.Collection, error) {
	return r.GetByID(id)
}

func (r *collectionRepo) ListByCustomer(customerID string) ([]*entity.Collection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Collection
	for id := range r.s.collections {
		c := r.s.collections[id]
		if c.CustomerID == customerID {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *collectionRepo) CreateAllocation(alloc *entity.CollectionAllocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.allocations[alloc.ID] = *alloc
	return nil
}

func (r *collectionRepo) DeleteAllocation(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.allocations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.allocations, id)
	return nil
}

func (r *collectionRepo) ListAllocations(collectionID string) ([]*entity.CollectionAllocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CollectionAllocation
	for id := range r.s.allocations {
		a := r.s.allocations[id]
		if a.CollectionID == collectionID {
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *collectionRepo) ListAllocationsByInvoice(invoiceID string) ([]*entity.CollectionAllocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CollectionAllocation
	for id := range r.s.allocations {
		a := r.s.allocations[id]
		if a.InvoiceID == invoiceID {
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *collectionRepo) SumAllocations(collectionID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for id := range r.s.allocations {
		if r.s.allocations[id].CollectionID == collectionID {
			total = total.Add(r.s.allocations[id].Amount)
		}
	}
	return total, nil
}
