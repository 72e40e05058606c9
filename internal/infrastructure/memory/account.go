package memory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
)

type accountRepo struct{ s *Store }

func (r *accountRepo) Create(a *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[a.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.accounts[a.ID] = *a
	return nil
}

func (r *accountRepo) GetByID(id string) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *accountRepo) GetActive(accountType string) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id := range r.s.accounts {
		a := r.s.accounts[id]
		if a.Type == accountType && a.Active {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *accountRepo) GetActiveForUpdate(accountType string) (*entity.Account, error) {
	return r.GetActive(accountType)
}

func (r *accountRepo) UpdateBalance(id string, balance decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Balance = balance
	r.s.accounts[id] = a
	return nil
}

func (r *accountRepo) List() ([]*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Account, 0, len(r.s.accounts))
	for id := range r.s.accounts {
		a := r.s.accounts[id]
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

func (r *accountRepo) CreateTransaction(txn *entity.AccountTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.accountTxns = append(r.s.accountTxns, *txn)
	return nil
}

func (r *accountRepo) ListTransactions(accountID string, limit int) ([]*entity.AccountTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AccountTransaction
	// Más reciente primero.
	for i := len(r.s.accountTxns) - 1; i >= 0; i-- {
		if r.s.accountTxns[i].AccountID != accountID {
			continue
		}
		txn := r.s.accountTxns[i]
		out = append(out, &txn)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type expenseRepo struct{ s *Store }

func (r *expenseRepo) Create(e *entity.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.expenses[e.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.expenses[e.ID] = *e
	return nil
}

func (r *expenseRepo) GetByID(id string) (*entity.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.expenses[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *expenseRepo) ListByShipment(shipmentID string) ([]*entity.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Expense
	for id := range r.s.expenses {
		e := r.s.expenses[id]
		if e.ShipmentID != nil && *e.ShipmentID == shipmentID {
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *expenseRepo) TotalByShipment(shipmentID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for id := range r.s.expenses {
		e := r.s.expenses[id]
		if e.ShipmentID != nil && *e.ShipmentID == shipmentID {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}
