package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

var _ repository.CollectionRepository = (*CollectionRepo)(nil)

// CollectionRepo implementación de CollectionRepository (usable con pool o tx).
// No hay Delete para cobros: solo anulación.
type CollectionRepo struct {
	q Querier
}

// NewCollectionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCollectionRepository(q Querier) *CollectionRepo {
	return &CollectionRepo{q: q}
}

const collectionColumns = `id, customer_id, amount, payment_method, distribution_method,
	allocated_amount, unallocated_amount, status, date, created_by,
	cancelled_at, cancelled_by, created_at, updated_at`

// Create persiste un cobro.
func (r *CollectionRepo) Create(collection *entity.Collection) error {
	query := `
		INSERT INTO collections (id, customer_id, amount, payment_method,
			distribution_method, allocated_amount, unallocated_amount, status, date,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		collection.ID, collection.CustomerID, collection.Amount, collection.PaymentMethod,
		collection.DistributionMethod, collection.AllocatedAmount, collection.UnallocatedAmount,
		collection.Status, collection.Date, collection.CreatedBy,
		collection.CreatedAt, collection.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert collection: %w", err)
	}
	return nil
}

// Update actualiza un cobro.
func (r *CollectionRepo) Update(collection *entity.Collection) error {
	query := `
		UPDATE collections SET allocated_amount = $2, unallocated_amount = $3,
			status = $4, cancelled_at = $5, cancelled_by = $6, updated_at = $7
		WHERE id = $1`
	cancelledBy := (*string)(nil)
	if collection.CancelledBy != "" {
		cancelledBy = &collection.CancelledBy
	}
	_, err := r.q.Exec(context.Background(), query,
		collection.ID, collection.AllocatedAmount, collection.UnallocatedAmount,
		collection.Status, collection.CancelledAt, cancelledBy, collection.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update collection: %w", err)
	}
	return nil
}

// GetByID obtiene un cobro por ID.
func (r *CollectionRepo) GetByID(id string) (*entity.Collection, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene un cobro con bloqueo exclusivo de fila.
func (r *CollectionRepo) GetForUpdate(id string) (*entity.Collection, error) {
	return r.get(id, true)
}

func (r *CollectionRepo) get(id string, forUpdate bool) (*entity.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var c entity.Collection
	var cancelledBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.CustomerID, &c.Amount, &c.PaymentMethod, &c.DistributionMethod,
		&c.AllocatedAmount, &c.UnallocatedAmount, &c.Status, &c.Date, &c.CreatedBy,
		&c.CancelledAt, &cancelledBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}
	if cancelledBy != nil {
		c.CancelledBy = *cancelledBy
	}
	return &c, nil
}

// ListByCustomer lista los cobros de un cliente por fecha de creación.
func (r *CollectionRepo) ListByCustomer(customerID string) ([]*entity.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE customer_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()
	var list []*entity.Collection
	for rows.Next() {
		var c entity.Collection
		var cancelledBy *string
		if err := rows.Scan(
			&c.ID, &c.CustomerID, &c.Amount, &c.PaymentMethod, &c.DistributionMethod,
			&c.AllocatedAmount, &c.UnallocatedAmount, &c.Status, &c.Date, &c.CreatedBy,
			&c.CancelledAt, &cancelledBy, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		if cancelledBy != nil {
			c.CancelledBy = *cancelledBy
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// CreateAllocation persiste una asignación cobro-factura.
func (r *CollectionRepo) CreateAllocation(alloc *entity.CollectionAllocation) error {
	query := `
		INSERT INTO collection_allocations (id, collection_id, invoice_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		alloc.ID, alloc.CollectionID, alloc.InvoiceID, alloc.Amount, alloc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}
	return nil
}

// DeleteAllocation elimina una asignación.
func (r *CollectionRepo) DeleteAllocation(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM collection_allocations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListAllocations lista las asignaciones de un cobro.
func (r *CollectionRepo) ListAllocations(collectionID string) ([]*entity.CollectionAllocation, error) {
	query := `
		SELECT id, collection_id, invoice_id, amount, created_at
		FROM collection_allocations WHERE collection_id = $1 ORDER BY created_at`
	return r.listAllocations(query, collectionID)
}

// ListAllocationsByInvoice lista las asignaciones que tocan una factura.
func (r *CollectionRepo) ListAllocationsByInvoice(invoiceID string) ([]*entity.CollectionAllocation, error) {
	query := `
		SELECT id, collection_id, invoice_id, amount, created_at
		FROM collection_allocations WHERE invoice_id = $1 ORDER BY created_at`
	return r.listAllocations(query, invoiceID)
}

func (r *CollectionRepo) listAllocations(query string, arg any) ([]*entity.CollectionAllocation, error) {
	rows, err := r.q.Query(context.Background(), query, arg)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()
	var list []*entity.CollectionAllocation
	for rows.Next() {
		var a entity.CollectionAllocation
		if err := rows.Scan(&a.ID, &a.CollectionID, &a.InvoiceID, &a.Amount, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// SumAllocations suma las asignaciones vivas de un cobro.
func (r *CollectionRepo) SumAllocations(collectionID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM collection_allocations WHERE collection_id = $1`
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, collectionID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum allocations: %w", err)
	}
	return total, nil
}
