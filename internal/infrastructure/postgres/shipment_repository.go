package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo implementación de ShipmentRepository (usable con pool o tx).
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

const shipmentColumns = `id, supplier_id, fifo_sequence, date, status, total_cost,
	total_sales, total_wastage, total_carryover_out_cartons, total_expenses,
	settled_at, settled_by, created_at, updated_at`

// Create persiste el embarque tomando fifo_sequence de la secuencia de
// la BD y lo deja escrito en la entidad.
func (r *ShipmentRepo) Create(shipment *entity.Shipment) error {
	query := `
		INSERT INTO shipments (id, supplier_id, fifo_sequence, date, status, total_cost,
			total_sales, total_wastage, total_carryover_out_cartons, total_expenses,
			created_at, updated_at)
		VALUES ($1, $2, nextval('shipments_fifo_seq'), $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING fifo_sequence`
	err := r.q.QueryRow(context.Background(), query,
		shipment.ID, shipment.SupplierID, shipment.Date, shipment.Status, shipment.TotalCost,
		shipment.TotalSales, shipment.TotalWastage, shipment.TotalCarryoverOut, shipment.TotalExpenses,
		shipment.CreatedAt, shipment.UpdatedAt,
	).Scan(&shipment.FifoSequence)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert shipment: %w", err)
	}
	return nil
}

// Update actualiza el embarque. fifo_sequence jamás se toca.
func (r *ShipmentRepo) Update(shipment *entity.Shipment) error {
	query := `
		UPDATE shipments SET date = $2, status = $3, total_cost = $4, total_sales = $5,
			total_wastage = $6, total_carryover_out_cartons = $7, total_expenses = $8,
			settled_at = $9, settled_by = $10, updated_at = $11
		WHERE id = $1`
	settledBy := (*string)(nil)
	if shipment.SettledBy != "" {
		settledBy = &shipment.SettledBy
	}
	_, err := r.q.Exec(context.Background(), query,
		shipment.ID, shipment.Date, shipment.Status, shipment.TotalCost, shipment.TotalSales,
		shipment.TotalWastage, shipment.TotalCarryoverOut, shipment.TotalExpenses,
		shipment.SettledAt, settledBy, shipment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shipment: %w", err)
	}
	return nil
}

// GetByID obtiene un embarque por ID.
func (r *ShipmentRepo) GetByID(id string) (*entity.Shipment, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene un embarque con bloqueo exclusivo de fila.
func (r *ShipmentRepo) GetForUpdate(id string) (*entity.Shipment, error) {
	return r.get(id, true)
}

func (r *ShipmentRepo) get(id string, forUpdate bool) (*entity.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var s entity.Shipment
	var settledBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.SupplierID, &s.FifoSequence, &s.Date, &s.Status, &s.TotalCost,
		&s.TotalSales, &s.TotalWastage, &s.TotalCarryoverOut, &s.TotalExpenses,
		&s.SettledAt, &settledBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	if settledBy != nil {
		s.SettledBy = *settledBy
	}
	return &s, nil
}

// List lista embarques en orden FIFO, opcionalmente filtrados por estado.
func (r *ShipmentRepo) List(status string) ([]*entity.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY fifo_sequence`
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Shipment
	for rows.Next() {
		var s entity.Shipment
		var settledBy *string
		if err := rows.Scan(
			&s.ID, &s.SupplierID, &s.FifoSequence, &s.Date, &s.Status, &s.TotalCost,
			&s.TotalSales, &s.TotalWastage, &s.TotalCarryoverOut, &s.TotalExpenses,
			&s.SettledAt, &settledBy, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		if settledBy != nil {
			s.SettledBy = *settledBy
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, shipment_id, product_id, position, cartons, sold_cartons,
	carryover_in_cartons, carryover_out_cartons, wastage_quantity, weight_per_unit,
	unit_cost, created_at, updated_at`

// Create persiste un lote de embarque.
func (r *BatchRepo) Create(batch *entity.ShipmentBatch) error {
	query := `
		INSERT INTO shipment_batches (id, shipment_id, product_id, position, cartons,
			sold_cartons, carryover_in_cartons, carryover_out_cartons, wastage_quantity,
			weight_per_unit, unit_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.ShipmentID, batch.ProductID, batch.Position, batch.Cartons,
		batch.SoldCartons, batch.CarryoverInCartons, batch.CarryoverOutCartons,
		batch.WastageQuantity, batch.WeightPerUnit, batch.UnitCost,
		batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// Update actualiza un lote completo. Para ventas usar AddSold.
func (r *BatchRepo) Update(batch *entity.ShipmentBatch) error {
	query := `
		UPDATE shipment_batches SET cartons = $2, sold_cartons = $3,
			carryover_in_cartons = $4, carryover_out_cartons = $5,
			wastage_quantity = $6, weight_per_unit = $7, unit_cost = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.Cartons, batch.SoldCartons,
		batch.CarryoverInCartons, batch.CarryoverOutCartons,
		batch.WastageQuantity, batch.WeightPerUnit, batch.UnitCost, batch.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: lote %s", domain.ErrInsufficientStock, batch.ID)
		}
		return fmt.Errorf("update batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *BatchRepo) GetByID(id string) (*entity.ShipmentBatch, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene un lote con bloqueo exclusivo de fila.
func (r *BatchRepo) GetForUpdate(id string) (*entity.ShipmentBatch, error) {
	return r.get(id, true)
}

func (r *BatchRepo) get(id string, forUpdate bool) (*entity.ShipmentBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM shipment_batches WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var b entity.ShipmentBatch
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.ShipmentID, &b.ProductID, &b.Position, &b.Cartons, &b.SoldCartons,
		&b.CarryoverInCartons, &b.CarryoverOutCartons, &b.WastageQuantity,
		&b.WeightPerUnit, &b.UnitCost, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

// ListByShipment lista los lotes de un embarque en orden de posición.
func (r *BatchRepo) ListByShipment(shipmentID string) ([]*entity.ShipmentBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM shipment_batches WHERE shipment_id = $1 ORDER BY position`
	return r.list(query, shipmentID)
}

// FindByShipmentAndProduct busca el lote de un producto dentro de un
// embarque. Si hay más de uno (la entrada admite lotes repetidos del
// mismo producto), gana el de menor posición.
func (r *BatchRepo) FindByShipmentAndProduct(shipmentID, productID string) (*entity.ShipmentBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM shipment_batches WHERE shipment_id = $1 AND product_id = $2
		ORDER BY position LIMIT 1`
	var b entity.ShipmentBatch
	err := r.q.QueryRow(context.Background(), query, shipmentID, productID).Scan(
		&b.ID, &b.ShipmentID, &b.ProductID, &b.Position, &b.Cartons, &b.SoldCartons,
		&b.CarryoverInCartons, &b.CarryoverOutCartons, &b.WastageQuantity,
		&b.WeightPerUnit, &b.UnitCost, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find batch: %w", err)
	}
	return &b, nil
}

// ListEligibleForUpdate devuelve, con bloqueo de fila, los lotes con stock
// disponible de embarques no liquidados, en orden FIFO estricto: secuencia
// del embarque y luego posición del lote. Jamás por fecha.
func (r *BatchRepo) ListEligibleForUpdate(productID string) ([]*entity.ShipmentBatch, error) {
	query := `
		SELECT b.id, b.shipment_id, b.product_id, b.position, b.cartons, b.sold_cartons,
			b.carryover_in_cartons, b.carryover_out_cartons, b.wastage_quantity,
			b.weight_per_unit, b.unit_cost, b.created_at, b.updated_at
		FROM shipment_batches b
		JOIN shipments s ON s.id = b.shipment_id
		WHERE b.product_id = $1
			AND s.status IN ('open', 'closed')
			AND b.cartons + b.carryover_in_cartons - b.sold_cartons - b.carryover_out_cartons > 0
		ORDER BY s.fifo_sequence, b.position
		FOR UPDATE OF b`
	return r.list(query, productID)
}

func (r *BatchRepo) list(query string, args ...any) ([]*entity.ShipmentBatch, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.ShipmentBatch
	for rows.Next() {
		var b entity.ShipmentBatch
		if err := rows.Scan(
			&b.ID, &b.ShipmentID, &b.ProductID, &b.Position, &b.Cartons, &b.SoldCartons,
			&b.CarryoverInCartons, &b.CarryoverOutCartons, &b.WastageQuantity,
			&b.WeightPerUnit, &b.UnitCost, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// AddSold aplica un delta a sold_cartons. El WHERE revalida el invariante
// al momento de escribir, además del CHECK de la tabla.
func (r *BatchRepo) AddSold(id string, delta int64) error {
	query := `
		UPDATE shipment_batches
		SET sold_cartons = sold_cartons + $2, updated_at = now()
		WHERE id = $1
			AND sold_cartons + $2 >= 0
			AND sold_cartons + $2 <= cartons + carryover_in_cartons - carryover_out_cartons`
	tag, err := r.q.Exec(context.Background(), query, id, delta)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: lote %s", domain.ErrInsufficientStock, id)
		}
		return fmt.Errorf("add sold cartons: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: lote %s", domain.ErrInsufficientStock, id)
	}
	return nil
}

// Delete elimina un lote (solo cascarones vacíos al des-liquidar).
func (r *BatchRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM shipment_batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ repository.CarryoverRepository = (*CarryoverRepo)(nil)

// CarryoverRepo implementación de CarryoverRepository (usable con pool o tx).
type CarryoverRepo struct {
	q Querier
}

// NewCarryoverRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCarryoverRepository(q Querier) *CarryoverRepo {
	return &CarryoverRepo{q: q}
}

// Create persiste un traslado entre lotes.
func (r *CarryoverRepo) Create(carryover *entity.Carryover) error {
	query := `
		INSERT INTO carryovers (id, from_batch_id, to_batch_id, from_shipment_id,
			to_shipment_id, product_id, cartons, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		carryover.ID, carryover.FromBatchID, carryover.ToBatchID, carryover.FromShipmentID,
		carryover.ToShipmentID, carryover.ProductID, carryover.Cartons, carryover.Reason,
		carryover.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert carryover: %w", err)
	}
	return nil
}

// ListByFromShipment lista los traslados originados en un embarque.
func (r *CarryoverRepo) ListByFromShipment(shipmentID string) ([]*entity.Carryover, error) {
	query := `
		SELECT id, from_batch_id, to_batch_id, from_shipment_id, to_shipment_id,
			product_id, cartons, reason, created_at
		FROM carryovers WHERE from_shipment_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list carryovers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Carryover
	for rows.Next() {
		var c entity.Carryover
		if err := rows.Scan(
			&c.ID, &c.FromBatchID, &c.ToBatchID, &c.FromShipmentID, &c.ToShipmentID,
			&c.ProductID, &c.Cartons, &c.Reason, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan carryover: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete elimina un traslado (al des-liquidar).
func (r *CarryoverRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM carryovers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete carryover: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
