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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// No hay Delete: las facturas solo se anulan.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, customer_id, number, type, status, date, subtotal, discount,
	total, paid_amount, balance, created_by, cancelled_at, cancelled_by,
	created_at, updated_at`

// Create persiste la factura tomando el consecutivo de la secuencia de la BD.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, customer_id, number, type, status, date, subtotal,
			discount, total, paid_amount, balance, created_by, created_at, updated_at)
		VALUES ($1, $2, nextval('invoices_number_seq'), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING number`
	err := r.q.QueryRow(context.Background(), query,
		invoice.ID, invoice.CustomerID, invoice.Type, invoice.Status, invoice.Date,
		invoice.Subtotal, invoice.Discount, invoice.Total, invoice.PaidAmount,
		invoice.Balance, invoice.CreatedBy, invoice.CreatedAt, invoice.UpdatedAt,
	).Scan(&invoice.Number)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de factura.
func (r *InvoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	query := `
		INSERT INTO invoice_lines (id, invoice_id, batch_id, product_id, cartons,
			quantity, unit_price, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.InvoiceID, line.BatchID, line.ProductID, line.Cartons,
		line.Quantity, line.UnitPrice, line.UnitCost, line.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// Update actualiza la cabecera de la factura.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices SET status = $2, paid_amount = $3, balance = $4,
			cancelled_at = $5, cancelled_by = $6, updated_at = $7
		WHERE id = $1`
	cancelledBy := (*string)(nil)
	if invoice.CancelledBy != "" {
		cancelledBy = &invoice.CancelledBy
	}
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Status, invoice.PaidAmount, invoice.Balance,
		invoice.CancelledAt, cancelledBy, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene una factura con bloqueo exclusivo de fila.
func (r *InvoiceRepo) GetForUpdate(id string) (*entity.Invoice, error) {
	return r.get(id, true)
}

func (r *InvoiceRepo) get(id string, forUpdate bool) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var inv entity.Invoice
	var cancelledBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.CustomerID, &inv.Number, &inv.Type, &inv.Status, &inv.Date,
		&inv.Subtotal, &inv.Discount, &inv.Total, &inv.PaidAmount, &inv.Balance,
		&inv.CreatedBy, &inv.CancelledAt, &cancelledBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if cancelledBy != nil {
		inv.CancelledBy = *cancelledBy
	}
	return &inv, nil
}

// GetLines lista las líneas de una factura.
func (r *InvoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, batch_id, product_id, cartons, quantity, unit_price,
			unit_cost, subtotal
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		var line entity.InvoiceLine
		if err := rows.Scan(
			&line.ID, &line.InvoiceID, &line.BatchID, &line.ProductID, &line.Cartons,
			&line.Quantity, &line.UnitPrice, &line.UnitCost, &line.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		list = append(list, &line)
	}
	return list, rows.Err()
}

// ListByCustomer lista las facturas de un cliente por consecutivo.
func (r *InvoiceRepo) ListByCustomer(customerID string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE customer_id = $1 ORDER BY number`
	return r.list(query, customerID)
}

// ListUnpaidByCustomer lista facturas activas con saldo pendiente, por
// fecha y consecutivo, ascendente o descendente.
func (r *InvoiceRepo) ListUnpaidByCustomer(customerID string, oldestFirst bool) ([]*entity.Invoice, error) {
	order := `ORDER BY date, number`
	if !oldestFirst {
		order = `ORDER BY date DESC, number DESC`
	}
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE customer_id = $1 AND status = 'active' AND balance > 0 ` + order
	return r.list(query, customerID)
}

func (r *InvoiceRepo) list(query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		var cancelledBy *string
		if err := rows.Scan(
			&inv.ID, &inv.CustomerID, &inv.Number, &inv.Type, &inv.Status, &inv.Date,
			&inv.Subtotal, &inv.Discount, &inv.Total, &inv.PaidAmount, &inv.Balance,
			&inv.CreatedBy, &inv.CancelledAt, &cancelledBy, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		if cancelledBy != nil {
			inv.CancelledBy = *cancelledBy
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// SalesTotalByShipment suma los subtotales de líneas de facturas de venta
// activas cuyos lotes pertenecen al embarque.
func (r *InvoiceRepo) SalesTotalByShipment(shipmentID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.subtotal), 0)
		FROM invoice_lines l
		JOIN invoices i ON i.id = l.invoice_id
		JOIN shipment_batches b ON b.id = l.batch_id
		WHERE b.shipment_id = $1 AND i.status = 'active' AND i.type = 'sale'`
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, shipmentID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sales total by shipment: %w", err)
	}
	return total, nil
}

// HasLinesForBatch reporta si alguna línea de factura referencia el lote,
// incluyendo facturas anuladas: la línea sigue existiendo como historial.
func (r *InvoiceRepo) HasLinesForBatch(batchID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM invoice_lines WHERE batch_id = $1)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query, batchID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("lines for batch: %w", err)
	}
	return exists, nil
}
