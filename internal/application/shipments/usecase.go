package shipments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/audit"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/workday"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

// UseCase registra la entrada de embarques y sus lotes.
type UseCase struct {
	txRunner     repository.TxRunner
	shipmentRepo repository.ShipmentRepository
	batchRepo    repository.BatchRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	notifier     audit.Notifier
}

// NewUseCase construye el caso de uso de embarques.
func NewUseCase(
	txRunner repository.TxRunner,
	shipmentRepo repository.ShipmentRepository,
	batchRepo repository.BatchRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	notifier audit.Notifier,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		shipmentRepo: shipmentRepo,
		batchRepo:    batchRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		notifier:     notifier,
	}
}

// BatchInput un lote del embarque: producto, cartones y costos.
type BatchInput struct {
	ProductID     string
	Cartons       int64
	WeightPerUnit decimal.Decimal
	UnitCost      decimal.Decimal
}

// CreateShipmentInput entrada para registrar un embarque.
// Date es informativa (puede retro-datarse); el orden FIFO lo fija la
// secuencia, nunca esta fecha.
type CreateShipmentInput struct {
	SupplierID string
	Date       time.Time
	Batches    []BatchInput
}

// ShipmentResult embarque creado con sus lotes.
type ShipmentResult struct {
	Shipment *entity.Shipment
	Batches  []*entity.ShipmentBatch
}

// CreateShipment registra el embarque: la secuencia FIFO se asigna con
// el incremento atómico de la BD (dos embarques concurrentes jamás
// comparten ni desordenan secuencia), los lotes conservan el orden de
// entrada, y el costo total se suma al saldo del proveedor en la misma
// transacción.
func (uc *UseCase) CreateShipment(ctx context.Context, in CreateShipmentInput, userID string) (*ShipmentResult, error) {
	if in.SupplierID == "" || len(in.Batches) == 0 {
		return nil, domain.ErrInvalidInput
	}
	totalCost := decimal.Zero
	for _, b := range in.Batches {
		if b.ProductID == "" || b.Cartons <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if b.UnitCost.IsNegative() || b.WeightPerUnit.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(b.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, b.ProductID)
		}
		totalCost = totalCost.Add(decimal.NewFromInt(b.Cartons).Mul(b.UnitCost))
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.SupplierID)
	}

	var result ShipmentResult
	err = uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		if _, err := workday.OpenDateInTx(r); err != nil {
			return err
		}
		now := time.Now()
		date := in.Date
		if date.IsZero() {
			date = now
		}
		shipment := &entity.Shipment{
			ID:            uuid.New().String(),
			SupplierID:    in.SupplierID,
			Date:          date,
			Status:        entity.ShipmentStatusOpen,
			TotalCost:     totalCost,
			TotalSales:    decimal.Zero,
			TotalWastage:  decimal.Zero,
			TotalExpenses: decimal.Zero,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		// Create deja escrita la secuencia FIFO asignada.
		if err := r.Shipments.Create(shipment); err != nil {
			return err
		}
		var batches []*entity.ShipmentBatch
		for i, b := range in.Batches {
			batch := &entity.ShipmentBatch{
				ID:              uuid.New().String(),
				ShipmentID:      shipment.ID,
				ProductID:       b.ProductID,
				Position:        i + 1,
				Cartons:         b.Cartons,
				WastageQuantity: decimal.Zero,
				WeightPerUnit:   b.WeightPerUnit,
				UnitCost:        b.UnitCost,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := r.Batches.Create(batch); err != nil {
				return err
			}
			batches = append(batches, batch)
		}
		// Le debemos al proveedor el costo del embarque.
		if err := r.Suppliers.AddBalance(in.SupplierID, totalCost); err != nil {
			return err
		}
		result = ShipmentResult{Shipment: shipment, Batches: batches}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify("shipment", result.Shipment.ID, "create", userID)
	return &result, nil
}

// GetShipment obtiene un embarque con sus lotes.
func (uc *UseCase) GetShipment(id string) (*ShipmentResult, error) {
	shipment, err := uc.shipmentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, fmt.Errorf("%w: embarque %s", domain.ErrNotFound, id)
	}
	batches, err := uc.batchRepo.ListByShipment(id)
	if err != nil {
		return nil, err
	}
	return &ShipmentResult{Shipment: shipment, Batches: batches}, nil
}

// List lista embarques, opcionalmente filtrados por estado.
func (uc *UseCase) List(status string) ([]*entity.Shipment, error) {
	return uc.shipmentRepo.List(status)
}

// UpdateDate corrige la fecha informativa de un embarque no liquidado.
// Una vez liquidado, la única superficie editable es el estado (para
// des-liquidar); la secuencia FIFO no se toca jamás.
func (uc *UseCase) UpdateDate(ctx context.Context, shipmentID string, date time.Time, userID string) error {
	err := uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		shipment, err := r.Shipments.GetForUpdate(shipmentID)
		if err != nil {
			return err
		}
		if shipment == nil {
			return fmt.Errorf("%w: embarque %s", domain.ErrNotFound, shipmentID)
		}
		if shipment.Status == entity.ShipmentStatusSettled {
			return fmt.Errorf("%w: embarque %s liquidado, solo admite des-liquidación", domain.ErrAlreadySettled, shipmentID)
		}
		shipment.Date = date
		shipment.UpdatedAt = time.Now()
		return r.Shipments.Update(shipment)
	})
	if err != nil {
		return err
	}
	uc.notifier.Notify("shipment", shipmentID, "update", userID)
	return nil
}
