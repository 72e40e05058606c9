package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

// StockUseCase expone lecturas de disponibilidad derivadas de los lotes.
type StockUseCase struct {
	shipmentRepo repository.ShipmentRepository
	batchRepo    repository.BatchRepository
	productRepo  repository.ProductRepository
}

// NewStockUseCase construye el caso de uso de consultas de stock.
func NewStockUseCase(shipmentRepo repository.ShipmentRepository, batchRepo repository.BatchRepository, productRepo repository.ProductRepository) *StockUseCase {
	return &StockUseCase{shipmentRepo: shipmentRepo, batchRepo: batchRepo, productRepo: productRepo}
}

// ProductStock disponibilidad de un producto sumada sobre sus lotes
// elegibles (embarques open/closed).
type ProductStock struct {
	ProductID        string
	ProductName      string
	RemainingCartons int64
	Batches          int
	OldestSequence   int64
	AvgUnitCost      decimal.Decimal
}

// Summary recorre los embarques no liquidados y agrega la disponibilidad
// por producto. El stock jamás se lee de Product: siempre se deriva.
func (uc *StockUseCase) Summary() ([]*ProductStock, error) {
	products, err := uc.productRepo.List()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	byProduct := make(map[string]*ProductStock)
	var order []string
	for _, status := range []string{entity.ShipmentStatusOpen, entity.ShipmentStatusClosed} {
		shipments, err := uc.shipmentRepo.List(status)
		if err != nil {
			return nil, err
		}
		for _, s := range shipments {
			batches, err := uc.batchRepo.ListByShipment(s.ID)
			if err != nil {
				return nil, err
			}
			for _, b := range batches {
				remaining := b.RemainingCartons()
				if remaining == 0 {
					continue
				}
				ps, ok := byProduct[b.ProductID]
				if !ok {
					ps = &ProductStock{ProductID: b.ProductID, ProductName: names[b.ProductID], OldestSequence: s.FifoSequence}
					byProduct[b.ProductID] = ps
					order = append(order, b.ProductID)
				}
				if s.FifoSequence < ps.OldestSequence {
					ps.OldestSequence = s.FifoSequence
				}
				// promedio ponderado del costo de los lotes con stock
				total := decimal.NewFromInt(ps.RemainingCartons).Mul(ps.AvgUnitCost).
					Add(decimal.NewFromInt(remaining).Mul(b.UnitCost))
				ps.RemainingCartons += remaining
				ps.Batches++
				ps.AvgUnitCost = total.Div(decimal.NewFromInt(ps.RemainingCartons))
			}
		}
	}

	result := make([]*ProductStock, 0, len(order))
	for _, id := range order {
		result = append(result, byProduct[id])
	}
	return result, nil
}
