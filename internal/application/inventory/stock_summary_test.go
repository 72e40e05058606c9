package inventory_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/inventory"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/infrastructure/memory"
)

func seedShipmentBatch(t *testing.T, r *repository.Tx, productID, status string, cartons int64, unitCost decimal.Decimal) *entity.Shipment {
	t.Helper()
	shipment := &entity.Shipment{
		ID:         uuid.New().String(),
		SupplierID: uuid.New().String(),
		Date:       time.Now(),
		Status:     status,
	}
	require.NoError(t, r.Shipments.Create(shipment))
	require.NoError(t, r.Batches.Create(&entity.ShipmentBatch{
		ID:         uuid.New().String(),
		ShipmentID: shipment.ID,
		ProductID:  productID,
		Position:   1,
		Cartons:    cartons,
		UnitCost:   unitCost,
	}))
	return shipment
}

// El resumen agrega por producto sobre los lotes con stock, con costo
// promedio ponderado, y un embarque liquidado no aporta disponibilidad.
func TestSummary_AgregaPorProductoConCostoPonderado(t *testing.T) {
	store := memory.NewStore()
	r := store.Repos()
	productID := uuid.New().String()
	require.NoError(t, r.Products.Create(&entity.Product{ID: productID, Name: "Papaya", Unit: "kg"}))

	first := seedShipmentBatch(t, r, productID, entity.ShipmentStatusOpen, 100, decimal.NewFromInt(10))
	seedShipmentBatch(t, r, productID, entity.ShipmentStatusClosed, 50, decimal.NewFromInt(16))
	seedShipmentBatch(t, r, productID, entity.ShipmentStatusSettled, 200, decimal.NewFromInt(5))

	uc := inventory.NewStockUseCase(r.Shipments, r.Batches, r.Products)
	summary, err := uc.Summary()
	require.NoError(t, err)
	require.Len(t, summary, 1)

	stock := summary[0]
	assert.Equal(t, "Papaya", stock.ProductName)
	assert.Equal(t, int64(150), stock.RemainingCartons, "el liquidado no cuenta")
	assert.Equal(t, 2, stock.Batches)
	assert.Equal(t, first.FifoSequence, stock.OldestSequence)
	assert.True(t, stock.AvgUnitCost.Equal(decimal.NewFromInt(12)), "(100*10 + 50*16) / 150")
}

func TestSummary_SinStockDevuelveVacio(t *testing.T) {
	store := memory.NewStore()
	r := store.Repos()
	productID := uuid.New().String()
	require.NoError(t, r.Products.Create(&entity.Product{ID: productID, Name: "Papaya", Unit: "kg"}))

	summary, err := inventory.NewStockUseCase(r.Shipments, r.Batches, r.Products).Summary()
	require.NoError(t, err)
	assert.Empty(t, summary)
}
