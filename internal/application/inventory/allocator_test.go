package inventory_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/inventory"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/infrastructure/memory"
)

// seedBatch crea un embarque con un único lote del producto dado y
// devuelve el id del lote. La secuencia FIFO la asigna el repositorio
// en orden de creación.
func seedBatch(t *testing.T, r *repository.Tx, productID string, cartons int64) string {
	t.Helper()
	shipment := &entity.Shipment{
		ID:         uuid.New().String(),
		SupplierID: uuid.New().String(),
		Date:       time.Now(),
		Status:     entity.ShipmentStatusOpen,
	}
	require.NoError(t, r.Shipments.Create(shipment))
	batch := &entity.ShipmentBatch{
		ID:         uuid.New().String(),
		ShipmentID: shipment.ID,
		ProductID:  productID,
		Position:   1,
		Cartons:    cartons,
		UnitCost:   decimal.NewFromInt(10),
	}
	require.NoError(t, r.Batches.Create(batch))
	return batch.ID
}

// Una solicitud que cruza lotes debe partirse: primero agota el lote
// más antiguo y el resto sale del siguiente en secuencia FIFO.
func TestAllocate_ParteEntreLotesEnOrdenFIFO(t *testing.T) {
	store := memory.NewStore()
	r := store.Repos()
	productID := uuid.New().String()

	oldID := seedBatch(t, r, productID, 100)
	newID := seedBatch(t, r, productID, 50)

	allocs, err := inventory.Allocate(r, productID, 120)
	require.NoError(t, err)
	require.Len(t, allocs, 2, "la solicitud debe partirse en dos lotes")

	assert.Equal(t, oldID, allocs[0].Batch.ID, "el lote más antiguo va primero")
	assert.Equal(t, int64(100), allocs[0].Cartons)
	assert.Equal(t, newID, allocs[1].Batch.ID)
	assert.Equal(t, int64(20), allocs[1].Cartons)

	old, err := r.Batches.GetByID(oldID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), old.SoldCartons)
	assert.Equal(t, int64(0), old.RemainingCartons())

	second, err := r.Batches.GetByID(newID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), second.SoldCartons)
	assert.Equal(t, int64(30), second.RemainingCartons())
}

// Si la disponibilidad total no alcanza, la asignación se rechaza
// entera: ningún lote queda tocado.
func TestAllocate_StockInsuficienteNoMutaNada(t *testing.T) {
	store := memory.NewStore()
	r := store.Repos()
	productID := uuid.New().String()

	batchID := seedBatch(t, r, productID, 30)

	_, err := inventory.Allocate(r, productID, 40)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	batch, err := r.Batches.GetByID(batchID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), batch.SoldCartons, "un rechazo no debe consumir stock")
}

func TestAllocate_CantidadNoPositiva(t *testing.T) {
	store := memory.NewStore()
	r := store.Repos()

	_, err := inventory.Allocate(r, uuid.New().String(), 0)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Reverse devuelve exactamente los cartones de la línea a su lote de
// origen.
func TestReverse_DevuelveCartonesAlLote(t *testing.T) {
	store := memory.NewStore()
	r := store.Repos()
	productID := uuid.New().String()

	batchID := seedBatch(t, r, productID, 100)
	_, err := inventory.Allocate(r, productID, 60)
	require.NoError(t, err)

	line := &entity.InvoiceLine{ID: uuid.New().String(), BatchID: batchID, Cartons: 60}
	require.NoError(t, inventory.Reverse(r, line))

	batch, err := r.Batches.GetByID(batchID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), batch.SoldCartons)
	assert.Equal(t, int64(100), batch.RemainingCartons())
}

// Los embarques liquidados no participan de la asignación aunque sus
// lotes tengan restante.
func TestAllocate_IgnoraEmbarquesLiquidados(t *testing.T) {
	store := memory.NewStore()
	r := store.Repos()
	productID := uuid.New().String()

	settledBatch := seedBatch(t, r, productID, 100)
	batch, err := r.Batches.GetByID(settledBatch)
	require.NoError(t, err)
	shipment, err := r.Shipments.GetByID(batch.ShipmentID)
	require.NoError(t, err)
	shipment.Status = entity.ShipmentStatusSettled
	require.NoError(t, r.Shipments.Update(shipment))

	openBatch := seedBatch(t, r, productID, 40)

	allocs, err := inventory.Allocate(r, productID, 40)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, openBatch, allocs[0].Batch.ID)

	_, err = inventory.Allocate(r, productID, 1)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
}
