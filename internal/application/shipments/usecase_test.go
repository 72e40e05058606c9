package shipments_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/audit"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/shipments"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/workday"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/infrastructure/memory"
)

type fixture struct {
	store      *memory.Store
	uc         *shipments.UseCase
	productID  string
	supplierID string
}

// newFixture arma el caso de uso sobre el store en memoria, con jornada
// abierta y un producto y un proveedor sembrados.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	r := store.Repos()

	wdUC := workday.NewUseCase(runner, r.Workdays)
	_, err := wdUC.OpenDay(context.Background(), time.Now(), "admin")
	require.NoError(t, err)

	productID := uuid.New().String()
	require.NoError(t, r.Products.Create(&entity.Product{ID: productID, Name: "Tomate", Unit: "kg"}))
	supplierID := uuid.New().String()
	require.NoError(t, r.Suppliers.Create(&entity.Supplier{ID: supplierID, Name: "Frutas del Sur"}))

	uc := shipments.NewUseCase(runner, r.Shipments, r.Batches, r.Suppliers, r.Products, audit.NopNotifier{})
	return &fixture{store: store, uc: uc, productID: productID, supplierID: supplierID}
}

func (f *fixture) create(t *testing.T, cartons int64, unitCost int64) *shipments.ShipmentResult {
	t.Helper()
	result, err := f.uc.CreateShipment(context.Background(), shipments.CreateShipmentInput{
		SupplierID: f.supplierID,
		Date:       time.Now(),
		Batches: []shipments.BatchInput{{
			ProductID:     f.productID,
			Cartons:       cartons,
			WeightPerUnit: decimal.NewFromInt(10),
			UnitCost:      decimal.NewFromInt(unitCost),
		}},
	}, "operador")
	require.NoError(t, err)
	return result
}

// La secuencia FIFO se asigna en orden de creación y nunca se comparte.
func TestCreateShipment_SecuenciaFIFOMonotona(t *testing.T) {
	f := newFixture(t)

	first := f.create(t, 100, 10)
	second := f.create(t, 50, 12)

	assert.Equal(t, int64(1), first.Shipment.FifoSequence)
	assert.Equal(t, int64(2), second.Shipment.FifoSequence)
	assert.Equal(t, entity.ShipmentStatusOpen, first.Shipment.Status)
	require.Len(t, first.Batches, 1)
	assert.Equal(t, 1, first.Batches[0].Position)
}

// El costo del embarque queda como deuda con el proveedor.
func TestCreateShipment_SumaCostoAlSaldoDelProveedor(t *testing.T) {
	f := newFixture(t)

	result := f.create(t, 100, 10)
	assert.True(t, result.Shipment.TotalCost.Equal(decimal.NewFromInt(1000)))

	supplier, err := f.store.Repos().Suppliers.GetByID(f.supplierID)
	require.NoError(t, err)
	assert.True(t, supplier.Balance.Equal(decimal.NewFromInt(1000)),
		"el saldo del proveedor debe subir por el costo total, quedó %s", supplier.Balance)
}

// Sin jornada abierta no se reciben embarques.
func TestCreateShipment_ExigeJornadaAbierta(t *testing.T) {
	f := newFixture(t)
	runner := memory.NewTxRunner(f.store)
	wdUC := workday.NewUseCase(runner, f.store.Repos().Workdays)
	_, err := wdUC.CloseDay(context.Background(), "admin")
	require.NoError(t, err)

	_, err = f.uc.CreateShipment(context.Background(), shipments.CreateShipmentInput{
		SupplierID: f.supplierID,
		Batches:    []shipments.BatchInput{{ProductID: f.productID, Cartons: 10}},
	}, "operador")
	require.ErrorIs(t, err, domain.ErrNoOpenDay)
}

func TestCreateShipment_ValidaEntrada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateShipment(ctx, shipments.CreateShipmentInput{SupplierID: f.supplierID}, "op")
	require.ErrorIs(t, err, domain.ErrInvalidInput, "sin lotes")

	_, err = f.uc.CreateShipment(ctx, shipments.CreateShipmentInput{
		SupplierID: f.supplierID,
		Batches:    []shipments.BatchInput{{ProductID: f.productID, Cartons: 0}},
	}, "op")
	require.ErrorIs(t, err, domain.ErrInvalidInput, "cartones no positivos")

	_, err = f.uc.CreateShipment(ctx, shipments.CreateShipmentInput{
		SupplierID: f.supplierID,
		Batches:    []shipments.BatchInput{{ProductID: uuid.New().String(), Cartons: 5}},
	}, "op")
	require.ErrorIs(t, err, domain.ErrNotFound, "producto inexistente")
}

// Corregir la fecha no toca la secuencia FIFO.
func TestUpdateDate_NoAlteraLaSecuencia(t *testing.T) {
	f := newFixture(t)
	result := f.create(t, 100, 10)

	newDate := time.Now().AddDate(0, 0, -7)
	require.NoError(t, f.uc.UpdateDate(context.Background(), result.Shipment.ID, newDate, "admin"))

	got, err := f.uc.GetShipment(result.Shipment.ID)
	require.NoError(t, err)
	assert.True(t, got.Shipment.Date.Equal(newDate))
	assert.Equal(t, result.Shipment.FifoSequence, got.Shipment.FifoSequence)
}

func TestUpdateDate_RechazaEmbarqueLiquidado(t *testing.T) {
	f := newFixture(t)
	result := f.create(t, 100, 10)

	r := f.store.Repos()
	shipment, err := r.Shipments.GetByID(result.Shipment.ID)
	require.NoError(t, err)
	shipment.Status = entity.ShipmentStatusSettled
	require.NoError(t, r.Shipments.Update(shipment))

	err = f.uc.UpdateDate(context.Background(), result.Shipment.ID, time.Now(), "admin")
	require.ErrorIs(t, err, domain.ErrAlreadySettled)
}
