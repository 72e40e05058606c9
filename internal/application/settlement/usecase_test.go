package settlement_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/audit"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/billing"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/settlement"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/shipments"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/workday"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/infrastructure/memory"
)

type fixture struct {
	store      *memory.Store
	runner     *memory.TxRunner
	uc         *settlement.UseCase
	shipUC     *shipments.UseCase
	billingUC  *billing.UseCase
	productID  string
	customerID string
	supplierID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	r := store.Repos()

	wdUC := workday.NewUseCase(runner, r.Workdays)
	_, err := wdUC.OpenDay(context.Background(), time.Now(), "admin")
	require.NoError(t, err)

	productID := uuid.New().String()
	require.NoError(t, r.Products.Create(&entity.Product{ID: productID, Name: "Limón", Unit: "kg"}))
	customerID := uuid.New().String()
	require.NoError(t, r.Customers.Create(&entity.Customer{ID: customerID, Name: "Cliente"}))
	supplierID := uuid.New().String()
	require.NoError(t, r.Suppliers.Create(&entity.Supplier{ID: supplierID, Name: "Proveedor"}))

	return &fixture{
		store:      store,
		runner:     runner,
		uc:         settlement.NewUseCase(runner, r.Shipments, audit.NopNotifier{}),
		shipUC:     shipments.NewUseCase(runner, r.Shipments, r.Batches, r.Suppliers, r.Products, audit.NopNotifier{}),
		billingUC:  billing.NewUseCase(runner, r.Customers, r.Products, r.Invoices, billing.Config{}, audit.NopNotifier{}),
		productID:  productID,
		customerID: customerID,
		supplierID: supplierID,
	}
}

func (f *fixture) newShipment(t *testing.T, cartons int64) *shipments.ShipmentResult {
	t.Helper()
	result, err := f.shipUC.CreateShipment(context.Background(), shipments.CreateShipmentInput{
		SupplierID: f.supplierID,
		Batches:    []shipments.BatchInput{{ProductID: f.productID, Cartons: cartons, UnitCost: decimal.NewFromInt(10)}},
	}, "op")
	require.NoError(t, err)
	return result
}

func (f *fixture) sell(t *testing.T, cartons int64) {
	t.Helper()
	_, err := f.billingUC.CreateInvoice(context.Background(), billing.CreateInvoiceInput{
		CustomerID: f.customerID,
		Lines: []billing.LineInput{{
			ProductID: f.productID,
			Cartons:   cartons,
			Quantity:  decimal.NewFromInt(cartons * 10),
			UnitPrice: decimal.NewFromInt(1),
		}},
	}, "op")
	require.NoError(t, err)
}

// Liquidar exige el cierre previo: open -> settled directo está
// prohibido.
func TestSettle_ExigeEmbarqueCerrado(t *testing.T) {
	f := newFixture(t)
	s := f.newShipment(t, 100)

	err := f.uc.Settle(context.Background(), s.Shipment.ID, nil, "admin")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Con stock restante y sin sucesor, la liquidación se rechaza.
func TestSettle_StockRestanteSinSucesor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.newShipment(t, 100)
	f.sell(t, 70)

	require.NoError(t, f.uc.Close(ctx, s.Shipment.ID, "admin"))
	err := f.uc.Settle(ctx, s.Shipment.ID, nil, "admin")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Liquidación completa: el restante se traslada al sucesor, los totales
// se congelan y el embarque queda settled.
func TestSettle_TrasladaRestanteAlSucesor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.newShipment(t, 100)
	f.sell(t, 70)
	s2 := f.newShipment(t, 50)

	require.NoError(t, f.uc.Close(ctx, s1.Shipment.ID, "admin"))
	require.NoError(t, f.uc.Settle(ctx, s1.Shipment.ID, &s2.Shipment.ID, "admin"))

	r := f.store.Repos()
	settled, err := r.Shipments.GetByID(s1.Shipment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusSettled, settled.Status)
	assert.Equal(t, int64(30), settled.TotalCarryoverOut)
	assert.True(t, settled.TotalSales.Equal(decimal.NewFromInt(700)), "70 cartones * 10 kg * 1")
	assert.NotNil(t, settled.SettledAt)

	source, err := r.Batches.GetByID(s1.Batches[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), source.CarryoverOutCartons)
	assert.Equal(t, int64(0), source.RemainingCartons())

	// El lote del mismo producto en el sucesor recibe el traslado.
	dest, err := r.Batches.FindByShipmentAndProduct(s2.Shipment.ID, f.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), dest.CarryoverInCartons)
	assert.Equal(t, int64(80), dest.RemainingCartons(), "50 propios + 30 trasladados")

	carryovers, err := r.Carryovers.ListByFromShipment(s1.Shipment.ID)
	require.NoError(t, err)
	require.Len(t, carryovers, 1)
	assert.Equal(t, int64(30), carryovers[0].Cartons)

	err = f.uc.Settle(ctx, s1.Shipment.ID, &s2.Shipment.ID, "admin")
	require.ErrorIs(t, err, domain.ErrAlreadySettled)
}

// Sin stock restante no hay nada que trasladar: liquidar sin sucesor
// procede.
func TestSettle_SinRestanteNoExigeSucesor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.newShipment(t, 100)
	f.sell(t, 100) // agota el embarque: cierre automático incluido

	require.NoError(t, f.uc.Settle(ctx, s.Shipment.ID, nil, "admin"))

	settled, err := f.store.Repos().Shipments.GetByID(s.Shipment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusSettled, settled.Status)
	assert.Equal(t, int64(0), settled.TotalCarryoverOut)
}

// El sucesor debe estar abierto y no puede ser el mismo embarque.
func TestSettle_SucesorInvalido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.newShipment(t, 100)
	f.sell(t, 70)
	s2 := f.newShipment(t, 50)

	require.NoError(t, f.uc.Close(ctx, s1.Shipment.ID, "admin"))
	require.NoError(t, f.uc.Close(ctx, s2.Shipment.ID, "admin"))

	err := f.uc.Settle(ctx, s1.Shipment.ID, &s2.Shipment.ID, "admin")
	require.ErrorIs(t, err, domain.ErrSuccessorNotOpen)

	err = f.uc.Settle(ctx, s1.Shipment.ID, &s1.Shipment.ID, "admin")
	require.ErrorIs(t, err, domain.ErrSuccessorNotOpen)
}

// Des-liquidar deshace los traslados, limpia los totales y deja el
// embarque en closed, nunca de vuelta en open.
func TestUnsettle_ReversaCompleta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.newShipment(t, 100)
	f.sell(t, 70)
	s2 := f.newShipment(t, 50)

	require.NoError(t, f.uc.Close(ctx, s1.Shipment.ID, "admin"))
	require.NoError(t, f.uc.Settle(ctx, s1.Shipment.ID, &s2.Shipment.ID, "admin"))
	require.NoError(t, f.uc.Unsettle(ctx, s1.Shipment.ID, "admin"))

	r := f.store.Repos()
	shipment, err := r.Shipments.GetByID(s1.Shipment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusClosed, shipment.Status)
	assert.Equal(t, int64(0), shipment.TotalCarryoverOut)
	assert.True(t, shipment.TotalSales.IsZero())
	assert.Nil(t, shipment.SettledAt)

	source, err := r.Batches.GetByID(s1.Batches[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), source.CarryoverOutCartons)
	assert.Equal(t, int64(30), source.RemainingCartons(), "el restante vuelve al origen")

	dest, err := r.Batches.FindByShipmentAndProduct(s2.Shipment.ID, f.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), dest.CarryoverInCartons)

	carryovers, err := r.Carryovers.ListByFromShipment(s1.Shipment.ID)
	require.NoError(t, err)
	assert.Empty(t, carryovers, "las filas de traslado se borran")

	err = f.uc.Unsettle(ctx, s1.Shipment.ID, "admin")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Si el stock trasladado ya se vendió aguas abajo, la des-liquidación
// es imposible: ese stock ya no existe.
func TestUnsettle_TrasladoYaVendido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.newShipment(t, 100)
	f.sell(t, 70)
	s2 := f.newShipment(t, 50)

	require.NoError(t, f.uc.Close(ctx, s1.Shipment.ID, "admin"))
	require.NoError(t, f.uc.Settle(ctx, s1.Shipment.ID, &s2.Shipment.ID, "admin"))

	// El sucesor tiene 80 (50 propios + 30 trasladados): vender 60 deja
	// 20 restantes, menos que los 30 del traslado.
	f.sell(t, 60)

	err := f.uc.Unsettle(ctx, s1.Shipment.ID, "admin")
	require.ErrorIs(t, err, domain.ErrCarryoverAlreadySold)
}

// Agotar todos los lotes cierra el embarque sin intervención manual;
// cerrar de nuevo es un error.
func TestClose_Transiciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.newShipment(t, 100)

	require.NoError(t, f.uc.Close(ctx, s.Shipment.ID, "admin"))
	err := f.uc.Close(ctx, s.Shipment.ID, "admin")
	require.ErrorIs(t, err, domain.ErrAlreadyClosed)
}

// Si el sucesor no trae lote del producto, la liquidación le crea uno
// sin cartones propios: todo su stock es el traslado entrante.
func TestSettle_SucesorSinLoteDelProductoGanaUnoNuevo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.store.Repos()

	s1 := f.newShipment(t, 100)
	f.sell(t, 70)

	otherProduct := uuid.New().String()
	require.NoError(t, r.Products.Create(&entity.Product{ID: otherProduct, Name: "Fresa", Unit: "kg"}))
	s2, err := f.shipUC.CreateShipment(ctx, shipments.CreateShipmentInput{
		SupplierID: f.supplierID,
		Batches:    []shipments.BatchInput{{ProductID: otherProduct, Cartons: 40, UnitCost: decimal.NewFromInt(8)}},
	}, "op")
	require.NoError(t, err)

	require.NoError(t, f.uc.Close(ctx, s1.Shipment.ID, "admin"))
	require.NoError(t, f.uc.Settle(ctx, s1.Shipment.ID, &s2.Shipment.ID, "admin"))

	dest, err := r.Batches.FindByShipmentAndProduct(s2.Shipment.ID, f.productID)
	require.NoError(t, err)
	require.NotNil(t, dest)
	assert.Equal(t, int64(0), dest.Cartons, "sin cartones propios")
	assert.Equal(t, int64(30), dest.CarryoverInCartons)
	assert.Equal(t, int64(30), dest.RemainingCartons())
	assert.Equal(t, 2, dest.Position)
}

// Con dos lotes del mismo producto en el sucesor, el traslado entra
// siempre al de menor posición.
func TestSettle_TrasladoAlLoteDeMenorPosicion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.store.Repos()

	s1 := f.newShipment(t, 100)
	f.sell(t, 70)
	s2, err := f.shipUC.CreateShipment(ctx, shipments.CreateShipmentInput{
		SupplierID: f.supplierID,
		Batches: []shipments.BatchInput{
			{ProductID: f.productID, Cartons: 20, UnitCost: decimal.NewFromInt(9)},
			{ProductID: f.productID, Cartons: 20, UnitCost: decimal.NewFromInt(11)},
		},
	}, "op")
	require.NoError(t, err)

	require.NoError(t, f.uc.Close(ctx, s1.Shipment.ID, "admin"))
	require.NoError(t, f.uc.Settle(ctx, s1.Shipment.ID, &s2.Shipment.ID, "admin"))

	batches, err := r.Batches.ListByShipment(s2.Shipment.ID)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, int64(30), batches[0].CarryoverInCartons, "posición 1 recibe el traslado")
	assert.Equal(t, int64(0), batches[1].CarryoverInCartons)
}

// Una venta anulada deja sus líneas como historial apuntando al lote
// destino: al revertir la liquidación, ese cascarón se conserva en cero
// en vez de borrarse.
func TestUnsettle_ConservaCascaronReferenciadoPorLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.store.Repos()

	s1 := f.newShipment(t, 100)
	f.sell(t, 70)

	otherProduct := uuid.New().String()
	require.NoError(t, r.Products.Create(&entity.Product{ID: otherProduct, Name: "Fresa", Unit: "kg"}))
	s2, err := f.shipUC.CreateShipment(ctx, shipments.CreateShipmentInput{
		SupplierID: f.supplierID,
		Batches:    []shipments.BatchInput{{ProductID: otherProduct, Cartons: 40, UnitCost: decimal.NewFromInt(8)}},
	}, "op")
	require.NoError(t, err)

	require.NoError(t, f.uc.Close(ctx, s1.Shipment.ID, "admin"))
	require.NoError(t, f.uc.Settle(ctx, s1.Shipment.ID, &s2.Shipment.ID, "admin"))

	// Venta del stock trasladado, luego anulada.
	result, err := f.billingUC.CreateInvoice(ctx, billing.CreateInvoiceInput{
		CustomerID: f.customerID,
		Lines: []billing.LineInput{{
			ProductID: f.productID,
			Cartons:   30,
			Quantity:  decimal.NewFromInt(300),
			UnitPrice: decimal.NewFromInt(1),
		}},
	}, "op")
	require.NoError(t, err)
	require.NoError(t, f.billingUC.CancelInvoice(ctx, result.Invoice.ID, "admin"))

	require.NoError(t, f.uc.Unsettle(ctx, s1.Shipment.ID, "admin"))

	dest, err := r.Batches.FindByShipmentAndProduct(s2.Shipment.ID, f.productID)
	require.NoError(t, err)
	require.NotNil(t, dest, "el lote con historial de líneas no se borra")
	assert.Equal(t, int64(0), dest.CarryoverInCartons)
	assert.Equal(t, int64(0), dest.RemainingCartons())

	sources, err := r.Batches.ListByShipment(s1.Shipment.ID)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, int64(30), sources[0].RemainingCartons())
}
