package billing_test

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
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/shipments"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/workday"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/infrastructure/memory"
)

type fixture struct {
	store      *memory.Store
	runner     *memory.TxRunner
	uc         *billing.UseCase
	productID  string
	customerID string
	shipment1  string // 100 cartones
	shipment2  string // 50 cartones
}

// newFixture arma jornada abierta, un cliente y dos embarques del mismo
// producto: 100 cartones (secuencia 1) y 50 cartones (secuencia 2).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	r := store.Repos()
	ctx := context.Background()

	wdUC := workday.NewUseCase(runner, r.Workdays)
	_, err := wdUC.OpenDay(ctx, time.Now(), "admin")
	require.NoError(t, err)

	productID := uuid.New().String()
	require.NoError(t, r.Products.Create(&entity.Product{ID: productID, Name: "Mango", Unit: "kg"}))
	customerID := uuid.New().String()
	require.NoError(t, r.Customers.Create(&entity.Customer{ID: customerID, Name: "Mercado Central"}))
	supplierID := uuid.New().String()
	require.NoError(t, r.Suppliers.Create(&entity.Supplier{ID: supplierID, Name: "Proveedor"}))

	shipUC := shipments.NewUseCase(runner, r.Shipments, r.Batches, r.Suppliers, r.Products, audit.NopNotifier{})
	s1, err := shipUC.CreateShipment(ctx, shipments.CreateShipmentInput{
		SupplierID: supplierID,
		Batches:    []shipments.BatchInput{{ProductID: productID, Cartons: 100, UnitCost: decimal.NewFromInt(10)}},
	}, "op")
	require.NoError(t, err)
	s2, err := shipUC.CreateShipment(ctx, shipments.CreateShipmentInput{
		SupplierID: supplierID,
		Batches:    []shipments.BatchInput{{ProductID: productID, Cartons: 50, UnitCost: decimal.NewFromInt(12)}},
	}, "op")
	require.NoError(t, err)

	uc := billing.NewUseCase(runner, r.Customers, r.Products, r.Invoices, billing.Config{}, audit.NopNotifier{})
	return &fixture{
		store:      store,
		runner:     runner,
		uc:         uc,
		productID:  productID,
		customerID: customerID,
		shipment1:  s1.Shipment.ID,
		shipment2:  s2.Shipment.ID,
	}
}

// Una línea de 120 cartones debe partirse por FIFO: 100 del embarque
// más antiguo y 20 del siguiente, cada tramo con el costo de su lote y
// el peso pro-rata.
func TestCreateInvoice_ParteLineaPorFIFO(t *testing.T) {
	f := newFixture(t)

	result, err := f.uc.CreateInvoice(context.Background(), billing.CreateInvoiceInput{
		CustomerID: f.customerID,
		Discount:   decimal.NewFromInt(400),
		Lines: []billing.LineInput{{
			ProductID: f.productID,
			Cartons:   120,
			Quantity:  decimal.NewFromInt(1200),
			UnitPrice: decimal.NewFromInt(2),
		}},
	}, "op")
	require.NoError(t, err)

	inv := result.Invoice
	assert.Equal(t, int64(1), inv.Number, "primer consecutivo")
	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(2400)))
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(2000)))
	assert.True(t, inv.Balance.Equal(decimal.NewFromInt(2000)))

	require.Len(t, result.Lines, 2, "la línea se parte en dos tramos")
	assert.Equal(t, int64(100), result.Lines[0].Cartons)
	assert.True(t, result.Lines[0].Quantity.Equal(decimal.NewFromInt(1000)), "peso pro-rata del primer tramo")
	assert.True(t, result.Lines[0].UnitCost.Equal(decimal.NewFromInt(10)), "costo copiado del lote de origen")
	assert.Equal(t, int64(20), result.Lines[1].Cartons)
	assert.True(t, result.Lines[1].Quantity.Equal(decimal.NewFromInt(200)), "el último tramo recibe el remanente")
	assert.True(t, result.Lines[1].UnitCost.Equal(decimal.NewFromInt(12)))

	// La venta sube lo que el cliente debe.
	customer, err := f.store.Repos().Customers.GetByID(f.customerID)
	require.NoError(t, err)
	assert.True(t, customer.Balance.Equal(decimal.NewFromInt(2000)))

	// El embarque que quedó sin stock se cierra solo.
	s1, err := f.store.Repos().Shipments.GetByID(f.shipment1)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusClosed, s1.Status, "agotado => cierre automático")
	s2, err := f.store.Repos().Shipments.GetByID(f.shipment2)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusOpen, s2.Status)
}

// Una factura de mermas consume stock y registra la pérdida, pero no
// genera cuenta por cobrar.
func TestCreateInvoice_MermasSinCuentaPorCobrar(t *testing.T) {
	f := newFixture(t)

	result, err := f.uc.CreateInvoice(context.Background(), billing.CreateInvoiceInput{
		CustomerID: f.customerID,
		Type:       entity.InvoiceTypeWastage,
		Lines: []billing.LineInput{{
			ProductID: f.productID,
			Cartons:   5,
			Quantity:  decimal.NewFromInt(50),
			UnitPrice: decimal.NewFromInt(2),
		}},
	}, "op")
	require.NoError(t, err)

	assert.True(t, result.Invoice.Balance.IsZero(), "la merma no deja saldo")

	customer, err := f.store.Repos().Customers.GetByID(f.customerID)
	require.NoError(t, err)
	assert.True(t, customer.Balance.IsZero(), "el saldo del cliente no cambia")

	batch, err := f.store.Repos().Batches.GetByID(result.Lines[0].BatchID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), batch.SoldCartons)
	assert.True(t, batch.WastageQuantity.Equal(decimal.NewFromInt(50)), "el peso perdido queda en el lote")
}

// El descuento se valida contra el subtotal antes de tocar inventario.
func TestCreateInvoice_DescuentoExcesivoNoConsumeStock(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateInvoice(context.Background(), billing.CreateInvoiceInput{
		CustomerID: f.customerID,
		Discount:   decimal.NewFromInt(5000),
		Lines: []billing.LineInput{{
			ProductID: f.productID,
			Cartons:   10,
			Quantity:  decimal.NewFromInt(100),
			UnitPrice: decimal.NewFromInt(2),
		}},
	}, "op")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	batches, err := f.store.Repos().Batches.ListByShipment(f.shipment1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), batches[0].SoldCartons, "el rechazo no debe dejar asignación parcial")
}

func TestCreateInvoice_StockInsuficiente(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateInvoice(context.Background(), billing.CreateInvoiceInput{
		CustomerID: f.customerID,
		Lines: []billing.LineInput{{
			ProductID: f.productID,
			Cartons:   151,
			Quantity:  decimal.NewFromInt(1510),
			UnitPrice: decimal.NewFromInt(2),
		}},
	}, "op")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCreateInvoice_ExigeJornadaAbierta(t *testing.T) {
	f := newFixture(t)
	wdUC := workday.NewUseCase(f.runner, f.store.Repos().Workdays)
	_, err := wdUC.CloseDay(context.Background(), "admin")
	require.NoError(t, err)

	_, err = f.uc.CreateInvoice(context.Background(), billing.CreateInvoiceInput{
		CustomerID: f.customerID,
		Lines: []billing.LineInput{{
			ProductID: f.productID,
			Cartons:   1,
			Quantity:  decimal.NewFromInt(10),
			UnitPrice: decimal.NewFromInt(2),
		}},
	}, "op")
	require.ErrorIs(t, err, domain.ErrNoOpenDay)
}

// Anular restaura el stock de cada lote de origen y descuenta el total
// del saldo del cliente. El número queda quemado para siempre.
func TestCancelInvoice_RestauraStockYSaldo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.uc.CreateInvoice(ctx, billing.CreateInvoiceInput{
		CustomerID: f.customerID,
		Lines: []billing.LineInput{{
			ProductID: f.productID,
			Cartons:   120,
			Quantity:  decimal.NewFromInt(1200),
			UnitPrice: decimal.NewFromInt(2),
		}},
	}, "op")
	require.NoError(t, err)

	require.NoError(t, f.uc.CancelInvoice(ctx, result.Invoice.ID, "admin"))

	got, err := f.uc.GetInvoice(result.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusCancelled, got.Invoice.Status)
	assert.True(t, got.Invoice.Balance.IsZero())
	assert.NotNil(t, got.Invoice.CancelledAt)

	customer, err := f.store.Repos().Customers.GetByID(f.customerID)
	require.NoError(t, err)
	assert.True(t, customer.Balance.IsZero(), "el saldo del cliente vuelve a cero")

	for _, line := range result.Lines {
		batch, err := f.store.Repos().Batches.GetByID(line.BatchID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), batch.SoldCartons, "los cartones vuelven a su lote")
	}

	// La anulación es terminal.
	err = f.uc.CancelInvoice(ctx, result.Invoice.ID, "admin")
	require.ErrorIs(t, err, domain.ErrAlreadyCancelled)

	// El consecutivo no se reutiliza.
	next, err := f.uc.CreateInvoice(ctx, billing.CreateInvoiceInput{
		CustomerID: f.customerID,
		Lines: []billing.LineInput{{
			ProductID: f.productID,
			Cartons:   1,
			Quantity:  decimal.NewFromInt(10),
			UnitPrice: decimal.NewFromInt(2),
		}},
	}, "op")
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.Invoice.Number)
}

// Las facturas jamás se eliminan, en cualquier estado.
func TestDeleteInvoice_SiempreProhibido(t *testing.T) {
	f := newFixture(t)
	err := f.uc.DeleteInvoice(uuid.New().String())
	require.ErrorIs(t, err, domain.ErrDeletionForbidden)
}
