package collections_test

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
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/collections"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/shipments"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/workday"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/infrastructure/memory"
)

type fixture struct {
	store      *memory.Store
	runner     *memory.TxRunner
	uc         *collections.UseCase
	billingUC  *billing.UseCase
	customerID string
	productID  string
	cashboxID  string
}

// newFixture arma jornada abierta, cuentas de tesorería, un cliente y
// stock suficiente para facturar.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	r := store.Repos()
	ctx := context.Background()

	wdUC := workday.NewUseCase(runner, r.Workdays)
	_, err := wdUC.OpenDay(ctx, time.Now(), "admin")
	require.NoError(t, err)

	cashboxID := uuid.New().String()
	require.NoError(t, r.Accounts.Create(&entity.Account{
		ID: cashboxID, Type: entity.AccountTypeCashbox, Name: "Caja", Active: true,
	}))
	require.NoError(t, r.Accounts.Create(&entity.Account{
		ID: uuid.New().String(), Type: entity.AccountTypeBank, Name: "Banco", Active: true,
	}))

	productID := uuid.New().String()
	require.NoError(t, r.Products.Create(&entity.Product{ID: productID, Name: "Naranja", Unit: "kg"}))
	customerID := uuid.New().String()
	require.NoError(t, r.Customers.Create(&entity.Customer{ID: customerID, Name: "Frutería Norte"}))
	supplierID := uuid.New().String()
	require.NoError(t, r.Suppliers.Create(&entity.Supplier{ID: supplierID, Name: "Proveedor"}))

	shipUC := shipments.NewUseCase(runner, r.Shipments, r.Batches, r.Suppliers, r.Products, audit.NopNotifier{})
	_, err = shipUC.CreateShipment(ctx, shipments.CreateShipmentInput{
		SupplierID: supplierID,
		Batches:    []shipments.BatchInput{{ProductID: productID, Cartons: 1000, UnitCost: decimal.NewFromInt(1)}},
	}, "op")
	require.NoError(t, err)

	billingUC := billing.NewUseCase(runner, r.Customers, r.Products, r.Invoices, billing.Config{}, audit.NopNotifier{})
	uc := collections.NewUseCase(runner, r.Collections, r.Customers, audit.NopNotifier{})
	return &fixture{
		store:      store,
		runner:     runner,
		uc:         uc,
		billingUC:  billingUC,
		customerID: customerID,
		productID:  productID,
		cashboxID:  cashboxID,
	}
}

// invoice factura subtotal 1000 con descuento 200: total 800.
func (f *fixture) invoice(t *testing.T) *entity.Invoice {
	t.Helper()
	result, err := f.billingUC.CreateInvoice(context.Background(), billing.CreateInvoiceInput{
		CustomerID: f.customerID,
		Discount:   decimal.NewFromInt(200),
		Lines: []billing.LineInput{{
			ProductID: f.productID,
			Cartons:   50,
			Quantity:  decimal.NewFromInt(500),
			UnitPrice: decimal.NewFromInt(2),
		}},
	}, "op")
	require.NoError(t, err)
	return result.Invoice
}

// Cobro parcial con distribución automática: el pago baja el saldo de
// la factura más antigua y entra a caja.
func TestRecordCollection_AutoOldestParcial(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice(t)

	col, err := f.uc.RecordCollection(context.Background(), collections.RecordCollectionInput{
		CustomerID:         f.customerID,
		Amount:             decimal.NewFromInt(500),
		PaymentMethod:      entity.PaymentMethodCash,
		DistributionMethod: entity.DistributionAutoOldest,
	}, "op")
	require.NoError(t, err)

	assert.True(t, col.AllocatedAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, col.UnallocatedAmount.IsZero())

	got, err := f.store.Repos().Invoices.GetByID(inv.ID)
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(300)), "800 - 500")

	customer, err := f.store.Repos().Customers.GetByID(f.customerID)
	require.NoError(t, err)
	assert.True(t, customer.Balance.Equal(decimal.NewFromInt(300)), "el cliente debe 300")

	cashbox, err := f.store.Repos().Accounts.GetByID(f.cashboxID)
	require.NoError(t, err)
	assert.True(t, cashbox.Balance.Equal(decimal.NewFromInt(500)), "el cobro entra a caja")
}

// Un pago mayor que la deuda no es un error: el sobrante queda como
// crédito sin asignar.
func TestRecordCollection_SobrepagoQuedaSinAsignar(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice(t)

	col, err := f.uc.RecordCollection(context.Background(), collections.RecordCollectionInput{
		CustomerID:         f.customerID,
		Amount:             decimal.NewFromInt(1000),
		PaymentMethod:      entity.PaymentMethodBank,
		DistributionMethod: entity.DistributionAutoOldest,
	}, "op")
	require.NoError(t, err)

	assert.True(t, col.AllocatedAmount.Equal(decimal.NewFromInt(800)))
	assert.True(t, col.UnallocatedAmount.Equal(decimal.NewFromInt(200)))

	got, err := f.store.Repos().Invoices.GetByID(inv.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero(), "la factura queda saldada")
}

// La asignación manual no puede exceder el saldo de la factura.
func TestRecordCollection_ManualExcedeSaldoDeFactura(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice(t)

	_, err := f.uc.RecordCollection(context.Background(), collections.RecordCollectionInput{
		CustomerID:         f.customerID,
		Amount:             decimal.NewFromInt(1000),
		PaymentMethod:      entity.PaymentMethodCash,
		DistributionMethod: entity.DistributionManual,
		ManualAllocations:  map[string]decimal.Decimal{inv.ID: decimal.NewFromInt(900)},
	}, "op")
	require.ErrorIs(t, err, domain.ErrAllocationExceedsBalance)
}

// La distribución manual posterior opera sobre el monto sin asignar,
// nunca sobre el monto original del cobro.
func TestDistributeManual_LimitadoPorLoSinAsignar(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice(t)
	ctx := context.Background()

	col, err := f.uc.RecordCollection(ctx, collections.RecordCollectionInput{
		CustomerID:         f.customerID,
		Amount:             decimal.NewFromInt(500),
		PaymentMethod:      entity.PaymentMethodCash,
		DistributionMethod: entity.DistributionManual,
		ManualAllocations:  map[string]decimal.Decimal{inv.ID: decimal.NewFromInt(400)},
	}, "op")
	require.NoError(t, err)
	assert.True(t, col.UnallocatedAmount.Equal(decimal.NewFromInt(100)))

	// Quedan 100 sin asignar: pedir 200 debe fallar aunque el monto
	// original del cobro fue 500.
	_, err = f.uc.DistributeManual(ctx, col.ID, map[string]decimal.Decimal{
		inv.ID: decimal.NewFromInt(200),
	}, "op")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	col2, err := f.uc.DistributeManual(ctx, col.ID, map[string]decimal.Decimal{
		inv.ID: decimal.NewFromInt(100),
	}, "op")
	require.NoError(t, err)
	assert.True(t, col2.AllocatedAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, col2.UnallocatedAmount.IsZero())
}

// Anular un cobro deshace todo: asignaciones, saldo del cliente y el
// depósito en la cuenta.
func TestCancelCollection_ReversaCompleta(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice(t)
	ctx := context.Background()

	col, err := f.uc.RecordCollection(ctx, collections.RecordCollectionInput{
		CustomerID:         f.customerID,
		Amount:             decimal.NewFromInt(500),
		PaymentMethod:      entity.PaymentMethodCash,
		DistributionMethod: entity.DistributionAutoOldest,
	}, "op")
	require.NoError(t, err)

	require.NoError(t, f.uc.CancelCollection(ctx, col.ID, "admin"))

	got, allocs, err := f.uc.GetCollection(col.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CollectionStatusCancelled, got.Status)
	assert.Empty(t, allocs, "las asignaciones se borran")
	assert.True(t, got.AllocatedAmount.IsZero())

	invoice, err := f.store.Repos().Invoices.GetByID(inv.ID)
	require.NoError(t, err)
	assert.True(t, invoice.PaidAmount.IsZero())
	assert.True(t, invoice.Balance.Equal(decimal.NewFromInt(800)), "la factura vuelve a deber todo")

	customer, err := f.store.Repos().Customers.GetByID(f.customerID)
	require.NoError(t, err)
	assert.True(t, customer.Balance.Equal(decimal.NewFromInt(800)))

	cashbox, err := f.store.Repos().Accounts.GetByID(f.cashboxID)
	require.NoError(t, err)
	assert.True(t, cashbox.Balance.IsZero(), "el depósito se retira de caja")

	err = f.uc.CancelCollection(ctx, col.ID, "admin")
	require.ErrorIs(t, err, domain.ErrAlreadyCancelled)
}

// Anular la factura borra las asignaciones que la apuntan y el cobro se
// auto-sana: lo pagado vuelve a quedar como crédito sin asignar.
func TestCancelInvoice_LiberaLoCobradoComoCredito(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice(t)
	ctx := context.Background()

	col, err := f.uc.RecordCollection(ctx, collections.RecordCollectionInput{
		CustomerID:         f.customerID,
		Amount:             decimal.NewFromInt(500),
		PaymentMethod:      entity.PaymentMethodCash,
		DistributionMethod: entity.DistributionAutoOldest,
	}, "op")
	require.NoError(t, err)

	require.NoError(t, f.billingUC.CancelInvoice(ctx, inv.ID, "admin"))

	got, allocs, err := f.uc.GetCollection(col.ID)
	require.NoError(t, err)
	assert.Empty(t, allocs)
	assert.True(t, got.AllocatedAmount.IsZero())
	assert.True(t, got.UnallocatedAmount.Equal(decimal.NewFromInt(500)), "el dinero cobrado sigue siendo crédito del cliente")
}

func TestRecordCollection_ExigeJornadaAbierta(t *testing.T) {
	f := newFixture(t)
	wdUC := workday.NewUseCase(f.runner, f.store.Repos().Workdays)
	_, err := wdUC.CloseDay(context.Background(), "admin")
	require.NoError(t, err)

	_, err = f.uc.RecordCollection(context.Background(), collections.RecordCollectionInput{
		CustomerID:         f.customerID,
		Amount:             decimal.NewFromInt(100),
		PaymentMethod:      entity.PaymentMethodCash,
		DistributionMethod: entity.DistributionAutoOldest,
	}, "op")
	require.ErrorIs(t, err, domain.ErrNoOpenDay)
}

// Los cobros jamás se eliminan.
func TestDeleteCollection_SiempreProhibido(t *testing.T) {
	f := newFixture(t)
	err := f.uc.DeleteCollection(uuid.New().String())
	require.ErrorIs(t, err, domain.ErrDeletionForbidden)
}
