package reports_test

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
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/reports"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/shipments"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/treasury"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/workday"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/infrastructure/memory"
)

type fixture struct {
	store      *memory.Store
	uc         *reports.UseCase
	billingUC  *billing.UseCase
	collectUC  *collections.UseCase
	treasuryUC *treasury.UseCase
	productID  string
	customerID string
	shipmentID string
}

// newFixture arma jornada abierta, caja activa, un cliente y un embarque
// de 100 cartones a costo 10.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	r := store.Repos()
	ctx := context.Background()

	wdUC := workday.NewUseCase(runner, r.Workdays)
	_, err := wdUC.OpenDay(ctx, time.Now(), "admin")
	require.NoError(t, err)

	require.NoError(t, r.Accounts.Create(&entity.Account{
		ID: uuid.New().String(), Type: entity.AccountTypeCashbox, Name: "Caja", Active: true,
	}))

	productID := uuid.New().String()
	require.NoError(t, r.Products.Create(&entity.Product{ID: productID, Name: "Sandía", Unit: "kg"}))
	customerID := uuid.New().String()
	require.NoError(t, r.Customers.Create(&entity.Customer{ID: customerID, Name: "Frutería La Plaza"}))
	supplierID := uuid.New().String()
	require.NoError(t, r.Suppliers.Create(&entity.Supplier{ID: supplierID, Name: "Proveedor"}))

	shipUC := shipments.NewUseCase(runner, r.Shipments, r.Batches, r.Suppliers, r.Products, audit.NopNotifier{})
	s, err := shipUC.CreateShipment(ctx, shipments.CreateShipmentInput{
		SupplierID: supplierID,
		Batches:    []shipments.BatchInput{{ProductID: productID, Cartons: 100, UnitCost: decimal.NewFromInt(10)}},
	}, "op")
	require.NoError(t, err)

	return &fixture{
		store:      store,
		uc:         reports.NewUseCase(r.Shipments, r.Batches, r.Invoices, r.Expenses, r.Collections, r.Customers),
		billingUC:  billing.NewUseCase(runner, r.Customers, r.Products, r.Invoices, billing.Config{}, audit.NopNotifier{}),
		collectUC:  collections.NewUseCase(runner, r.Collections, r.Customers, audit.NopNotifier{}),
		treasuryUC: treasury.NewUseCase(runner, r.Accounts, audit.NopNotifier{}),
		productID:  productID,
		customerID: customerID,
		shipmentID: s.Shipment.ID,
	}
}

// El resumen se deriva de las filas vivas: ventas menos costo de lo
// vendido menos gastos del embarque.
func TestShipmentSummary_MargenBruto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Venta de 60 cartones: 600 kg a 3 = 1800.
	_, err := f.billingUC.CreateInvoice(ctx, billing.CreateInvoiceInput{
		CustomerID: f.customerID,
		Lines: []billing.LineInput{{
			ProductID: f.productID,
			Cartons:   60,
			Quantity:  decimal.NewFromInt(600),
			UnitPrice: decimal.NewFromInt(3),
		}},
	}, "op")
	require.NoError(t, err)

	// Flete de 100 atado al embarque.
	_, err = f.treasuryUC.Deposit(ctx, entity.AccountTypeCashbox, decimal.NewFromInt(500), "aporte", "admin")
	require.NoError(t, err)
	_, err = f.treasuryUC.RecordExpense(ctx, treasury.ExpenseInput{
		AccountType: entity.AccountTypeCashbox,
		Amount:      decimal.NewFromInt(100),
		Category:    entity.ExpenseCategoryFreight,
		ShipmentID:  &f.shipmentID,
	}, "admin")
	require.NoError(t, err)

	summary, err := f.uc.ShipmentSummary(f.shipmentID)
	require.NoError(t, err)

	assert.Equal(t, int64(100), summary.TotalCartons)
	assert.Equal(t, int64(60), summary.SoldCartons)
	assert.Equal(t, int64(40), summary.RemainingCartons)
	assert.True(t, summary.SalesTotal.Equal(decimal.NewFromInt(1800)))
	assert.True(t, summary.CostOfGoodsSold.Equal(decimal.NewFromInt(600)), "60 cartones a costo 10")
	assert.True(t, summary.ExpensesTotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, summary.GrossMargin.Equal(decimal.NewFromInt(1100)), "1800 - 600 - 100")
	assert.True(t, summary.WastageTotal.IsZero())

	require.Len(t, summary.Batches, 1)
	assert.Equal(t, int64(60), summary.Batches[0].SoldCartons)
	assert.True(t, summary.Batches[0].CostOfGoodsSold.Equal(decimal.NewFromInt(600)))
}

func TestShipmentSummary_EmbarqueInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.ShipmentSummary(uuid.New().String())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// El estado de cuenta lista débitos y créditos con saldo corrido.
func TestCustomerStatement_SaldoCorrido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Factura de 800: 500 kg a 2 menos descuento de 200.
	result, err := f.billingUC.CreateInvoice(ctx, billing.CreateInvoiceInput{
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

	_, err = f.collectUC.RecordCollection(ctx, collections.RecordCollectionInput{
		CustomerID:         f.customerID,
		Amount:             decimal.NewFromInt(500),
		PaymentMethod:      entity.PaymentMethodCash,
		DistributionMethod: entity.DistributionAutoOldest,
	}, "op")
	require.NoError(t, err)

	statement, err := f.uc.CustomerStatement(f.customerID)
	require.NoError(t, err)
	require.Len(t, statement.Entries, 2)

	first := statement.Entries[0]
	assert.Equal(t, reports.StatementEntryInvoice, first.Type)
	assert.Equal(t, result.Invoice.Number, first.Number)
	assert.True(t, first.Debit.Equal(decimal.NewFromInt(800)))
	assert.True(t, first.Balance.Equal(decimal.NewFromInt(800)))

	second := statement.Entries[1]
	assert.Equal(t, reports.StatementEntryCollection, second.Type)
	assert.True(t, second.Credit.Equal(decimal.NewFromInt(500)))
	assert.True(t, second.Balance.Equal(decimal.NewFromInt(300)))

	assert.True(t, statement.Balance.Equal(decimal.NewFromInt(300)))
}

// Una factura anulada queda en el historial con monto cero.
func TestCustomerStatement_FacturaAnuladaEnCero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.billingUC.CreateInvoice(ctx, billing.CreateInvoiceInput{
		CustomerID: f.customerID,
		Lines: []billing.LineInput{{
			ProductID: f.productID,
			Cartons:   10,
			Quantity:  decimal.NewFromInt(100),
			UnitPrice: decimal.NewFromInt(2),
		}},
	}, "op")
	require.NoError(t, err)
	require.NoError(t, f.billingUC.CancelInvoice(ctx, result.Invoice.ID, "admin"))

	statement, err := f.uc.CustomerStatement(f.customerID)
	require.NoError(t, err)
	require.Len(t, statement.Entries, 1)
	assert.True(t, statement.Entries[0].Debit.IsZero())
	assert.Equal(t, "Factura anulada", statement.Entries[0].Description)
	assert.True(t, statement.Balance.IsZero())
}
