package treasury_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/audit"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/treasury"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/workday"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/infrastructure/memory"
)

type fixture struct {
	store     *memory.Store
	runner    *memory.TxRunner
	uc        *treasury.UseCase
	cashboxID string
	bankID    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	r := store.Repos()

	wdUC := workday.NewUseCase(runner, r.Workdays)
	_, err := wdUC.OpenDay(context.Background(), time.Now(), "admin")
	require.NoError(t, err)

	cashboxID := uuid.New().String()
	require.NoError(t, r.Accounts.Create(&entity.Account{
		ID: cashboxID, Type: entity.AccountTypeCashbox, Name: "Caja", Active: true,
	}))
	bankID := uuid.New().String()
	require.NoError(t, r.Accounts.Create(&entity.Account{
		ID: bankID, Type: entity.AccountTypeBank, Name: "Banco", Active: true,
	}))

	return &fixture{
		store:     store,
		runner:    runner,
		uc:        treasury.NewUseCase(runner, r.Accounts, audit.NopNotifier{}),
		cashboxID: cashboxID,
		bankID:    bankID,
	}
}

// Cada movimiento lleva la foto del saldo en ese instante; la cadena de
// balance_after reconstruye la historia sin recalcular nada.
func TestDepositWithdraw_CadenaDeBalanceAfter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn1, err := f.uc.Deposit(ctx, entity.AccountTypeCashbox, decimal.NewFromInt(100), "aporte", "admin")
	require.NoError(t, err)
	assert.True(t, txn1.BalanceAfter.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, entity.AccountTxnIn, txn1.Type)

	txn2, err := f.uc.Deposit(ctx, entity.AccountTypeCashbox, decimal.NewFromInt(50), "aporte", "admin")
	require.NoError(t, err)
	assert.True(t, txn2.BalanceAfter.Equal(decimal.NewFromInt(150)))

	txn3, err := f.uc.Withdraw(ctx, entity.AccountTypeCashbox, decimal.NewFromInt(30), "retiro", "admin")
	require.NoError(t, err)
	assert.True(t, txn3.BalanceAfter.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, entity.AccountTxnOut, txn3.Type)

	account, err := f.store.Repos().Accounts.GetByID(f.cashboxID)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(120)))

	// Los movimientos salen del más reciente al más antiguo.
	txns, err := f.uc.Transactions(f.cashboxID, 10)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, txn3.ID, txns[0].ID)
	assert.Equal(t, txn1.ID, txns[2].ID)
}

// El saldo nunca baja de cero.
func TestWithdraw_SaldoInsuficiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Deposit(ctx, entity.AccountTypeCashbox, decimal.NewFromInt(100), "aporte", "admin")
	require.NoError(t, err)

	_, err = f.uc.Withdraw(ctx, entity.AccountTypeCashbox, decimal.NewFromInt(101), "retiro", "admin")
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	account, err := f.store.Repos().Accounts.GetByID(f.cashboxID)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(100)), "el rechazo no muta el saldo")
}

// Transferir debita el origen y acredita el destino con la misma
// referencia.
func TestTransfer_EntreCajaYBanco(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Deposit(ctx, entity.AccountTypeCashbox, decimal.NewFromInt(200), "aporte", "admin")
	require.NoError(t, err)

	transferID, err := f.uc.Transfer(ctx, entity.AccountTypeCashbox, entity.AccountTypeBank, decimal.NewFromInt(80), "a banco", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, transferID)

	r := f.store.Repos()
	cashbox, err := r.Accounts.GetByID(f.cashboxID)
	require.NoError(t, err)
	assert.True(t, cashbox.Balance.Equal(decimal.NewFromInt(120)))
	bank, err := r.Accounts.GetByID(f.bankID)
	require.NoError(t, err)
	assert.True(t, bank.Balance.Equal(decimal.NewFromInt(80)))

	bankTxns, err := f.uc.Transactions(f.bankID, 10)
	require.NoError(t, err)
	require.Len(t, bankTxns, 1)
	assert.Equal(t, entity.TxnRefTransfer, bankTxns[0].Ref.Kind)
	assert.Equal(t, transferID, bankTxns[0].Ref.ID)
}

func TestTransfer_MismaCuenta(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Transfer(context.Background(), entity.AccountTypeCashbox, entity.AccountTypeCashbox, decimal.NewFromInt(10), "", "admin")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Un pago a proveedor sale de la cuenta y reduce lo que le debemos.
func TestRecordExpense_PagoAProveedor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.store.Repos()

	supplierID := uuid.New().String()
	require.NoError(t, r.Suppliers.Create(&entity.Supplier{
		ID: supplierID, Name: "Proveedor", Balance: decimal.NewFromInt(1000),
	}))
	_, err := f.uc.Deposit(ctx, entity.AccountTypeBank, decimal.NewFromInt(500), "aporte", "admin")
	require.NoError(t, err)

	expense, err := f.uc.RecordExpense(ctx, treasury.ExpenseInput{
		AccountType: entity.AccountTypeBank,
		Amount:      decimal.NewFromInt(300),
		Category:    entity.ExpenseCategorySupplierPayment,
		Description: "abono factura proveedor",
		SupplierID:  &supplierID,
	}, "admin")
	require.NoError(t, err)
	assert.Equal(t, f.bankID, expense.AccountID)

	supplier, err := r.Suppliers.GetByID(supplierID)
	require.NoError(t, err)
	assert.True(t, supplier.Balance.Equal(decimal.NewFromInt(700)), "la deuda con el proveedor baja")

	bank, err := r.Accounts.GetByID(f.bankID)
	require.NoError(t, err)
	assert.True(t, bank.Balance.Equal(decimal.NewFromInt(200)))
}

// Un gasto no puede atarse a un embarque ya liquidado: sus totales
// están congelados.
func TestRecordExpense_EmbarqueLiquidado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.store.Repos()

	shipment := &entity.Shipment{
		ID:         uuid.New().String(),
		SupplierID: uuid.New().String(),
		Date:       time.Now(),
		Status:     entity.ShipmentStatusSettled,
	}
	require.NoError(t, r.Shipments.Create(shipment))
	_, err := f.uc.Deposit(ctx, entity.AccountTypeCashbox, decimal.NewFromInt(500), "aporte", "admin")
	require.NoError(t, err)

	_, err = f.uc.RecordExpense(ctx, treasury.ExpenseInput{
		AccountType: entity.AccountTypeCashbox,
		Amount:      decimal.NewFromInt(100),
		Category:    entity.ExpenseCategoryFreight,
		ShipmentID:  &shipment.ID,
	}, "admin")
	require.ErrorIs(t, err, domain.ErrAlreadySettled)
}

// Toda operación de tesorería pasa por el portón diario.
func TestTreasury_ExigeJornadaAbierta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wdUC := workday.NewUseCase(f.runner, f.store.Repos().Workdays)
	_, err := wdUC.CloseDay(ctx, "admin")
	require.NoError(t, err)

	_, err = f.uc.Deposit(ctx, entity.AccountTypeCashbox, decimal.NewFromInt(10), "aporte", "admin")
	require.ErrorIs(t, err, domain.ErrNoOpenDay)

	_, err = f.uc.Transfer(ctx, entity.AccountTypeCashbox, entity.AccountTypeBank, decimal.NewFromInt(10), "", "admin")
	require.ErrorIs(t, err, domain.ErrNoOpenDay)
}
