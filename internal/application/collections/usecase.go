package collections

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/audit"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/treasury"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/workday"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

// UseCase registra cobros de clientes y los distribuye entre sus
// facturas pendientes (más antigua primero, más reciente primero o
// manual). Los cobros jamás se eliminan: solo se anulan.
type UseCase struct {
	txRunner       repository.TxRunner
	collectionRepo repository.CollectionRepository
	customerRepo   repository.CustomerRepository
	notifier       audit.Notifier
}

// NewUseCase construye el caso de uso de cobros.
func NewUseCase(
	txRunner repository.TxRunner,
	collectionRepo repository.CollectionRepository,
	customerRepo repository.CustomerRepository,
	notifier audit.Notifier,
) *UseCase {
	return &UseCase{
		txRunner:       txRunner,
		collectionRepo: collectionRepo,
		customerRepo:   customerRepo,
		notifier:       notifier,
	}
}

// RecordCollectionInput entrada para registrar un cobro.
type RecordCollectionInput struct {
	CustomerID         string
	Amount             decimal.Decimal
	PaymentMethod      string                     // cash, bank
	DistributionMethod string                     // auto_oldest, auto_newest, manual
	ManualAllocations  map[string]decimal.Decimal // factura -> monto (solo manual)
}

// RecordCollection registra el cobro: descuenta el monto del saldo del
// cliente, lo acredita a la cuenta (caja o banco según el medio de
// pago) con su movimiento emparejado, y si la distribución no es manual
// la ejecuta de inmediato. El sobrante queda como monto sin asignar:
// crédito que el cliente podrá consumir después, nunca un error.
func (uc *UseCase) RecordCollection(ctx context.Context, in RecordCollectionInput, userID string) (*entity.Collection, error) {
	if in.CustomerID == "" || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	accountType, err := accountTypeFor(in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	switch in.DistributionMethod {
	case entity.DistributionAutoOldest, entity.DistributionAutoNewest, entity.DistributionManual:
	default:
		return nil, fmt.Errorf("%w: método de distribución %q", domain.ErrInvalidInput, in.DistributionMethod)
	}

	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
	}

	collection := &entity.Collection{
		ID:                 uuid.New().String(),
		CustomerID:         in.CustomerID,
		Amount:             in.Amount,
		PaymentMethod:      in.PaymentMethod,
		DistributionMethod: in.DistributionMethod,
		AllocatedAmount:    decimal.Zero,
		UnallocatedAmount:  in.Amount,
		Status:             entity.CollectionStatusConfirmed,
		CreatedBy:          userID,
	}

	err = uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		date, err := workday.OpenDateInTx(r)
		if err != nil {
			return err
		}
		collection.Date = date
		now := time.Now()
		collection.CreatedAt = now
		collection.UpdatedAt = now
		if err := r.Collections.Create(collection); err != nil {
			return err
		}
		// El pago reduce lo que el cliente debe.
		if err := r.Customers.AddBalance(in.CustomerID, in.Amount.Neg()); err != nil {
			return err
		}
		desc := fmt.Sprintf("cobro cliente %s", customer.Name)
		if _, err := treasury.DepositInTx(r, accountType, in.Amount, desc, entity.RefCollection(collection.ID), date); err != nil {
			return err
		}

		switch in.DistributionMethod {
		case entity.DistributionManual:
			if len(in.ManualAllocations) > 0 {
				return distributeManualInTx(r, collection, in.ManualAllocations)
			}
			return nil
		default:
			return distributeAutoInTx(r, collection)
		}
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify("collection", collection.ID, "create", userID)
	// Releer: la distribución recalculó los montos dentro de la transacción.
	return uc.collectionRepo.GetByID(collection.ID)
}

// DistributeManual aplica asignaciones manuales posteriores sobre el
// monto sin asignar de un cobro confirmado (el crédito que quedó del
// registro original).
func (uc *UseCase) DistributeManual(ctx context.Context, collectionID string, amounts map[string]decimal.Decimal, userID string) (*entity.Collection, error) {
	if len(amounts) == 0 {
		return nil, domain.ErrInvalidInput
	}
	err := uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		if _, err := workday.OpenDateInTx(r); err != nil {
			return err
		}
		collection, err := r.Collections.GetForUpdate(collectionID)
		if err != nil {
			return err
		}
		if collection == nil {
			return fmt.Errorf("%w: cobro %s", domain.ErrNotFound, collectionID)
		}
		if collection.Status != entity.CollectionStatusConfirmed {
			return fmt.Errorf("%w: cobro %s está anulado", domain.ErrInvalidTransition, collectionID)
		}
		return distributeManualInTx(r, collection, amounts)
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify("collection", collectionID, "distribute", userID)
	return uc.collectionRepo.GetByID(collectionID)
}

// CancelCollection anula un cobro confirmado: borra todas sus
// asignaciones (cada borrado revierte pagado/saldo en su factura),
// devuelve el monto al saldo del cliente y retira de la cuenta el
// depósito original. cancelled -> confirmed está prohibido para siempre.
func (uc *UseCase) CancelCollection(ctx context.Context, collectionID, userID string) error {
	err := uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		date, err := workday.OpenDateInTx(r)
		if err != nil {
			return err
		}
		collection, err := r.Collections.GetForUpdate(collectionID)
		if err != nil {
			return err
		}
		if collection == nil {
			return fmt.Errorf("%w: cobro %s", domain.ErrNotFound, collectionID)
		}
		if collection.Status != entity.CollectionStatusConfirmed {
			return fmt.Errorf("%w: cobro %s", domain.ErrAlreadyCancelled, collectionID)
		}

		allocs, err := r.Collections.ListAllocations(collectionID)
		if err != nil {
			return err
		}
		for _, a := range allocs {
			if err := removeAllocationInTx(r, a); err != nil {
				return err
			}
		}
		if err := RecomputeInTx(r, collectionID); err != nil {
			return err
		}

		// Deshace el decremento original del saldo del cliente.
		if err := r.Customers.AddBalance(collection.CustomerID, collection.Amount); err != nil {
			return err
		}
		accountType, err := accountTypeFor(collection.PaymentMethod)
		if err != nil {
			return err
		}
		desc := fmt.Sprintf("anulación cobro %s", collectionID)
		if _, err := treasury.WithdrawInTx(r, accountType, collection.Amount, desc, entity.RefCollection(collectionID), date); err != nil {
			return err
		}

		now := time.Now()
		collection.Status = entity.CollectionStatusCancelled
		collection.CancelledAt = &now
		collection.CancelledBy = userID
		collection.UpdatedAt = now
		return r.Collections.Update(collection)
	})
	if err != nil {
		return err
	}
	uc.notifier.Notify("collection", collectionID, "cancel", userID)
	return nil
}

// DeleteCollection existe solo para fallar: la eliminación de cobros
// está prohibida incondicionalmente, en cualquier estado.
func (uc *UseCase) DeleteCollection(string) error {
	return domain.ErrDeletionForbidden
}

// GetCollection obtiene un cobro con sus asignaciones.
func (uc *UseCase) GetCollection(id string) (*entity.Collection, []*entity.CollectionAllocation, error) {
	collection, err := uc.collectionRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if collection == nil {
		return nil, nil, fmt.Errorf("%w: cobro %s", domain.ErrNotFound, id)
	}
	allocs, err := uc.collectionRepo.ListAllocations(id)
	if err != nil {
		return nil, nil, err
	}
	return collection, allocs, nil
}

// ListByCustomer lista los cobros de un cliente.
func (uc *UseCase) ListByCustomer(customerID string) ([]*entity.Collection, error) {
	return uc.collectionRepo.ListByCustomer(customerID)
}

func accountTypeFor(paymentMethod string) (string, error) {
	switch paymentMethod {
	case entity.PaymentMethodCash:
		return entity.AccountTypeCashbox, nil
	case entity.PaymentMethodBank:
		return entity.AccountTypeBank, nil
	default:
		return "", fmt.Errorf("%w: medio de pago %q", domain.ErrInvalidInput, paymentMethod)
	}
}
