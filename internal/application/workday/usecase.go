package workday

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

// UseCase gestiona la jornada diaria: el estado global abierto/cerrado
// que toda operación financiera consulta antes de aceptar mutaciones.
type UseCase struct {
	txRunner repository.TxRunner
	repo     repository.WorkdayRepository
}

// NewUseCase construye el caso de uso de jornadas.
func NewUseCase(txRunner repository.TxRunner, repo repository.WorkdayRepository) *UseCase {
	return &UseCase{txRunner: txRunner, repo: repo}
}

// OpenDay abre la jornada para la fecha dada. Solo puede haber una
// jornada abierta a la vez: si ya hay una, falla con ErrInvalidTransition.
// Reabrir una fecha ya cerrada también está prohibido.
func (uc *UseCase) OpenDay(ctx context.Context, date time.Time, userID string) (*entity.Workday, error) {
	date = Truncate(date)
	var opened *entity.Workday
	err := uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		if current, err := r.Workdays.GetOpen(); err != nil {
			return err
		} else if current != nil {
			return fmt.Errorf("%w: la jornada %s sigue abierta", domain.ErrInvalidTransition, current.Date.Format("2006-01-02"))
		}
		if prev, err := r.Workdays.GetByDate(date); err != nil {
			return err
		} else if prev != nil {
			return fmt.Errorf("%w: la jornada %s ya fue cerrada", domain.ErrAlreadyClosed, date.Format("2006-01-02"))
		}
		opened = &entity.Workday{
			ID:       uuid.New().String(),
			Date:     date,
			Status:   entity.WorkdayStatusOpen,
			OpenedBy: userID,
			OpenedAt: time.Now(),
		}
		return r.Workdays.Create(opened)
	})
	if err != nil {
		return nil, err
	}
	return opened, nil
}

// CloseDay cierra la jornada abierta. Falla con ErrNoOpenDay si no hay.
func (uc *UseCase) CloseDay(ctx context.Context, userID string) (*entity.Workday, error) {
	var closed *entity.Workday
	err := uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		current, err := r.Workdays.GetOpen()
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNoOpenDay
		}
		now := time.Now()
		current.Status = entity.WorkdayStatusClosed
		current.ClosedBy = userID
		current.ClosedAt = &now
		closed = current
		return r.Workdays.Update(current)
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

// Current devuelve la jornada abierta o nil si no hay.
func (uc *UseCase) Current() (*entity.Workday, error) {
	return uc.repo.GetOpen()
}

// List devuelve las jornadas más recientes.
func (uc *UseCase) List(limit int) ([]*entity.Workday, error) {
	return uc.repo.List(limit)
}

// OpenDateInTx devuelve la fecha de la jornada abierta leída dentro de
// la transacción del caller. Es el "portón diario": toda mutación de
// facturas, cobros, liquidaciones y tesorería lo llama primero y la
// fecha del documento nuevo sale de aquí, nunca del caller.
func OpenDateInTx(r *repository.Tx) (time.Time, error) {
	current, err := r.Workdays.GetOpen()
	if err != nil {
		return time.Time{}, err
	}
	if current == nil {
		return time.Time{}, domain.ErrNoOpenDay
	}
	return current.Date, nil
}

// Truncate normaliza una fecha a medianoche UTC (las jornadas son por día).
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
