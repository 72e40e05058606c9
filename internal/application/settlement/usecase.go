package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/audit"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/workday"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

// UseCase gestiona el ciclo de cierre y liquidación de embarques:
// open -> closed -> settled, con settled -> closed como única vuelta atrás.
type UseCase struct {
	txRunner     repository.TxRunner
	shipmentRepo repository.ShipmentRepository
	notifier     audit.Notifier
}

// NewUseCase construye el caso de uso de liquidación.
func NewUseCase(txRunner repository.TxRunner, shipmentRepo repository.ShipmentRepository, notifier audit.Notifier) *UseCase {
	return &UseCase{txRunner: txRunner, shipmentRepo: shipmentRepo, notifier: notifier}
}

// AutoCloseInTx es la observación (no una acción de usuario): si todos
// los lotes de un embarque abierto quedaron con stock restante cero, el
// embarque pasa automáticamente a closed. Se invoca tras cada asignación
// dentro de la misma transacción.
func AutoCloseInTx(r *repository.Tx, shipmentID string) error {
	shipment, err := r.Shipments.GetByID(shipmentID)
	if err != nil {
		return err
	}
	if shipment == nil || shipment.Status != entity.ShipmentStatusOpen {
		return nil
	}
	batches, err := r.Batches.ListByShipment(shipmentID)
	if err != nil {
		return err
	}
	for _, b := range batches {
		if b.RemainingCartons() > 0 {
			return nil
		}
	}
	shipment.Status = entity.ShipmentStatusClosed
	return r.Shipments.Update(shipment)
}

// Close cierra manualmente un embarque abierto (paso previo a liquidar
// un embarque que todavía tiene stock para trasladar).
func (uc *UseCase) Close(ctx context.Context, shipmentID, userID string) error {
	err := uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		if _, err := workday.OpenDateInTx(r); err != nil {
			return err
		}
		shipment, err := r.Shipments.GetForUpdate(shipmentID)
		if err != nil {
			return err
		}
		if shipment == nil {
			return fmt.Errorf("%w: embarque %s", domain.ErrNotFound, shipmentID)
		}
		switch shipment.Status {
		case entity.ShipmentStatusClosed:
			return fmt.Errorf("%w: embarque %s", domain.ErrAlreadyClosed, shipmentID)
		case entity.ShipmentStatusSettled:
			return fmt.Errorf("%w: embarque %s", domain.ErrAlreadySettled, shipmentID)
		}
		shipment.Status = entity.ShipmentStatusClosed
		return r.Shipments.Update(shipment)
	})
	if err != nil {
		return err
	}
	uc.notifier.Notify("shipment", shipmentID, "close", userID)
	return nil
}

// Settle liquida un embarque cerrado: traslada el stock restante de cada
// lote al embarque sucesor (que debe estar abierto), calcula y persiste
// los totales de liquidación y congela el embarque. Si ningún lote tiene
// stock restante no se exige sucesor y la liquidación procede con cero
// traslados.
func (uc *UseCase) Settle(ctx context.Context, shipmentID string, successorID *string, userID string) error {
	err := uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		if _, err := workday.OpenDateInTx(r); err != nil {
			return err
		}
		shipment, err := r.Shipments.GetForUpdate(shipmentID)
		if err != nil {
			return err
		}
		if shipment == nil {
			return fmt.Errorf("%w: embarque %s", domain.ErrNotFound, shipmentID)
		}
		if shipment.Status == entity.ShipmentStatusSettled {
			return fmt.Errorf("%w: embarque %s", domain.ErrAlreadySettled, shipmentID)
		}
		if shipment.Status != entity.ShipmentStatusClosed {
			return fmt.Errorf("%w: el embarque %s debe cerrarse antes de liquidar", domain.ErrInvalidTransition, shipmentID)
		}

		batches, err := r.Batches.ListByShipment(shipmentID)
		if err != nil {
			return err
		}

		var successor *entity.Shipment
		var totalCarryoverOut int64
		totalWastage := decimal.Zero
		for _, b := range batches {
			totalWastage = totalWastage.Add(b.WastageQuantity)
			remaining := b.RemainingCartons()
			if remaining == 0 {
				continue
			}
			if successor == nil {
				if successorID == nil {
					return fmt.Errorf("%w: el lote %s tiene %d cartones restantes y no se indicó sucesor",
						domain.ErrInvalidInput, b.ID, remaining)
				}
				successor, err = r.Shipments.GetForUpdate(*successorID)
				if err != nil {
					return err
				}
				if successor == nil {
					return fmt.Errorf("%w: embarque sucesor %s", domain.ErrNotFound, *successorID)
				}
				if successor.ID == shipment.ID || successor.Status != entity.ShipmentStatusOpen {
					return fmt.Errorf("%w: embarque %s", domain.ErrSuccessorNotOpen, successor.ID)
				}
			}
			if err := carryOver(r, b, successor, remaining); err != nil {
				return err
			}
			totalCarryoverOut += remaining
		}

		totalSales, err := r.Invoices.SalesTotalByShipment(shipmentID)
		if err != nil {
			return err
		}
		totalExpenses, err := r.Expenses.TotalByShipment(shipmentID)
		if err != nil {
			return err
		}

		now := time.Now()
		shipment.TotalSales = totalSales
		shipment.TotalWastage = totalWastage
		shipment.TotalCarryoverOut = totalCarryoverOut
		shipment.TotalExpenses = totalExpenses
		shipment.SettledAt = &now
		shipment.SettledBy = userID
		shipment.Status = entity.ShipmentStatusSettled
		return r.Shipments.Update(shipment)
	})
	if err != nil {
		return err
	}
	uc.notifier.Notify("shipment", shipmentID, "settle", userID)
	return nil
}

// carryOver mueve los cartones restantes de un lote al lote del mismo
// producto en el sucesor (creándolo si no existe) y deja la fila de
// traslado que enlaza ambos.
func carryOver(r *repository.Tx, source *entity.ShipmentBatch, successor *entity.Shipment, cartons int64) error {
	dest, err := r.Batches.FindByShipmentAndProduct(successor.ID, source.ProductID)
	if err != nil {
		return err
	}
	if dest == nil {
		existing, err := r.Batches.ListByShipment(successor.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		dest = &entity.ShipmentBatch{
			ID:            uuid.New().String(),
			ShipmentID:    successor.ID,
			ProductID:     source.ProductID,
			Position:      len(existing) + 1,
			WeightPerUnit: source.WeightPerUnit,
			UnitCost:      source.UnitCost,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := r.Batches.Create(dest); err != nil {
			return err
		}
	}
	dest.CarryoverInCartons += cartons
	if err := r.Batches.Update(dest); err != nil {
		return err
	}
	source.CarryoverOutCartons += cartons
	if err := r.Batches.Update(source); err != nil {
		return err
	}
	return r.Carryovers.Create(&entity.Carryover{
		ID:             uuid.New().String(),
		FromBatchID:    source.ID,
		ToBatchID:      dest.ID,
		FromShipmentID: source.ShipmentID,
		ToShipmentID:   successor.ID,
		ProductID:      source.ProductID,
		Cartons:        cartons,
		Reason:         "settlement",
		CreatedAt:      time.Now(),
	})
}

// Unsettle revierte una liquidación completa: deshace cada traslado
// (salvo que el stock trasladado ya se haya vendido aguas abajo), borra
// las filas de traslado, limpia los totales y deja el embarque en closed
// (nunca de vuelta en open).
func (uc *UseCase) Unsettle(ctx context.Context, shipmentID, userID string) error {
	err := uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		if _, err := workday.OpenDateInTx(r); err != nil {
			return err
		}
		shipment, err := r.Shipments.GetForUpdate(shipmentID)
		if err != nil {
			return err
		}
		if shipment == nil {
			return fmt.Errorf("%w: embarque %s", domain.ErrNotFound, shipmentID)
		}
		if shipment.Status != entity.ShipmentStatusSettled {
			return fmt.Errorf("%w: el embarque %s no está liquidado", domain.ErrInvalidTransition, shipmentID)
		}

		carryovers, err := r.Carryovers.ListByFromShipment(shipmentID)
		if err != nil {
			return err
		}
		for _, c := range carryovers {
			dest, err := r.Batches.GetForUpdate(c.ToBatchID)
			if err != nil {
				return err
			}
			if dest == nil {
				return fmt.Errorf("%w: lote destino %s del traslado %s", domain.ErrNotFound, c.ToBatchID, c.ID)
			}
			// Si el destino ya vendió parte del stock trasladado, no hay
			// nada que reclamar: el stock ya no existe.
			if dest.RemainingCartons() < c.Cartons {
				return fmt.Errorf("%w: traslado %s de %d cartones, restantes en destino %d",
					domain.ErrCarryoverAlreadySold, c.ID, c.Cartons, dest.RemainingCartons())
			}
			dest.CarryoverInCartons -= c.Cartons
			source, err := r.Batches.GetForUpdate(c.FromBatchID)
			if err != nil {
				return err
			}
			if source == nil {
				return fmt.Errorf("%w: lote origen %s del traslado %s", domain.ErrNotFound, c.FromBatchID, c.ID)
			}
			source.CarryoverOutCartons -= c.Cartons
			if err := r.Batches.Update(source); err != nil {
				return err
			}
			if emptyShell(dest) {
				// Una factura anulada deja sus líneas como historial
				// apuntando al lote; en ese caso el cascarón se queda
				// en cero en vez de borrarse.
				referenced, err := r.Invoices.HasLinesForBatch(dest.ID)
				if err != nil {
					return err
				}
				if referenced {
					if err := r.Batches.Update(dest); err != nil {
						return err
					}
				} else if err := r.Batches.Delete(dest.ID); err != nil {
					return err
				}
			} else if err := r.Batches.Update(dest); err != nil {
				return err
			}
			if err := r.Carryovers.Delete(c.ID); err != nil {
				return err
			}
		}

		shipment.TotalSales = decimal.Zero
		shipment.TotalWastage = decimal.Zero
		shipment.TotalCarryoverOut = 0
		shipment.TotalExpenses = decimal.Zero
		shipment.SettledAt = nil
		shipment.SettledBy = ""
		shipment.Status = entity.ShipmentStatusClosed
		return r.Shipments.Update(shipment)
	})
	if err != nil {
		return err
	}
	uc.notifier.Notify("shipment", shipmentID, "unsettle", userID)
	return nil
}

// emptyShell reporta si el lote existe solo por el traslado que se está
// revirtiendo: sin cartones propios, sin ventas, sin otros movimientos.
func emptyShell(b *entity.ShipmentBatch) bool {
	return b.Cartons == 0 && b.SoldCartons == 0 &&
		b.CarryoverInCartons == 0 && b.CarryoverOutCartons == 0 &&
		b.WastageQuantity.IsZero()
}
