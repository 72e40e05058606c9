package inventory

import (
	"fmt"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

// Allocation es el resultado de asignar cartones contra un lote: cuántos
// cartones salen de qué lote. El orden del slice es el orden FIFO real.
type Allocation struct {
	Batch   *entity.ShipmentBatch
	Cartons int64
}

// Allocate asigna la cantidad pedida de un producto contra los lotes más
// antiguos con stock disponible, en orden estricto de secuencia FIFO del
// embarque (jamás por fecha, que es editable) y posición del lote.
//
// Dos fases: primero se verifica que la disponibilidad total alcance
// (una solicitud rechazada no muta nada), luego se consume lote a lote
// incrementando sold_cartons — nunca se toca el stock restante, que es
// derivado. Debe llamarse dentro de la transacción de la operación:
// ListEligibleForUpdate bloquea las filas de los lotes.
func Allocate(r *repository.Tx, productID string, requested int64) ([]Allocation, error) {
	if requested <= 0 {
		return nil, fmt.Errorf("%w: cantidad de cartones debe ser positiva", domain.ErrInvalidInput)
	}
	batches, err := r.Batches.ListEligibleForUpdate(productID)
	if err != nil {
		return nil, err
	}

	var available int64
	for _, b := range batches {
		available += b.RemainingCartons()
	}
	if available < requested {
		return nil, fmt.Errorf("%w: producto %s, pedidos %d, disponibles %d",
			domain.ErrInsufficientStock, productID, requested, available)
	}

	var result []Allocation
	still := requested
	for _, b := range batches {
		if still == 0 {
			break
		}
		take := b.RemainingCartons()
		if take > still {
			take = still
		}
		if take == 0 {
			continue
		}
		if err := r.Batches.AddSold(b.ID, take); err != nil {
			return nil, err
		}
		b.SoldCartons += take
		result = append(result, Allocation{Batch: b, Cartons: take})
		still -= take
	}
	return result, nil
}

// Reverse devuelve al lote de origen los cartones de una línea de
// factura, restaurando capacidad. Se invoca exactamente una vez por
// línea, desde la anulación de la factura; el guard contra doble
// reversa es la transición de estado de la factura (active -> cancelled
// es unidireccional).
func Reverse(r *repository.Tx, line *entity.InvoiceLine) error {
	if err := r.Batches.AddSold(line.BatchID, -line.Cartons); err != nil {
		return fmt.Errorf("revertir asignación de línea %s: %w", line.ID, err)
	}
	return nil
}
