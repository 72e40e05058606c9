package repository

import "github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"

// ShipmentRepository define el puerto de persistencia de embarques.
// Create asigna FifoSequence desde la secuencia atómica de la BD y lo
// deja escrito en la entidad; la secuencia jamás se reutiliza ni se
// modifica después.
type ShipmentRepository interface {
	Create(shipment *entity.Shipment) error
	Update(shipment *entity.Shipment) error
	GetByID(id string) (*entity.Shipment, error)
	GetForUpdate(id string) (*entity.Shipment, error)
	List(status string) ([]*entity.Shipment, error)
}

// BatchRepository define el puerto de persistencia de lotes de embarque.
type BatchRepository interface {
	Create(batch *entity.ShipmentBatch) error
	Update(batch *entity.ShipmentBatch) error
	GetByID(id string) (*entity.ShipmentBatch, error)
	GetForUpdate(id string) (*entity.ShipmentBatch, error)
	ListByShipment(shipmentID string) ([]*entity.ShipmentBatch, error)
	FindByShipmentAndProduct(shipmentID, productID string) (*entity.ShipmentBatch, error)
	// ListEligibleForUpdate devuelve, con bloqueo de fila, los lotes con
	// stock disponible cuyo embarque está open o closed (nunca settled),
	// ordenados estrictamente por la secuencia FIFO del embarque y luego
	// por la posición del lote. Jamás por fecha: la fecha es informativa.
	ListEligibleForUpdate(productID string) ([]*entity.ShipmentBatch, error)
	// AddSold aplica un delta a sold_cartons validando el invariante
	// sold <= cartons + carryover_in - carryover_out al momento de escribir.
	AddSold(id string, delta int64) error
	Delete(id string) error
}

// CarryoverRepository define el puerto de persistencia de traslados.
type CarryoverRepository interface {
	Create(carryover *entity.Carryover) error
	ListByFromShipment(shipmentID string) ([]*entity.Carryover, error)
	Delete(id string) error
}
