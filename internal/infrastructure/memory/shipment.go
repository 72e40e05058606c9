package memory

import (
	"fmt"
	"sort"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
)

type shipmentRepo struct{ s *Store }

func (r *shipmentRepo) Create(sh *entity.Shipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.shipments[sh.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.fifoSeq++
	sh.FifoSequence = r.s.fifoSeq
	r.s.shipments[sh.ID] = *sh
	return nil
}

func (r *shipmentRepo) Update(sh *entity.Shipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.shipments[sh.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.shipments[sh.ID] = *sh
	return nil
}

func (r *shipmentRepo) GetByID(id string) (*entity.Shipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sh, ok := r.s.shipments[id]
	if !ok {
		return nil, nil
	}
	return &sh, nil
}

func (r *shipmentRepo) GetForUpdate(id string) (*entity.Shipment, error) {
	return r.GetByID(id)
}

func (r *shipmentRepo) List(status string) ([]*entity.Shipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Shipment, 0, len(r.s.shipments))
	for id := range r.s.shipments {
		sh := r.s.shipments[id]
		if status != "" && sh.Status != status {
			continue
		}
		out = append(out, &sh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FifoSequence < out[j].FifoSequence })
	return out, nil
}

type batchRepo struct{ s *Store }

func (r *batchRepo) Create(b *entity.ShipmentBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.batches[b.ID]; ok {
		return domain.ErrDuplicate
	}
	// Paridad con el CHECK (cartons >= 0) de scripts/schema.sql: cero es
	// válido (lote destino creado por traslado), negativo no.
	if b.Cartons < 0 {
		return fmt.Errorf("%w: cartones negativos en lote %s", domain.ErrInvalidInput, b.ID)
	}
	r.s.batches[b.ID] = *b
	return nil
}

func (r *batchRepo) Update(b *entity.ShipmentBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.batches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.batches[b.ID] = *b
	return nil
}

func (r *batchRepo) GetByID(id string) (*entity.ShipmentBatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *batchRepo) GetForUpdate(id string) (*entity.ShipmentBatch, error) {
	return r.GetByID(id)
}

func (r *batchRepo) ListByShipment(shipmentID string) ([]*entity.ShipmentBatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ShipmentBatch
	for id := range r.s.batches {
		b := r.s.batches[id]
		if b.ShipmentID == shipmentID {
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// FindByShipmentAndProduct devuelve el lote de menor posición, igual que
// el ORDER BY position de la implementación postgres: un embarque puede
// traer dos lotes del mismo producto.
func (r *batchRepo) FindByShipmentAndProduct(shipmentID, productID string) (*entity.ShipmentBatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found *entity.ShipmentBatch
	for id := range r.s.batches {
		b := r.s.batches[id]
		if b.ShipmentID != shipmentID || b.ProductID != productID {
			continue
		}
		if found == nil || b.Position < found.Position {
			copia := b
			found = &copia
		}
	}
	return found, nil
}

// ListEligibleForUpdate ordena por secuencia FIFO del embarque y luego
// posición del lote, igual que el ORDER BY de la implementación postgres.
func (r *batchRepo) ListEligibleForUpdate(productID string) ([]*entity.ShipmentBatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ShipmentBatch
	for id := range r.s.batches {
		b := r.s.batches[id]
		if b.ProductID != productID || b.RemainingCartons() <= 0 {
			continue
		}
		sh, ok := r.s.shipments[b.ShipmentID]
		if !ok || sh.Status == entity.ShipmentStatusSettled {
			continue
		}
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool {
		si := r.s.shipments[out[i].ShipmentID].FifoSequence
		sj := r.s.shipments[out[j].ShipmentID].FifoSequence
		if si != sj {
			return si < sj
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (r *batchRepo) AddSold(id string, delta int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	sold := b.SoldCartons + delta
	if sold < 0 || sold > b.Cartons+b.CarryoverInCartons-b.CarryoverOutCartons {
		return fmt.Errorf("%w: lote %s", domain.ErrInsufficientStock, id)
	}
	b.SoldCartons = sold
	r.s.batches[id] = b
	return nil
}

func (r *batchRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.batches[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.batches, id)
	return nil
}

type carryoverRepo struct{ s *Store }

func (r *carryoverRepo) Create(c *entity.Carryover) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.carryovers[c.ID] = *c
	return nil
}

func (r *carryoverRepo) ListByFromShipment(shipmentID string) ([]*entity.Carryover, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Carryover
	for id := range r.s.carryovers {
		c := r.s.carryovers[id]
		if c.FromShipmentID == shipmentID {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *carryoverRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.carryovers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.carryovers, id)
	return nil
}
