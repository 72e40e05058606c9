package reports

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

// UseCase arma reportes de solo lectura: resumen de liquidación de un
// embarque y estado de cuenta de un cliente. Siempre deriva de las filas
// vivas, nunca de contadores cacheados.
type UseCase struct {
	shipmentRepo   repository.ShipmentRepository
	batchRepo      repository.BatchRepository
	invoiceRepo    repository.InvoiceRepository
	expenseRepo    repository.ExpenseRepository
	collectionRepo repository.CollectionRepository
	customerRepo   repository.CustomerRepository
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(
	shipmentRepo repository.ShipmentRepository,
	batchRepo repository.BatchRepository,
	invoiceRepo repository.InvoiceRepository,
	expenseRepo repository.ExpenseRepository,
	collectionRepo repository.CollectionRepository,
	customerRepo repository.CustomerRepository,
) *UseCase {
	return &UseCase{
		shipmentRepo:   shipmentRepo,
		batchRepo:      batchRepo,
		invoiceRepo:    invoiceRepo,
		expenseRepo:    expenseRepo,
		collectionRepo: collectionRepo,
		customerRepo:   customerRepo,
	}
}

// BatchSummary detalle de un lote dentro del resumen de embarque.
type BatchSummary struct {
	BatchID          string
	ProductID        string
	Cartons          int64
	SoldCartons      int64
	CarryoverIn      int64
	CarryoverOut     int64
	RemainingCartons int64
	WastageQuantity  decimal.Decimal
	UnitCost         decimal.Decimal
	CostOfGoodsSold  decimal.Decimal // vendidos * costo por cartón
}

// ShipmentSummary el resumen económico de un embarque: ventas, costo,
// gastos, mermas y margen. Se puede pedir en cualquier estado; siempre
// se deriva en vivo, liquidar solo congela una copia en el embarque.
type ShipmentSummary struct {
	Shipment         *entity.Shipment
	Batches          []BatchSummary
	TotalCartons     int64
	SoldCartons      int64
	RemainingCartons int64
	CarryoverOut     int64
	SalesTotal       decimal.Decimal
	CostOfGoodsSold  decimal.Decimal
	ExpensesTotal    decimal.Decimal
	WastageTotal     decimal.Decimal
	// GrossMargin = ventas - costo de lo vendido - gastos.
	GrossMargin decimal.Decimal
}

// ShipmentSummary arma el resumen de liquidación del embarque dado.
func (uc *UseCase) ShipmentSummary(shipmentID string) (*ShipmentSummary, error) {
	shipment, err := uc.shipmentRepo.GetByID(shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, fmt.Errorf("%w: embarque %s", domain.ErrNotFound, shipmentID)
	}
	batches, err := uc.batchRepo.ListByShipment(shipmentID)
	if err != nil {
		return nil, err
	}
	summary := &ShipmentSummary{
		Shipment:        shipment,
		SalesTotal:      decimal.Zero,
		CostOfGoodsSold: decimal.Zero,
		ExpensesTotal:   decimal.Zero,
		WastageTotal:    decimal.Zero,
	}
	for _, b := range batches {
		cogs := decimal.NewFromInt(b.SoldCartons).Mul(b.UnitCost)
		summary.Batches = append(summary.Batches, BatchSummary{
			BatchID:          b.ID,
			ProductID:        b.ProductID,
			Cartons:          b.Cartons,
			SoldCartons:      b.SoldCartons,
			CarryoverIn:      b.CarryoverInCartons,
			CarryoverOut:     b.CarryoverOutCartons,
			RemainingCartons: b.RemainingCartons(),
			WastageQuantity:  b.WastageQuantity,
			UnitCost:         b.UnitCost,
			CostOfGoodsSold:  cogs,
		})
		summary.TotalCartons += b.Cartons
		summary.SoldCartons += b.SoldCartons
		summary.RemainingCartons += b.RemainingCartons()
		summary.CarryoverOut += b.CarryoverOutCartons
		summary.CostOfGoodsSold = summary.CostOfGoodsSold.Add(cogs)
		summary.WastageTotal = summary.WastageTotal.Add(b.WastageQuantity)
	}
	summary.SalesTotal, err = uc.invoiceRepo.SalesTotalByShipment(shipmentID)
	if err != nil {
		return nil, err
	}
	summary.ExpensesTotal, err = uc.expenseRepo.TotalByShipment(shipmentID)
	if err != nil {
		return nil, err
	}
	summary.GrossMargin = summary.SalesTotal.
		Sub(summary.CostOfGoodsSold).
		Sub(summary.ExpensesTotal)
	return summary, nil
}

// Tipos de movimiento en el estado de cuenta.
const (
	StatementEntryInvoice    = "invoice"
	StatementEntryCollection = "collection"
)

// StatementEntry un movimiento del estado de cuenta: las facturas cargan
// (débito) y los cobros abonan (crédito). Balance es el saldo corrido.
type StatementEntry struct {
	Date        time.Time
	Type        string
	RefID       string
	Number      int64 // consecutivo, solo para facturas
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal
}

// CustomerStatement el estado de cuenta de un cliente: movimientos en
// orden cronológico con saldo corrido. Los movimientos anulados se
// listan con monto cero para que el historial no tenga huecos.
type CustomerStatement struct {
	Customer *entity.Customer
	Entries  []StatementEntry
	Balance  decimal.Decimal
}

// CustomerStatement arma el estado de cuenta del cliente dado.
func (uc *UseCase) CustomerStatement(customerID string) (*CustomerStatement, error) {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, customerID)
	}
	invoices, err := uc.invoiceRepo.ListByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	collections, err := uc.collectionRepo.ListByCustomer(customerID)
	if err != nil {
		return nil, err
	}

	var entries []StatementEntry
	for _, inv := range invoices {
		debit := inv.Total
		desc := "Factura de venta"
		switch {
		case inv.Status == entity.InvoiceStatusCancelled:
			debit = decimal.Zero
			desc = "Factura anulada"
		case inv.Type == entity.InvoiceTypeWastage:
			// Las mermas no generan cuenta por cobrar.
			debit = decimal.Zero
			desc = "Factura de merma"
		}
		entries = append(entries, StatementEntry{
			Date:        inv.Date,
			Type:        StatementEntryInvoice,
			RefID:       inv.ID,
			Number:      inv.Number,
			Description: desc,
			Debit:       debit,
			Credit:      decimal.Zero,
		})
	}
	for _, col := range collections {
		credit := col.Amount
		desc := "Cobro"
		if col.Status == entity.CollectionStatusCancelled {
			credit = decimal.Zero
			desc = "Cobro anulado"
		}
		entries = append(entries, StatementEntry{
			Date:        col.Date,
			Type:        StatementEntryCollection,
			RefID:       col.ID,
			Description: desc,
			Debit:       decimal.Zero,
			Credit:      credit,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	balance := decimal.Zero
	for i := range entries {
		balance = balance.Add(entries[i].Debit).Sub(entries[i].Credit)
		entries[i].Balance = balance
	}
	return &CustomerStatement{
		Customer: customer,
		Entries:  entries,
		Balance:  balance,
	}, nil
}
