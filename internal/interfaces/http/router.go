package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/auth"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/billing"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/collections"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/inventory"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/reports"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/settlement"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/shipments"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/treasury"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/usecase"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/workday"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	CatalogUC    *usecase.CatalogUseCase
	ShipmentUC   *shipments.UseCase
	SettlementUC *settlement.UseCase
	StockUC      *inventory.StockUseCase
	BillingUC    *billing.UseCase
	InvoicePDF   *billing.PDFUseCase
	CollectionUC *collections.UseCase
	TreasuryUC   *treasury.UseCase
	WorkdayUC    *workday.UseCase
	ReportsUC    *reports.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Todo excepto auth exige Bearer
// Token; las operaciones destructivas o de cierre exigen rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo (protegido)
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	products := protected.Group("/products")
	products.Post("/", catalogHandler.CreateProduct)
	products.Get("/", catalogHandler.ListProducts)
	products.Get("/:id", catalogHandler.GetProduct)

	customers := protected.Group("/customers")
	customers.Post("/", catalogHandler.CreateCustomer)
	customers.Get("/", catalogHandler.ListCustomers)
	customers.Get("/:id", catalogHandler.GetCustomer)

	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", catalogHandler.CreateSupplier)
	suppliers.Get("/", catalogHandler.ListSuppliers)
	suppliers.Get("/:id", catalogHandler.GetSupplier)

	// Embarques y stock (protegido)
	shipmentHandler := NewShipmentHandler(deps.ShipmentUC, deps.SettlementUC, deps.StockUC)
	shipmentsGroup := protected.Group("/shipments")
	shipmentsGroup.Post("/", shipmentHandler.Create)
	shipmentsGroup.Get("/", shipmentHandler.List)
	shipmentsGroup.Get("/:id", shipmentHandler.Get)
	shipmentsGroup.Patch("/:id/date", shipmentHandler.UpdateDate)
	shipmentsGroup.Post("/:id/close", shipmentHandler.Close)
	shipmentsGroup.Post("/:id/settle", AdminOnly(), shipmentHandler.Settle)
	shipmentsGroup.Post("/:id/unsettle", AdminOnly(), shipmentHandler.Unsettle)
	protected.Get("/stock", shipmentHandler.Stock)

	// Facturas (protegido)
	invoiceHandler := NewInvoiceHandler(deps.BillingUC, deps.InvoicePDF)
	invoices := protected.Group("/invoices")
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.Get)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Post("/:id/cancel", AdminOnly(), invoiceHandler.Cancel)
	invoices.Delete("/:id", invoiceHandler.Delete)
	customers.Get("/:id/invoices", invoiceHandler.ListByCustomer)

	// Cobros (protegido)
	collectionHandler := NewCollectionHandler(deps.CollectionUC)
	collectionsGroup := protected.Group("/collections")
	collectionsGroup.Post("/", collectionHandler.Record)
	collectionsGroup.Get("/:id", collectionHandler.Get)
	collectionsGroup.Post("/:id/distribute", collectionHandler.Distribute)
	collectionsGroup.Post("/:id/cancel", AdminOnly(), collectionHandler.Cancel)
	collectionsGroup.Delete("/:id", collectionHandler.Delete)
	customers.Get("/:id/collections", collectionHandler.ListByCustomer)

	// Tesorería y gastos (protegido)
	treasuryHandler := NewTreasuryHandler(deps.TreasuryUC)
	treasuryGroup := protected.Group("/treasury")
	treasuryGroup.Get("/accounts", treasuryHandler.Accounts)
	treasuryGroup.Get("/accounts/:id/transactions", treasuryHandler.Transactions)
	treasuryGroup.Post("/transfer", treasuryHandler.Transfer)
	protected.Post("/expenses", treasuryHandler.RecordExpense)

	// Jornadas (protegido; abrir y cerrar solo admin)
	workdayHandler := NewWorkdayHandler(deps.WorkdayUC)
	workdays := protected.Group("/workdays")
	workdays.Post("/open", AdminOnly(), workdayHandler.Open)
	workdays.Post("/close", AdminOnly(), workdayHandler.Close)
	workdays.Get("/current", workdayHandler.Current)
	workdays.Get("/", workdayHandler.List)

	// Reportes (protegido)
	reportsHandler := NewReportsHandler(deps.ReportsUC)
	reportsGroup := protected.Group("/reports")
	reportsGroup.Get("/shipments/:id", reportsHandler.ShipmentSummary)
	reportsGroup.Get("/customers/:id/statement", reportsHandler.CustomerStatement)
}
