package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/audit"
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
	infrapdf "github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/infrastructure/pdf"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/infrastructure/postgres"
	httpRouter "github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/interfaces/http"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/pkg/config"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (lecturas fuera de transacción).
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	shipmentRepo := postgres.NewShipmentRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	collectionRepo := postgres.NewCollectionRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	workdayRepo := postgres.NewWorkdayRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	notifier := audit.NewLogNotifier(log)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogUC := usecase.NewCatalogUseCase(productRepo, customerRepo, supplierRepo)
	shipmentUC := shipments.NewUseCase(txRunner, shipmentRepo, batchRepo, supplierRepo, productRepo, notifier)
	settlementUC := settlement.NewUseCase(txRunner, shipmentRepo, notifier)
	stockUC := inventory.NewStockUseCase(shipmentRepo, batchRepo, productRepo)
	billingUC := billing.NewUseCase(txRunner, customerRepo, productRepo, invoiceRepo, billing.Config{
		EditWindowDays: cfg.Billing.EditWindowDays,
	}, notifier)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.BusinessName)
	invoicePDFUC := billing.NewPDFUseCase(invoiceRepo, customerRepo, productRepo, pdfGenerator)
	collectionUC := collections.NewUseCase(txRunner, collectionRepo, customerRepo, notifier)
	treasuryUC := treasury.NewUseCase(txRunner, accountRepo, notifier)
	workdayUC := workday.NewUseCase(txRunner, workdayRepo)
	reportsUC := reports.NewUseCase(shipmentRepo, batchRepo, invoiceRepo, expenseRepo, collectionRepo, customerRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Azafco Books API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CatalogUC:    catalogUC,
		ShipmentUC:   shipmentUC,
		SettlementUC: settlementUC,
		StockUC:      stockUC,
		BillingUC:    billingUC,
		InvoicePDF:   invoicePDFUC,
		CollectionUC: collectionUC,
		TreasuryUC:   treasuryUC,
		WorkdayUC:    workdayUC,
		ReportsUC:    reportsUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
