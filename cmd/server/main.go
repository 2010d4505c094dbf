package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/salesdesk/backend/internal/application/catalog"
	crmapp "github.com/salesdesk/backend/internal/application/crm"
	invoicingapp "github.com/salesdesk/backend/internal/application/invoicing"
	partnerapp "github.com/salesdesk/backend/internal/application/partner"
	reportapp "github.com/salesdesk/backend/internal/application/report"
	returnsapp "github.com/salesdesk/backend/internal/application/returns"
	salesapp "github.com/salesdesk/backend/internal/application/sales"
	settingsapp "github.com/salesdesk/backend/internal/application/settings"
	snapshotapp "github.com/salesdesk/backend/internal/application/snapshot"
	"github.com/salesdesk/backend/internal/infrastructure/config"
	"github.com/salesdesk/backend/internal/infrastructure/event"
	"github.com/salesdesk/backend/internal/infrastructure/logger"
	"github.com/salesdesk/backend/internal/infrastructure/persistence"
	"github.com/salesdesk/backend/internal/interfaces/http/handler"
	"github.com/salesdesk/backend/internal/interfaces/http/middleware"
	"github.com/salesdesk/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting sales desk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database ready", zap.String("path", cfg.Database.Path))

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	creditRepo := persistence.NewGormCreditTransactionRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	returnRepo := persistence.NewGormReturnRepository(db.DB)
	dealRepo := persistence.NewGormDealRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)
	templateRepo := persistence.NewGormInvoiceTemplateRepository(db.DB)
	snapshotStore := persistence.NewGormSnapshotStore(db.DB)
	uow := persistence.NewGormUnitOfWork(db.DB)

	// Application services
	customerService := partnerapp.NewCustomerService(customerRepo, creditRepo, saleRepo, invoiceRepo, returnRepo, dealRepo, uow, log)
	productService := catalogapp.NewProductService(productRepo, movementRepo, uow)
	saleService := salesapp.NewSaleService(saleRepo, productRepo, movementRepo, customerRepo, uow, log)
	invoiceService := invoicingapp.NewInvoiceService(invoiceRepo, saleRepo, customerRepo, creditRepo, templateRepo, uow, log)
	invoiceService.SetDefaultNumberPrefix(cfg.Invoice.NumberPrefix)
	returnService := returnsapp.NewReturnService(returnRepo, saleRepo, productRepo, movementRepo, customerRepo, creditRepo, uow, log)
	dealService := crmapp.NewDealService(dealRepo, customerRepo)
	dashboardService := reportapp.NewDashboardService(saleRepo, invoiceRepo, returnRepo, productRepo, dealRepo)
	settingsService := settingsapp.NewSettingsService(settingRepo, templateRepo, uow)
	snapshotService := snapshotapp.NewSnapshotService(snapshotStore, log)

	// Event bus for cross-context notifications
	eventBus := event.NewInMemoryEventBus(log)
	customerService.SetEventPublisher(eventBus)
	productService.SetEventPublisher(eventBus)
	saleService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	returnService.SetEventPublisher(eventBus)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSystemHandler(db, cfg.App.Name, version)).
		Register(handler.NewCustomerHandler(customerService)).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewSaleHandler(saleService)).
		Register(handler.NewInvoiceHandler(invoiceService)).
		Register(handler.NewReturnHandler(returnService)).
		Register(handler.NewDealHandler(dealService)).
		Register(handler.NewReportHandler(dashboardService)).
		Register(handler.NewSettingsHandler(settingsService)).
		Register(handler.NewSnapshotHandler(snapshotService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
