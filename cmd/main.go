package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hibiken/asynq"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "shopdesk/docs"
	"shopdesk/internal/analytics"
	"shopdesk/internal/caching"
	"shopdesk/internal/common"
	"shopdesk/internal/config"
	"shopdesk/internal/handlers"
	"shopdesk/internal/jobs"
	"shopdesk/internal/jobs/background"
	"shopdesk/internal/middleware"
	"shopdesk/internal/repositories"
	"shopdesk/internal/services"
	"shopdesk/pkg/database"
)

const version = "1.0.0"

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	minioSvc, err := services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize MinIO service")
	}
	if err := minioSvc.EnsureBucketExists(ctx, cfg.MinioBucket); err != nil {
		// uploads retry the check, so a cold MinIO is not fatal
		log.Warn().Err(err).Str("bucket", cfg.MinioBucket).Msg("could not ensure image bucket")
	}

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}

	// Repositories
	txManager := repositories.NewTxManager(pool)
	productRepo := repositories.NewProductRepo(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	supplierRepo := repositories.NewSupplierRepository(pool)
	movementRepo := repositories.NewMovementRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	orderItemRepo := repositories.NewOrderItemRepository(pool)
	reportRepo := repositories.NewReportRepository(pool)

	// Background work
	taskClient := asynq.NewClient(redisOpt)
	defer taskClient.Close()
	publisher := jobs.NewStockEventPublisher(taskClient)

	alertSvc := jobs.NewInventoryAlertService(reportRepo)
	taskServer := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		Logger:      jobs.NewTaskLogger(),
	})
	if err := taskServer.Start(jobs.NewServeMux(alertSvc)); err != nil {
		log.Fatal().Err(err).Msg("failed to start task worker")
	}

	scheduler, err := background.NewJobScheduler(alertSvc, cfg.LowStockScanInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create job scheduler")
	}
	scheduler.Start()

	// Services
	location := analytics.BusinessLocation(cfg.BusinessUTCOffsetHours)
	productSvc := services.NewProductService(productRepo, supplierRepo, minioSvc, cacheSvc, cfg.MinioBucket)
	customerSvc := services.NewCustomerService(customerRepo)
	supplierSvc := services.NewSupplierService(supplierRepo)
	inventorySvc := services.NewInventoryService(txManager, productRepo, movementRepo, cacheSvc)
	orderSvc := services.NewOrderService(txManager, orderRepo, orderItemRepo, productRepo, customerRepo, inventorySvc, cacheSvc, publisher)
	reportSvc := analytics.NewReportService(reportRepo, location)

	// Handlers
	productHandlers := handlers.NewProductHandlers(productSvc)
	shopHandlers := handlers.NewShopHandlers(productSvc)
	customerHandlers := handlers.NewCustomerHandlers(customerSvc)
	supplierHandlers := handlers.NewSupplierHandlers(supplierSvc)
	inventoryHandlers := handlers.NewInventoryHandlers(inventorySvc, reportSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc, customerSvc, reportSvc)
	reportHandlers := handlers.NewReportHandlers(reportSvc)
	jobHandlers := handlers.NewJobHandlers(alertSvc, scheduler)
	healthHandlers := handlers.NewHealthHandlers(
		handlers.PingFunc(pool.Ping),
		cacheSvc,
		handlers.PingFunc(func(ctx context.Context) error {
			return minioSvc.CheckBucket(ctx, cfg.MinioBucket)
		}),
		version,
	)

	// Token verification
	var keys jwt.Keyfunc
	if cfg.JWKSURL != "" {
		var closeKeys func()
		keys, closeKeys, err = middleware.NewJWKSKeyfunc(cfg.JWKSURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load JWKS")
		}
		defer closeKeys()
	}
	jwtConfig := middleware.NewJWTConfig(cfg.JWTSecret, keys)

	e := echo.New()
	e.HideBanner = true
	e.Validator = common.NewRequestValidator()

	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))

	// Public shop
	v1.GET("/shop/products", shopHandlers.ListProducts)
	v1.GET("/shop/products/:id", shopHandlers.GetProduct)

	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(jwtConfig))

	// Orders: customers reach their own orders, staff reach all
	protected.POST("/orders", orderHandlers.CreateOrder)
	protected.GET("/orders", orderHandlers.ListOrders)
	protected.GET("/orders/:id", orderHandlers.GetOrder)
	protected.GET("/orders/:id/slip", orderHandlers.GetOrderSlip)

	staff := protected.Group("", middleware.RequireStaff())
	staff.PATCH("/orders/:id/status", orderHandlers.SetOrderStatus)
	staff.DELETE("/orders/:id", orderHandlers.DeleteOrder)

	staff.GET("/products", productHandlers.ListProducts)
	staff.POST("/products", productHandlers.CreateProduct)
	staff.GET("/products/:id", productHandlers.GetProduct)
	staff.PUT("/products/:id", productHandlers.UpdateProduct)
	staff.DELETE("/products/:id", productHandlers.DeleteProduct)
	staff.POST("/products/:id/image", productHandlers.UploadProductImage)
	staff.GET("/products/:id/image-url", productHandlers.GetProductImageURL)

	staff.GET("/customers", customerHandlers.ListCustomers)
	staff.POST("/customers", customerHandlers.CreateCustomer)
	staff.GET("/customers/:id", customerHandlers.GetCustomer)
	staff.PUT("/customers/:id", customerHandlers.UpdateCustomer)
	staff.DELETE("/customers/:id", customerHandlers.DeleteCustomer)

	staff.GET("/suppliers", supplierHandlers.ListSuppliers)
	staff.POST("/suppliers", supplierHandlers.CreateSupplier)
	staff.GET("/suppliers/:id", supplierHandlers.GetSupplier)
	staff.PUT("/suppliers/:id", supplierHandlers.UpdateSupplier)
	staff.DELETE("/suppliers/:id", supplierHandlers.DeleteSupplier)

	staff.POST("/inventory/movements", inventoryHandlers.PostMovement)
	staff.GET("/inventory/movements", inventoryHandlers.ListMovements)
	staff.GET("/inventory/movements/:id", inventoryHandlers.GetMovement)

	staff.GET("/reports/dashboard", reportHandlers.GetDashboard)
	staff.GET("/reports/daily-revenue", reportHandlers.GetDailyRevenue)
	staff.GET("/reports/low-stock", reportHandlers.GetLowStock)

	admin := protected.Group("/admin", middleware.RequireRole(common.RoleAdmin))
	admin.GET("/jobs", jobHandlers.GetJobStatus)
	admin.POST("/jobs/low-stock-scan", jobHandlers.RunLowStockScan)

	go func() {
		log.Info().Str("version", version).Int("port", cfg.Port).Msg("shopdesk server starting")
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := scheduler.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown failed")
	}
	taskServer.Shutdown()
}
