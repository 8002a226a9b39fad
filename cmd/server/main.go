package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	businessapp "github.com/pos/backend/internal/application/business"
	catalogapp "github.com/pos/backend/internal/application/catalog"
	inventoryapp "github.com/pos/backend/internal/application/inventory"
	reportapp "github.com/pos/backend/internal/application/report"
	salesapp "github.com/pos/backend/internal/application/sales"
	schedulingapp "github.com/pos/backend/internal/application/scheduling"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/cache"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/infrastructure/storage"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/pos/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting POS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterGormTracing(db.DB, cfg.Telemetry.Enabled, cfg.Database.DBName, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	txManager := persistence.NewGormTransactionManager(db.DB)

	// Repositories
	businessRepo := persistence.NewGormBusinessRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	supplierGoodRepo := persistence.NewGormSupplierGoodRepository(db.DB)
	goodRepo := persistence.NewGormBusinessGoodRepository(db.DB)
	promotionRepo := persistence.NewGormPromotionRepository(db.DB)
	instanceRepo := persistence.NewGormSalesInstanceRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	dailyReportRepo := persistence.NewGormDailyReportRepository(db.DB)
	monthlyReportRepo := persistence.NewGormMonthlyReportRepository(db.DB)
	shiftRepo := persistence.NewGormShiftRepository(db.DB)

	// Run lock for report aggregation. Redis coordinates runs across
	// replicas; a single-node deployment falls back to an in-process lock.
	var runLock reportapp.RunLock
	redisLock, err := cache.NewRedisRunLock(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-process run lock", zap.Error(err))
		runLock = cache.NewMemoryRunLock()
	} else {
		defer func() {
			if err := redisLock.Close(); err != nil {
				log.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		runLock = redisLock
		log.Info("Redis connected")
	}

	// QR code storage. Without S3 credentials the upload endpoint keeps
	// working against an in-memory stub, which suits local development.
	var qrStorage businessapp.QRCodeStorage
	s3Storage, err := storage.NewS3QRCodeStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Warn("Object storage not configured, QR codes held in memory", zap.Error(err))
		qrStorage = storage.NewStubQRCodeStorage()
	} else {
		qrStorage = s3Storage
		log.Info("Object storage connected", zap.String("bucket", cfg.Storage.Bucket))
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	businessService := businessapp.NewBusinessService(businessRepo, employeeRepo, txManager)
	businessService.SetQRCodeStorage(qrStorage)
	businessService.RegisterPurgers(
		employeeRepo,
		supplierRepo,
		supplierGoodRepo,
		goodRepo,
		promotionRepo,
		instanceRepo,
		orderRepo,
		inventoryRepo,
		purchaseRepo,
		dailyReportRepo,
		monthlyReportRepo,
		shiftRepo,
	)
	authService := businessapp.NewAuthService(employeeRepo, jwtService)
	employeeService := businessapp.NewEmployeeService(employeeRepo, businessRepo)
	supplierService := catalogapp.NewSupplierService(supplierRepo, supplierGoodRepo)
	goodService := catalogapp.NewGoodService(goodRepo, supplierGoodRepo, txManager)
	promotionService := catalogapp.NewPromotionService(promotionRepo, goodRepo)
	instanceService := salesapp.NewInstanceService(instanceRepo, orderRepo, businessRepo, txManager)
	instanceService.SetRolloverHour(cfg.Report.RolloverHour)
	orderService := salesapp.NewOrderService(orderRepo, instanceRepo, goodRepo, supplierGoodRepo, promotionRepo, inventoryRepo, txManager)
	orderService.SetRolloverHour(cfg.Report.RolloverHour)
	inventoryService := inventoryapp.NewInventoryService(inventoryRepo, purchaseRepo, supplierRepo, supplierGoodRepo, txManager)
	reportService := reportapp.NewReportService(dailyReportRepo, monthlyReportRepo, orderRepo, instanceRepo, purchaseRepo, businessRepo, runLock)
	reportService.SetRolloverHour(cfg.Report.RolloverHour)
	reportService.SetRunLockTTL(cfg.Report.RunLockTTL)
	scheduleService := schedulingapp.NewScheduleService(shiftRepo, employeeRepo, txManager)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	businessHandler := handler.NewBusinessHandler(businessService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	supplierHandler := handler.NewSupplierHandler(supplierService, goodService)
	goodHandler := handler.NewGoodHandler(goodService)
	promotionHandler := handler.NewPromotionHandler(promotionService, goodService)
	instanceHandler := handler.NewInstanceHandler(instanceService, cfg.Sales.AbandonedAfterMinutes)
	orderHandler := handler.NewOrderHandler(orderService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	reportHandler := handler.NewReportHandler(reportService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.App.Name,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TracingEnrichment())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		MaxAge:       12 * time.Hour,
	}))

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthWithConfig(middleware.JWTAuthConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/businesses/register",
		},
	}))
	r.Use(middleware.TracingAuthAttributes())

	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)

	businessRoutes := router.NewDomainGroup("business", "/businesses")
	businessRoutes.POST("/register", businessHandler.Register)
	businessRoutes.GET("/me", businessHandler.Get)
	businessRoutes.PUT("/me", businessHandler.Update)
	businessRoutes.PUT("/me/subscription", businessHandler.ChangeSubscription)
	businessRoutes.POST("/me/deactivate", businessHandler.Deactivate)
	businessRoutes.DELETE("/me", businessHandler.Delete)
	businessRoutes.POST("/me/locations", businessHandler.AddSalesLocation)
	businessRoutes.DELETE("/me/locations/:location_id", businessHandler.RemoveSalesLocation)
	businessRoutes.POST("/me/locations/:location_id/qr-code", businessHandler.UploadLocationQRCode)

	employeeRoutes := router.NewDomainGroup("employee", "/employees")
	employeeRoutes.POST("", employeeHandler.Create)
	employeeRoutes.GET("", employeeHandler.List)
	employeeRoutes.GET("/:id", employeeHandler.GetByID)
	employeeRoutes.PUT("/:id", employeeHandler.Update)
	employeeRoutes.PUT("/:id/salary", employeeHandler.SetSalary)
	employeeRoutes.POST("/:id/vacation", employeeHandler.GrantVacation)
	employeeRoutes.POST("/:id/deactivate", employeeHandler.Deactivate)
	employeeRoutes.POST("/clock-in", employeeHandler.ClockIn)
	employeeRoutes.POST("/clock-out", employeeHandler.ClockOut)

	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/suppliers", supplierHandler.Create)
	catalogRoutes.GET("/suppliers", supplierHandler.List)
	catalogRoutes.POST("/suppliers/one-time", supplierHandler.EnsureOneTime)
	catalogRoutes.GET("/suppliers/:id", supplierHandler.GetByID)
	catalogRoutes.PUT("/suppliers/:id", supplierHandler.Update)
	catalogRoutes.DELETE("/suppliers/:id", supplierHandler.Delete)
	catalogRoutes.POST("/suppliers/:id/goods", supplierHandler.AddGood)
	catalogRoutes.GET("/suppliers/:id/goods", supplierHandler.ListGoods)
	catalogRoutes.PUT("/supplier-goods/:good_id/price", supplierHandler.UpdateGoodPrice)
	catalogRoutes.POST("/goods", goodHandler.Create)
	catalogRoutes.GET("/goods", goodHandler.List)
	catalogRoutes.GET("/goods/:id", goodHandler.GetByID)
	catalogRoutes.PUT("/goods/:id", goodHandler.Update)
	catalogRoutes.PUT("/goods/:id/composition", goodHandler.SetComposition)
	catalogRoutes.DELETE("/goods/:id", goodHandler.Delete)
	catalogRoutes.POST("/promotions", promotionHandler.Create)
	catalogRoutes.GET("/promotions", promotionHandler.List)
	catalogRoutes.GET("/promotions/:id", promotionHandler.GetByID)
	catalogRoutes.PUT("/promotions/:id", promotionHandler.Update)
	catalogRoutes.DELETE("/promotions/:id", promotionHandler.Delete)
	catalogRoutes.GET("/goods/:id/price", promotionHandler.ResolvePrice)

	salesRoutes := router.NewDomainGroup("sales", "/sales")
	salesRoutes.POST("/instances", instanceHandler.Open)
	salesRoutes.GET("/instances/open", instanceHandler.ListOpen)
	salesRoutes.POST("/instances/close-abandoned", instanceHandler.CloseAbandoned)
	salesRoutes.GET("/instances/:id", instanceHandler.GetByID)
	salesRoutes.PUT("/instances/:id/responsible", instanceHandler.ChangeResponsible)
	salesRoutes.POST("/instances/:id/transfer-group", instanceHandler.TransferGroup)
	salesRoutes.POST("/instances/:id/close", instanceHandler.Close)
	salesRoutes.GET("/instances/:id/orders", orderHandler.ListByInstance)
	salesRoutes.POST("/orders", orderHandler.Create)
	salesRoutes.GET("/orders/:id", orderHandler.GetByID)
	salesRoutes.POST("/orders/:id/pay", orderHandler.Pay)
	salesRoutes.POST("/orders/:id/void", orderHandler.Void)
	salesRoutes.POST("/orders/:id/invite", orderHandler.Invite)
	salesRoutes.POST("/orders/:id/discount", orderHandler.ApplyDiscount)
	salesRoutes.PUT("/orders/:id/status", orderHandler.SetStatus)
	salesRoutes.DELETE("/orders/:id", orderHandler.Cancel)

	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.GET("", inventoryHandler.Get)
	inventoryRoutes.POST("/manual-count", inventoryHandler.RecordManualCount)
	inventoryRoutes.POST("/purchases", inventoryHandler.RecordPurchase)
	inventoryRoutes.GET("/purchases", inventoryHandler.ListPurchases)
	inventoryRoutes.GET("/purchases/:id", inventoryHandler.GetPurchase)
	inventoryRoutes.GET("/suppliers/:supplier_id/purchases", inventoryHandler.ListPurchasesBySupplier)

	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.POST("/daily/run", reportHandler.RunDaily)
	reportRoutes.GET("/daily/:daily_ref", reportHandler.GetDaily)
	reportRoutes.POST("/daily/:daily_ref/close", reportHandler.CloseDaily)
	reportRoutes.GET("/daily/month/:month_ref", reportHandler.ListDailyByMonth)
	reportRoutes.POST("/monthly/run", reportHandler.RunMonthly)
	reportRoutes.GET("/monthly/:month_ref", reportHandler.GetMonthly)

	scheduleRoutes := router.NewDomainGroup("scheduling", "/shifts")
	scheduleRoutes.POST("", scheduleHandler.Create)
	scheduleRoutes.GET("", scheduleHandler.ListByPeriod)
	scheduleRoutes.GET("/labour-cost", scheduleHandler.LabourCost)
	scheduleRoutes.GET("/employees/:employee_id", scheduleHandler.ListByEmployee)
	scheduleRoutes.GET("/:id", scheduleHandler.GetByID)
	scheduleRoutes.PUT("/:id", scheduleHandler.Reschedule)
	scheduleRoutes.DELETE("/:id", scheduleHandler.Delete)

	r.Register(authRoutes).
		Register(businessRoutes).
		Register(employeeRoutes).
		Register(catalogRoutes).
		Register(salesRoutes).
		Register(inventoryRoutes).
		Register(reportRoutes).
		Register(scheduleRoutes)

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

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
