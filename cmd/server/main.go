package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/printease/backend/internal/application/fleet"
	"github.com/printease/backend/internal/application/ordering"
	"github.com/printease/backend/internal/application/pricing"
	"github.com/printease/backend/internal/application/printjob"
	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/infrastructure/auth"
	"github.com/printease/backend/internal/infrastructure/cache"
	"github.com/printease/backend/internal/infrastructure/config"
	"github.com/printease/backend/internal/infrastructure/logger"
	"github.com/printease/backend/internal/infrastructure/migration"
	"github.com/printease/backend/internal/infrastructure/payment"
	"github.com/printease/backend/internal/infrastructure/persistence"
	receiptpdf "github.com/printease/backend/internal/infrastructure/printing"
	"github.com/printease/backend/internal/infrastructure/scheduler"
	"github.com/printease/backend/internal/infrastructure/storage"
	"github.com/printease/backend/internal/infrastructure/strategy"
	"github.com/printease/backend/internal/interfaces/http/handler"
	"github.com/printease/backend/internal/interfaces/http/middleware"
	"github.com/printease/backend/internal/interfaces/http/router"
	"github.com/printease/backend/migrations"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log = log.With(zap.String("service", cfg.App.Name), zap.String("version", version))
	defer func() {
		_ = logger.Sync(log)
	}()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting print service",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database", cfg.Database.Driver),
	)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	// Database
	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(200*time.Millisecond))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	if err := migrateSchema(db, log); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Shared rotation and payment claims
	stores, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).CreateStores(startupCtx)
	if err != nil {
		log.Fatal("Failed to create rotation stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Failed to close stores", zap.Error(err))
		}
	}()

	// Repositories
	printerRepo := persistence.NewGormPrinterRepository(db.DB)
	jobRepo := persistence.NewGormPrintJobRepository(db.DB)
	pageCountRepo := persistence.NewGormPageCountRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)

	// Allocation strategies
	registry, err := strategy.NewRegistryWithDefaults()
	if err != nil {
		log.Fatal("Failed to register strategies", zap.Error(err))
	}
	assembler, err := ordering.NewAssemblerFromRegistry(registry, ordering.StrategyNames{
		Pricing:  cfg.Rotation.PricingStrategy,
		Bound:    cfg.Rotation.BoundStrategy,
		Category: cfg.Rotation.CategoryStrategy,
	})
	if err != nil {
		log.Fatal("Failed to build order assembler", zap.Error(err))
	}

	// Payment verification
	paymentCfg := &payment.GatewayConfig{KeyID: cfg.Payment.KeyID, KeySecret: cfg.Payment.KeySecret}
	if paymentCfg.KeySecret == "" {
		paymentCfg.KeyID = "dev"
		paymentCfg.KeySecret = randomSecret()
		log.Warn("payment.key_secret is not set; using a random secret. Sign test payments with printctl.")
	}
	verifier, err := payment.NewSignatureVerifier(paymentCfg)
	if err != nil {
		log.Fatal("Failed to create payment verifier", zap.Error(err))
	}

	// Receipts
	renderer := receiptpdf.NewReceiptPDFRenderer(receiptpdf.ReceiptPDFConfig{
		ShopName: cfg.App.Name,
		Compress: true,
	})
	var archive printing.ReceiptArchive
	if cfg.Storage.Enabled {
		s3Archive, err := storage.NewS3ReceiptArchive(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to create receipt archive", zap.Error(err))
		}
		if err := s3Archive.EnsureBucket(startupCtx); err != nil {
			log.Fatal("Receipt archive bucket unavailable", zap.Error(err))
		}
		archive = s3Archive
		log.Info("Archiving receipts", zap.String("bucket", s3Archive.Bucket()))
	}

	// Application services
	poolProvider := fleet.NewPoolProvider(printerRepo, cfg.Fleet.PoolTTL)
	printerService := fleet.NewPrinterService(printerRepo, poolProvider, log)
	settingsService := pricing.NewSettingsService(settingsRepo, log)
	jobService := printjob.NewJobService(jobRepo, printerRepo, pageCountRepo, log)
	orderService := ordering.NewOrderService(
		assembler,
		poolProvider,
		settingsService,
		stores.Rotation,
		jobRepo,
		verifier,
		stores.Idempotency,
		stores.Checkout,
		ordering.OrderServiceConfig{
			MaxCommitRetries: cfg.Rotation.MaxCommitRetries,
			IdempotencyTTL:   cfg.Payment.IdempotencyTTL,
			CheckoutTTL:      cfg.Payment.CheckoutTTL,
		},
		log,
	)
	receiptService := ordering.NewReceiptService(jobRepo, renderer, archive, cfg.Storage.PresignExpiration, log)

	// Admin sessions
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = randomSecret()
		log.Warn("jwt.secret is not set; using a random secret. Sessions end on restart.")
	}
	tokens, err := auth.NewJWTService(cfg.JWT)
	if err != nil {
		log.Fatal("Failed to create JWT service", zap.Error(err))
	}
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if client := stores.RedisClient(); client != nil {
		blacklist = auth.NewRedisTokenBlacklist(client, cfg.Redis.KeyPrefix+"revoked:")
	}
	admin, err := auth.NewAdminAuthenticator(cfg.Admin.Username, cfg.Admin.PasswordHash)
	if err != nil {
		log.Fatal("Invalid admin credentials", zap.Error(err))
	}
	if !admin.Enabled() {
		log.Warn("admin.password_hash is not set; admin login is disabled")
	}
	if cfg.HTTP.AgentToken == "" {
		log.Warn("http.agent_token is not set; printer agent routes are open")
	}

	// Background tasks
	sched := scheduler.NewScheduler(log)
	if err := sched.Every(cfg.Fleet.SweepInterval, cfg.Fleet.SweepInterval,
		scheduler.NewPrinterSweeper(printerService, cfg.Fleet.StaleAfter, log)); err != nil {
		log.Fatal("Failed to schedule printer sweeper", zap.Error(err))
	}
	if err := sched.Start(context.Background()); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// HTTP
	middleware.SetupValidator()
	engine, err := router.NewEngine(cfg.HTTP, log)
	if err != nil {
		log.Fatal("Failed to create HTTP engine", zap.Error(err))
	}
	defer engine.Close()

	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if client := stores.RedisClient(); client != nil {
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	engine.Mount(router.Handlers{
		Orders:   handler.NewOrderHandler(orderService, receiptService),
		Printers: handler.NewPrinterHandler(printerService, jobService),
		Jobs:     handler.NewJobHandler(jobService),
		Settings: handler.NewSettingsHandler(settingsService),
		Auth:     handler.NewAuthHandler(admin, tokens, blacklist, log),
		System:   handler.NewSystemHandler(version, checks),
	}, router.Guards{
		Agent: middleware.AgentAuth(cfg.HTTP.AgentToken, log),
		Admin: middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			JWTService:     tokens,
			TokenBlacklist: blacklist,
			Logger:         log,
		}),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := sched.Stop(ctx); err != nil {
		log.Error("Failed to stop scheduler", zap.Error(err))
	}

	log.Info("Server exited")
}

// migrateSchema creates the sqlite schema from the models, or applies the
// embedded SQL migrations to postgres
func migrateSchema(db *persistence.Database, log *zap.Logger) error {
	if db.Driver() == "sqlite" {
		return db.AutoMigrate()
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	// The migrator shares sqlDB, so it is not closed here.
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	return m.Up()
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
