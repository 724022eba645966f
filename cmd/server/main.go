package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	consignmentapp "github.com/consignly/backend/internal/application/consignment"
	distributionapp "github.com/consignly/backend/internal/application/distribution"
	"github.com/consignly/backend/internal/application/settlement"
	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/infrastructure/auth"
	"github.com/consignly/backend/internal/infrastructure/cache"
	"github.com/consignly/backend/internal/infrastructure/config"
	"github.com/consignly/backend/internal/infrastructure/event"
	"github.com/consignly/backend/internal/infrastructure/export"
	"github.com/consignly/backend/internal/infrastructure/logger"
	"github.com/consignly/backend/internal/infrastructure/migration"
	"github.com/consignly/backend/internal/infrastructure/persistence"
	"github.com/consignly/backend/internal/infrastructure/telemetry"
	"github.com/consignly/backend/internal/interfaces/http/handler"
	"github.com/consignly/backend/internal/interfaces/http/middleware"
	"github.com/consignly/backend/internal/interfaces/http/router"
	"github.com/consignly/backend/migrations"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/language"
)

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

	ctx := context.Background()

	// Telemetry first so the bridged logger carries to everything below
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		Level:             cfg.Log.Level,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Profiling.ApplicationName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
	}, log)
	if err != nil {
		log.Warn("Profiler not started", zap.Error(err))
	}
	if cfg.Profiling.Enabled && cfg.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting consignment backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level,
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := migrate(db, log); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Warn("Database tracing not registered", zap.Error(err))
	}

	// Payout lease: Redis when reachable, in-process otherwise
	var locker cache.Locker
	var redisCheck handler.HealthCheck
	if cfg.Payout.LockEnabled {
		l, rdb := cache.NewLocker(ctx, cfg.Redis, cfg.Payout.LockTTL, log)
		locker = l
		if rdb != nil {
			defer func() { _ = rdb.Close() }()
			redisCheck = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log), event.AllEvents)

	payoutMetrics, err := telemetry.NewPayoutMetrics(meterProvider.Meter("consignment"))
	if err != nil {
		log.Fatal("Failed to create payout metrics", zap.Error(err))
	}

	repos := persistence.NewGormRepositories(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	registry := consignmentapp.NewPaymentMethodRegistry(persistence.NewGormCustomPaymentMethodRepository(db.DB), log)
	consignorService := consignmentapp.NewConsignorService(repos, txScope.Consignment(), auth.NewBcryptHasher(bcrypt.DefaultCost), eventBus, cfg.Payout.DefaultCommissionRate, log)
	variantService := consignmentapp.NewVariantService(repos)
	recorder := consignmentapp.NewSaleRecorder(txScope.Consignment(), log,
		consignmentapp.WithRecorderPublisher(eventBus),
		consignmentapp.WithRecorderMetrics(payoutMetrics),
		consignmentapp.WithDefaultCommissionBasis(consignment.CommissionBasis(cfg.Payout.CommissionBasis)),
	)
	ledgerService := consignmentapp.NewLedgerService(repos, export.NewPayoutXLSXExporter(language.English), log)

	payoutOpts := []consignmentapp.PayoutServiceOption{
		consignmentapp.WithPaymentMethodRegistry(registry),
		consignmentapp.WithPayoutPublisher(eventBus),
		consignmentapp.WithPayoutMetrics(payoutMetrics),
		consignmentapp.WithAllocationMode(consignmentapp.AllocationMode(cfg.Payout.AllocationMode)),
	}
	if locker != nil {
		payoutOpts = append(payoutOpts, consignmentapp.WithPayoutLocker(locker))
	}
	payoutService := consignmentapp.NewPayoutService(repos, txScope.Consignment(), log, payoutOpts...)

	avatarService := distributionapp.NewAvatarService(repos, log)
	templateService := distributionapp.NewTemplateService(repos, log)
	distributionService := distributionapp.NewDistributionService(txScope.Distribution(), log)
	settlementService := settlement.NewService(txScope.Settlement(), recorder, distributionService, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	checks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}
	if redisCheck != nil {
		checks["redis"] = redisCheck
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies", zap.Error(err))
	}
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		logger.GinMiddleware(log),
		middleware.SpanErrorMarker(),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.JWTAuthMiddlewareWithConfig(middleware.DefaultJWTConfig(jwtService)),
		middleware.SpanAttributes(),
	)

	handlers := router.Handlers{
		Consignor:    handler.NewConsignorHandler(consignorService),
		Variant:      handler.NewVariantHandler(variantService),
		Sale:         handler.NewSaleHandler(recorder, ledgerService),
		Payout:       handler.NewPayoutHandler(payoutService, ledgerService, registry),
		Distribution: handler.NewDistributionHandler(avatarService, templateService, distributionService),
		Settlement:   handler.NewSettlementHandler(settlementService),
		Portal:       handler.NewPortalHandler(consignorService),
		Health:       handler.NewHealthHandler(checks),
	}
	engine.GET("/health", handlers.Health.Check)
	router.RegisterAPI(router.NewRouter(engine, router.WithAPIVersion("v1")), handlers).Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if profiler != nil {
		if err := profiler.Stop(); err != nil {
			log.Warn("Profiler stop failed", zap.Error(err))
		}
	}
	for name, shutdown := range map[string]func(context.Context) error{
		"tracer": tracerProvider.Shutdown,
		"meter":  meterProvider.Shutdown,
		"logger": loggerProvider.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.String("provider", name), zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

// migrate applies the embedded schema before serving
func migrate(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.NewEmbedded(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	return m.Up()
}
