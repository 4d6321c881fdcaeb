package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	identityapp "github.com/storefront/backend/internal/application/identity"
	storefrontapp "github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"github.com/storefront/backend/migrations"
	"go.uber.org/zap"

	_ "github.com/storefront/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Storefront API
//	@version		1.0
//	@description	Multi-tenant storefront: public catalog, shopper cart with WhatsApp checkout and store administration

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry providers are no-ops unless enabled
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, version, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, version, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}

	log, err := logger.New(logCfg,
		logger.WithCore(loggerProvider.Core(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))),
	)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	profiler, err := telemetry.NewProfiler(cfg.Profiling, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Profiling.Enabled && cfg.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	// Database
	var gormOpts []logger.GormLoggerOption
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		gormOpts = append(gormOpts, logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	}
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), gormOpts...)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB", zap.Error(err))
	}
	poolMetrics, err := telemetry.RegisterDBPoolMetrics(meterProvider, sqlDB)
	if err != nil {
		log.Warn("Failed to register database pool metrics", zap.Error(err))
	} else {
		defer func() { _ = poolMetrics.Stop() }()
	}

	// The migrator is not closed: closing it would close sqlDB as well
	if cfg.Database.AutoMigrate {
		migrator, err := migration.New(sqlDB, migrations.FS, log)
		if err != nil {
			log.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := migrator.Up(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Carts, in-flight guard and rate limiters share Redis when it is enabled
	stores, err := cache.NewStoresFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithCartKeyPrefix(cfg.Cart.KeyPrefix),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).Create()
	if err != nil {
		log.Fatal("Failed to create cart store", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cart store", zap.Error(err))
		}
	}()

	var blacklist auth.TokenBlacklist
	if stores.Redis != nil {
		blacklist = auth.NewRedisTokenBlacklist(stores.Redis)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	imageStorage, mediaStore := newImageStorage(ctx, cfg, log)

	storefrontMetrics, err := telemetry.NewStorefrontMetrics(meterProvider)
	if err != nil {
		log.Fatal("Failed to create storefront metrics", zap.Error(err))
	}

	// Repositories
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	promotionRepo := persistence.NewGormPromotionRepository(db.DB)
	ownerRepo := persistence.NewGormOwnerRepository(db.DB)
	registrar := persistence.NewGormRegistrar(db.DB)

	// Application services
	images := storefrontapp.NewImageUploader(imageStorage, cfg.Storage.MaxImageSize)
	catalogService := storefrontapp.NewCatalogService(storeRepo, categoryRepo, productRepo, promotionRepo)
	storeService := storefrontapp.NewStoreService(storeRepo, images, log)
	categoryService := storefrontapp.NewCategoryService(categoryRepo, log)
	productService := storefrontapp.NewProductService(productRepo, categoryRepo, images, log)
	promotionService := storefrontapp.NewPromotionService(promotionRepo, images, log)
	statsService := storefrontapp.NewStatsService(productRepo, categoryRepo, promotionRepo)
	cartService := cartapp.NewService(stores.Carts, catalogService, log,
		cartapp.WithCheckoutRecorder(storefrontMetrics))

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(
		ownerRepo,
		storeRepo,
		registrar,
		jwtService,
		blacklist,
		identityapp.AuthServiceConfig{
			MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
			LockDuration:     cfg.Auth.LockDuration,
		},
		log,
	)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	httpMetrics, err := middleware.HTTPMetrics(meterProvider)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	securityConfig := middleware.DefaultSecurityConfig()
	// swagger-ui needs inline scripts
	if cfg.Swagger.Enabled {
		securityConfig.CSPDirective = strings.Replace(securityConfig.CSPDirective,
			"script-src 'self'", "script-src 'self' 'unsafe-inline'", 1)
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.SecureWithConfig(securityConfig),
		middleware.CORSWithConfig(corsConfig),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanEnricher(),
		httpMetrics,
		middleware.Profiling(middleware.DefaultProfilingConfig()),
		middleware.BodyLimitWithUploads(cfg.HTTP.MaxBodySize, cfg.HTTP.MaxUploadSize),
	)

	jwtMiddleware := middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:  jwtService,
		Revocations: authService,
		Logger:      log,
	})

	inFlightTTL := cfg.HTTP.InFlightTTL
	if inFlightTTL <= 0 {
		inFlightTTL = middleware.DefaultInFlightTTL
	}

	mw := router.Middleware{
		JWT:             jwtMiddleware,
		Session:         middleware.Session(cfg.Cart),
		ShopperInFlight: middleware.InFlight(stores.InFlight, inFlightTTL, middleware.SessionRequestKey, log),
		AdminInFlight:   middleware.InFlight(stores.InFlight, inFlightTTL, middleware.OwnerRequestKey, log),
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := stores.NewRateLimiter("public", cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		mw.PublicRateLimit = middleware.RateLimit(limiter, middleware.ClientIPKey, log)
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := stores.NewRateLimiter("auth", cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		mw.AuthRateLimit = middleware.RateLimit(limiter, middleware.ClientIPKey, log)
	}

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Catalog:   handler.NewCatalogHandler(catalogService),
		Cart:      handler.NewCartHandler(cartService),
		Store:     handler.NewStoreHandler(storeService, cfg.Storage.MaxImageSize),
		Category:  handler.NewCategoryHandler(categoryService),
		Product:   handler.NewProductHandler(productService, cfg.Storage.MaxImageSize),
		Promotion: handler.NewPromotionHandler(promotionService, cfg.Storage.MaxImageSize),
		Stats:     handler.NewStatsHandler(statsService),
	}

	// Probes and docs live outside the versioned API
	checks := map[string]handler.Pinger{"database": db}
	if stores.Redis != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return stores.Redis.Ping(ctx).Err()
		})
	}
	systemHandler := handler.NewSystemHandler(checks)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtMiddleware),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	if mediaStore != nil {
		engine.GET("/media/*key", handler.NewMediaHandler(mediaStore).Get)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	for _, group := range router.StorefrontGroups(handlers, mw) {
		r.Register(group)
	}
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

	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down tracer provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down meter provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newImageStorage returns S3 storage when configured. Otherwise images are
// kept in memory and served from /media by this process.
func newImageStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (storefrontapp.ImageStorage, *storage.MemoryImageStorage) {
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ImageStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create image storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Warn("Could not verify image bucket", zap.String("bucket", s3Storage.GetBucket()), zap.Error(err))
		}
		log.Info("Using S3 image storage", zap.String("bucket", s3Storage.GetBucket()))
		return s3Storage, nil
	}

	base := cfg.Storage.PublicURLBase
	if base == "" {
		base = "http://localhost:" + cfg.App.Port + "/media"
	}
	log.Warn("Object storage disabled, keeping images in memory", zap.String("base_url", base))
	mem := storage.NewMemoryImageStorage(base)
	return mem, mem
}
