package testutil

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	identityapp "github.com/storefront/backend/internal/application/identity"
	storefrontapp "github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// MaxImageSize is the image ceiling of the test stack
const MaxImageSize = 1 << 20

// App is a fully wired storefront HTTP stack
type App struct {
	Engine *gin.Engine
	DB     *persistence.Database
	Stores *cache.Stores
	Images *storage.MemoryImageStorage
	JWT    *auth.JWTService
	Config *config.Config
}

// Option adjusts the configuration before the stack is built
type Option func(*config.Config)

// WithAuthRateLimit enables the sign-in limiter with limit requests per window
func WithAuthRateLimit(limit int, window time.Duration) Option {
	return func(cfg *config.Config) {
		cfg.HTTP.AuthRateLimitEnabled = true
		cfg.HTTP.AuthRateLimitRequests = limit
		cfg.HTTP.AuthRateLimitWindow = window
	}
}

// TestConfig returns the configuration the harness starts from
func TestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-characters",
			RefreshSecret:          "test-refresh-secret-at-least-32-chars",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "storefront-test",
			MaxRefreshCount:        5,
		},
		Auth: config.AuthConfig{MaxLoginAttempts: 3, LockDuration: time.Minute},
		HTTP: config.HTTPConfig{
			MaxBodySize:   64 << 10,
			MaxUploadSize: 2 << 20,
			InFlightTTL:   5 * time.Second,
		},
		Cart: config.CartConfig{
			KeyPrefix:     "storefront:test:cart:",
			SessionHeader: "X-Session-ID",
			SessionCookie: "sf_session",
			CookieMaxAge:  time.Hour,
		},
		Storage: config.StorageConfig{MaxImageSize: MaxImageSize},
	}
}

// NewInMemoryApp builds the stack on SQLite and process-local stores
func NewInMemoryApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	stores := cache.NewStoresFactory(config.RedisConfig{}).CreateInMemory()
	t.Cleanup(func() { _ = stores.Close() })
	return NewApp(t, NewSQLiteDatabase(t), stores, opts...)
}

// NewApp wires services, handlers and routes the same way cmd/server does
func NewApp(t *testing.T, db *persistence.Database, stores *cache.Stores, opts ...Option) *App {
	t.Helper()

	cfg := TestConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	log := zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if stores.Redis != nil {
		blacklist = auth.NewRedisTokenBlacklist(stores.Redis)
	}
	images := storage.NewMemoryImageStorage("http://media.test")

	storeRepo := persistence.NewGormStoreRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	promotionRepo := persistence.NewGormPromotionRepository(db.DB)

	uploader := storefrontapp.NewImageUploader(images, cfg.Storage.MaxImageSize)
	catalogService := storefrontapp.NewCatalogService(storeRepo, categoryRepo, productRepo, promotionRepo)
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(
		persistence.NewGormOwnerRepository(db.DB),
		storeRepo,
		persistence.NewGormRegistrar(db.DB),
		jwtService,
		blacklist,
		identityapp.AuthServiceConfig{
			MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
			LockDuration:     cfg.Auth.LockDuration,
		},
		log,
	)

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.BodyLimitWithUploads(cfg.HTTP.MaxBodySize, cfg.HTTP.MaxUploadSize),
	)

	mw := router.Middleware{
		JWT: middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			JWTService:  jwtService,
			Revocations: authService,
			Logger:      log,
		}),
		Session:         middleware.Session(cfg.Cart),
		ShopperInFlight: middleware.InFlight(stores.InFlight, cfg.HTTP.InFlightTTL, middleware.SessionRequestKey, log),
		AdminInFlight:   middleware.InFlight(stores.InFlight, cfg.HTTP.InFlightTTL, middleware.OwnerRequestKey, log),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := stores.NewRateLimiter("auth", cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		mw.AuthRateLimit = middleware.RateLimit(limiter, middleware.ClientIPKey, log)
	}

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Catalog:   handler.NewCatalogHandler(catalogService),
		Cart:      handler.NewCartHandler(cartapp.NewService(stores.Carts, catalogService, log)),
		Store:     handler.NewStoreHandler(storefrontapp.NewStoreService(storeRepo, uploader, log), cfg.Storage.MaxImageSize),
		Category:  handler.NewCategoryHandler(storefrontapp.NewCategoryService(categoryRepo, log)),
		Product:   handler.NewProductHandler(storefrontapp.NewProductService(productRepo, categoryRepo, uploader, log), cfg.Storage.MaxImageSize),
		Promotion: handler.NewPromotionHandler(storefrontapp.NewPromotionService(promotionRepo, uploader, log), cfg.Storage.MaxImageSize),
		Stats:     handler.NewStatsHandler(storefrontapp.NewStatsService(productRepo, categoryRepo, promotionRepo)),
	}

	system := handler.NewSystemHandler(map[string]handler.Pinger{"database": db})
	engine.GET("/health", system.Health)
	engine.GET("/ready", system.Ready)
	engine.GET("/media/*key", handler.NewMediaHandler(images).Get)

	r := router.NewRouter(engine)
	for _, group := range router.StorefrontGroups(handlers, mw) {
		r.Register(group)
	}
	r.Setup()

	return &App{
		Engine: engine,
		DB:     db,
		Stores: stores,
		Images: images,
		JWT:    jwtService,
		Config: cfg,
	}
}
