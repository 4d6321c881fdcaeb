// Package integration runs the storefront HTTP stack end to end.
// Tests run on SQLite with in-memory stores, and again on PostgreSQL and
// Redis containers started with testcontainers unless -short is set.
package integration

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/migrations"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm/logger"
)

var (
	// Containers are shared by every test of the package
	containersMu  sync.Mutex
	postgresDSN   string
	redisConfig   config.RedisConfig
	containerErr  error
	containerOnce bool
)

// backend builds an App on one storage stack
type backend struct {
	name string
	new  func(t *testing.T, opts ...testutil.Option) *testutil.App
}

// backends returns the stacks a flow test should run on
func backends() []backend {
	return []backend{
		{name: "memory", new: testutil.NewInMemoryApp},
		{name: "postgres+redis", new: NewContainerApp},
	}
}

// NewContainerApp builds the stack on PostgreSQL and Redis containers. Each
// call gets a fresh schema and an empty Redis database.
func NewContainerApp(t *testing.T, opts ...testutil.Option) *testutil.App {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}

	dsn, redisCfg := startContainers(t)
	db := newPostgresDatabase(t, dsn)

	stores, err := cache.NewStoresFactory(redisCfg,
		cache.WithInMemoryFallback(false),
		cache.WithCartKeyPrefix("storefront:it:"+t.Name()+":"),
	).Create()
	require.NoError(t, err, "Failed to connect to Redis")
	require.NoError(t, stores.Redis.FlushDB(context.Background()).Err())
	t.Cleanup(func() { _ = stores.Close() })

	return testutil.NewApp(t, db, stores, opts...)
}

func startContainers(t *testing.T) (string, config.RedisConfig) {
	t.Helper()

	containersMu.Lock()
	defer containersMu.Unlock()

	if !containerOnce {
		containerOnce = true
		postgresDSN, redisConfig, containerErr = runContainers(context.Background())
	}
	require.NoError(t, containerErr, "Failed to start containers")
	return postgresDSN, redisConfig
}

func runContainers(ctx context.Context) (string, config.RedisConfig, error) {
	pg, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return "", config.RedisConfig{}, err
	}
	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", config.RedisConfig{}, err
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", config.RedisConfig{}, err
	}
	host, err := redisC.Host(ctx)
	if err != nil {
		return "", config.RedisConfig{}, err
	}
	port, err := redisC.MappedPort(ctx, "6379/tcp")
	if err != nil {
		return "", config.RedisConfig{}, err
	}

	return dsn, config.RedisConfig{Enabled: true, Host: host, Port: port.Int()}, nil
}

// newPostgresDatabase connects to dsn, resets the public schema and applies
// the embedded migrations
func newPostgresDatabase(t *testing.T, dsn string) *persistence.Database {
	t.Helper()

	logLevel := logger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		logLevel = logger.Info
	}
	db, err := persistence.Open(gormpostgres.Open(dsn), persistence.WithLogger(logger.Default.LogMode(logLevel)))
	require.NoError(t, err, "Failed to connect to database")

	require.NoError(t, db.DB.Exec("DROP SCHEMA public CASCADE; CREATE SCHEMA public").Error)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(5)

	// closing the migrator would close sqlDB too
	migrator, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, migrator.Up(), "Failed to run migrations")

	t.Cleanup(func() { _ = db.Close() })
	return db
}
