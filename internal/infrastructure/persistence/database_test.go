package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestConnectionStats_Struct tests that ConnectionStats struct can be properly initialized
func TestConnectionStats_Struct(t *testing.T) {
	t.Run("creates ConnectionStats with custom values", func(t *testing.T) {
		stats := ConnectionStats{
			MaxOpenConnections: 25,
			OpenConnections:    10,
			InUse:              6,
			Idle:               4,
			WaitCount:          100,
			WaitDuration:       5 * time.Second,
		}

		assert.Equal(t, 25, stats.MaxOpenConnections)
		assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
		assert.Equal(t, int64(100), stats.WaitCount)
		assert.Equal(t, 5*time.Second, stats.WaitDuration)
	})
}

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	db, err := Open(dialector)
	require.NoError(t, err)

	return db, mock, mockDB
}

// TestStoreScope tests tenant filtering on store-owned tables
func TestStoreScope(t *testing.T) {
	t.Run("adds store_id filter", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		storeID := uuid.New()

		type Product struct {
			ID      uint
			StoreID string
			Name    string
		}

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE store_id = \$1 AND name = \$2`).
			WithArgs(storeID.String(), "Widget").
			WillReturnRows(sqlmock.NewRows([]string{"id", "store_id", "name"}).
				AddRow(1, storeID.String(), "Widget"))

		var results []Product
		err := db.DB.Scopes(StoreScope(storeID)).Where("name = ?", "Widget").Find(&results).Error
		require.NoError(t, err)
		assert.Len(t, results, 1)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("scope with pagination", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		storeID := uuid.New()

		type Record struct {
			ID      uint
			StoreID string
		}

		mock.ExpectQuery(`SELECT \* FROM "records" WHERE store_id = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
			WithArgs(storeID.String(), 10, 5).
			WillReturnRows(sqlmock.NewRows([]string{"id", "store_id"}))

		var results []Record
		err := db.DB.Scopes(StoreScope(storeID)).Order("created_at DESC").Limit(10).Offset(5).Find(&results).Error
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty store ID panics", func(t *testing.T) {
		assert.Panics(t, func() {
			StoreScope(uuid.Nil)
		})
	})
}

// TestDatabase_Stats tests the Stats method
func TestDatabase_Stats(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	stats, err := db.Stats()
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.GreaterOrEqual(t, stats.WaitCount, int64(0))
}

// TestDatabase_Ping tests the Ping method
func TestDatabase_Ping(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectPing()

	assert.NoError(t, db.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestDatabase_Close tests the Close method
func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()

	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestDatabase_Transaction tests the Transaction method
func TestDatabase_Transaction(t *testing.T) {
	t.Run("successful transaction", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		type TestModel struct {
			ID   uint
			Name string
		}

		mock.ExpectBegin()
		// PostgreSQL GORM uses Query with RETURNING clause instead of Exec
		mock.ExpectQuery(`INSERT INTO "test_models"`).
			WithArgs("test").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := db.Transaction(context.Background(), func(tx *gorm.DB) error {
			return tx.Create(&TestModel{Name: "test"}).Error
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("transaction rollback on error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := db.Transaction(context.Background(), func(tx *gorm.DB) error {
			return assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// TestWithLogger tests that the logger option reaches the gorm config
func TestWithLogger(t *testing.T) {
	cfg := &gorm.Config{}
	l := logger.Discard
	WithLogger(l)(cfg)
	assert.Equal(t, l, cfg.Logger)
}
