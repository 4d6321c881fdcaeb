// Package testutil assembles the storefront HTTP stack for end-to-end tests.
// The same harness runs on SQLite with in-memory stores or on real
// PostgreSQL and Redis containers.
package testutil

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewSQLiteDatabase opens a private in-memory SQLite database with the
// storefront schema
func NewSQLiteDatabase(t *testing.T) *persistence.Database {
	t.Helper()

	db, err := persistence.Open(sqlite.Open(":memory:"))
	require.NoError(t, err, "Failed to open sqlite")

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(), "Failed to migrate sqlite")
	t.Cleanup(func() { _ = db.Close() })
	return db
}
