package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sodamint/itemsim/cache"
	"github.com/sodamint/itemsim/config"
	dbsqlite "github.com/sodamint/itemsim/db/sqlite"
	"github.com/sodamint/itemsim/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupTestDB creates an in-memory SQLite DB and runs AutoMigrate.
// The DSN is named per call so parallel tests never share tables, and
// cache=shared keeps every pooled connection on the same database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := dbsqlite.Open(dsn)
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	return db
}

// SetupTestCache creates a LocalCache (no Redis required).
func SetupTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.New(cache.Config{}) // empty RedisAddr → LocalCache
	require.NoError(t, err, "SetupTestCache: New")
	t.Cleanup(func() { c.Close() })
	return c
}

// TestSecurityConfig returns token settings suitable for handler tests.
func TestSecurityConfig() config.SecurityConfig {
	return config.SecurityConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		RenewTTL:      15 * time.Minute,
	}
}
