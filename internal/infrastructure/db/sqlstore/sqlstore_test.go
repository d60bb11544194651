package sqlstore

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(context.Background(), Config{Driver: "sqlite", DSN: ":memory:"}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle", DSN: "x"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestOpen_MissingDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "postgres"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, Ping(context.Background(), db))
}

func TestMigrate_IsRepeatable(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, Migrate(db))
}
