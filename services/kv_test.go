package services_test

import (
	"context"
	"path/filepath"
	"testing"

	"marquee/database"
	"marquee/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteKV(t *testing.T) *services.SQLiteKV {
	t.Helper()
	db, err := database.OpenLocal(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunLocalMigrations(db))
	return services.NewSQLiteKV(db)
}

func TestSQLiteKV(t *testing.T) {
	kv := newSQLiteKV(t)
	ctx := context.Background()

	_, err := kv.Get(ctx, "todos-general")
	assert.ErrorIs(t, err, services.ErrKeyNotFound)

	require.NoError(t, kv.Put(ctx, "todos-general", `[]`))
	require.NoError(t, kv.Put(ctx, "todos-general", `[{"id":"1","text":"popcorn","completed":false}]`))

	got, err := kv.Get(ctx, "todos-general")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1","text":"popcorn","completed":false}]`, got)
}
