package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/pairboard/internal/database"
)

func testKV(t *testing.T) *KVRepo {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kv.db")
	require.NoError(t, database.RunMigrations(path))
	db, err := database.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewKVRepo(db)
}

func TestKVRepoGetMissing(t *testing.T) {
	r := testKV(t)
	v, ok, err := r.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v)

	e, err := r.Entry(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, e)
}

func TestKVRepoSetOverwritesAndDeletes(t *testing.T) {
	r := testKV(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "board", `{"a":1}`))
	require.NoError(t, r.Set(ctx, "board", `{"a":2}`))
	require.NoError(t, r.Set(ctx, "other", "x"))

	v, ok, err := r.Get(ctx, "board")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"a":2}`, v)

	e, err := r.Entry(ctx, "board")
	require.NoError(t, err)
	require.NotNil(t, e)
	require.WithinDuration(t, time.Now().UTC(), e.UpdatedAt, time.Minute)

	require.NoError(t, r.Delete(ctx, "board"))
	_, ok, err = r.Get(ctx, "board")
	require.NoError(t, err)
	require.False(t, ok)

	// deleting twice is fine
	require.NoError(t, r.Delete(ctx, "board"))

	v, ok, err = r.Get(ctx, "other")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "x", v)
}

func TestKVRepoSetSameValueKeepsTimestamp(t *testing.T) {
	r := testKV(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "board", "v1"))
	_, err := r.db.ExecContext(ctx, `UPDATE kv SET updated_at = '2000-01-02 03:04:05' WHERE key = 'board'`)
	require.NoError(t, err)

	require.NoError(t, r.Set(ctx, "board", "v1"))
	e, err := r.Entry(ctx, "board")
	require.NoError(t, err)
	require.Equal(t, 2000, e.UpdatedAt.Year())

	require.NoError(t, r.Set(ctx, "board", "v2"))
	e, err = r.Entry(ctx, "board")
	require.NoError(t, err)
	require.Equal(t, "v2", e.Value)
	require.WithinDuration(t, time.Now().UTC(), e.UpdatedAt, time.Minute)
}

func TestParseTimeFormats(t *testing.T) {
	require.Equal(t, 2026, parseTime("2026-10-19T12:00:00Z").Year())
	require.Equal(t, 12, parseTime("2026-10-19 12:30:00").Hour())
	require.True(t, parseTime("yesterday").IsZero())
}
