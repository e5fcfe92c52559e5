package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrationsCreatesKVTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.db")
	require.NoError(t, RunMigrations(path))
	// second run is a no-op
	require.NoError(t, RunMigrations(path))

	v, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	require.False(t, dirty)
	require.EqualValues(t, 1, v)

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='kv'`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestSchemaVersionFreshDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.db")
	v, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Zero(t, v)
}

func TestWithTxRollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.db")
	require.NoError(t, RunMigrations(path))
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	err = WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO kv(key, value) VALUES ('a', 'b')`); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	require.Zero(t, n)

	require.NoError(t, WithTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO kv(key, value) VALUES ('a', 'b')`)
		return err
	}))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	require.Equal(t, 1, n)
}

var errBoom = errors.New("boom")
