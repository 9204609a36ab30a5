package sqlite

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/soundpad/internal/soundboard/domain"
)

func TestNewDB_CreatesDirectoryAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "soundpad.db")

	db, err := NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.FileExists(t, path)
	require.Equal(t, path, db.Path())

	var n int
	err = db.Connection().QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='records'`).Scan(&n)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var mode string
	require.NoError(t, db.Connection().QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	require.Equal(t, "wal", mode)
}

func TestNewDB_BacksUpExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soundpad.db")

	db, err := NewDB(path)
	require.NoError(t, err)
	require.NoFileExists(t, path+".bak", "fresh store has nothing to back up")
	require.NoError(t, db.Close())

	db, err = NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.FileExists(t, path+".bak")
}

func TestNewDB_InitializationError(t *testing.T) {
	// A regular file where the parent directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := NewDB(filepath.Join(blocker, "soundpad.db"))

	var initErr *domain.InitializationError
	require.ErrorAs(t, err, &initErr)
	require.Contains(t, initErr.Path, "blocker")
}

func TestOpener_OpensOnce(t *testing.T) {
	o := NewOpener(filepath.Join(t.TempDir(), "soundpad.db"))

	const n = 8
	dbs := make([]*DB, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			db, err := o.Open()
			require.NoError(t, err)
			dbs[i] = db
		}()
	}
	wg.Wait()
	t.Cleanup(func() { _ = dbs[0].Close() })

	for _, db := range dbs {
		require.Same(t, dbs[0], db)
	}
}

func TestOpener_SharesError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	o := NewOpener(filepath.Join(blocker, "soundpad.db"))

	_, first := o.Open()
	_, second := o.Open()

	require.Error(t, first)
	require.Same(t, first, second)
}
