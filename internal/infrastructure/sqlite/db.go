// Package sqlite is the soundpad store: one SQLite file holding the board
// record. It handles connection lifecycle and migrations.
package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/soundpad/internal/infrastructure/migrations"
	"github.com/zjrosen/soundpad/internal/log"
	"github.com/zjrosen/soundpad/internal/soundboard/domain"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB owns the SQLite connection.
type DB struct {
	conn *sql.DB
	path string
}

// pragmas are applied to every new database connection in order.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
}

// NewDB opens the store at path, creating its directory, and migrates it.
// An existing file is first copied to {path}.bak. All failures are reported
// as *domain.InitializationError.
func NewDB(path string) (*DB, error) {
	log.Debug(log.CatDB, "Opening store", "path", path)

	fail := func(msg string, err error) (*DB, error) {
		log.ErrorErr(log.CatDB, msg, err, "path", path)
		return nil, &domain.InitializationError{Path: path, Err: fmt.Errorf("%s: %w", msg, err)}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fail("create store directory", err)
	}

	if _, err := os.Stat(path); err == nil {
		backup := path + ".bak"
		if err := copyFile(path, backup); err != nil {
			return fail("pre-migration backup", err)
		}
		log.Debug(log.CatDB, "Created pre-migration backup", "backup", backup)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return fail("open store", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return fail("ping store", err)
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			_ = conn.Close()
			return fail(p, err)
		}
	}
	if err := migrations.Up(conn); err != nil {
		_ = conn.Close()
		return fail("migrate store", err)
	}

	log.Info(log.CatDB, "Store initialized", "path", path)
	return &DB{conn: conn, path: path}, nil
}

// Path returns the file the store lives in.
func (db *DB) Path() string {
	return db.path
}

// Close releases the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	log.Debug(log.CatDB, "Closing store", "path", db.path)
	return db.conn.Close()
}

// Records returns the record store backed by this connection. A nil tracer
// uses the global provider.
func (db *DB) Records(tracer trace.Tracer) *RecordStore {
	return newRecordStore(db, tracer)
}

// Connection returns the underlying *sql.DB for tests.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// Opener opens the store at most once per process. Every Open call, however
// many race, returns the same *DB and the same error.
type Opener struct {
	path string
	once sync.Once
	db   *DB
	err  error
}

// NewOpener prepares an Opener for path.
func NewOpener(path string) *Opener {
	return &Opener{path: path}
}

// Open opens the store on first use.
func (o *Opener) Open() (*DB, error) {
	o.once.Do(func() {
		o.db, o.err = NewDB(o.path)
	})
	return o.db, o.err
}

// copyFile copies src over dst, reporting close errors so a truncated backup
// is never mistaken for a good one.
func copyFile(src, dst string) (retErr error) {
	in, err := os.Open(src) //nolint:gosec // G304: src is the store path
	if err != nil {
		return err
	}
	defer func() {
		if err := in.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("close source: %w", err)
		}
	}()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, info.Mode()) //nolint:gosec // G304: dst derives from the store path
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("close backup: %w", err)
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
