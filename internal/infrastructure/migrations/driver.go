package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4/database"
)

// VersionTable is the table golang-migrate records the schema version in.
const VersionTable = "schema_migrations"

// ErrNilConfig is returned by WithInstance when no Config is given.
var ErrNilConfig = errors.New("migrations: nil config")

// Config tunes the driver.
type Config struct {
	// VersionTable overrides the version table name.
	VersionTable string
	// NoTxWrap runs each migration file outside a transaction.
	NoTxWrap bool
}

// Driver implements database.Driver on a *sql.DB opened with the ncruces
// driver. Locking is process-local; soundpad is the only writer of its store.
type Driver struct {
	db     *sql.DB
	cfg    Config
	locked atomic.Bool
}

var _ database.Driver = (*Driver)(nil)

// WithInstance wraps an open connection and makes sure the version table exists.
func WithInstance(db *sql.DB, cfg *Config) (database.Driver, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	d := &Driver{db: db, cfg: *cfg}
	if d.cfg.VersionTable == "" {
		d.cfg.VersionTable = VersionTable
	}
	if err := d.ensureVersionTable(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Driver) ensureVersionTable() (err error) {
	if err := d.Lock(); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, d.Unlock())
	}()

	t := d.cfg.VersionTable
	_, err = d.db.Exec(fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (version uint64, dirty bool);
		 CREATE UNIQUE INDEX IF NOT EXISTS %s_version ON %s (version);`, t, t, t))
	return err
}

// Open is unsupported; connections are always supplied through WithInstance.
func (d *Driver) Open(string) (database.Driver, error) {
	return nil, errors.New("migrations: Open is unsupported, use WithInstance")
}

// Close closes the wrapped connection.
func (d *Driver) Close() error {
	return d.db.Close()
}

// Lock implements database.Driver.
func (d *Driver) Lock() error {
	if !d.locked.CompareAndSwap(false, true) {
		return database.ErrLocked
	}
	return nil
}

// Unlock implements database.Driver.
func (d *Driver) Unlock() error {
	if !d.locked.CompareAndSwap(true, false) {
		return database.ErrNotLocked
	}
	return nil
}

// Run executes one migration file.
func (d *Driver) Run(r io.Reader) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	query := string(body)

	if d.cfg.NoTxWrap {
		if _, err := d.db.Exec(query); err != nil {
			return &database.Error{OrigErr: err, Query: body}
		}
		return nil
	}
	return d.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(query); err != nil {
			return &database.Error{OrigErr: err, Query: body}
		}
		return nil
	})
}

// inTx runs fn inside a transaction, rolling back when fn fails.
func (d *Driver) inTx(fn func(*sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return &database.Error{OrigErr: err, Err: "transaction start failed"}
	}
	if err := fn(tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := tx.Commit(); err != nil {
		return &database.Error{OrigErr: err, Err: "transaction commit failed"}
	}
	return nil
}

// SetVersion replaces the recorded version.
func (d *Driver) SetVersion(version int, dirty bool) error {
	t := d.cfg.VersionTable
	return d.inTx(func(tx *sql.Tx) error {
		del := "DELETE FROM " + t //nolint:gosec // table name comes from Config
		if _, err := tx.Exec(del); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(del)}
		}
		// A dirty NilVersion is kept so a failed first down migration stays visible.
		if version < 0 && (version != database.NilVersion || !dirty) {
			return nil
		}
		ins := fmt.Sprintf(`INSERT INTO %s (version, dirty) VALUES (?, ?)`, t) //nolint:gosec // table name comes from Config
		if _, err := tx.Exec(ins, version, dirty); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(ins)}
		}
		return nil
	})
}

// Version returns the recorded version, or NilVersion when none is stored.
func (d *Driver) Version() (int, bool, error) {
	var (
		version int
		dirty   bool
	)
	q := "SELECT version, dirty FROM " + d.cfg.VersionTable + " LIMIT 1" //nolint:gosec // table name comes from Config
	if err := d.db.QueryRow(q).Scan(&version, &dirty); err != nil {
		return database.NilVersion, false, nil
	}
	return version, dirty, nil
}

// Drop removes every table.
func (d *Driver) Drop() error {
	names, err := d.tables()
	if err != nil {
		return err
	}
	for _, name := range names {
		stmt := "DROP TABLE " + name
		if err := d.inTx(func(tx *sql.Tx) error {
			_, err := tx.Exec(stmt)
			return err
		}); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(stmt)}
		}
	}
	if len(names) == 0 {
		return nil
	}
	if _, err := d.db.Exec("VACUUM"); err != nil {
		return &database.Error{OrigErr: err, Query: []byte("VACUUM")}
	}
	return nil
}

func (d *Driver) tables() (names []string, err error) {
	const q = `SELECT name FROM sqlite_master WHERE type = 'table'`
	rows, err := d.db.Query(q)
	if err != nil {
		return nil, &database.Error{OrigErr: err, Query: []byte(q)}
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if name != "" {
			names = append(names, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &database.Error{OrigErr: err, Query: []byte(q)}
	}
	return names, nil
}
