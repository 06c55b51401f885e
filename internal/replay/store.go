// Package replay implements the golden-run regression cache named in
// spec.md §8's determinism testable property: it stores a config hash
// plus the resulting baseband tensor so CI can detect numerical drift
// across commits, without making persistence part of the engine's own
// execution path.
package replay

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/radarsimx/radarsimgo/internal/simerr"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a golden-run cache backed by a single SQLite file (or
// ":memory:" for test isolation).
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// migrates it to the latest schema version. A failure here is reported as
// simerr.DeviceError; the replay store (Open, Put, Get) is the only part
// of this CPU-only build that raises that kind.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, simerr.Wrap(simerr.DeviceError, err, "replay: open %q", path)
	}
	for _, pragma := range []string{"PRAGMA journal_mode = WAL", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, simerr.Wrap(simerr.DeviceError, err, "replay: apply %q", pragma)
		}
	}

	s := &Store{db: db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrateUp() error {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return simerr.Wrap(simerr.DeviceError, err, "replay: sub-filesystem for embedded migrations")
	}
	sourceDriver, err := iofs.New(sub, ".")
	if err != nil {
		return simerr.Wrap(simerr.DeviceError, err, "replay: iofs source")
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return simerr.Wrap(simerr.DeviceError, err, "replay: sqlite migrate driver")
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return simerr.Wrap(simerr.DeviceError, err, "replay: migrate instance")
	}
	// Note: m.Close() is not called — the sqlite driver's Close() would
	// close the underlying *sql.DB, which Store manages separately.
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return simerr.Wrap(simerr.DeviceError, err, "replay: migrate up")
	}
	return nil
}

func wrapSQLErr(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return simerr.Wrap(simerr.DeviceError, err, fmt.Sprintf(format, args...))
}
