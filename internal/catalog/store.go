package catalog

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" sql driver
)

// FileName is the catalog's fixed file name inside the collection
// directory (§6).
const FileName = "collectune.db"

// Store owns the single process-wide catalog connection. Scans and query
// handlers both take Lock for their full duration (§5) so the two are
// mutually exclusive by construction; DuckDB itself does not need a
// connection pool here because exactly one goroutine touches it at a time.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (creating if absent) the catalog file at dbPath and applies
// any pending migrations in ascending version order, each in its own
// transaction (§6). Migration failure is fatal to startup (§7).
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return s, nil
}

// Close releases the catalog connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lock acquires exclusive use of the catalog connection for the duration
// of a scan or a query.
func (s *Store) Lock() {
	s.mu.Lock()
}

// Unlock releases exclusive use of the catalog connection.
func (s *Store) Unlock() {
	s.mu.Unlock()
}

// DB returns the underlying *sql.DB. Callers must hold Lock for its use.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS meta_version (value UINTEGER NOT NULL);
		INSERT INTO meta_version SELECT 0 WHERE NOT EXISTS (SELECT 1 FROM meta_version);
	`); err != nil {
		return fmt.Errorf("init version metadata: %w", err)
	}

	var current uint32
	if err := s.db.QueryRow(`SELECT value FROM meta_version`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.runMigration(m.version, m.sql); err != nil {
			return fmt.Errorf("migration %04d: %w", m.version, err)
		}
		current = m.version
	}
	return nil
}

func (s *Store) runMigration(version uint32, sqlText string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(sqlText); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE meta_version SET value = ?`, version); err != nil {
		return err
	}
	return tx.Commit()
}
