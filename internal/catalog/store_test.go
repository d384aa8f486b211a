package catalog

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), FileName)
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesSchema(t *testing.T) {
	s := openTestStore(t)

	tables := []string{"file", "track", "album", "artist", "credit", "deletion", "meta_version"}
	for _, table := range tables {
		var name string
		err := s.DB().QueryRow(`SELECT table_name FROM information_schema.tables WHERE table_name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("expected table %q to exist: %v", table, err)
		}
	}

	var version uint32
	if err := s.DB().QueryRow(`SELECT value FROM meta_version`).Scan(&version); err != nil {
		t.Fatalf("read meta_version: %v", err)
	}
	if version != 1 {
		t.Errorf("meta_version = %d, want 1", version)
	}
}

func TestOpen_IsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), FileName)

	s1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	s1.Close()

	s2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("second Open (re-applying migrations) should not fail: %v", err)
	}
	defer s2.Close()

	var version uint32
	if err := s2.DB().QueryRow(`SELECT value FROM meta_version`).Scan(&version); err != nil {
		t.Fatalf("read meta_version: %v", err)
	}
	if version != 1 {
		t.Errorf("meta_version after reopen = %d, want 1", version)
	}
}
