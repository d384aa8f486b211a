package catalog

import (
	"fmt"

	"github.com/google/uuid"
)

// LoadExistingArtists loads every artist row into the name->id map the
// stager uses for interning (§4.2, §4.5).
func LoadExistingArtists(s *Store) (ExistingArtists, error) {
	rows, err := s.DB().Query(`SELECT id, name FROM artist`)
	if err != nil {
		return nil, fmt.Errorf("query artists: %w", err)
	}
	defer rows.Close()

	out := make(ExistingArtists)
	for rows.Next() {
		var idStr, name string
		if err := rows.Scan(&idStr, &name); err != nil {
			return nil, fmt.Errorf("scan artist row: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			// Defensive: a corrupt artist.id should never happen, but the
			// scan must not abort over one bad row.
			continue
		}
		out[name] = id
	}
	return out, rows.Err()
}

// LoadExistingFiles loads every non-deleted file's (id, path, hash) into
// the path- and hash-keyed lookup structures the classifier consumes
// (§4.2). Rows with an unparsable id or a hash that isn't exactly 32
// bytes are silently skipped — corrupt catalog rows must not abort a
// scan (§7).
func LoadExistingFiles(s *Store) (*ExistingFiles, error) {
	rows, err := s.DB().Query(`SELECT id, path, hash FROM file WHERE deletion IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	existing := NewExistingFiles()
	for rows.Next() {
		var idStr, path string
		var hashBlob []byte
		if err := rows.Scan(&idStr, &path, &hashBlob); err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		if len(hashBlob) != 32 {
			continue
		}

		var hash [32]byte
		copy(hash[:], hashBlob)

		existing.ByPath[path] = ExistingFileEntry{ID: id, Hash: hash}
		existing.ByHash[hash] = append(existing.ByHash[hash], HashEntry{ID: id, Path: path})
	}
	return existing, rows.Err()
}
