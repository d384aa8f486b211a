// Package catalog owns the durable DuckDB-backed schema: opening the
// catalog file, applying migrations, loading existing state ahead of a
// scan, and committing a scan's staged changes in one transaction.
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Format is the canonical short-form audio container name persisted on a
// file row. The extension-to-format mapping lives in internal/meta.
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatFLAC Format = "flac"
	FormatOGG  Format = "ogg"
	FormatMP4  Format = "mp4"
	FormatOpus Format = "opus"
	FormatWMA  Format = "wma"
	FormatAAC  Format = "aac"
	FormatAIFF Format = "aiff"
	FormatALAC Format = "alac"
	FormatAPE  Format = "ape"
	FormatWAV  Format = "wav"
	FormatWV   Format = "wv"
)

// File mirrors the `file` table (§3).
type File struct {
	ID       uuid.UUID
	Path     string
	Hash     [32]byte
	Size     uint32
	Format   Format
	Duration float32
	Added    time.Time
	Deletion *uuid.UUID
}

// Track mirrors the `track` table.
type Track struct {
	ID          uuid.UUID
	File        uuid.UUID
	Title       string
	Album       *uuid.UUID
	DiscNumber  *uint8
	TrackNumber *uint8
	Genre       string
	Rating      *float32
}

// Album mirrors the `album` table.
type Album struct {
	ID    uuid.UUID
	Title string
	Year  *uint16
}

// Artist mirrors the `artist` table.
type Artist struct {
	ID   uuid.UUID
	Name string
}

// Credit mirrors the `credit` table.
type Credit struct {
	Track  uuid.UUID
	Artist uuid.UUID
	Ord    float64
	Role   *string
}

// Deletion mirrors the `deletion` table.
type Deletion struct {
	ID        uuid.UUID
	Timestamp time.Time
}

// ExistingFiles is the scan-scoped lookup structure described in §3: a
// path index and a hash index built by the loader, consumed read-only by
// the classifier.
type ExistingFiles struct {
	ByPath map[string]ExistingFileEntry
	ByHash map[[32]byte][]HashEntry
}

// ExistingFileEntry is the value side of ExistingFiles.ByPath.
type ExistingFileEntry struct {
	ID   uuid.UUID
	Hash [32]byte
}

// HashEntry is one element of an ExistingFiles.ByHash bucket: a candidate
// (possibly duplicate) file row sharing a content hash, paired with the
// path it was last known to live at.
type HashEntry struct {
	ID   uuid.UUID
	Path string
}

// NewExistingFiles returns an empty, ready-to-populate ExistingFiles.
func NewExistingFiles() *ExistingFiles {
	return &ExistingFiles{
		ByPath: make(map[string]ExistingFileEntry),
		ByHash: make(map[[32]byte][]HashEntry),
	}
}

// ExistingArtists maps artist name to its catalog identity (§3).
type ExistingArtists map[string]uuid.UUID

// StagingData is the flat, per-entity buffer the stager (C5) fills and
// the committer (C6) drains into the live tables in one transaction
// (§4.5, §4.6).
type StagingData struct {
	Artists  []StagingArtist
	Albums   []StagingAlbum
	Files    []StagingFile
	Tracks   []StagingTrack
	Credits  []StagingCredit
	Moved    []StagingMoved
	Modified []StagingModified
	Deleted  []StagingDeleted
}

// StagingArtist is a newly-interned artist awaiting insert.
type StagingArtist struct {
	ID   uuid.UUID
	Name string
}

// StagingAlbum is a newly-grouped album awaiting insert.
type StagingAlbum struct {
	ID    uuid.UUID
	Title string
	Year  *uint16
}

// StagingFile is a brand-new file row awaiting insert.
type StagingFile struct {
	ID       uuid.UUID
	Path     string
	Hash     [32]byte
	Size     uint32
	Format   Format
	Duration float32
}

// StagingTrack is a brand-new track row awaiting insert.
type StagingTrack struct {
	ID          uuid.UUID
	File        uuid.UUID
	Title       string
	Album       *uuid.UUID
	DiscNumber  *uint8
	TrackNumber *uint8
	Genre       string
}

// StagingCredit is a brand-new credit row awaiting insert.
type StagingCredit struct {
	Track  uuid.UUID
	Artist uuid.UUID
	Ord    float64
	Role   *string
}

// StagingMoved carries the new path for a file whose content hash still
// matches but whose path doesn't (§4.3 Moved).
type StagingMoved struct {
	ID      uuid.UUID
	NewPath string
}

// StagingModified carries the new hash/size/duration for a file whose
// path matches but whose content hash doesn't (§4.3 Modified).
type StagingModified struct {
	ID       uuid.UUID
	Hash     [32]byte
	Size     uint32
	Duration float32
}

// StagingDeleted pairs a tombstoned file id with the single deletion row
// this scan minted for it (§4.5).
type StagingDeleted struct {
	FileID     uuid.UUID
	DeletionID uuid.UUID
}
