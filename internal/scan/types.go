package scan

import (
	"github.com/google/uuid"

	"github.com/franzsee/collectune/internal/catalog"
	"github.com/franzsee/collectune/internal/meta"
)

// classification is the per-file verdict from classifyFile: exactly one
// of the four §4.3 outcomes. A nil *classification means the file could
// not be classified at all (unreadable, hash failure, or undecodable when
// new) and is dropped from the scan, matching mod.rs's classify_file returning
// Option<FileClassification>.
type classification struct {
	kind     classKind
	skipped  string
	moved    MovedEntry
	modified ModifiedEntry
	newFile  NewFileData
}

type classKind int

const (
	kindSkipped classKind = iota
	kindMoved
	kindModified
	kindNew
)

// MovedEntry is a file whose content hash is already known but whose path
// isn't — the catalog row just needs its path updated (§4.3 Moved).
type MovedEntry struct {
	ID   uuid.UUID
	Path string
}

// ModifiedEntry is a file whose path is already known but whose content
// hash isn't — the catalog row's hash/size/duration need updating, tags
// stay put (§4.3 Modified).
type ModifiedEntry struct {
	ID       uuid.UUID
	Path     string
	Hash     [32]byte
	Size     uint32
	Duration float64
}

// NewFileData is a file with neither a path nor hash match — a brand new
// catalog entity, fully tagged and ready for staging (§4.3 New).
type NewFileData struct {
	Path     string
	Hash     [32]byte
	Size     uint32
	Duration float64
	Format   catalog.Format
	Metadata meta.TrackMetadata
}

// Results is the aggregated scan outcome (mod.rs's ScanResults), consumed
// first by reconciliation and then by staging.
type Results struct {
	Skipped  []string
	Moved    []MovedEntry
	Modified []ModifiedEntry
	New      []NewFileData
}
