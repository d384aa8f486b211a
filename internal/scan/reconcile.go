package scan

import (
	"github.com/google/uuid"

	"github.com/franzsee/collectune/internal/catalog"
)

// ResolveConflicts breaks ties between the Moved and Modified outcomes for
// the same file id: the hash-based match wins, and the path-matched entry
// is reclassified as New (§4.4). Grounded on mod.rs's resolve_conflicts.
func ResolveConflicts(results *Results) {
	movedIDs := make(map[uuid.UUID]struct{}, len(results.Moved))
	for _, m := range results.Moved {
		movedIDs[m.ID] = struct{}{}
	}

	kept := results.Modified[:0]
	for _, m := range results.Modified {
		if _, conflict := movedIDs[m.ID]; !conflict {
			kept = append(kept, m)
			continue
		}
		if c := classifyAsNew(m.Path, m.Hash); c != nil {
			results.New = append(results.New, c.newFile)
		}
	}
	results.Modified = kept
}

// DetectDeletions returns the ids of every catalog file whose path was
// not seen anywhere in this scan's results — it is no longer on disk
// (§4.4). Grounded on mod.rs's detect_deletions.
func DetectDeletions(results *Results, existing *catalog.ExistingFiles) []uuid.UUID {
	known := make(map[string]struct{}, len(results.Skipped)+len(results.Moved)+len(results.New)+len(results.Modified))
	for _, p := range results.Skipped {
		known[p] = struct{}{}
	}
	for _, m := range results.Moved {
		known[m.Path] = struct{}{}
	}
	for _, n := range results.New {
		known[n.Path] = struct{}{}
	}
	for _, m := range results.Modified {
		known[m.Path] = struct{}{}
	}

	var deleted []uuid.UUID
	for path, entry := range existing.ByPath {
		if _, ok := known[path]; !ok {
			deleted = append(deleted, entry.ID)
		}
	}
	return deleted
}
