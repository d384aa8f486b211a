package scan

import (
	"context"
	"fmt"

	"github.com/franzsee/collectune/internal/catalog"
	"github.com/franzsee/collectune/internal/util"
)

// Run performs one full incremental scan of root against the catalog held
// by store: load existing state, discover files, classify in parallel,
// reconcile conflicts and deletions, stage, and commit in one transaction
// (§4, steps 1-9). Grounded on mod.rs's top-level scan function; store's
// Lock/Unlock stands in for server.rs's AppState mutex, ensuring a scan
// and a concurrent query never touch the connection at once (§5).
func Run(ctx context.Context, store *catalog.Store, root string) error {
	store.Lock()
	defer store.Unlock()

	existingArtists, err := catalog.LoadExistingArtists(store)
	if err != nil {
		return fmt.Errorf("load existing artists: %w", err)
	}
	existingFiles, err := catalog.LoadExistingFiles(store)
	if err != nil {
		return fmt.Errorf("load existing files: %w", err)
	}

	paths, err := Discover(root)
	if err != nil {
		return fmt.Errorf("discover audio files: %w", err)
	}

	results := Classify(paths, existingFiles)
	util.InfoLog("scan: %d skipped, %d moved, %d modified, %d new",
		len(results.Skipped), len(results.Moved), len(results.Modified), len(results.New))

	ResolveConflicts(&results)

	deletedIDs := DetectDeletions(&results, existingFiles)
	util.InfoLog("scan: %d deleted", len(deletedIDs))

	staging := Stage(&results, existingArtists, deletedIDs)

	if err := catalog.Commit(ctx, store, staging); err != nil {
		return fmt.Errorf("commit scan: %w", err)
	}

	util.SuccessLog("scan complete")
	return nil
}
