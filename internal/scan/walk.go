// Package scan implements the incremental scan/reconciliation pipeline:
// directory discovery, parallel classification against the existing
// catalog, conflict resolution, deletion detection, staging, and commit.
// Grounded on original_source/backend/src/scanner/mod.rs, reshaped onto
// filepath.WalkDir.
package scan

import (
	"io/fs"
	"path/filepath"

	"github.com/franzsee/collectune/internal/meta"
	"github.com/franzsee/collectune/internal/util"
)

// Discover walks root depth-first and returns every file whose extension
// is on meta's allow-list. An unreadable subdirectory is logged and
// skipped rather than aborting the whole scan (mod.rs's get_audio_files
// silently drops a fs::read_dir error; WalkDir's callback does the same
// but logs first before continuing).
func Discover(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			util.WarnLog("skipping unreadable path %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if meta.IsAudioFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
