package scan

import (
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/sourcegraph/conc/pool"

	"github.com/franzsee/collectune/internal/catalog"
	"github.com/franzsee/collectune/internal/meta"
	"github.com/franzsee/collectune/internal/util"
)

// Classify hashes and classifies every discovered path against existing,
// splitting the work across a pool sized to the host's available
// parallelism (§4.3's "work-stealing worker pool"). Grounded on mod.rs's
// audio_files.par_iter().filter_map(classify_file), reimplemented with
// sourcegraph/conc's pool instead of rayon. The progress bar is suppressed
// when stdout isn't a terminal or --quiet is set, and is determinate since
// the file count is already known before classification starts.
func Classify(paths []string, existing *catalog.ExistingFiles) Results {
	var bar *progressbar.ProgressBar
	if util.IsTerminal(os.Stdout.Fd()) && !util.IsQuiet() {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("Classifying"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files"),
			progressbar.OptionClearOnFinish(),
		)
	}

	p := pool.NewWithResults[*classification]().WithMaxGoroutines(util.Parallelism())
	for _, path := range paths {
		p.Go(func() *classification {
			c := classifyFile(path, existing)
			if bar != nil {
				_ = bar.Add(1)
			}
			return c
		})
	}

	return aggregate(p.Wait())
}

// classifyFile mirrors mod.rs's classify_file: a file unreadable for
// hashing is dropped from the scan entirely (returns nil), matching
// hash_file's Option<[u8;32]> short-circuit.
func classifyFile(path string, existing *catalog.ExistingFiles) *classification {
	hash, err := util.HashFile(path)
	if err != nil {
		util.WarnLog("skipping unreadable file %s: %v", path, err)
		return nil
	}

	pathMatch, hasPath := existing.ByPath[path]
	hashMatches := existing.ByHash[hash]

	switch {
	case hasPath && pathMatch.Hash == hash:
		return &classification{kind: kindSkipped, skipped: path}

	case !hasPath && len(hashMatches) > 0:
		for _, candidate := range hashMatches {
			if !util.PathExists(candidate.Path) {
				return &classification{kind: kindMoved, moved: MovedEntry{ID: candidate.ID, Path: path}}
			}
		}
		// Every original path the hash was last seen at still exists on
		// disk: this is a duplicate, treated as a brand new file (§4.3).
		return classifyAsNew(path, hash)

	case hasPath:
		size := util.FileSize(path)
		format, ok := meta.FormatForPath(path)
		duration := 0.0
		if ok {
			if probe, err := meta.Extract(path, format); err == nil {
				duration = probe.Duration
			}
		}
		return &classification{
			kind: kindModified,
			modified: ModifiedEntry{
				ID:       pathMatch.ID,
				Path:     path,
				Hash:     hash,
				Size:     uint32(size),
				Duration: duration,
			},
		}

	default:
		return classifyAsNew(path, hash)
	}
}

// classifyAsNew mirrors mod.rs's classify_as_new: extension must still
// resolve to a known format, and tag/duration extraction must succeed,
// or the file is dropped from the scan rather than staged half-populated.
func classifyAsNew(path string, hash [32]byte) *classification {
	format, ok := meta.FormatForPath(path)
	if !ok {
		return nil
	}

	probe, err := meta.Extract(path, format)
	if err != nil {
		util.WarnLog("skipping unreadable metadata for %s: %v", path, err)
		return nil
	}

	return &classification{
		kind: kindNew,
		newFile: NewFileData{
			Path:     path,
			Hash:     hash,
			Size:     uint32(util.FileSize(path)),
			Duration: probe.Duration,
			Format:   format,
			Metadata: probe.Metadata,
		},
	}
}

func aggregate(classifications []*classification) Results {
	var r Results
	for _, c := range classifications {
		if c == nil {
			continue
		}
		switch c.kind {
		case kindSkipped:
			r.Skipped = append(r.Skipped, c.skipped)
		case kindMoved:
			r.Moved = append(r.Moved, c.moved)
		case kindModified:
			r.Modified = append(r.Modified, c.modified)
		case kindNew:
			r.New = append(r.New, c.newFile)
		}
	}
	return r
}
