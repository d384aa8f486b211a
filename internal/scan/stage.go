package scan

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/franzsee/collectune/internal/catalog"
)

var discFolderPrefixes = []string{"disc", "cd", "disk"}

// isDiscFolder reports whether a directory name looks like a disc
// subfolder ("CD1", "Disc 2", "disk03") rather than an album directory of
// its own (mod.rs's is_disc_folder).
func isDiscFolder(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range discFolderPrefixes {
		rest, ok := strings.CutPrefix(lower, prefix)
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}
		if isAllDigits(rest) {
			return true
		}
	}
	return false
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// albumDirectory returns the directory a file's album should be grouped
// under: its parent, or its grandparent if the parent is a disc subfolder
// (mod.rs's album_directory).
func albumDirectory(path string) string {
	parent := filepath.Dir(path)
	name := filepath.Base(parent)
	if isDiscFolder(name) {
		return filepath.Dir(parent)
	}
	return parent
}

type albumKey struct {
	title string
	dir   string
}

// Stage turns a reconciled scan's results into the flat buffers the
// committer bulk-loads (§4.5): interning new artists, grouping new files
// into albums by (title, directory) with first-writer-wins year, minting
// fresh identities, and carrying moved/modified/deletion rows through
// unchanged. Grounded on mod.rs's prepare_staging_data.
func Stage(results *Results, existingArtists catalog.ExistingArtists, deletedIDs []uuid.UUID) catalog.StagingData {
	allArtists := make(map[string]uuid.UUID, len(existingArtists))
	for name, id := range existingArtists {
		allArtists[name] = id
	}

	var newArtists []catalog.StagingArtist
	for _, nf := range results.New {
		for _, ta := range nf.Metadata.Artists {
			if ta.Artist == "" {
				continue
			}
			if _, known := allArtists[ta.Artist]; known {
				continue
			}
			id := uuid.New()
			allArtists[ta.Artist] = id
			newArtists = append(newArtists, catalog.StagingArtist{ID: id, Name: ta.Artist})
		}
	}

	albumIDs := make(map[albumKey]uuid.UUID)
	albumYears := make(map[uuid.UUID]*uint16)
	var albumOrder []albumKey
	for _, nf := range results.New {
		key := albumKey{title: nf.Metadata.Album, dir: albumDirectory(nf.Path)}
		id, ok := albumIDs[key]
		if !ok {
			id = uuid.New()
			albumIDs[key] = id
			albumOrder = append(albumOrder, key)
			albumYears[id] = nf.Metadata.Year
		}
	}

	stagingAlbums := make([]catalog.StagingAlbum, 0, len(albumOrder))
	for _, key := range albumOrder {
		id := albumIDs[key]
		stagingAlbums = append(stagingAlbums, catalog.StagingAlbum{ID: id, Title: key.title, Year: albumYears[id]})
	}

	var stagingFiles []catalog.StagingFile
	var stagingTracks []catalog.StagingTrack
	var stagingCredits []catalog.StagingCredit

	for _, nf := range results.New {
		fileID := uuid.New()
		trackID := uuid.New()

		stagingFiles = append(stagingFiles, catalog.StagingFile{
			ID:       fileID,
			Path:     nf.Path,
			Hash:     nf.Hash,
			Size:     nf.Size,
			Format:   nf.Format,
			Duration: float32(nf.Duration),
		})

		key := albumKey{title: nf.Metadata.Album, dir: albumDirectory(nf.Path)}
		var albumID *uuid.UUID
		if id, ok := albumIDs[key]; ok {
			id := id
			albumID = &id
		}

		stagingTracks = append(stagingTracks, catalog.StagingTrack{
			ID:          trackID,
			File:        fileID,
			Title:       nf.Metadata.Title,
			Album:       albumID,
			DiscNumber:  nf.Metadata.DiscNumber,
			TrackNumber: nf.Metadata.TrackNumber,
			Genre:       nf.Metadata.Genre,
		})

		for i, ta := range nf.Metadata.Artists {
			artistID, ok := allArtists[ta.Artist]
			if !ok {
				continue
			}
			stagingCredits = append(stagingCredits, catalog.StagingCredit{
				Track:  trackID,
				Artist: artistID,
				Ord:    float64(i),
				Role:   ta.Role,
			})
		}
	}

	stagingMoved := make([]catalog.StagingMoved, 0, len(results.Moved))
	for _, m := range results.Moved {
		stagingMoved = append(stagingMoved, catalog.StagingMoved{ID: m.ID, NewPath: m.Path})
	}

	stagingModified := make([]catalog.StagingModified, 0, len(results.Modified))
	for _, m := range results.Modified {
		stagingModified = append(stagingModified, catalog.StagingModified{
			ID:       m.ID,
			Hash:     m.Hash,
			Size:     m.Size,
			Duration: float32(m.Duration),
		})
	}

	var stagingDeleted []catalog.StagingDeleted
	if len(deletedIDs) > 0 {
		deletionID := uuid.New()
		stagingDeleted = make([]catalog.StagingDeleted, 0, len(deletedIDs))
		for _, fileID := range deletedIDs {
			stagingDeleted = append(stagingDeleted, catalog.StagingDeleted{FileID: fileID, DeletionID: deletionID})
		}
	}

	return catalog.StagingData{
		Artists:  newArtists,
		Albums:   stagingAlbums,
		Files:    stagingFiles,
		Tracks:   stagingTracks,
		Credits:  stagingCredits,
		Moved:    stagingMoved,
		Modified: stagingModified,
		Deleted:  stagingDeleted,
	}
}
