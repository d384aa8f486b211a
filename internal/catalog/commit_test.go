package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestCommit_InsertsNewEntities(t *testing.T) {
	s := openTestStore(t)

	artistID := uuid.New()
	albumID := uuid.New()
	fileID := uuid.New()
	trackID := uuid.New()
	year := uint16(1997)

	data := StagingData{
		Artists: []StagingArtist{{ID: artistID, Name: "Radiohead"}},
		Albums:  []StagingAlbum{{ID: albumID, Title: "OK Computer", Year: &year}},
		Files: []StagingFile{{
			ID: fileID, Path: "/music/Radiohead/OK Computer/02 Paranoid Android.flac",
			Hash: [32]byte{1, 2, 3}, Size: 12345, Format: FormatFLAC, Duration: 383.5,
		}},
		Tracks: []StagingTrack{{
			ID: trackID, File: fileID, Title: "Paranoid Android", Album: &albumID, Genre: "Alternative Rock",
		}},
		Credits: []StagingCredit{{Track: trackID, Artist: artistID, Ord: 0, Role: nil}},
	}

	if err := Commit(context.Background(), s, data); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	var name string
	if err := s.DB().QueryRow(`SELECT name FROM artist WHERE id = ?`, artistID.String()).Scan(&name); err != nil {
		t.Fatalf("read back artist: %v", err)
	}
	if name != "Radiohead" {
		t.Errorf("artist name = %q, want Radiohead", name)
	}

	var path string
	if err := s.DB().QueryRow(`SELECT path FROM file WHERE id = ?`, fileID.String()).Scan(&path); err != nil {
		t.Fatalf("read back file: %v", err)
	}
	if path != data.Files[0].Path {
		t.Errorf("file path = %q, want %q", path, data.Files[0].Path)
	}

	var trackCount int
	if err := s.DB().QueryRow(`SELECT count(*) FROM track WHERE album = ?`, albumID.String()).Scan(&trackCount); err != nil {
		t.Fatalf("count tracks: %v", err)
	}
	if trackCount != 1 {
		t.Errorf("tracks referencing album = %d, want 1", trackCount)
	}

	var creditCount int
	if err := s.DB().QueryRow(`SELECT count(*) FROM credit WHERE track = ? AND artist = ?`, trackID.String(), artistID.String()).Scan(&creditCount); err != nil {
		t.Fatalf("count credits: %v", err)
	}
	if creditCount != 1 {
		t.Errorf("credit rows = %d, want 1", creditCount)
	}
}

func TestCommit_AppliesMoveModifyAndDeletion(t *testing.T) {
	s := openTestStore(t)

	fileID := uuid.New()
	if err := Commit(context.Background(), s, StagingData{
		Files: []StagingFile{{
			ID: fileID, Path: "/music/old-path.mp3", Hash: [32]byte{9}, Size: 100, Format: FormatMP3, Duration: 10,
		}},
	}); err != nil {
		t.Fatalf("seed commit: %v", err)
	}

	newHash := [32]byte{7, 7, 7}
	deletionID := uuid.New()
	if err := Commit(context.Background(), s, StagingData{
		Moved:    []StagingMoved{{ID: fileID, NewPath: "/music/new-path.mp3"}},
		Modified: []StagingModified{{ID: fileID, Hash: newHash, Size: 200, Duration: 20}},
		Deleted:  []StagingDeleted{{FileID: fileID, DeletionID: deletionID}},
	}); err != nil {
		t.Fatalf("second commit: %v", err)
	}

	var path string
	var hashBlob []byte
	var size uint32
	var deletion *string
	if err := s.DB().QueryRow(`SELECT path, hash, size, deletion FROM file WHERE id = ?`, fileID.String()).
		Scan(&path, &hashBlob, &size, &deletion); err != nil {
		t.Fatalf("read back file: %v", err)
	}

	if path != "/music/new-path.mp3" {
		t.Errorf("path = %q, want /music/new-path.mp3", path)
	}
	if size != 200 {
		t.Errorf("size = %d, want 200", size)
	}
	if deletion == nil || *deletion != deletionID.String() {
		t.Errorf("deletion = %v, want %v", deletion, deletionID)
	}

	var deletionCount int
	if err := s.DB().QueryRow(`SELECT count(*) FROM deletion WHERE id = ?`, deletionID.String()).Scan(&deletionCount); err != nil {
		t.Fatalf("count deletion rows: %v", err)
	}
	if deletionCount != 1 {
		t.Errorf("deletion rows = %d, want 1", deletionCount)
	}
}
