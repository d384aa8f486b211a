package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/franzsee/collectune/internal/catalog"
	"github.com/franzsee/collectune/internal/util"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

// writeTaggedFixture writes a file carrying a minimal, real ID3v2.3 tag
// (just enough for dhowden/tag to parse) followed by non-audio filler, so
// classifyAsNew's metadata extraction succeeds without needing real mpeg
// frames.
func writeTaggedFixture(t *testing.T, dir, name, title string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	body := append(id3v2Header(title), []byte("not real mpeg audio data")...)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

// id3v2Header builds a minimal ID3v2.3 tag containing a single TIT2
// (title) frame.
func id3v2Header(title string) []byte {
	frameBody := append([]byte{0x00}, []byte(title)...) // 0x00 = ISO-8859-1 encoding
	frameSize := len(frameBody)

	frame := []byte("TIT2")
	frame = append(frame, byte(frameSize>>24), byte(frameSize>>16), byte(frameSize>>8), byte(frameSize))
	frame = append(frame, 0x00, 0x00) // flags
	frame = append(frame, frameBody...)

	tagSize := len(frame)
	header := []byte{'I', 'D', '3', 0x03, 0x00, 0x00}
	header = append(header,
		byte((tagSize>>21)&0x7f),
		byte((tagSize>>14)&0x7f),
		byte((tagSize>>7)&0x7f),
		byte(tagSize&0x7f),
	)
	return append(header, frame...)
}

func TestClassifyFile_Skipped(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.mp3", "same-bytes")
	hash, err := util.HashFile(path)
	if err != nil {
		t.Fatalf("hash fixture: %v", err)
	}

	existing := catalog.NewExistingFiles()
	id := mustUUID(t, "11111111-1111-1111-1111-111111111111")
	existing.ByPath[path] = catalog.ExistingFileEntry{ID: id, Hash: hash}
	existing.ByHash[hash] = []catalog.HashEntry{{ID: id, Path: path}}

	c := classifyFile(path, existing)
	if c == nil || c.kind != kindSkipped {
		t.Fatalf("expected Skipped classification, got %+v", c)
	}
}

func TestClassifyFile_Moved(t *testing.T) {
	dir := t.TempDir()
	newPath := writeFixture(t, dir, "new-location.mp3", "same-bytes")
	hash, err := util.HashFile(newPath)
	if err != nil {
		t.Fatalf("hash fixture: %v", err)
	}

	oldPath := filepath.Join(dir, "old-location.mp3") // never created: simulates a moved file
	existing := catalog.NewExistingFiles()
	id := mustUUID(t, "11111111-1111-1111-1111-111111111111")
	existing.ByPath[oldPath] = catalog.ExistingFileEntry{ID: id, Hash: hash}
	existing.ByHash[hash] = []catalog.HashEntry{{ID: id, Path: oldPath}}

	c := classifyFile(newPath, existing)
	if c == nil || c.kind != kindMoved {
		t.Fatalf("expected Moved classification, got %+v", c)
	}
	if c.moved.ID != id || c.moved.Path != newPath {
		t.Errorf("unexpected moved entry: %+v", c.moved)
	}
}

func TestClassifyFile_DuplicateHashTreatedAsNew(t *testing.T) {
	dir := t.TempDir()
	original := writeTaggedFixture(t, dir, "original.mp3", "Airbag")
	duplicate := writeTaggedFixture(t, dir, "duplicate.mp3", "Airbag")
	hash, err := util.HashFile(original)
	if err != nil {
		t.Fatalf("hash fixture: %v", err)
	}

	existing := catalog.NewExistingFiles()
	id := mustUUID(t, "11111111-1111-1111-1111-111111111111")
	existing.ByPath[original] = catalog.ExistingFileEntry{ID: id, Hash: hash}
	existing.ByHash[hash] = []catalog.HashEntry{{ID: id, Path: original}}

	c := classifyFile(duplicate, existing)
	if c == nil || c.kind != kindNew {
		t.Fatalf("expected the duplicate to classify as New, got %+v", c)
	}
}

func TestClassifyFile_Modified(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.mp3", "new-bytes")

	existing := catalog.NewExistingFiles()
	id := mustUUID(t, "11111111-1111-1111-1111-111111111111")
	var oldHash [32]byte
	oldHash[0] = 0xFF // guaranteed not to equal the fixture's real hash
	existing.ByPath[path] = catalog.ExistingFileEntry{ID: id, Hash: oldHash}

	c := classifyFile(path, existing)
	if c == nil || c.kind != kindModified {
		t.Fatalf("expected Modified classification, got %+v", c)
	}
	if c.modified.ID != id {
		t.Errorf("expected the modified entry to keep the existing id")
	}
}

func TestClassifyFile_NewFileGetsFormatAndMetadata(t *testing.T) {
	dir := t.TempDir()
	path := writeTaggedFixture(t, dir, "a.mp3", "Airbag")

	c := classifyFile(path, catalog.NewExistingFiles())
	if c == nil || c.kind != kindNew {
		t.Fatalf("expected New classification, got %+v", c)
	}
	if c.newFile.Format != "mp3" {
		t.Errorf("expected format mp3, got %q", c.newFile.Format)
	}
	if c.newFile.Metadata.Title != "Airbag" {
		t.Errorf("expected the tag title to carry through, got %q", c.newFile.Metadata.Title)
	}
}

func TestClassifyFile_UnknownExtensionDropped(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "cover.jpg", "not-audio")

	if c := classifyFile(path, catalog.NewExistingFiles()); c != nil {
		t.Errorf("expected a non-audio extension to be dropped, got %+v", c)
	}
}

func TestClassifyFile_UndecodableAllowlistedExtensionDropped(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.mp3", "brand-new-bytes, no tags, not an mpeg frame")

	if c := classifyFile(path, catalog.NewExistingFiles()); c != nil {
		t.Errorf("expected a file with neither tags nor decodable audio to be dropped, got %+v", c)
	}
}
