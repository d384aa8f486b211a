// Package meta extracts catalog-ready metadata from an audio file: its
// container format, its tags, and its duration. Grounded on
// original_source/backend/src/scanner/metadata.rs, reshaped around
// dhowden/tag for tags and gopxl/beep/v2 for duration instead of symphonia.
package meta

import (
	"path/filepath"
	"strings"

	"github.com/franzsee/collectune/internal/catalog"
)

// extensionToFormat mirrors metadata.rs's extension_to_format: a fixed,
// case-insensitive allow-list. Anything else is not an audio file (§4.1).
var extensionToFormat = map[string]catalog.Format{
	"aac":  catalog.FormatAAC,
	"aif":  catalog.FormatAIFF,
	"aiff": catalog.FormatAIFF,
	"alac": catalog.FormatALAC,
	"ape":  catalog.FormatAPE,
	"flac": catalog.FormatFLAC,
	"m4a":  catalog.FormatMP4,
	"mp3":  catalog.FormatMP3,
	"ogg":  catalog.FormatOGG,
	"opus": catalog.FormatOpus,
	"wav":  catalog.FormatWAV,
	"wma":  catalog.FormatWMA,
	"wv":   catalog.FormatWV,
}

// FormatForPath returns the catalog format for path's extension, and
// whether the extension was recognized at all.
func FormatForPath(path string) (catalog.Format, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	f, ok := extensionToFormat[ext]
	return f, ok
}

// IsAudioFile reports whether path's extension is on the allow-list.
func IsAudioFile(path string) bool {
	_, ok := FormatForPath(path)
	return ok
}
