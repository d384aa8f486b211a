package meta

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"
	beepflac "github.com/gopxl/beep/v2/flac"
	beepmp3 "github.com/gopxl/beep/v2/mp3"
	beepvorbis "github.com/gopxl/beep/v2/vorbis"
	beepwav "github.com/gopxl/beep/v2/wav"

	"github.com/franzsee/collectune/internal/catalog"
	"github.com/franzsee/collectune/internal/util"
)

// Extract reads tags and, where the container is decodable, duration from
// the file at path. It never panics: a decode panic inside dhowden/tag or
// a beep decoder (both third-party and occasionally handed malformed
// input) is recovered and turned into a returned error, mirroring
// original_source's catch_unwind boundary around get_track_metadata (§7).
//
// A file counts as a recognized/decodable audio container (§4.1) if
// either its tags parse or, for the formats beep ships a decoder for, its
// audio frames decode. A file that fails both — garbage bytes behind an
// allow-listed extension — is not decodable and is dropped by returning
// an error, matching get_track_metadata's None (§4.3 step 4).
func Extract(path string, format catalog.Format) (p Probe, err error) {
	defer func() {
		if r := recover(); r != nil {
			util.WarnLog("recovered panic while extracting %s: %v", path, r)
			err = fmt.Errorf("%w: %s", util.ErrNoTags, path)
		}
	}()

	meta, tagErr := readTags(path)
	duration, supported, durErr := probeDuration(path, format)

	if tagErr != nil {
		if !supported || durErr != nil {
			util.DebugLog("no tags and no decodable audio in %s: %v / %v", path, tagErr, durErr)
			return Probe{}, fmt.Errorf("%w: %s", util.ErrNoTags, path)
		}
		util.DebugLog("no tags in %s: %v", path, tagErr)
		meta = TrackMetadata{Title: filepath.Base(path)}
	}

	return Probe{Metadata: meta, Duration: duration}, nil
}

func readTags(path string) (TrackMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return TrackMetadata{}, fmt.Errorf("open for tagging: %w", err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return TrackMetadata{}, fmt.Errorf("read tags: %w", err)
	}

	out := TrackMetadata{
		Title: m.Title(),
		Album: m.Album(),
		Genre: m.Genre(),
	}

	if artist := firstArtist(m); artist != "" {
		out.Artists = []TrackArtist{{Artist: artist}}
	}

	if track, _ := m.Track(); track > 0 {
		out.TrackNumber = toUint8(track)
	}
	if disc, _ := m.Disc(); disc > 0 {
		out.DiscNumber = toUint8(disc)
	}
	if year := m.Year(); year != 0 {
		out.Year = toValidYear(year)
	}

	return out, nil
}

// firstArtist prefers the per-track artist and falls back to the album
// artist when the per-track artist tag is blank, matching
// llehouerou-waves's ReadTrackInfo fallback.
func firstArtist(m tag.Metadata) string {
	if a := m.Artist(); a != "" {
		return a
	}
	return m.AlbumArtist()
}

// toUint8 clamps an out-of-range tag value to nil rather than wrapping,
// mirroring Rust's u8::try_from(...).ok() rejection of overflow.
func toUint8(v int) *uint8 {
	if v < 0 || v > 255 {
		return nil
	}
	out := uint8(v)
	return &out
}

// toValidYear applies metadata.rs's parse_tag_value_into_year range check:
// strictly greater than 1860, no more than one year in the future.
func toValidYear(v int) *uint16 {
	currentYear := time.Now().Year()
	if v <= 1860 || v > currentYear+1 || v < 0 {
		return nil
	}
	out := uint16(v)
	return &out
}

// probeDuration decodes just enough of the file to learn its sample count
// and sample rate, per the n_frames * time_base formula in metadata.rs.
// beep only ships decoders for mp3/flac/vorbis/wav; every other container
// on the allow-list (aac, aiff, alac, ape, m4a, opus, wma, wv) has no
// decode path here, reports supported=false, and keeps its duration at
// 0.0, exactly as §4.1 allows. For a beep-backed format, supported=true
// and a non-nil err means the bytes failed to decode as that container —
// the caller's signal that this file isn't actually audio.
func probeDuration(path string, format catalog.Format) (duration float64, supported bool, err error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		return 0.0, false, nil
	}
	defer f.Close()

	var streamer beep.StreamSeekCloser
	var beepFormat beep.Format

	switch format {
	case catalog.FormatMP3:
		streamer, beepFormat, err = beepmp3.Decode(f)
	case catalog.FormatFLAC:
		streamer, beepFormat, err = beepflac.Decode(f)
	case catalog.FormatOGG:
		streamer, beepFormat, err = beepvorbis.Decode(f)
	case catalog.FormatWAV:
		streamer, beepFormat, err = beepwav.Decode(f)
	default:
		return 0.0, false, nil
	}
	if err != nil {
		util.DebugLog("duration probe failed for %s: %v", path, err)
		return 0.0, true, err
	}
	defer streamer.Close()

	return beepFormat.SampleRate.D(streamer.Len()).Seconds(), true, nil
}
