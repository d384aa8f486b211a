package meta

import (
	"testing"

	"github.com/franzsee/collectune/internal/catalog"
)

func TestFormatForPath(t *testing.T) {
	cases := []struct {
		path   string
		want   catalog.Format
		wantOK bool
	}{
		{"/music/track.mp3", catalog.FormatMP3, true},
		{"/music/track.FLAC", catalog.FormatFLAC, true},
		{"/music/track.m4a", catalog.FormatMP4, true},
		{"/music/track.OGG", catalog.FormatOGG, true},
		{"/music/track.aif", catalog.FormatAIFF, true},
		{"/music/track.txt", "", false},
		{"/music/track", "", false},
	}

	for _, tc := range cases {
		got, ok := FormatForPath(tc.path)
		if ok != tc.wantOK || (ok && got != tc.want) {
			t.Errorf("FormatForPath(%q) = (%q, %v), want (%q, %v)", tc.path, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestIsAudioFile(t *testing.T) {
	if !IsAudioFile("song.flac") {
		t.Errorf("expected song.flac to be an audio file")
	}
	if IsAudioFile("cover.jpg") {
		t.Errorf("expected cover.jpg to not be an audio file")
	}
}
