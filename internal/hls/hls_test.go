package hls

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suykerbuyk/vttseg/internal/cue"
	"github.com/suykerbuyk/vttseg/internal/segment"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00.000"},
		{1.5, "00:00:01.500"},
		{61.25, "00:01:01.250"},
		{3723.004, "01:02:03.004"},
		{9.9996, "00:00:10.000"},
		{-2, "00:00:00.000"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.in); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCue(t *testing.T) {
	c := &cue.Cue{Identifier: "intro", Start: 1, End: 4.5, Text: "Hello\nworld", Style: "align:start"}
	want := "intro\n00:00:01.000 --> 00:00:04.500 align:start\nHello\nworld"
	if got := FormatCue(c); got != want {
		t.Errorf("FormatCue\ngot:  %q\nwant: %q", got, want)
	}

	plain := &cue.Cue{Start: 0, End: 2, Text: "hi"}
	if got := FormatCue(plain); got != "00:00:00.000 --> 00:00:02.000\nhi" {
		t.Errorf("FormatCue(plain) = %q", got)
	}
}

func testSegments(t *testing.T) []segment.Segment {
	t.Helper()
	in := []cue.Cue{
		{Start: 0, End: 2, Text: "one"},
		{Start: 3, End: 17, Text: "two"},
		{Start: 18, End: 21, Text: "three"},
	}
	segs, err := segment.Split(in, 10)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	return segs
}

func TestChunks(t *testing.T) {
	segs := testSegments(t)
	chunks := Chunks(segs, DefaultOptions())
	if len(chunks) != 3 {
		t.Fatalf("len = %d, want 3", len(chunks))
	}

	want := "WEBVTT\n" +
		"X-TIMESTAMP-MAP=MPEGTS:900000,LOCAL:00:00:00.000\n\n" +
		"00:00:00.000 --> 00:00:02.000\none\n\n" +
		"00:00:03.000 --> 00:00:17.000\ntwo\n"
	if chunks[0].Filename != "0.vtt" {
		t.Errorf("filename = %q, want 0.vtt", chunks[0].Filename)
	}
	if chunks[0].Content != want {
		t.Errorf("chunk 0\ngot:  %q\nwant: %q", chunks[0].Content, want)
	}

	// Boundary cue opens the second chunk.
	if !strings.Contains(chunks[1].Content, "LOCAL:00:00:00.000\n\n00:00:03.000 --> 00:00:17.000\ntwo") {
		t.Errorf("chunk 1 does not start with the boundary cue:\n%s", chunks[1].Content)
	}

	// Silence pad renders as an empty cue after the last caption.
	if !strings.HasSuffix(chunks[2].Content, "three\n\n00:00:21.000 --> 00:00:22.000\n\n") {
		t.Errorf("chunk 2 missing silence pad:\n%q", chunks[2].Content)
	}
}

func TestChunksCustomOffset(t *testing.T) {
	chunks := Chunks(testSegments(t), Options{MPEGTS: 0})
	if !strings.Contains(chunks[0].Content, "MPEGTS:0,") {
		t.Errorf("chunk 0 = %q, want MPEGTS:0", chunks[0].Content)
	}
}

func TestPlaylist(t *testing.T) {
	got := Playlist(testSegments(t))
	want := `#EXTM3U
#EXT-X-TARGETDURATION:10
#EXT-X-VERSION:3
#EXT-X-MEDIA-SEQUENCE:0
#EXT-X-PLAYLIST-TYPE:VOD
#EXTINF:10.00000,
0.vtt
#EXTINF:10.00000,
1.vtt
#EXTINF:4.00000,
2.vtt
#EXT-X-ENDLIST
`
	if got != want {
		t.Errorf("Playlist\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestPlaylistEmpty(t *testing.T) {
	got := Playlist(nil)
	if !strings.Contains(got, "#EXT-X-TARGETDURATION:0\n") {
		t.Errorf("empty playlist = %q", got)
	}
	if strings.Contains(got, "#EXTINF") {
		t.Error("empty playlist lists segments")
	}
}

func TestTargetDuration(t *testing.T) {
	segs := []segment.Segment{{Duration: 4}, {Duration: 16}, {Duration: 10}}
	if got := TargetDuration(segs); got != 16 {
		t.Errorf("TargetDuration = %d, want 16", got)
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "talk")
	paths, err := Write(dir, testSegments(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("paths = %d, want 4 (3 chunks + playlist)", len(paths))
	}
	if filepath.Base(paths[3]) != "playlist.m3u8" {
		t.Errorf("last path = %q, want playlist.m3u8", paths[3])
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "1.vtt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "WEBVTT\n") {
		t.Errorf("1.vtt = %q", data)
	}
}

func TestWriteDefaultsPlaylistName(t *testing.T) {
	dir := t.TempDir()
	paths, err := Write(dir, testSegments(t), Options{MPEGTS: 900000})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(paths[len(paths)-1]) != "playlist.m3u8" {
		t.Errorf("playlist = %q", paths[len(paths)-1])
	}
}

func TestWriteRemovesStaleChunks(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(dir, testSegments(t), DefaultOptions()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	keep := filepath.Join(dir, "notes.vtt")
	if err := os.WriteFile(keep, []byte("WEBVTT\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Write(dir, testSegments(t)[:1], DefaultOptions()); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	for _, name := range []string{"1.vtt", "2.vtt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s survived a shorter run (err %v)", name, err)
		}
	}
	for _, p := range []string{filepath.Join(dir, "0.vtt"), keep} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
}
