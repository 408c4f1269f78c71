package hls

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/suykerbuyk/vttseg/internal/cue"
	"github.com/suykerbuyk/vttseg/internal/segment"
)

// Options controls chunk and playlist rendering.
type Options struct {
	MPEGTS       int    // X-TIMESTAMP-MAP MPEGTS value for every chunk
	PlaylistName string // file name of the m3u8 playlist
}

// DefaultOptions returns the 10-second MPEG-TS offset (900000 at 90kHz)
// and playlist.m3u8.
func DefaultOptions() Options {
	return Options{MPEGTS: 900000, PlaylistName: "playlist.m3u8"}
}

// Chunk is one rendered segment file.
type Chunk struct {
	Filename string
	Content  string
}

// Filename returns the chunk file name for a segment sequence number.
func Filename(sequence int) string {
	return fmt.Sprintf("%d.vtt", sequence)
}

// Chunks renders each segment as a standalone WebVTT file.
func Chunks(segs []segment.Segment, opts Options) []Chunk {
	chunks := make([]Chunk, 0, len(segs))
	for i, s := range segs {
		chunks = append(chunks, Chunk{
			Filename: Filename(i),
			Content:  chunkContent(s, opts),
		})
	}
	return chunks
}

func chunkContent(s segment.Segment, opts Options) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n")
	fmt.Fprintf(&b, "X-TIMESTAMP-MAP=MPEGTS:%d,LOCAL:00:00:00.000\n\n", opts.MPEGTS)

	cues := make([]string, 0, len(s.Cues))
	for _, c := range s.Cues {
		cues = append(cues, FormatCue(c))
	}
	b.WriteString(strings.Join(cues, "\n\n"))
	b.WriteString("\n")
	return b.String()
}

// FormatCue renders a cue block: optional identifier line, timing line with
// optional settings, then the text.
func FormatCue(c *cue.Cue) string {
	var lines []string
	if c.Identifier != "" {
		lines = append(lines, c.Identifier)
	}
	timing := FormatTimestamp(c.Start) + " --> " + FormatTimestamp(c.End)
	if c.Style != "" {
		timing += " " + c.Style
	}
	lines = append(lines, timing, c.Text)
	return strings.Join(lines, "\n")
}

// FormatTimestamp converts seconds to a WebVTT timestamp (HH:MM:SS.mmm).
func FormatTimestamp(seconds float64) string {
	ms := int64(math.Round(seconds * 1000))
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3_600_000
	minutes := ms / 60_000 % 60
	secs := ms / 1000 % 60
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, secs, millis)
}

// Playlist renders an HLS VOD media playlist referencing one chunk per
// segment.
func Playlist(segs []segment.Segment) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	fmt.Fprintf(&b, "#EXT-X-TARGETDURATION:%d\n", TargetDuration(segs))
	b.WriteString("#EXT-X-VERSION:3\n")
	b.WriteString("#EXT-X-MEDIA-SEQUENCE:0\n")
	b.WriteString("#EXT-X-PLAYLIST-TYPE:VOD\n")
	for i, s := range segs {
		fmt.Fprintf(&b, "#EXTINF:%.5f,\n%s\n", s.Duration, Filename(i))
	}
	b.WriteString("#EXT-X-ENDLIST\n")
	return b.String()
}

// TargetDuration is the longest segment duration rounded to whole seconds.
func TargetDuration(segs []segment.Segment) int {
	var longest float64
	for _, s := range segs {
		if s.Duration > longest {
			longest = s.Duration
		}
	}
	return int(math.Round(longest))
}

// Write renders segs into dir: one chunk per segment plus the playlist.
// Numbered chunks left by an earlier, longer run are removed. Returns the
// written paths, playlist last.
func Write(dir string, segs []segment.Segment, opts Options) ([]string, error) {
	if opts.PlaylistName == "" {
		opts.PlaylistName = DefaultOptions().PlaylistName
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var paths []string
	for _, c := range Chunks(segs, opts) {
		path := filepath.Join(dir, c.Filename)
		if err := os.WriteFile(path, []byte(c.Content), 0o644); err != nil {
			return paths, fmt.Errorf("write chunk: %w", err)
		}
		paths = append(paths, path)
	}
	if err := removeStale(dir, len(segs)); err != nil {
		return paths, err
	}

	playlist := filepath.Join(dir, opts.PlaylistName)
	if err := os.WriteFile(playlist, []byte(Playlist(segs)), 0o644); err != nil {
		return paths, fmt.Errorf("write playlist: %w", err)
	}
	return append(paths, playlist), nil
}

// removeStale deletes chunks in dir numbered n or higher.
func removeStale(dir string, n int) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.vtt"))
	if err != nil {
		return fmt.Errorf("list chunks: %w", err)
	}
	for _, m := range matches {
		name := filepath.Base(m)
		seq, err := strconv.Atoi(strings.TrimSuffix(name, ".vtt"))
		if err != nil || seq < n || Filename(seq) != name {
			continue
		}
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("remove stale chunk: %w", err)
		}
	}
	return nil
}
