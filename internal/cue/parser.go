package cue

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/asticode/go-astisub"

	"github.com/suykerbuyk/vttseg/internal/archive"
)

// ErrUnknownFormat is returned when a file extension maps to no caption format.
var ErrUnknownFormat = errors.New("unknown caption format")

// Extensions maps supported file extensions to their format.
var Extensions = map[string]Format{
	".vtt":  WebVTT,
	".srt":  SRT,
	".ass":  SSA,
	".ssa":  SSA,
	".ttml": TTML,
	".dfxp": TTML,
}

// DetectFormat picks a Format from the file extension. A trailing .zst is
// ignored, so "talk.vtt.zst" is WebVTT.
func DetectFormat(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	name = strings.TrimSuffix(name, archive.Ext)
	if f, ok := Extensions[filepath.Ext(name)]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Base(path))
}

// ParseFile reads a caption file, decompressing .zst archives on the fly.
func ParseFile(path string) ([]Cue, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	r, err := archive.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open captions: %w", err)
	}
	defer r.Close()
	return Parse(r, format)
}

// Parse reads cues in the given format. Cues keep their file order.
func Parse(r io.Reader, format Format) ([]Cue, error) {
	var (
		subs *astisub.Subtitles
		err  error
	)
	switch format {
	case WebVTT:
		subs, err = astisub.ReadFromWebVTT(r)
	case SRT:
		subs, err = astisub.ReadFromSRT(r)
	case SSA:
		subs, err = astisub.ReadFromSSA(r)
	case TTML:
		subs, err = astisub.ReadFromTTML(r)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}

	cues := make([]Cue, 0, len(subs.Items))
	for _, item := range subs.Items {
		cues = append(cues, fromItem(item))
	}
	return cues, nil
}

func fromItem(item *astisub.Item) Cue {
	c := Cue{
		Start: item.StartAt.Seconds(),
		End:   item.EndAt.Seconds(),
		Text:  itemText(item),
		Style: cueSettings(item.InlineStyle),
	}
	if item.Index > 0 {
		c.Identifier = strconv.Itoa(item.Index)
	}
	return c
}

func itemText(item *astisub.Item) string {
	lines := make([]string, 0, len(item.Lines))
	for _, l := range item.Lines {
		var b strings.Builder
		for _, li := range l.Items {
			b.WriteString(li.Text)
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// cueSettings rebuilds the WebVTT settings list ("align:start line:0").
func cueSettings(s *astisub.StyleAttributes) string {
	if s == nil {
		return ""
	}
	var parts []string
	add := func(name, value string) {
		if value != "" {
			parts = append(parts, name+":"+value)
		}
	}
	add("vertical", s.WebVTTVertical)
	add("line", s.WebVTTLine)
	add("position", s.WebVTTPosition)
	add("size", s.WebVTTSize)
	add("align", s.WebVTTAlign)
	return strings.Join(parts, " ")
}
