package manifest

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/suykerbuyk/vttseg/internal/hls"
	"github.com/suykerbuyk/vttseg/internal/segment"
)

// Manifest describes one segmentation for tooling and debugging.
type Manifest struct {
	Source        string  `json:"source" yaml:"source"`
	SegmentLength float64 `json:"segment_length" yaml:"segment_length"`
	Duration      float64 `json:"duration" yaml:"duration"`
	Segments      []Entry `json:"segments" yaml:"segments"`
}

// Entry is one segment of the manifest.
type Entry struct {
	Sequence int      `json:"sequence" yaml:"sequence"`
	Filename string   `json:"filename" yaml:"filename"`
	Start    float64  `json:"start" yaml:"start"`
	Duration float64  `json:"duration" yaml:"duration"`
	End      float64  `json:"end" yaml:"end"`
	Cues     []CueRef `json:"cues" yaml:"cues"`
}

// CueRef is a cue as it appears inside a segment.
type CueRef struct {
	Identifier string  `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Start      float64 `json:"start" yaml:"start"`
	End        float64 `json:"end" yaml:"end"`
	Text       string  `json:"text,omitempty" yaml:"text,omitempty"`
	Repeated   bool    `json:"repeated,omitempty" yaml:"repeated,omitempty"`   // also the last cue of the previous segment
	Synthetic  bool    `json:"synthetic,omitempty" yaml:"synthetic,omitempty"` // silence pad, not from the source
}

// Build converts segments into a Manifest.
func Build(source string, length float64, segs []segment.Segment) Manifest {
	m := Manifest{
		Source:        source,
		SegmentLength: length,
		Duration:      segment.Total(segs),
		Segments:      make([]Entry, 0, len(segs)),
	}

	for i, s := range segs {
		e := Entry{
			Sequence: i,
			Filename: hls.Filename(i),
			Start:    s.Start,
			Duration: s.Duration,
			End:      s.End(),
			Cues:     make([]CueRef, 0, len(s.Cues)),
		}
		for j, c := range s.Cues {
			ref := CueRef{
				Identifier: c.Identifier,
				Start:      c.Start,
				End:        c.End,
				Text:       c.Text,
			}
			if j == 0 && i > 0 {
				prev := segs[i-1].Cues
				ref.Repeated = len(prev) > 0 && prev[len(prev)-1] == c
			}
			// The pad only ever trails the final segment.
			if i == len(segs)-1 && j == len(s.Cues)-1 && j > 0 && c.IsSilence() {
				ref.Synthetic = true
			}
			e.Cues = append(e.Cues, ref)
		}
		m.Segments = append(m.Segments, e)
	}
	return m
}

// JSON returns the indented JSON encoding.
func (m Manifest) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// YAML returns the YAML encoding.
func (m Manifest) YAML() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}
