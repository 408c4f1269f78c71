package cue

import "math"

// silenceEpsilon absorbs the rounding in (start+1)-start for millisecond
// timestamps.
const silenceEpsilon = 1e-9

// Cue is a single timed caption entry. Start and End are in seconds.
type Cue struct {
	Identifier string  `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Start      float64 `json:"start" yaml:"start"`
	End        float64 `json:"end" yaml:"end"`
	Text       string  `json:"text" yaml:"text"`
	Style      string  `json:"style,omitempty" yaml:"style,omitempty"`
}

// Length returns End - Start.
func (c Cue) Length() float64 {
	return c.End - c.Start
}

// IsSilence reports whether c has the shape of a padding cue: no identifier,
// text or style, and one second long.
func (c Cue) IsSilence() bool {
	return c.Identifier == "" && c.Text == "" && c.Style == "" && math.Abs(c.Length()-1) < silenceEpsilon
}

// Silence returns an empty one-second cue starting at start. It pads the
// trailing segment when the final cue overflows its window.
func Silence(start float64) Cue {
	return Cue{Start: start, End: start + 1}
}

// Format identifies a caption file format.
type Format int

const (
	WebVTT Format = iota
	SRT
	SSA
	TTML
)

func (f Format) String() string {
	switch f {
	case WebVTT:
		return "webvtt"
	case SRT:
		return "srt"
	case SSA:
		return "ssa"
	case TTML:
		return "ttml"
	default:
		return "unknown"
	}
}
