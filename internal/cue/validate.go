package cue

import (
	"errors"
	"fmt"
)

var (
	ErrNegativeStart = errors.New("cue starts before zero")
	ErrInvertedCue   = errors.New("cue ends before it starts")
	ErrUnsorted      = errors.New("cue starts before the previous cue")
)

// Validate checks the ordering contract the segmenter relies on: starts are
// non-negative and non-decreasing, and no cue ends before it starts.
// Overlapping cues are allowed here; check reports them as a warning.
func Validate(cues []Cue) error {
	for i, c := range cues {
		if c.Start < 0 {
			return fmt.Errorf("cue %d: %w", i, ErrNegativeStart)
		}
		if c.End < c.Start {
			return fmt.Errorf("cue %d: %w (%.3f < %.3f)", i, ErrInvertedCue, c.End, c.Start)
		}
		if i > 0 && c.Start < cues[i-1].Start {
			return fmt.Errorf("cue %d: %w (%.3f < %.3f)", i, ErrUnsorted, c.Start, cues[i-1].Start)
		}
	}
	return nil
}
