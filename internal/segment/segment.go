package segment

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/suykerbuyk/vttseg/internal/cue"
)

// DefaultLength is the target segment length in seconds.
const DefaultLength = 10

// ErrInvalidLength is returned for a zero, negative, NaN or infinite
// segment length.
var ErrInvalidLength = errors.New("segment length must be a positive number")

// Segment is one output window. Cues point into the slice given to Split; a
// cue that crosses a boundary is the same pointer in both segments.
type Segment struct {
	Start    float64    `json:"start"` // sum of all earlier durations
	Duration float64    `json:"duration"`
	Cues     []*cue.Cue `json:"cues"`
}

// End returns Start + Duration.
func (s Segment) End() float64 {
	return s.Start + s.Duration
}

// Total returns the summed duration of segs.
func Total(segs []Segment) float64 {
	var sum float64
	for _, s := range segs {
		sum += s.Duration
	}
	return sum
}

// Split partitions cues into segments of roughly length seconds in a single
// pass. Cues must be sorted by start time; Validate failures are returned.
func Split(cues []cue.Cue, length float64) ([]Segment, error) {
	return SplitWithLogger(cues, length, nil)
}

// SplitWithLogger is Split with a per-cue trace line written to trace.
// A nil logger disables tracing.
func SplitWithLogger(cues []cue.Cue, length float64, trace *log.Logger) ([]Segment, error) {
	if !(length > 0) || math.IsInf(length, 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLength, length)
	}
	if err := cue.Validate(cues); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	acc := accumulator{
		length:   length,
		trace:    trace,
		segments: make([]Segment, 0, len(cues)/2+1),
	}
	for i := range cues {
		acc.step(cues, i)
	}
	return acc.segments, nil
}

// accumulator is the running state of one Split call.
type accumulator struct {
	length float64
	trace  *log.Logger

	current  float64  // content gathered since the last boundary
	total    float64  // sum of closed segment durations
	queued   *cue.Cue // boundary cue to repeat at the head of the next segment; nil when none
	working  []*cue.Cue
	segments []Segment
}

func (a *accumulator) step(cues []cue.Cue, i int) {
	c := &cues[i]
	first := i == 0
	last := i == len(cues)-1

	nextStart := math.Inf(1)
	if !last {
		nextStart = cues[i+1].Start
	}

	// The first cue also owns the leading silence from zero.
	cueLength := c.End - c.Start
	var silence float64
	if first {
		cueLength = c.End
	} else {
		silence = c.Start - cues[i-1].End
	}

	a.current += cueLength + silence
	a.tracef(i, c, cueLength, silence, nextStart)

	if a.queued != nil {
		a.working = append(a.working, a.queued)
		a.current += a.queued.End - a.total
		a.queued = nil
	}
	a.working = append(a.working, c)

	// A cue that runs into the next window is repeated there.
	queue := nextStart-c.End < a.length &&
		silence < a.length &&
		a.current > a.length

	switch {
	case shouldSegment(a.total, a.length, nextStart, silence) && !last:
		a.close()
	case last:
		a.finish(c, cueLength)
	default:
		queue = false
	}

	if queue {
		a.queued = c
	}
}

// close emits the working segment and resets the per-segment state.
func (a *accumulator) close() {
	d := segmentDuration(a.current, a.length)
	a.segments = append(a.segments, Segment{Start: a.total, Duration: d, Cues: a.working})
	a.total += d
	a.current = 0
	a.working = nil
}

// finish closes the tail. When the last cue overflows the window it gets a
// segment of its own, padded with a one-second silence cue.
func (a *accumulator) finish(last *cue.Cue, cueLength float64) {
	overflow := a.current > a.length
	a.close()
	if !overflow {
		return
	}

	pad := cue.Silence(last.End)
	d := math.Round(cueLength + 1)
	a.segments = append(a.segments, Segment{
		Start:    a.total,
		Duration: d,
		Cues:     []*cue.Cue{last, &pad},
	})
	a.total += d
}

func (a *accumulator) tracef(i int, c *cue.Cue, cueLength, silence, nextStart float64) {
	if a.trace == nil {
		return
	}
	a.trace.Printf("cue=%d segment=%d start=%.3f end=%.3f length=%.3f silence=%.3f total=%.3f current=%.3f next=%.3f",
		i, len(a.segments)+1, c.Start, c.End, cueLength, silence, a.total, a.current, nextStart)
}
