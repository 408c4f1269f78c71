package segment

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/suykerbuyk/vttseg/internal/cue"
)

// cues builds a cue list from start/end pairs.
func cues(times ...float64) []cue.Cue {
	out := make([]cue.Cue, 0, len(times)/2)
	for i := 0; i+1 < len(times); i += 2 {
		out = append(out, cue.Cue{
			Identifier: fmt.Sprintf("c%d", len(out)),
			Start:      times[i],
			End:        times[i+1],
			Text:       fmt.Sprintf("line %d", len(out)),
		})
	}
	return out
}

// layout renders each segment as "start+duration[indexes]" where indexes
// refer to positions in in and S marks a synthetic silence cue.
func layout(in []cue.Cue, segs []Segment) []string {
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		var refs []string
		for _, c := range s.Cues {
			refs = append(refs, cueRef(in, c))
		}
		out = append(out, fmt.Sprintf("%g+%g[%s]", s.Start, s.Duration, strings.Join(refs, " ")))
	}
	return out
}

func cueRef(in []cue.Cue, c *cue.Cue) string {
	for i := range in {
		if &in[i] == c {
			return fmt.Sprint(i)
		}
	}
	if c.IsSilence() {
		return "S"
	}
	return "?"
}

func assertLayout(t *testing.T, in []cue.Cue, length float64, want []string) []Segment {
	t.Helper()
	segs, err := Split(in, length)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	got := layout(in, segs)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("layout\ngot:  %v\nwant: %v", got, want)
	}
	return segs
}

func TestSplit_SingleShortCue(t *testing.T) {
	in := cues(0, 5)
	segs := assertLayout(t, in, 10, []string{"0+5[0]"})
	if segs[0].Cues[0] != &in[0] {
		t.Error("segment holds a copy, want a reference to the input cue")
	}
}

func TestSplit_SingleLongCue(t *testing.T) {
	// 15s of content: the first window reports align(5, 10) = 10, and the
	// overflowing last cue gets its own segment: round(15 + 1) = 16.
	in := cues(0, 15)
	segs := assertLayout(t, in, 10, []string{"0+10[0]", "10+16[0 S]"})

	pad := segs[1].Cues[1]
	if pad.Start != 15 || pad.End != 16 {
		t.Errorf("silence pad = %v-%v, want 15-16", pad.Start, pad.End)
	}
}

func TestSplit_SingleCueAtLength(t *testing.T) {
	assertLayout(t, cues(0, 10), 10, []string{"0+10[0]"})
	assertLayout(t, cues(0, 9.6), 10, []string{"0+10[0]"})
	assertLayout(t, cues(0, 10.4), 10, []string{"0+10[0]", "10+11[0 S]"})
}

func TestSplit_ShortGapNoCut(t *testing.T) {
	// 9.5s of content including leading silence and the gap
	assertLayout(t, cues(0.5, 4.5, 5, 9.5), 10, []string{"0+10[0 1]"})
}

func TestSplit_ShortGapOverflow(t *testing.T) {
	// The classifier never approves a cut before the second cue (it starts
	// at 6, under one length), so the tail overflows and the last cue is
	// repeated in a padded segment.
	assertLayout(t, cues(0, 4, 6, 11), 10, []string{"0+10[0 1]", "10+6[1 S]"})
}

func TestSplit_LongMiddleCue(t *testing.T) {
	// The second cue alone exceeds the length. It closes an aligned segment,
	// is repeated into the next one, and the state resets for the third.
	in := cues(0, 2, 3, 17, 18, 21)
	segs := assertLayout(t, in, 10, []string{"0+10[0 1]", "10+10[1 2]", "20+4[2 S]"})

	if segs[0].Cues[1] != segs[1].Cues[0] {
		t.Error("boundary cue is not the same reference in both segments")
	}
}

func TestSplit_RegularCues(t *testing.T) {
	assertLayout(t, cues(0, 4, 5, 9, 10, 14, 15, 19, 20, 24, 25, 29), 10,
		[]string{"0+9[0 1]", "9+10[2 3]", "19+10[4 5]"})
}

func TestSplit_BoundaryDuplication(t *testing.T) {
	in := cues(0, 3, 2.5, 7.2, 9.1, 12.6, 13, 21.4, 22, 23)
	segs := assertLayout(t, in, 10, []string{"0+10[0 1 2]", "10+10[2 3]", "20+3[3 4]"})

	for k := 0; k+1 < len(segs); k++ {
		tail := segs[k].Cues[len(segs[k].Cues)-1]
		head := segs[k+1].Cues[0]
		if tail != head {
			t.Errorf("segment %d tail %s != segment %d head %s", k, cueRef(in, tail), k+1, cueRef(in, head))
		}
	}
}

func TestSplit_ShorterLength(t *testing.T) {
	in := cues(0, 3, 2.5, 7.2, 9.1, 12.6, 13, 21.4, 22, 23)
	assertLayout(t, in, 6, []string{"0+6[0 1]", "6+6[1 2]", "12+6[2 3]", "18+5[3 4]"})
}

func TestSplit_LongSilence(t *testing.T) {
	assertLayout(t, cues(0, 5, 40, 45), 10, []string{"0+5[0]", "5+40[1]", "45+6[1 S]"})
}

func TestSplit_LongLastCue(t *testing.T) {
	assertLayout(t, cues(0, 9, 10, 25), 10, []string{"0+9[0]", "9+10[1]", "19+16[1 S]"})
}

func TestSplit_EmptyInput(t *testing.T) {
	segs, err := Split(nil, 10)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(segs) != 0 {
		t.Errorf("len = %d, want 0", len(segs))
	}

	segs, err = Split([]cue.Cue{}, 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(segs) != 0 {
		t.Errorf("len = %d, want 0", len(segs))
	}
}

func TestSplit_InvalidLength(t *testing.T) {
	for _, length := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Split(cues(0, 5), length)
		if !errors.Is(err, ErrInvalidLength) {
			t.Errorf("Split(length=%v) err = %v, want ErrInvalidLength", length, err)
		}
	}
}

func TestSplit_InvalidInput(t *testing.T) {
	_, err := Split(cues(5, 6, 1, 2), 10)
	if !errors.Is(err, cue.ErrUnsorted) {
		t.Errorf("err = %v, want ErrUnsorted", err)
	}

	_, err = Split(cues(0, 5, 6, 4), 10)
	if !errors.Is(err, cue.ErrInvertedCue) {
		t.Errorf("err = %v, want ErrInvertedCue", err)
	}
}

func TestSplit_DoesNotMutateInput(t *testing.T) {
	in := cues(0, 3, 2.5, 7.2, 9.1, 12.6, 13, 21.4, 22, 23)
	before := append([]cue.Cue(nil), in...)

	if _, err := Split(in, 10); err != nil {
		t.Fatalf("Split: %v", err)
	}
	if !reflect.DeepEqual(in, before) {
		t.Error("Split modified its input")
	}
}

var propertyInputs = map[string][]cue.Cue{
	"single":    cues(0, 5),
	"overflow":  cues(0, 15),
	"regular":   cues(0, 4, 5, 9, 10, 14, 15, 19, 20, 24, 25, 29),
	"boundary":  cues(0, 3, 2.5, 7.2, 9.1, 12.6, 13, 21.4, 22, 23),
	"long mid":  cues(0, 2, 3, 17, 18, 21),
	"silence":   cues(0, 5, 40, 45),
	"late":      cues(1, 3, 4, 6, 12, 14, 16, 18, 22, 24, 27, 29, 31, 33),
	"long last": cues(0, 9, 10, 25),
}

func TestSplit_Coverage(t *testing.T) {
	for name, in := range propertyInputs {
		segs, err := Split(in, 10)
		if err != nil {
			t.Fatalf("%s: Split: %v", name, err)
		}

		seen := make(map[*cue.Cue]bool)
		synthetic := 0
		for k, s := range segs {
			for j, c := range s.Cues {
				if cueRef(in, c) == "S" {
					synthetic++
					if k != len(segs)-1 || j != len(s.Cues)-1 {
						t.Errorf("%s: silence pad at segment %d cue %d, want only at the very end", name, k, j)
					}
					continue
				}
				seen[c] = true
			}
		}
		if len(seen) != len(in) {
			t.Errorf("%s: %d distinct cues in output, want %d", name, len(seen), len(in))
		}
		if synthetic > 1 {
			t.Errorf("%s: %d silence pads, want at most 1", name, synthetic)
		}
	}
}

func TestSplit_OrderPreserved(t *testing.T) {
	for name, in := range propertyInputs {
		segs, _ := Split(in, 10)
		last := -1
		for _, s := range segs {
			for _, c := range s.Cues {
				ref := cueRef(in, c)
				if ref == "S" {
					continue
				}
				var idx int
				fmt.Sscan(ref, &idx)
				// a duplicated boundary cue may repeat the previous index
				if idx < last {
					t.Errorf("%s: cue %d after cue %d", name, idx, last)
				}
				last = idx
			}
		}
	}
}

func TestSplit_Timeline(t *testing.T) {
	for name, in := range propertyInputs {
		segs, _ := Split(in, 10)
		var running float64
		for k, s := range segs {
			if s.Start != running {
				t.Errorf("%s: segment %d start = %v, want %v", name, k, s.Start, running)
			}
			if s.Duration < 0 || s.Duration != math.Round(s.Duration) {
				t.Errorf("%s: segment %d duration = %v, want a whole non-negative number", name, k, s.Duration)
			}
			running += s.Duration
		}
		if Total(segs) != running {
			t.Errorf("%s: Total = %v, want %v", name, Total(segs), running)
		}
	}
}

func TestSplit_ReachesLastCue(t *testing.T) {
	// Holds when no silence gap exceeds the segment length.
	for _, name := range []string{"single", "overflow", "regular", "boundary", "long mid", "late", "long last"} {
		in := propertyInputs[name]
		segs, _ := Split(in, 10)
		if total, end := Total(segs), in[len(in)-1].End; total < end {
			t.Errorf("%s: total %v ends before last cue %v", name, total, end)
		}
	}
}

func TestSplitWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	in := cues(0, 2, 3, 17, 18, 21)
	if _, err := SplitWithLogger(in, 10, logger); err != nil {
		t.Fatalf("SplitWithLogger: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(in) {
		t.Fatalf("trace lines = %d, want %d\n%s", len(lines), len(in), buf.String())
	}
	if !strings.HasPrefix(lines[0], "cue=0 segment=1 ") {
		t.Errorf("first trace line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "segment=2") {
		t.Errorf("third trace line = %q, want segment=2", lines[2])
	}
}

func TestSegmentEnd(t *testing.T) {
	s := Segment{Start: 20, Duration: 4}
	if s.End() != 24 {
		t.Errorf("End = %v, want 24", s.End())
	}
}
