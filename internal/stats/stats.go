package stats

import (
	"github.com/suykerbuyk/vttseg/internal/cue"
	"github.com/suykerbuyk/vttseg/internal/segment"
)

// Summary holds aggregate metrics for one segmentation.
type Summary struct {
	Segments int
	Cues     int // input cues
	Placed   int // cue references across all segments, pad excluded
	Repeated int // boundary cues carried into the following segment
	Padded   bool

	Total    float64 // seconds
	Longest  float64
	Shortest float64
	Mean     float64

	CaptionTime float64 // summed cue lengths
	LongCues    int     // cues longer than the segment length
}

// Compute derives a Summary from the input cues and their segmentation.
func Compute(input []cue.Cue, segs []segment.Segment, length float64) Summary {
	s := Summary{
		Segments: len(segs),
		Cues:     len(input),
	}

	for _, c := range input {
		s.CaptionTime += c.Length()
		if c.Length() > length {
			s.LongCues++
		}
	}

	if len(segs) == 0 {
		return s
	}

	s.Shortest = segs[0].Duration
	for i, seg := range segs {
		s.Total += seg.Duration
		if seg.Duration > s.Longest {
			s.Longest = seg.Duration
		}
		if seg.Duration < s.Shortest {
			s.Shortest = seg.Duration
		}

		for j, c := range seg.Cues {
			if i == len(segs)-1 && j > 0 && j == len(seg.Cues)-1 && c.IsSilence() {
				s.Padded = true
				continue
			}
			s.Placed++
		}

		if i > 0 && len(seg.Cues) > 0 {
			prev := segs[i-1].Cues
			if len(prev) > 0 && prev[len(prev)-1] == seg.Cues[0] {
				s.Repeated++
			}
		}
	}
	s.Mean = s.Total / float64(len(segs))
	return s
}
