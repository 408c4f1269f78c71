package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/suykerbuyk/vttseg/internal/index"
)

// Format renders a Summary as aligned terminal output.
func Format(s Summary, source string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "vttseg inspect %s\n", source)

	if s.Segments == 0 {
		b.WriteString("\n  No segments: the input has no cues.\n")
		return b.String()
	}

	b.WriteString("\nOverview\n")
	fmt.Fprintf(&b, "  %-20s %s\n", "segments", formatInt(s.Segments))
	fmt.Fprintf(&b, "  %-20s %s\n", "cues", formatInt(s.Cues))
	fmt.Fprintf(&b, "  %-20s %s\n", "placements", formatInt(s.Placed))
	fmt.Fprintf(&b, "  %-20s %s\n", "repeated cues", formatInt(s.Repeated))
	pad := "no"
	if s.Padded {
		pad = "yes"
	}
	fmt.Fprintf(&b, "  %-20s %s\n", "silence pad", pad)
	if s.LongCues > 0 {
		fmt.Fprintf(&b, "  %-20s %s\n", "overlong cues", formatInt(s.LongCues))
	}

	b.WriteString("\nDurations\n")
	fmt.Fprintf(&b, "  %-20s %s\n", "total", formatSeconds(s.Total))
	fmt.Fprintf(&b, "  %-20s %s\n", "captioned", formatSeconds(s.CaptionTime))
	fmt.Fprintf(&b, "  %-20s %s\n", "shortest", formatSeconds(s.Shortest))
	fmt.Fprintf(&b, "  %-20s %s\n", "longest", formatSeconds(s.Longest))
	fmt.Fprintf(&b, "  %-20s %.1fs\n", "mean", s.Mean)

	return b.String()
}

// FormatRuns renders the run history, newest first.
func FormatRuns(runs []index.Run) string {
	if len(runs) == 0 {
		return "vttseg history\n\n  No runs recorded. Run `vttseg segment <file>` first.\n"
	}

	var b strings.Builder
	b.WriteString("vttseg history\n\n")
	for _, r := range runs {
		fmt.Fprintf(&b, "  %4d  %-16s  %-32s  %6s  %3d segments  %s\n",
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04"),
			truncate(r.Source, 32),
			formatFloat(r.SegmentLength)+"s",
			r.Segments,
			formatSeconds(r.Duration))
	}
	fmt.Fprintf(&b, "\n%d runs\n", len(runs))
	return b.String()
}

// FormatRun renders one run and its stored segments.
func FormatRun(r index.Run, segs []index.SegmentRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "vttseg history %d\n\n", r.ID)
	fmt.Fprintf(&b, "  %-10s %s\n", "source", r.Source)
	fmt.Fprintf(&b, "  %-10s %s\n", "created", r.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "  %-10s %s\n", "length", formatFloat(r.SegmentLength)+"s")
	fmt.Fprintf(&b, "  %-10s %s\n", "cues", formatInt(r.Cues))
	fmt.Fprintf(&b, "  %-10s %s\n", "output", r.OutputDir)

	b.WriteString("\nSegments\n")
	if len(segs) == 0 {
		b.WriteString("  none\n")
		return b.String()
	}
	for _, s := range segs {
		fmt.Fprintf(&b, "  %4d  %8s  %8s  %3d cues\n",
			s.Sequence,
			formatFloat(s.Start)+"s",
			formatFloat(s.Start+s.Duration)+"s",
			s.Cues)
	}
	fmt.Fprintf(&b, "\n%d segments, %s\n", len(segs), formatSeconds(r.Duration))
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n+3:]
}

// formatFloat drops a trailing .0 ("10", "2.5").
func formatFloat(f float64) string {
	if f == math.Trunc(f) {
		return formatInt(int(f))
	}
	return fmt.Sprintf("%.1f", f)
}

// formatInt formats an integer with comma separators.
func formatInt(n int) string {
	if n < 0 {
		return "0"
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// formatSeconds formats seconds as "Xh Ym Zs", rounding to whole seconds.
func formatSeconds(f float64) string {
	secs := int(math.Round(f))
	if secs <= 0 {
		return "0s"
	}
	h := secs / 3600
	m := secs / 60 % 60
	s := secs % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
