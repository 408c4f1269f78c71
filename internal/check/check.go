package check

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/vttseg/internal/config"
	"github.com/suykerbuyk/vttseg/internal/cue"
	"github.com/suykerbuyk/vttseg/internal/index"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "vttseg check\n\n  no checks ran\n"
	}

	// Find max name length for alignment.
	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("vttseg check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports the resolved config path and whether its values are
// usable.
func CheckConfig(cfg config.Config) Result {
	detail := "defaults (no config.toml)"
	if p := config.Path(); p != "" {
		detail = config.CompressHome(p)
	}
	if err := cfg.Validate(); err != nil {
		return Result{Name: "config", Status: Fail, Detail: err.Error()}
	}
	return Result{Name: "config", Status: Pass, Detail: detail}
}

// CheckSegmentLength rejects lengths the segmenter refuses.
func CheckSegmentLength(length float64) Result {
	if !(length > 0) || math.IsInf(length, 1) {
		return Result{Name: "length", Status: Fail, Detail: fmt.Sprintf("%v is not a positive segment length", length)}
	}
	return Result{Name: "length", Status: Pass, Detail: fmt.Sprintf("%gs", length)}
}

// CheckInput parses and validates a caption file. The parsed cues are
// returned for the follow-up checks; nil on failure.
func CheckInput(path string) (Result, []cue.Cue) {
	cues, err := cue.ParseFile(path)
	if err != nil {
		return Result{Name: "input", Status: Fail, Detail: err.Error()}, nil
	}
	if err := cue.Validate(cues); err != nil {
		return Result{Name: "input", Status: Fail, Detail: err.Error()}, nil
	}
	if len(cues) == 0 {
		return Result{Name: "input", Status: Warn, Detail: filepath.Base(path) + " has no cues"}, cues
	}
	return Result{Name: "input", Status: Pass, Detail: fmt.Sprintf("%s (%d cues)", filepath.Base(path), len(cues))}, cues
}

// CheckOverlaps warns about cues that start before the previous one ends.
// The segmenter accepts them but timing inside chunks is then unreliable.
func CheckOverlaps(cues []cue.Cue) Result {
	n := 0
	for i := 1; i < len(cues); i++ {
		if cues[i].Start < cues[i-1].End {
			n++
		}
	}
	if n > 0 {
		return Result{Name: "overlaps", Status: Warn, Detail: fmt.Sprintf("%d overlapping cues", n)}
	}
	return Result{Name: "overlaps", Status: Pass, Detail: "none"}
}

// CheckLongCues warns about cues longer than the segment length; each one
// is repeated across segments.
func CheckLongCues(cues []cue.Cue, length float64) Result {
	n := 0
	for _, c := range cues {
		if c.Length() > length {
			n++
		}
	}
	if n > 0 {
		return Result{Name: "long cues", Status: Warn, Detail: fmt.Sprintf("%d cues longer than %gs", n, length)}
	}
	return Result{Name: "long cues", Status: Pass, Detail: "none"}
}

// CheckOutputDir checks that the output directory exists or can be created.
func CheckOutputDir(dir string) Result {
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return Result{Name: "output", Status: Pass, Detail: config.CompressHome(dir)}
	case err == nil:
		return Result{Name: "output", Status: Fail, Detail: config.CompressHome(dir) + " is not a directory"}
	case errors.Is(err, os.ErrNotExist):
		return Result{Name: "output", Status: Warn, Detail: config.CompressHome(dir) + " not found (created on first run)"}
	default:
		return Result{Name: "output", Status: Fail, Detail: err.Error()}
	}
}

// CheckIndex opens the run history database and reports its run count.
func CheckIndex(icfg config.IndexConfig) Result {
	if !icfg.Enabled {
		return Result{Name: "index", Status: Pass, Detail: "disabled"}
	}
	if _, err := os.Stat(icfg.Path); err != nil {
		return Result{Name: "index", Status: Warn, Detail: config.CompressHome(icfg.Path) + " not created yet"}
	}

	idx, err := index.Open(icfg.Path)
	if err != nil {
		return Result{Name: "index", Status: Fail, Detail: err.Error()}
	}
	defer idx.Close()

	runs, err := idx.Recent(0)
	if err != nil {
		return Result{Name: "index", Status: Fail, Detail: err.Error()}
	}
	return Result{Name: "index", Status: Pass, Detail: fmt.Sprintf("%s (%d runs)", config.CompressHome(icfg.Path), len(runs))}
}

// Run executes all checks against the given config and returns a report.
// Input checks run only when path is set.
func Run(cfg config.Config, path string) Report {
	var results []Result

	results = append(results, CheckConfig(cfg))
	results = append(results, CheckSegmentLength(cfg.SegmentLength))
	results = append(results, CheckOutputDir(cfg.OutputDir))
	results = append(results, CheckIndex(cfg.Index))

	if path != "" {
		res, cues := CheckInput(path)
		results = append(results, res)
		if cues != nil {
			results = append(results, CheckOverlaps(cues))
			results = append(results, CheckLongCues(cues, cfg.SegmentLength))
		}
	}

	return Report{Results: results}
}
