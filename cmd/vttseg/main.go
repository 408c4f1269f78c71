package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/suykerbuyk/vttseg/internal/check"
	"github.com/suykerbuyk/vttseg/internal/config"
	"github.com/suykerbuyk/vttseg/internal/cue"
	"github.com/suykerbuyk/vttseg/internal/discover"
	"github.com/suykerbuyk/vttseg/internal/help"
	"github.com/suykerbuyk/vttseg/internal/hls"
	"github.com/suykerbuyk/vttseg/internal/index"
	"github.com/suykerbuyk/vttseg/internal/manifest"
	"github.com/suykerbuyk/vttseg/internal/pipeline"
	"github.com/suykerbuyk/vttseg/internal/segment"
	"github.com/suykerbuyk/vttseg/internal/stats"
	"github.com/suykerbuyk/vttseg/internal/watch"
)

// valueFlags take the following argument as their value.
var valueFlags = map[string]bool{
	"--length": true,
	"--out":    true,
	"--limit":  true,
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]
	if sub, ok := lookup(cmd); ok && hasFlag(args, "--help", "-h") {
		fmt.Print(help.FormatTerminal(sub))
		return
	}

	switch cmd {
	case "segment":
		runSegment(args)
	case "inspect":
		runInspect(args)
	case "playlist":
		runPlaylist(args)
	case "watch":
		runWatch(args)
	case "check":
		runCheck(args)
	case "history":
		runHistory(args)
	case "forget":
		runForget(args)
	case "config":
		runConfig(args)

	case "version":
		fmt.Printf("vttseg v%s\n", help.Version)

	case "help", "--help", "-h":
		if len(args) > 0 {
			if sub, ok := lookup(args[0]); ok {
				fmt.Print(help.FormatTerminal(sub))
				return
			}
		}
		fmt.Print(help.FormatUsage(help.TopLevel, help.Subcommands))

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func runSegment(args []string) {
	paths := positional(args)
	if len(paths) != 1 {
		fatal("usage: %s", help.CmdSegment.Usage)
	}
	cfg := mustLoadConfig(args)

	opts := pipeline.OptionsFromConfig(cfg)
	opts.Force = hasFlag(args, "--force")
	if hasFlag(args, "--archive") {
		opts.Archive = true
	}
	if hasFlag(args, "--trace") {
		opts.Trace = log.New(os.Stderr, "trace: ", 0)
	}

	inputs := expandInputs(paths[0])
	if len(inputs) == 0 {
		fatal("no caption files found in %s", paths[0])
	}

	idx := openIndex(cfg)
	if idx != nil {
		defer idx.Close()
	}

	var created, skipped, failed int
	for _, in := range inputs {
		result, err := pipeline.Run(in, opts, idx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  error: %s: %v\n", in, err)
			failed++
			continue
		}
		if result.Skipped {
			fmt.Printf("skipped: %s (%s)\n", result.Source, result.Reason)
			skipped++
			continue
		}
		fmt.Printf("created: %s (%d segments)\n", config.CompressHome(result.OutputDir), len(result.Segments))
		created++
	}

	if len(inputs) > 1 {
		fmt.Printf("\n%d created, %d skipped, %d failed\n", created, skipped, failed)
	}
	if failed > 0 {
		if idx != nil {
			idx.Close()
		}
		os.Exit(1)
	}
}

func runInspect(args []string) {
	paths := positional(args)
	if len(paths) != 1 {
		fatal("usage: %s", help.CmdInspect.Usage)
	}
	cfg := mustLoadConfig(args)
	cues, segs := mustSplit(paths[0], cfg.SegmentLength)

	switch {
	case hasFlag(args, "--json"):
		data, err := manifest.Build(paths[0], cfg.SegmentLength, segs).JSON()
		if err != nil {
			fatal("%v", err)
		}
		os.Stdout.Write(data)
	case hasFlag(args, "--yaml"):
		data, err := manifest.Build(paths[0], cfg.SegmentLength, segs).YAML()
		if err != nil {
			fatal("%v", err)
		}
		os.Stdout.Write(data)
	default:
		fmt.Print(stats.Format(stats.Compute(cues, segs, cfg.SegmentLength), paths[0]))
	}
}

func runPlaylist(args []string) {
	paths := positional(args)
	if len(paths) != 1 {
		fatal("usage: %s", help.CmdPlaylist.Usage)
	}
	cfg := mustLoadConfig(args)
	_, segs := mustSplit(paths[0], cfg.SegmentLength)
	fmt.Print(hls.Playlist(segs))
}

func runWatch(args []string) {
	paths := positional(args)
	if len(paths) == 0 {
		fatal("usage: %s", help.CmdWatch.Usage)
	}
	cfg := mustLoadConfig(args)
	opts := pipeline.OptionsFromConfig(cfg)

	idx := openIndex(cfg)
	if idx != nil {
		defer idx.Close()
	}

	w, err := watch.New(paths, time.Duration(cfg.Watch.DebounceMS)*time.Millisecond)
	if err != nil {
		fatal("%v", err)
	}
	defer w.Close()
	if err := w.Ignore(cfg.Archive.Dir); err != nil {
		fatal("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "watching %d path(s), Ctrl-C to stop\n", len(paths))
	err = w.Run(ctx, func(path string) error {
		result, err := pipeline.Run(path, opts, idx)
		if err != nil {
			return err
		}
		if result.Skipped {
			fmt.Printf("skipped: %s (%s)\n", result.Source, result.Reason)
		} else {
			fmt.Printf("created: %s (%d segments)\n", config.CompressHome(result.OutputDir), len(result.Segments))
		}
		return nil
	})
	if err != nil {
		fatal("%v", err)
	}
}

func runCheck(args []string) {
	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}
	path := ""
	if p := positional(args); len(p) > 0 {
		path = p[0]
	}

	report := check.Run(cfg, path)
	fmt.Print(report.Format())
	if report.HasFailures() {
		os.Exit(1)
	}
}

func runHistory(args []string) {
	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}
	limit := 20
	if v := flagValue(args, "--limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			fatal("invalid --limit %q", v)
		}
	}

	idx := mustOpenIndex(cfg)
	defer idx.Close()

	if p := positional(args); len(p) > 0 {
		id, err := strconv.ParseInt(p[0], 10, 64)
		if err != nil {
			fatal("invalid run id %q", p[0])
		}
		run, err := idx.Get(id)
		if err != nil {
			idx.Close()
			fatal("%v", err)
		}
		segs, err := idx.Segments(id)
		if err != nil {
			idx.Close()
			fatal("%v", err)
		}
		fmt.Print(stats.FormatRun(run, segs))
		return
	}

	runs, err := idx.Recent(limit)
	if err != nil {
		idx.Close()
		fatal("%v", err)
	}
	fmt.Print(stats.FormatRuns(runs))
}

func runForget(args []string) {
	paths := positional(args)
	if len(paths) != 1 {
		fatal("usage: %s", help.CmdForget.Usage)
	}
	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}
	source, err := filepath.Abs(paths[0])
	if err != nil {
		fatal("resolve path: %v", err)
	}

	idx := mustOpenIndex(cfg)
	defer idx.Close()

	n, err := idx.Forget(source)
	if err != nil {
		idx.Close()
		fatal("%v", err)
	}
	fmt.Printf("forgot: %s (%d runs)\n", config.CompressHome(source), n)
}

func runConfig(args []string) {
	if len(args) == 0 || args[0] != "init" {
		fatal("usage: %s", help.CmdConfig.Usage)
	}
	path, err := config.WriteDefault()
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("config: %s\n", config.CompressHome(path))
}

// mustLoadConfig loads config and applies --length and --out overrides.
func mustLoadConfig(args []string) config.Config {
	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}
	if v := flagValue(args, "--length"); v != "" {
		length, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fatal("invalid --length %q", v)
		}
		cfg.SegmentLength = length
	}
	if v := flagValue(args, "--out"); v != "" {
		cfg.OutputDir = v
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}
	return cfg
}

func mustSplit(path string, length float64) ([]cue.Cue, []segment.Segment) {
	cues, err := cue.ParseFile(path)
	if err != nil {
		fatal("%v", err)
	}
	segs, err := segment.Split(cues, length)
	if err != nil {
		fatal("%v", err)
	}
	return cues, segs
}

// mustOpenIndex opens the run history for commands that cannot work
// without it.
func mustOpenIndex(cfg config.Config) *index.Index {
	if !cfg.Index.Enabled {
		fatal("run history is disabled (index.enabled = false)")
	}
	idx, err := index.Open(cfg.Index.Path)
	if err != nil {
		fatal("%v", err)
	}
	return idx
}

// openIndex returns nil when the run history is disabled or unavailable.
func openIndex(cfg config.Config) *index.Index {
	if !cfg.Index.Enabled {
		return nil
	}
	idx, err := index.Open(cfg.Index.Path)
	if err != nil {
		log.Printf("warning: could not open index: %v", err)
		return nil
	}
	return idx
}

// expandInputs returns path itself, or the caption files under it when it
// is a directory.
func expandInputs(path string) []string {
	info, err := os.Stat(path)
	if err != nil {
		fatal("%v", err)
	}
	if !info.IsDir() {
		return []string{path}
	}
	files, err := discover.Discover(path)
	if err != nil {
		fatal("discover: %v", err)
	}
	inputs := make([]string, 0, len(files))
	for _, f := range files {
		inputs = append(inputs, f.Path)
	}
	return inputs
}

func lookup(name string) (help.Command, bool) {
	for _, c := range help.Subcommands {
		if c.Name == name {
			return c, true
		}
	}
	return help.Command{}, false
}

func usage() {
	fmt.Fprint(os.Stderr, help.FormatUsage(help.TopLevel, help.Subcommands))
}

func flagValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func hasFlag(args []string, names ...string) bool {
	for _, a := range args {
		for _, n := range names {
			if a == n {
				return true
			}
		}
	}
	return false
}

// positional returns the arguments that are neither flags nor flag values.
func positional(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if valueFlags[a] {
			i++
			continue
		}
		if len(a) > 1 && a[0] == '-' {
			continue
		}
		out = append(out, a)
	}
	return out
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "vttseg: "+format+"\n", args...)
	os.Exit(1)
}
