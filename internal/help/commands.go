package help

import "strings"

// Version is the vttseg release version, set at build time via -ldflags.
// Defaults to "dev" when built without version injection (e.g. `go run`).
var Version = "dev"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "--force" or "--length <n>"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string // e.g. "file" or "path..."
	Desc     string
	Optional bool
}

// Command describes a vttseg subcommand (or the top-level binary when Name is "").
type Command struct {
	Name        string   // "segment", "inspect", etc; "" for top-level
	Synopsis    string   // one-line description (lowercase, for --help header)
	Brief       string   // short description for usage table (capitalized)
	Usage       string   // full usage line, e.g. "vttseg playlist <file> [--length <n>]"
	TableUsage  string   // shortened usage for the top-level table (if different from Usage)
	Args        []Arg
	Flags       []Flag
	Description string   // multi-line prose (stored verbatim)
	Examples    []string // one per line, without leading 2-space indent
	SeeAlso     []string // man page cross-refs, e.g. "vttseg(1)"
}

// tableUsage returns TableUsage if set, otherwise Usage.
func (c Command) tableUsage() string {
	if c.TableUsage != "" {
		return c.TableUsage
	}
	return c.Usage
}

// ManName returns the man page name: "vttseg" for top-level, "vttseg-<name>"
// for subs. Spaces in Name become hyphens ("config init" is "vttseg-config-init").
func (c Command) ManName() string {
	if c.Name == "" {
		return "vttseg"
	}
	return "vttseg-" + strings.ReplaceAll(c.Name, " ", "-")
}

// TopLevel is the top-level vttseg command (used by FormatUsage).
var TopLevel = Command{
	Name:     "",
	Synopsis: "split captions into HLS WebVTT segments",
}

// Environment lists the variables vttseg reads.
var Environment = []Flag{
	{Name: "XDG_CONFIG_HOME", Desc: "Config directory (default: ~/.config)"},
	{Name: "HOME", Desc: "Expands ~ in config paths"},
}

var lengthFlag = Flag{Name: "--length <n>", Desc: "Segment length in seconds (default: segment_length from config)"}

var CmdSegment = Command{
	Name:       "segment",
	Synopsis:   "split caption files into HLS segments",
	Brief:      "Split caption files into HLS segments",
	Usage:      "vttseg segment <file|dir> [--length <n>] [--out <dir>] [--force] [--archive] [--trace]",
	TableUsage: "vttseg segment <file|dir>",
	Args: []Arg{
		{Name: "file|dir", Desc: "Caption file, or a directory searched recursively"},
	},
	Flags: []Flag{
		lengthFlag,
		{Name: "--out <dir>", Desc: "Output directory (default: output_dir from config)"},
		{Name: "--force", Desc: "Re-segment inputs already in the run history"},
		{Name: "--archive", Desc: "Compress each source into the archive dir"},
		{Name: "--trace", Desc: "Log every segmentation decision to stderr"},
	},
	Description: `Parses each caption file (WebVTT, SRT, SSA/ASS or TTML, optionally
zstd-compressed as .zst) and splits its cues into fixed-length segments.
A cue that crosses a segment boundary is repeated at the head of the
next segment, and a one-second silence cue pads the last segment when
the final cue overflows.

Each input gets a directory <out>/<name>/ holding one numbered .vtt
chunk per segment, an HLS playlist and manifest.json. Inputs whose
content and segment length match a recorded run are skipped.`,
	Examples: []string{
		"vttseg segment talk.vtt                 Segment one file",
		"vttseg segment ~/captions --length 6    Segment a tree at 6s",
		"vttseg segment talk.srt --force         Re-segment a known input",
	},
	SeeAlso: []string{"vttseg(1)", "vttseg-inspect(1)", "vttseg-history(1)"},
}

var CmdInspect = Command{
	Name:       "inspect",
	Synopsis:   "show how a caption file would be segmented",
	Brief:      "Show segmentation statistics",
	Usage:      "vttseg inspect <file> [--length <n>] [--json | --yaml]",
	TableUsage: "vttseg inspect <file>",
	Args: []Arg{
		{Name: "file", Desc: "Caption file to inspect"},
	},
	Flags: []Flag{
		lengthFlag,
		{Name: "--json", Desc: "Print the segment manifest as JSON"},
		{Name: "--yaml", Desc: "Print the segment manifest as YAML"},
	},
	Description: `Segments the file in memory and prints a summary: segment count,
repeated boundary cues, whether a silence pad was added, and segment
durations. Nothing is written to disk.`,
	SeeAlso: []string{"vttseg(1)", "vttseg-segment(1)", "vttseg-playlist(1)"},
}

var CmdPlaylist = Command{
	Name:     "playlist",
	Synopsis: "print the HLS playlist for a caption file",
	Brief:    "Print the HLS playlist",
	Usage:    "vttseg playlist <file> [--length <n>]",
	Args: []Arg{
		{Name: "file", Desc: "Caption file"},
	},
	Flags: []Flag{
		lengthFlag,
	},
	SeeAlso: []string{"vttseg(1)", "vttseg-inspect(1)"},
}

var CmdWatch = Command{
	Name:       "watch",
	Synopsis:   "re-segment caption files when they change",
	Brief:      "Re-segment files on change",
	Usage:      "vttseg watch <path>... [--length <n>] [--out <dir>]",
	TableUsage: "vttseg watch <path>...",
	Args: []Arg{
		{Name: "path...", Desc: "Caption files or directories to watch"},
	},
	Flags: []Flag{
		lengthFlag,
		{Name: "--out <dir>", Desc: "Output directory (default: output_dir from config)"},
	},
	Description: `Watches the given paths and runs the segment pipeline for every caption
file that is written or created, after debounce_ms of quiet. Runs until
interrupted.`,
	SeeAlso: []string{"vttseg(1)", "vttseg-segment(1)"},
}

var CmdCheck = Command{
	Name:     "check",
	Synopsis: "validate config and caption input",
	Brief:    "Validate config and caption input",
	Usage:    "vttseg check [file]",
	Args: []Arg{
		{Name: "file", Desc: "Caption file to validate", Optional: true},
	},
	Description: `Runs diagnostic checks and prints a pass/warn/FAIL report:
  - Config file location and validity
  - Segment length
  - Output directory
  - Run history database
  - Input parses and is ordered (with file)
  - Overlapping and overlong cues (with file)

Exit code 0 if all checks pass or warn, 1 if any check fails.`,
	SeeAlso: []string{"vttseg(1)", "vttseg-config(1)"},
}

var CmdHistory = Command{
	Name:       "history",
	Synopsis:   "list recorded segmentation runs",
	Brief:      "List recorded runs",
	Usage:      "vttseg history [run-id] [--limit <n>]",
	TableUsage: "vttseg history [run-id]",
	Args: []Arg{
		{Name: "run-id", Desc: "Show one run and its segments", Optional: true},
	},
	Flags: []Flag{
		{Name: "--limit <n>", Desc: "Number of runs to show (default: 20, 0 for all)"},
	},
	SeeAlso: []string{"vttseg(1)", "vttseg-segment(1)", "vttseg-forget(1)"},
}

var CmdForget = Command{
	Name:     "forget",
	Synopsis: "remove a caption file from the run history",
	Brief:    "Drop a file from the run history",
	Usage:    "vttseg forget <file>",
	Args: []Arg{
		{Name: "file", Desc: "Caption file whose runs are deleted"},
	},
	Description: `Deletes every recorded run for the file, so the next segment run
processes it again. Output directories are left in place.`,
	SeeAlso: []string{"vttseg(1)", "vttseg-history(1)"},
}

var CmdConfig = Command{
	Name:     "config",
	Synopsis: "manage the config file",
	Brief:    "Write a default config file",
	Usage:    "vttseg config init",
	Description: `Subcommands:
  vttseg config init   Write ~/.config/vttseg/config.toml with defaults`,
	SeeAlso: []string{"vttseg(1)", "vttseg-config-init(1)"},
}

var CmdVersion = Command{
	Name:     "version",
	Synopsis: "print version",
	Brief:    "Print version",
	Usage:    "vttseg version",
	SeeAlso:  []string{"vttseg(1)"},
}

var CmdConfigInit = Command{
	Name:     "config init",
	Synopsis: "write a default config file",
	Brief:    "Write a default config.toml",
	Usage:    "vttseg config init",
	Description: `Writes config.toml with every setting at its default value to
$XDG_CONFIG_HOME/vttseg/ (or ~/.config/vttseg/). An existing file is
left untouched.`,
	SeeAlso: []string{"vttseg(1)", "vttseg-config(1)", "vttseg-check(1)"},
}

// ConfigSubcommands is the ordered list of config sub-subcommands.
var ConfigSubcommands = []Command{
	CmdConfigInit,
}

// Subcommands is the ordered list of all subcommands.
var Subcommands = []Command{
	CmdSegment,
	CmdInspect,
	CmdPlaylist,
	CmdWatch,
	CmdCheck,
	CmdHistory,
	CmdForget,
	CmdConfig,
	CmdVersion,
}
