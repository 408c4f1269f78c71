package help

import (
	"fmt"
	"strings"
)

// FormatTerminal renders a subcommand's help text for terminal --help output.
func FormatTerminal(c Command) string {
	var sections []string

	// Header: "vttseg <name> - <synopsis>"
	sections = append(sections, fmt.Sprintf("vttseg %s \u2014 %s", c.Name, c.Synopsis))

	// Usage line
	sections = append(sections, fmt.Sprintf("Usage: %s", c.Usage))

	// Compute description column for args/flags alignment.
	// Column = 2 (indent) + colWidth, where entries are padded to colWidth.
	// When both args and flags exist, minimum column is 13 for visual balance.
	maxNameLen := 0
	for _, a := range c.Args {
		if len(a.Name) > maxNameLen {
			maxNameLen = len(a.Name)
		}
	}
	for _, f := range c.Flags {
		if len(f.Name) > maxNameLen {
			maxNameLen = len(f.Name)
		}
	}
	col := 2 + maxNameLen + 3
	if len(c.Args) > 0 && len(c.Flags) > 0 && col < 13 {
		col = 13
	}

	// Arguments section
	if len(c.Args) > 0 {
		lines := []string{"Arguments:"}
		for _, a := range c.Args {
			desc := a.Desc
			if a.Optional {
				desc += " (optional)"
			}
			lines = append(lines, column(a.Name, desc, col))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	// Flags section
	if len(c.Flags) > 0 {
		lines := []string{"Flags:"}
		for _, f := range c.Flags {
			lines = append(lines, column(f.Name, f.Desc, col))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	// Description
	if c.Description != "" {
		sections = append(sections, c.Description)
	}

	// Examples
	if len(c.Examples) > 0 {
		lines := []string{"Examples:"}
		for _, e := range c.Examples {
			lines = append(lines, "  "+e)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

func column(name, desc string, col int) string {
	gap := col - 2 - len(name)
	return "  " + name + strings.Repeat(" ", gap) + desc
}

// FormatUsage renders the top-level usage text (for vttseg --help / vttseg help).
func FormatUsage(top Command, subs []Command) string {
	var b strings.Builder

	// Header
	fmt.Fprintf(&b, "vttseg v%s \u2014 %s\n", Version, top.Synopsis)

	// Subcommand table
	b.WriteString("\nUsage:\n")

	// Collect table entries: usage → brief
	type entry struct {
		usage string
		brief string
	}
	entries := make([]entry, 0, len(subs)+1)
	for _, s := range subs {
		entries = append(entries, entry{s.tableUsage(), s.Brief})
	}
	entries = append(entries, entry{"vttseg help", "Show this help"})

	// Find max usage width for alignment
	maxWidth := 0
	for _, e := range entries {
		if len(e.usage) > maxWidth {
			maxWidth = len(e.usage)
		}
	}

	for _, e := range entries {
		gap := maxWidth - len(e.usage) + 3
		fmt.Fprintf(&b, "  %s%s%s\n", e.usage, strings.Repeat(" ", gap), e.brief)
	}

	// Footer
	b.WriteString(`
Supported input: .vtt .srt .ass .ssa .ttml .dfxp (optionally .zst)

Configuration: ~/.config/vttseg/config.toml
`)

	if len(Environment) > 0 {
		width := 0
		for _, e := range Environment {
			width = max(width, len(e.Name))
		}
		b.WriteString("\nEnvironment:\n")
		for _, e := range Environment {
			b.WriteString(column(e.Name, e.Desc, 2+width+3) + "\n")
		}
	}
	return b.String()
}
