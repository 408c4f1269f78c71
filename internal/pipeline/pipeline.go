package pipeline

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/vttseg/internal/archive"
	"github.com/suykerbuyk/vttseg/internal/config"
	"github.com/suykerbuyk/vttseg/internal/cue"
	"github.com/suykerbuyk/vttseg/internal/hls"
	"github.com/suykerbuyk/vttseg/internal/index"
	"github.com/suykerbuyk/vttseg/internal/manifest"
	"github.com/suykerbuyk/vttseg/internal/segment"
)

// ManifestName is the manifest file written next to the chunks.
const ManifestName = "manifest.json"

// Options controls one pipeline run.
type Options struct {
	Length     float64
	OutputDir  string
	HLS        hls.Options
	Archive    bool
	ArchiveDir string
	Force      bool        // re-segment even when the index has this input
	Trace      *log.Logger // per-cue trace, nil to disable
}

// OptionsFromConfig maps config onto run options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Length:    cfg.SegmentLength,
		OutputDir: cfg.OutputDir,
		HLS: hls.Options{
			MPEGTS:       cfg.HLS.MPEGTS,
			PlaylistName: cfg.HLS.PlaylistName,
		},
		Archive:    cfg.Archive.Enabled,
		ArchiveDir: cfg.Archive.Dir,
	}
}

// Result holds the output of a pipeline run.
type Result struct {
	Source    string
	OutputDir string
	Files     []string
	Segments  []segment.Segment
	Cues      []cue.Cue
	Skipped   bool
	Reason    string
}

// Run segments one caption file and writes its HLS output. idx may be nil.
func Run(path string, opts Options, idx *index.Index) (*Result, error) {
	source, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	format, err := cue.DetectFormat(source)
	if err != nil {
		return nil, err
	}

	data, err := archive.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read captions: %w", err)
	}
	digest := index.Digest(data)

	// Skip if already processed
	if idx != nil && !opts.Force {
		seen, err := idx.Has(source, digest, opts.Length)
		if err != nil {
			log.Printf("warning: could not query index: %v", err)
		}
		if seen {
			return &Result{Source: source, Skipped: true, Reason: "already segmented"}, nil
		}
	}

	cues, err := cue.Parse(bytes.NewReader(data), format)
	if err != nil {
		return nil, err
	}

	segs, err := segment.SplitWithLogger(cues, opts.Length, opts.Trace)
	if err != nil {
		return nil, fmt.Errorf("segment %s: %w", filepath.Base(source), err)
	}

	outDir := filepath.Join(opts.OutputDir, BaseName(source))
	files, err := hls.Write(outDir, segs, opts.HLS)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Build(source, opts.Length, segs).JSON()
	if err != nil {
		return nil, err
	}
	manifestPath := filepath.Join(outDir, ManifestName)
	if err := os.WriteFile(manifestPath, m, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	files = append(files, manifestPath)

	if opts.Archive && !strings.HasSuffix(source, archive.Ext) {
		if err := archiveSource(source, data, opts.ArchiveDir); err != nil {
			log.Printf("warning: could not archive source: %v", err)
		}
	}

	if idx != nil {
		_, err := idx.Record(index.Run{
			Source:        source,
			Digest:        digest,
			SegmentLength: opts.Length,
			Cues:          len(cues),
			OutputDir:     outDir,
		}, segs)
		if err != nil {
			log.Printf("warning: could not record run: %v", err)
		}
	}

	return &Result{
		Source:    source,
		OutputDir: outDir,
		Files:     files,
		Segments:  segs,
		Cues:      cues,
	}, nil
}

// archiveSource compresses source into dir unless the archive there already
// holds the same bytes.
func archiveSource(source string, data []byte, dir string) error {
	if archive.IsArchived(source, dir) {
		prev, err := archive.ReadFile(archive.ArchivePath(source, dir))
		if err == nil && bytes.Equal(prev, data) {
			return nil
		}
	}
	_, err := archive.Archive(source, dir)
	return err
}

// BaseName strips the directory, a trailing .zst and the caption extension:
// "/in/talk.vtt.zst" becomes "talk".
func BaseName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), archive.Ext)
	if ext := filepath.Ext(base); ext != "" {
		return base[:len(base)-len(ext)]
	}
	return base
}
