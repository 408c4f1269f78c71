package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Ext is the suffix appended to archived caption files.
const Ext = ".zst"

// Archive compresses srcPath into archiveDir/{base name}.zst.
// Returns the archive path.
func Archive(srcPath, archiveDir string) (string, error) {
	name := filepath.Base(srcPath)
	if strings.HasSuffix(name, Ext) {
		return "", fmt.Errorf("already compressed: %s", srcPath)
	}

	destPath := ArchivePath(name, archiveDir)

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer dest.Close()

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return "", fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := io.Copy(encoder, src); err != nil {
		encoder.Close()
		return "", fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("finalize compression: %w", err)
	}

	return destPath, nil
}

// Open returns a reader over path. Files ending in .zst are decompressed
// as they are read.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, Ext) {
		return f, nil
	}

	decoder, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &zstdReadCloser{decoder: decoder, file: f}, nil
}

type zstdReadCloser struct {
	decoder *zstd.Decoder
	file    *os.File
}

func (z *zstdReadCloser) Read(p []byte) (int, error) {
	return z.decoder.Read(p)
}

func (z *zstdReadCloser) Close() error {
	z.decoder.Close()
	return z.file.Close()
}

// ReadFile is os.ReadFile that understands .zst archives.
func ReadFile(path string) ([]byte, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// IsArchived returns true if an archive exists for the named caption file.
func IsArchived(name, archiveDir string) bool {
	_, err := os.Stat(ArchivePath(name, archiveDir))
	return err == nil
}

// ArchivePath returns the deterministic archive path for a caption file name.
func ArchivePath(name, archiveDir string) string {
	return filepath.Join(archiveDir, filepath.Base(name)+Ext)
}
