package index

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/suykerbuyk/vttseg/internal/segment"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	source         TEXT    NOT NULL,
	digest         TEXT    NOT NULL,
	segment_length REAL    NOT NULL,
	segments       INTEGER NOT NULL,
	cues           INTEGER NOT NULL,
	duration       REAL    NOT NULL,
	output_dir     TEXT    NOT NULL DEFAULT '',
	created_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_source ON runs (source, digest, segment_length);
CREATE TABLE IF NOT EXISTS run_segments (
	run_id   INTEGER NOT NULL REFERENCES runs (id) ON DELETE CASCADE,
	sequence INTEGER NOT NULL,
	start    REAL    NOT NULL,
	duration REAL    NOT NULL,
	cues     INTEGER NOT NULL,
	PRIMARY KEY (run_id, sequence)
);
`

// Run is one recorded segmentation.
type Run struct {
	ID            int64
	Source        string // absolute path of the caption file
	Digest        string // sha256 of the source bytes
	SegmentLength float64
	Segments      int
	Cues          int
	Duration      float64 // summed segment durations, seconds
	OutputDir     string
	CreatedAt     time.Time
}

// SegmentRow is the stored shape of one segment of a run.
type SegmentRow struct {
	Sequence int
	Start    float64
	Duration float64
	Cues     int
}

// Index is the SQLite run history.
type Index struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path, creating parent directories.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	// One connection keeps the pragmas below in effect for every query.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000", schema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init index: %w", err)
		}
	}

	return &Index{db: db, path: path}, nil
}

// Path returns the database file path.
func (idx *Index) Path() string {
	return idx.path
}

// Close closes the database.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Record stores a run and its segments in one transaction and returns the
// new run ID. Segments and Duration come from segs; a zero CreatedAt is set
// to now.
func (idx *Index) Record(run Run, segs []segment.Segment) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := idx.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin record: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs
		(source, digest, segment_length, segments, cues, duration, output_dir, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Source, run.Digest, run.SegmentLength, len(segs), run.Cues,
		segment.Total(segs), run.OutputDir, run.CreatedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO run_segments (run_id, sequence, start, duration, cues) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare segments: %w", err)
	}
	defer stmt.Close()

	for i, s := range segs {
		if _, err := stmt.Exec(id, i, s.Start, s.Duration, len(s.Cues)); err != nil {
			return 0, fmt.Errorf("insert segment %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit record: %w", err)
	}
	return id, nil
}

// Has reports whether source with this digest was already segmented at
// this length.
func (idx *Index) Has(source, digest string, length float64) (bool, error) {
	var n int
	err := idx.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE source = ? AND digest = ? AND segment_length = ?`,
		source, digest, length).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query runs: %w", err)
	}
	return n > 0, nil
}

const runColumns = `id, source, digest, segment_length, segments, cues, duration, output_dir, created_at`

// ErrNoRun is returned by Get for an unknown run ID.
var ErrNoRun = errors.New("no such run")

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r       Run
		created int64
	)
	if err := row.Scan(&r.ID, &r.Source, &r.Digest, &r.SegmentLength, &r.Segments,
		&r.Cues, &r.Duration, &r.OutputDir, &created); err != nil {
		return Run{}, err
	}
	r.CreatedAt = time.UnixMilli(created)
	return r, nil
}

// Recent returns up to limit runs, newest first. A non-positive limit
// returns all runs.
func (idx *Index) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := idx.db.Query(`SELECT `+runColumns+`
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns the run with the given ID.
func (idx *Index) Get(id int64) (Run, error) {
	r, err := scanRun(idx.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %d", ErrNoRun, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("query run %d: %w", id, err)
	}
	return r, nil
}

// Segments returns the stored segments of a run in sequence order.
func (idx *Index) Segments(runID int64) ([]SegmentRow, error) {
	rows, err := idx.db.Query(`SELECT sequence, start, duration, cues FROM run_segments
		WHERE run_id = ? ORDER BY sequence`, runID)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var out []SegmentRow
	for rows.Next() {
		var s SegmentRow
		if err := rows.Scan(&s.Sequence, &s.Start, &s.Duration, &s.Cues); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Forget deletes every run recorded for source. Returns the number removed.
func (idx *Index) Forget(source string) (int64, error) {
	res, err := idx.db.Exec(`DELETE FROM runs WHERE source = ?`, source)
	if err != nil {
		return 0, fmt.Errorf("delete runs: %w", err)
	}
	return res.RowsAffected()
}

// Digest returns the hex sha256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
