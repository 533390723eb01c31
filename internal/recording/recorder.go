// Package recording stores fire simulation runs in a SQLite database: one
// row per run, one row of summary statistics per tick and optional field
// frames every N ticks.
package recording

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"firesim/internal/sims/fire"
)

const defaultBatchSize = 1000

var ErrClosed = errors.New("recorder closed")

// RunInfo describes the run a recorder is attached to.
type RunInfo struct {
	Width     int
	Height    int
	DeltaTime float64
	Seed      int64
	Scenario  string
}

// Run is a stored run row.
type Run struct {
	ID        string
	RunInfo
	StartedAt time.Time
}

// TickRow is the per-tick summary stored for a run.
type TickRow struct {
	Tick     uint64
	Time     float64
	Burning  int
	Burned   int
	MeanTemp float64
	MaxTemp  float64
	Fuel     float64
	Oxygen   float64
}

type frameRow struct {
	tick  uint64
	field string
	data  []byte
}

// Recorder buffers tick statistics and frames and writes them in batched
// transactions. It implements fire.TickObserver.
type Recorder struct {
	mu sync.Mutex

	db        *sql.DB
	path      string
	runID     string
	batchSize int

	every  uint64
	fields []fire.Field

	ticks  []TickRow
	frames []frameRow
	err    error
	closed bool
}

// New opens (or creates) the database at path and registers a new run. An
// empty path or a directory gets a unique file name. The recorder is flushed
// and closed at process exit if the caller does not close it first.
func New(path string, info RunInfo) (*Recorder, error) {
	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps BEGIN/COMMIT on the same session
	db.SetMaxOpenConns(1)

	r := &Recorder{
		db:        db,
		path:      path,
		runID:     xid.New().String(),
		batchSize: defaultBatchSize,
	}
	if err := r.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	_, err = db.Exec(
		`INSERT INTO runs (id, width, height, delta_time, seed, scenario, started_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.runID, info.Width, info.Height, info.DeltaTime, info.Seed, info.Scenario, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("insert run: %w", err)
	}

	atexit.Register(func() { _ = r.Close() })
	return r, nil
}

func resolvePath(path string) (string, error) {
	name := "firesim_" + xid.New().String() + ".sqlite3"
	if path == "" {
		return name, nil
	}
	st, err := os.Stat(path)
	switch {
	case err == nil && st.IsDir():
		return filepath.Join(path, name), nil
	case err == nil || errors.Is(err, os.ErrNotExist):
		return path, nil
	default:
		return "", err
	}
}

func (r *Recorder) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			delta_time REAL NOT NULL,
			seed INTEGER NOT NULL,
			scenario TEXT NOT NULL,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ticks (
			run_id TEXT NOT NULL REFERENCES runs(id),
			tick INTEGER NOT NULL,
			time REAL NOT NULL,
			burning INTEGER NOT NULL,
			burned INTEGER NOT NULL,
			mean_temp REAL NOT NULL,
			max_temp REAL NOT NULL,
			fuel REAL NOT NULL,
			oxygen REAL NOT NULL,
			PRIMARY KEY (run_id, tick)
		)`,
		`CREATE TABLE IF NOT EXISTS frames (
			run_id TEXT NOT NULL REFERENCES runs(id),
			tick INTEGER NOT NULL,
			field TEXT NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (run_id, tick, field)
		)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// Path returns the database file.
func (r *Recorder) Path() string { return r.path }

// RunID returns the identifier of the run being recorded.
func (r *Recorder) RunID() string { return r.runID }

// SetBatchSize changes how many buffered rows trigger a flush.
func (r *Recorder) SetBatchSize(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > 0 {
		r.batchSize = n
	}
}

// RecordFrames stores the given fields every n ticks. n == 0 disables frames.
func (r *Recorder) RecordFrames(every uint64, fields ...fire.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.every = every
	r.fields = append([]fire.Field(nil), fields...)
}

// OnTick buffers the statistics of the completed tick. Write failures are
// kept and reported by Err, Flush and Close.
func (r *Recorder) OnTick(info fire.TickInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.err != nil {
		return
	}
	s := info.Grid.Stats()
	r.ticks = append(r.ticks, TickRow{
		Tick:     info.Tick,
		Time:     info.Time,
		Burning:  s.Burning,
		Burned:   s.Burned,
		MeanTemp: s.MeanTemp,
		MaxTemp:  s.MaxTemp,
		Fuel:     s.Fuel,
		Oxygen:   s.Oxygen,
	})
	if r.every > 0 && info.Tick%r.every == 0 {
		for _, f := range r.fields {
			snap, err := info.Grid.ReadField(f)
			if err != nil {
				r.err = err
				return
			}
			data, err := json.Marshal(snap.Rows())
			if err != nil {
				r.err = err
				return
			}
			r.frames = append(r.frames, frameRow{tick: info.Tick, field: f.String(), data: data})
		}
	}
	if len(r.ticks)+len(r.frames) >= r.batchSize {
		r.err = r.flushLocked()
	}
}

// Err returns the first write failure.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Flush writes all buffered rows in one transaction.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.err != nil {
		return r.err
	}
	r.err = r.flushLocked()
	return r.err
}

func (r *Recorder) flushLocked() error {
	if len(r.ticks) == 0 && len(r.frames) == 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	tickStmt, err := tx.Prepare(`INSERT INTO ticks (run_id, tick, time, burning, burned, mean_temp, max_temp, fuel, oxygen) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer tickStmt.Close()
	for _, t := range r.ticks {
		if _, err := tickStmt.Exec(r.runID, t.Tick, t.Time, t.Burning, t.Burned, t.MeanTemp, t.MaxTemp, t.Fuel, t.Oxygen); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert tick %d: %w", t.Tick, err)
		}
	}
	frameStmt, err := tx.Prepare(`INSERT INTO frames (run_id, tick, field, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer frameStmt.Close()
	for _, f := range r.frames {
		if _, err := frameStmt.Exec(r.runID, f.tick, f.field, string(f.data)); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert frame %s@%d: %w", f.field, f.tick, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.ticks = r.ticks[:0]
	r.frames = r.frames[:0]
	return nil
}

// Close flushes pending rows and closes the database. Calling it again is a
// no-op.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.err
	if err == nil {
		err = r.flushLocked()
	}
	return errors.Join(err, r.db.Close())
}
