package recording

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"firesim/internal/sims/fire"
)

// Reader queries a database written by Recorder.
type Reader struct {
	db *sql.DB
}

// Open opens an existing recording for reading.
func Open(path string) (*Reader, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &Reader{db: db}, nil
}

// Close releases the database.
func (r *Reader) Close() error { return r.db.Close() }

// Runs lists every recorded run in start order.
func (r *Reader) Runs() ([]Run, error) {
	rows, err := r.db.Query(`SELECT id, width, height, delta_time, seed, scenario, started_at FROM runs ORDER BY started_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		var started string
		if err := rows.Scan(&run.ID, &run.Width, &run.Height, &run.DeltaTime, &run.Seed, &run.Scenario, &started); err != nil {
			return nil, err
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		out = append(out, run)
	}
	return out, rows.Err()
}

// Ticks returns the tick summaries of a run in tick order.
func (r *Reader) Ticks(runID string) ([]TickRow, error) {
	rows, err := r.db.Query(`SELECT tick, time, burning, burned, mean_temp, max_temp, fuel, oxygen FROM ticks WHERE run_id = ? ORDER BY tick`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TickRow
	for rows.Next() {
		var t TickRow
		if err := rows.Scan(&t.Tick, &t.Time, &t.Burning, &t.Burned, &t.MeanTemp, &t.MaxTemp, &t.Fuel, &t.Oxygen); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Frame loads one stored field snapshot.
func (r *Reader) Frame(runID string, tick uint64, field fire.Field) (fire.Snapshot, error) {
	var data string
	err := r.db.QueryRow(`SELECT data FROM frames WHERE run_id = ? AND tick = ? AND field = ?`, runID, tick, field.String()).Scan(&data)
	if err != nil {
		return fire.Snapshot{}, fmt.Errorf("frame %s@%d: %w", field, tick, err)
	}
	var rows [][]float64
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return fire.Snapshot{}, err
	}
	snap := fire.Snapshot{Field: field, Height: len(rows)}
	if len(rows) > 0 {
		snap.Width = len(rows[0])
	}
	for _, row := range rows {
		snap.Values = append(snap.Values, row...)
	}
	return snap, nil
}
