package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Recorder persists the session's puzzle transitions and log lines to a
// sqlite database for post-game review. Writes are queued and batched in
// the background so recording never blocks the render or apply path.
type Recorder struct {
	db        *sql.DB
	writeChan chan entry
	closeChan chan struct{}
	doneChan  chan struct{}
}

// PuzzleEvent is one recorded puzzle transition
type PuzzleEvent struct {
	PuzzleID  string
	State     string
	IP        string
	Timestamp time.Time
}

// LogRecord is one recorded log line
type LogRecord struct {
	Timestamp time.Time
	Stream    string
	Message   string
}

// entry is the union queued to the background writer
type entry struct {
	puzzle *PuzzleEvent
	log    *LogRecord
}

// NewRecorder opens (creating if needed) the session database at path
func NewRecorder(path string) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	r := &Recorder{
		db:        db,
		writeChan: make(chan entry, 1000),
		closeChan: make(chan struct{}),
		doneChan:  make(chan struct{}),
	}

	// Start background writer
	go r.writer()

	return r, nil
}

// createTables creates the database schema
func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS puzzle_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		puzzle_id TEXT NOT NULL,
		state TEXT NOT NULL,
		ip TEXT,
		timestamp INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_puzzle_time
	ON puzzle_events(puzzle_id, timestamp);

	CREATE TABLE IF NOT EXISTS log_lines (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		stream TEXT,
		message TEXT
	);
	`

	_, err := db.Exec(schema)
	return err
}

// RecordPuzzle queues a puzzle transition for writing
func (r *Recorder) RecordPuzzle(ev PuzzleEvent) {
	select {
	case r.writeChan <- entry{puzzle: &ev}:
	default:
		// Channel full, drop rather than block the apply path
	}
}

// RecordLog queues a log line for writing
func (r *Recorder) RecordLog(rec LogRecord) {
	select {
	case r.writeChan <- entry{log: &rec}:
	default:
		// Channel full, drop rather than block the apply path
	}
}

// writer runs in background and batch writes to the database
func (r *Recorder) writer() {
	defer close(r.doneChan)

	buffer := make([]entry, 0, 100)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case e := <-r.writeChan:
			buffer = append(buffer, e)
			if len(buffer) >= 50 {
				r.batchWrite(buffer)
				buffer = buffer[:0]
			}

		case <-ticker.C:
			if len(buffer) > 0 {
				r.batchWrite(buffer)
				buffer = buffer[:0]
			}

		case <-r.closeChan:
			// Drain whatever is still queued, then final flush
			for {
				select {
				case e := <-r.writeChan:
					buffer = append(buffer, e)
				default:
					if len(buffer) > 0 {
						r.batchWrite(buffer)
					}
					return
				}
			}
		}
	}
}

// batchWrite writes a batch of entries in one transaction
func (r *Recorder) batchWrite(entries []entry) {
	tx, err := r.db.Begin()
	if err != nil {
		return
	}
	defer tx.Rollback()

	puzzleStmt, err := tx.Prepare(`
		INSERT INTO puzzle_events (puzzle_id, state, ip, timestamp)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return
	}
	defer puzzleStmt.Close()

	logStmt, err := tx.Prepare(`
		INSERT INTO log_lines (timestamp, stream, message)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return
	}
	defer logStmt.Close()

	for _, e := range entries {
		switch {
		case e.puzzle != nil:
			_, _ = puzzleStmt.Exec(e.puzzle.PuzzleID, e.puzzle.State, e.puzzle.IP, e.puzzle.Timestamp.Unix())
		case e.log != nil:
			_, _ = logStmt.Exec(e.log.Timestamp.Unix(), e.log.Stream, e.log.Message)
		}
	}

	tx.Commit()
}

// PuzzleHistory returns the recorded transitions for one puzzle in
// chronological order
func (r *Recorder) PuzzleHistory(puzzleID string) ([]PuzzleEvent, error) {
	rows, err := r.db.Query(`
		SELECT puzzle_id, state, ip, timestamp
		FROM puzzle_events
		WHERE puzzle_id = ?
		ORDER BY timestamp ASC, id ASC
	`, puzzleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query puzzle history: %w", err)
	}
	defer rows.Close()

	var events []PuzzleEvent
	for rows.Next() {
		var ev PuzzleEvent
		var ts int64
		if err := rows.Scan(&ev.PuzzleID, &ev.State, &ev.IP, &ts); err != nil {
			return nil, err
		}
		ev.Timestamp = time.Unix(ts, 0)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// LogCount returns how many log lines were recorded this session
func (r *Recorder) LogCount() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM log_lines`).Scan(&n)
	return n, err
}

// Close flushes pending writes and closes the database
func (r *Recorder) Close() error {
	close(r.closeChan)
	<-r.doneChan
	return r.db.Close()
}
