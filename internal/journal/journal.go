// Package journal records placements in a SQLite database, one row per file
// landed, keyed by a per-run UUID. The journal is an optional observer of
// the extraction run: its failures are logged and never fail a placement.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	// Pure-Go SQLite driver registered as "sqlite".
	_ "modernc.org/sqlite"

	"github.com/meg/extract-files/internal/extract"
)

// Recorder writes one row per placement, tagged with this run's UUID. It
// implements extract.EventEmitter and is registered on the engine alongside
// any other consumers.
type Recorder struct {
	db    *sql.DB
	runID string
	log   logrus.FieldLogger
}

// Open opens (creating if needed) the journal database at path and prepares
// the schema. Each Open starts a new run identity.
func Open(path string, logger logrus.FieldLogger) (*Recorder, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to prepare journal schema: %w", err)
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Recorder{
		db:    db,
		runID: uuid.NewString(),
		log:   logger,
	}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS placements (
			id          INTEGER PRIMARY KEY,
			run_id      TEXT NOT NULL,
			source_path TEXT NOT NULL,
			dest_name   TEXT NOT NULL,
			algorithm   TEXT NOT NULL,
			digest      TEXT NOT NULL,
			mode        TEXT NOT NULL,
			bytes       INTEGER NOT NULL,
			placed_at   TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_placements_run ON placements(run_id);`,
		`CREATE INDEX IF NOT EXISTS idx_placements_dest ON placements(dest_name);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// RunID returns the UUID tagging this run's rows.
func (r *Recorder) RunID() string {
	return r.runID
}

// Emit records FilePlaced events; all other events are ignored. A failed
// insert is logged and swallowed: the journal observes the run, it does not
// gate it.
func (r *Recorder) Emit(event extract.Event) {
	placed, ok := event.(extract.FilePlaced)
	if !ok {
		return
	}

	mode := "copied"
	if placed.Placement.Moved {
		mode = "moved"
	}

	_, err := r.db.Exec(
		`INSERT INTO placements (run_id, source_path, dest_name, algorithm, digest, mode, bytes, placed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.runID,
		placed.Placement.SourcePath,
		placed.Placement.DestName,
		string(placed.Placement.Algorithm),
		string(placed.Placement.Digest),
		mode,
		placed.Placement.Bytes,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.log.WithError(err).WithField("file", placed.Placement.DestName).Warn("journal write failed")
	}
}

// Close closes the underlying database.
func (r *Recorder) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}

	return nil
}
