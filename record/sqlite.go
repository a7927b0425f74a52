// Package record persists simulation frames: a sqlite time series for
// analysis and compressed gob snapshots for resuming runs.
package record

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	barneshut "github.com/milcsu09/Barnes-Hut"
)

// Frame is a copy of the body state after a given step, handed to output
// workers over a channel. Bodies must be a copy: the driver keeps mutating
// its own slice while workers drain the channel.
type Frame struct {
	Step   int
	Bodies []barneshut.Body
}

/*
sqlite allows only one writer at a time, so run a single Consume worker.
journaling and sync are off: the database is a run artifact, not a store
that must survive a crash mid-run.
*/

const schema = `
CREATE TABLE bodies (
	step 	INTEGER,
	id 		INTEGER, -- index in the body slice
	x 		REAL,
	y 		REAL,
	vx 		REAL,
	vy 		REAL,
	mass 	REAL);
`

const indices = `
CREATE INDEX idx_step ON bodies (step, id);
CREATE INDEX idx_id ON bodies (id);
`

const insert = `INSERT INTO bodies VALUES (?, ?, ?, ?, ?, ?, ?);`

// SQLite records frames into a single-table database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates and initializes a database at filename. Refuses to
// overwrite an existing file.
func OpenSQLite(filename string) (*SQLite, error) {
	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("%s already exists", filename)
	}
	db, err := sql.Open("sqlite3", "file:"+filename+"?_journal_mode=OFF&_synchronous=OFF")
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Consume writes frames from ch until it closes, one transaction per frame.
func (s *SQLite) Consume(wg *sync.WaitGroup, ch <-chan *Frame) {
	defer wg.Done()

	stmt, err := s.db.Prepare(insert)
	if err != nil {
		panic(err)
	}
	defer stmt.Close()

	for job := range ch {
		tx, err := s.db.Begin()
		if err != nil {
			panic(err)
		}

		txStmt := tx.Stmt(stmt)
		for id := range job.Bodies {
			b := &job.Bodies[id]
			_, err = txStmt.Exec(
				job.Step,
				id,
				b.Pos.X(),
				b.Pos.Y(),
				b.Vel.X(),
				b.Vel.Y(),
				b.Mass)
			if err != nil {
				break
			}
		}

		if err != nil {
			tx.Rollback()
			panic(err)
		}
		if err := tx.Commit(); err != nil {
			panic(err)
		}
	}
}

// CreateIndices builds the query indices. Run once after all frames are
// written; indexing during inserts roughly doubles the write cost.
func (s *SQLite) CreateIndices() error {
	if _, err := s.db.Exec(indices); err != nil {
		return fmt.Errorf("creating indices: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
