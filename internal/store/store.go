// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists users, papers, analysis jobs, and ranked ideas in
// a SQLite database. Ownership follows the job hierarchy: deleting a paper
// removes its jobs, deleting a job removes its ranked ideas, and deleting
// an idea removes its literature references, all enforced with cascading
// foreign keys. Timestamps are stored in UTC.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/discovery-engine/pkg/types"
)

const dbFile = "discovery.db"

// ErrNotFound reports that the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition reports an attempt to move a job to a status the
// state machine does not allow from its current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// Store manages the discovery-engine SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at cfg.DataDir/discovery.db and
// creates the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			scholar_url TEXT NOT NULL DEFAULT '',
			profile TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			authors TEXT NOT NULL DEFAULT '[]',
			year INTEGER NOT NULL DEFAULT 0,
			venue TEXT NOT NULL DEFAULT '',
			doi TEXT NOT NULL DEFAULT '',
			pdf_path TEXT NOT NULL,
			pdf_size_bytes INTEGER NOT NULL DEFAULT 0,
			user_id TEXT REFERENCES users(id),
			uploaded_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			paper_id TEXT NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			selected_topics TEXT NOT NULL DEFAULT '[]',
			profile_snapshot TEXT,
			reader_output TEXT,
			searcher_output TEXT,
			status TEXT NOT NULL,
			progress INTEGER NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			completed_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_paper_id ON jobs(paper_id)`,
		`CREATE TABLE IF NOT EXISTS ideas (
			id TEXT PRIMARY KEY,
			job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			rationale TEXT NOT NULL DEFAULT '',
			topic_tags TEXT NOT NULL DEFAULT '[]',
			novelty_score REAL NOT NULL DEFAULT 0,
			doability_score REAL NOT NULL DEFAULT 0,
			topic_match_score REAL NOT NULL DEFAULT 0,
			composite_score REAL NOT NULL DEFAULT 0,
			novelty_assessment TEXT NOT NULL DEFAULT '{}',
			doability_assessment TEXT NOT NULL DEFAULT '{}',
			literature_synthesis TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ideas_job_id ON ideas(job_id)`,
		`CREATE TABLE IF NOT EXISTS refs (
			id TEXT PRIMARY KEY,
			idea_id TEXT NOT NULL REFERENCES ideas(id) ON DELETE CASCADE,
			title TEXT NOT NULL DEFAULT '',
			authors TEXT NOT NULL DEFAULT '[]',
			year INTEGER NOT NULL DEFAULT 0,
			venue TEXT NOT NULL DEFAULT '',
			abstract TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			citation_count INTEGER NOT NULL DEFAULT 0,
			category TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refs_idea_id ON refs(idea_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// nowUTC returns the current time in UTC truncated to the second, which is
// the resolution stored in the database.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// marshal JSON-encodes v for a blob column; encoding a plain struct or
// slice of strings cannot fail in practice.
func marshal(v any) string {
	data, _ := json.Marshal(v)
	return string(data)
}
