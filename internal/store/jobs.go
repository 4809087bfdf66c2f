// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pdiddy/discovery-engine/pkg/types"
)

// CreateJob inserts a new analysis job for a paper in the uploaded state.
func (s *Store) CreateJob(ctx context.Context, paperID string) (*types.AnalysisJob, error) {
	job := &types.AnalysisJob{
		ID:        uuid.NewString(),
		PaperID:   paperID,
		Status:    types.StatusUploaded,
		Progress:  types.StatusUploaded.Progress(),
		CreatedAt: nowUTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, paper_id, status, progress, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		job.ID, job.PaperID, string(job.Status), job.Progress, formatTime(job.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting job: %w", err)
	}
	return job, nil
}

// GetJob loads a job by ID. Returns ErrNotFound when absent.
func (s *Store) GetJob(ctx context.Context, id string) (*types.AnalysisJob, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, paper_id, selected_topics, profile_snapshot, reader_output, searcher_output,
		        status, progress, error_message, created_at, completed_at
		 FROM jobs WHERE id = ?`, id)

	var (
		job                        types.AnalysisJob
		topicsJSON                 string
		snapshot, reader, searcher sql.NullString
		status, created            string
		completed                  sql.NullString
	)
	err := row.Scan(&job.ID, &job.PaperID, &topicsJSON, &snapshot, &reader, &searcher,
		&status, &job.Progress, &job.ErrorMessage, &created, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading job %s: %w", id, err)
	}

	job.Status = types.JobStatus(status)
	job.CreatedAt = parseTime(created)
	if completed.Valid {
		t := parseTime(completed.String)
		job.CompletedAt = &t
	}
	if err := json.Unmarshal([]byte(topicsJSON), &job.SelectedTopics); err != nil {
		return nil, fmt.Errorf("parsing selected topics for job %s: %w", id, err)
	}
	if snapshot.Valid && snapshot.String != "" {
		var p types.ResearcherProfile
		if err := json.Unmarshal([]byte(snapshot.String), &p); err != nil {
			return nil, fmt.Errorf("parsing profile snapshot for job %s: %w", id, err)
		}
		job.ProfileSnapshot = &p
	}
	if reader.Valid && reader.String != "" {
		var out types.ReaderOutput
		if err := json.Unmarshal([]byte(reader.String), &out); err != nil {
			return nil, fmt.Errorf("parsing reader output for job %s: %w", id, err)
		}
		job.ReaderOutput = &out
	}
	if searcher.Valid && searcher.String != "" {
		var out types.RankedResult
		if err := json.Unmarshal([]byte(searcher.String), &out); err != nil {
			return nil, fmt.Errorf("parsing searcher output for job %s: %w", id, err)
		}
		job.SearcherOutput = &out
	}
	return &job, nil
}

// ListJobsForPaper returns all jobs for a paper, newest first.
func (s *Store) ListJobsForPaper(ctx context.Context, paperID string) ([]types.AnalysisJob, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM jobs WHERE paper_id = ? ORDER BY created_at DESC`, paperID)
	if err != nil {
		return nil, fmt.Errorf("listing jobs for paper %s: %w", paperID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning job id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var jobs []types.AnalysisJob
	for _, id := range ids {
		job, err := s.GetJob(ctx, id)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

// DeleteJob removes a job and, via cascading foreign keys, its ranked
// ideas and their references.
func (s *Store) DeleteJob(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting job %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetStatus transitions a job to a new non-error status, validating the
// move against the state machine and updating the progress percentage in
// the same statement. Illegal moves return ErrInvalidTransition.
func (s *Store) SetStatus(ctx context.Context, id string, to types.JobStatus) error {
	if to == types.StatusError {
		return fmt.Errorf("use SetError for the error state")
	}
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if !types.CanTransition(job.Status, to) {
		return fmt.Errorf("job %s: %s -> %s: %w", id, job.Status, to, ErrInvalidTransition)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, progress = ? WHERE id = ?`,
		string(to), to.Progress(), id)
	if err != nil {
		return fmt.Errorf("updating job %s status: %w", id, err)
	}
	return nil
}

// SetError moves a job to the absorbing error state with a message. The
// progress column is left at its last good value for observability.
func (s *Store) SetError(ctx context.Context, id, message string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error_message = ? WHERE id = ?`,
		string(types.StatusError), message, id)
	if err != nil {
		return fmt.Errorf("marking job %s errored: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetReadContext records the selected topics and the owner's profile
// snapshot ahead of the read phase. The snapshot is stored by value,
// decoupled from later profile edits.
func (s *Store) SetReadContext(ctx context.Context, id string, topics []string, snapshot *types.ResearcherProfile) error {
	snap := sql.NullString{}
	if snapshot != nil {
		snap = sql.NullString{String: marshal(*snapshot), Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET selected_topics = ?, profile_snapshot = ? WHERE id = ?`,
		marshal(topics), snap, id)
	if err != nil {
		return fmt.Errorf("recording read context for job %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return nil
}

// SaveReaderOutput persists the read phase result and moves the job to
// ideas_ready in one statement.
func (s *Store) SaveReaderOutput(ctx context.Context, id string, out types.ReaderOutput) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET reader_output = ?, status = ?, progress = ? WHERE id = ?`,
		marshal(out), string(types.StatusIdeasReady), types.StatusIdeasReady.Progress(), id)
	if err != nil {
		return fmt.Errorf("saving reader output for job %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return nil
}

// JobStatus is the snapshot exposed to status polling.
type JobStatus struct {
	Status       types.JobStatus `json:"status" yaml:"status"`
	Progress     int             `json:"progress" yaml:"progress"`
	ErrorMessage string          `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

// GetStatus returns the latest committed status snapshot for a job,
// readable at any time regardless of which phase is in flight.
func (s *Store) GetStatus(ctx context.Context, id string) (JobStatus, error) {
	var (
		js     JobStatus
		status string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT status, progress, error_message FROM jobs WHERE id = ?`, id,
	).Scan(&status, &js.Progress, &js.ErrorMessage)
	if errors.Is(err, sql.ErrNoRows) {
		return js, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return js, fmt.Errorf("loading job %s status: %w", id, err)
	}
	js.Status = types.JobStatus(status)
	return js, nil
}
