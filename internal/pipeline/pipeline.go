// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates the analysis lifecycle of an uploaded
// paper: the read phase turns PDF text into candidate ideas, the search
// phase scores the user's three selected ideas against the literature.
// Each phase validates its inputs before touching the job, advances the
// job through the state machine as it works, and parks the job in the
// error state when it fails.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/discovery-engine/internal/reader"
	"github.com/pdiddy/discovery-engine/internal/scoring"
	"github.com/pdiddy/discovery-engine/internal/textanalysis"
	"github.com/pdiddy/discovery-engine/pkg/types"
)

// ErrValidation marks a rejected request. The job is untouched.
var ErrValidation = errors.New("invalid request")

// ErrPrecondition marks a request against a job in the wrong state. The
// job is untouched.
var ErrPrecondition = errors.New("job not in required state")

// selectionCount is how many candidate ideas the user must choose for
// the search phase.
const selectionCount = 3

// Storage is the slice of the store the orchestrator drives: job and
// paper creation, state transitions, and phase output persistence.
type Storage interface {
	CreatePaper(ctx context.Context, p *types.Paper) error
	GetPaper(ctx context.Context, id string) (*types.Paper, error)
	GetUser(ctx context.Context, id string) (*types.User, error)
	CreateJob(ctx context.Context, paperID string) (*types.AnalysisJob, error)
	GetJob(ctx context.Context, id string) (*types.AnalysisJob, error)
	SetStatus(ctx context.Context, id string, to types.JobStatus) error
	SetError(ctx context.Context, id, message string) error
	SetReadContext(ctx context.Context, id string, topics []string, snapshot *types.ResearcherProfile) error
	SaveReaderOutput(ctx context.Context, id string, out types.ReaderOutput) error
	SaveRankedResult(ctx context.Context, jobID string, result types.RankedResult) error
}

// Orchestrator runs the two pipeline phases against the store.
type Orchestrator struct {
	Store    Storage
	Analyzer textanalysis.Service
	Scorer   *scoring.Scorer

	// ExtractText pulls plain text from a PDF file.
	ExtractText func(path string) (string, error)

	// Out receives progress lines; defaults to os.Stderr.
	Out io.Writer
}

func (o *Orchestrator) out() io.Writer {
	if o.Out != nil {
		return o.Out
	}
	return os.Stderr
}

// Upload registers a paper PDF and creates its analysis job. The PDF is
// only stat'ed here; text extraction waits for the read phase.
func (o *Orchestrator) Upload(ctx context.Context, pdfPath, title, userID string) (*types.Paper, *types.AnalysisJob, error) {
	info, err := os.Stat(pdfPath)
	if err != nil {
		return nil, nil, fmt.Errorf("checking pdf: %w", err)
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("%s is a directory: %w", pdfPath, ErrValidation)
	}

	paper := &types.Paper{
		Title:        title,
		PDFPath:      pdfPath,
		PDFSizeBytes: info.Size(),
		UserID:       userID,
	}
	if err := o.Store.CreatePaper(ctx, paper); err != nil {
		return nil, nil, err
	}
	job, err := o.Store.CreateJob(ctx, paper.ID)
	if err != nil {
		return nil, nil, err
	}
	return paper, job, nil
}

// ReadPhase extracts the paper text and generates candidate ideas for
// the given topics. Topics are validated before any state change or
// external call; a job that already holds reader output is rejected.
func (o *Orchestrator) ReadPhase(ctx context.Context, jobID string, topics []string) (types.ReaderOutput, error) {
	var zero types.ReaderOutput

	var cleaned []string
	for _, t := range topics {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return zero, fmt.Errorf("at least one topic is required: %w", ErrValidation)
	}

	job, err := o.Store.GetJob(ctx, jobID)
	if err != nil {
		return zero, err
	}
	if job.ReaderOutput != nil {
		return zero, fmt.Errorf("job %s already has candidate ideas: %w", jobID, ErrPrecondition)
	}
	if !types.CanTransition(job.Status, types.StatusParsing) {
		return zero, fmt.Errorf("job %s is %s: %w", jobID, job.Status, ErrPrecondition)
	}

	paper, err := o.Store.GetPaper(ctx, job.PaperID)
	if err != nil {
		return zero, err
	}

	// Snapshot the owner's profile so later edits do not retroactively
	// change this job's scoring context.
	var snapshot *types.ResearcherProfile
	if paper.UserID != "" {
		user, err := o.Store.GetUser(ctx, paper.UserID)
		if err != nil {
			return zero, err
		}
		p := user.Profile
		snapshot = &p
	}
	if err := o.Store.SetReadContext(ctx, jobID, cleaned, snapshot); err != nil {
		return zero, err
	}

	if err := o.Store.SetStatus(ctx, jobID, types.StatusParsing); err != nil {
		return zero, err
	}
	fmt.Fprintf(o.out(), "extracting text from %s\n", paper.PDFPath)
	text, err := o.ExtractText(paper.PDFPath)
	if err != nil {
		return zero, o.fail(ctx, jobID, fmt.Errorf("extracting pdf text: %w", err))
	}

	if err := o.Store.SetStatus(ctx, jobID, types.StatusReading); err != nil {
		return zero, err
	}
	out, err := reader.GenerateIdeas(ctx, o.Analyzer, text, cleaned)
	if err != nil {
		return zero, o.fail(ctx, jobID, fmt.Errorf("generating ideas: %w", err))
	}

	if err := o.Store.SaveReaderOutput(ctx, jobID, out); err != nil {
		return zero, o.fail(ctx, jobID, fmt.Errorf("saving candidate ideas: %w", err))
	}
	fmt.Fprintf(o.out(), "generated %d candidate ideas\n", len(out.Ideas))
	return out, nil
}

// SearchPhase scores the three selected candidate ideas and persists the
// ranked result. Selection indices are zero-based into the job's reader
// output; the job must be in ideas_ready. Validation and precondition
// failures leave the job untouched.
func (o *Orchestrator) SearchPhase(ctx context.Context, jobID string, selected []int) (types.RankedResult, error) {
	var zero types.RankedResult

	job, err := o.Store.GetJob(ctx, jobID)
	if err != nil {
		return zero, err
	}
	if job.Status != types.StatusIdeasReady {
		return zero, fmt.Errorf("job %s is %s, want %s: %w",
			jobID, job.Status, types.StatusIdeasReady, ErrPrecondition)
	}
	if job.ReaderOutput == nil {
		return zero, fmt.Errorf("job %s has no candidate ideas: %w", jobID, ErrPrecondition)
	}

	candidates, err := pickCandidates(job.ReaderOutput.Ideas, selected)
	if err != nil {
		return zero, err
	}

	if err := o.Store.SetStatus(ctx, jobID, types.StatusSearching); err != nil {
		return zero, err
	}
	result, err := o.Scorer.RankIdeas(ctx, candidates, job.SelectedTopics, o.out())
	if err != nil {
		return zero, o.fail(ctx, jobID, fmt.Errorf("ranking ideas: %w", err))
	}

	if err := o.Store.SaveRankedResult(ctx, jobID, result); err != nil {
		return zero, o.fail(ctx, jobID, fmt.Errorf("saving ranked result: %w", err))
	}
	return result, nil
}

// pickCandidates resolves the user's selection against the candidate
// list: exactly three distinct in-range zero-based indices.
func pickCandidates(ideas []types.CandidateIdea, selected []int) ([]types.CandidateIdea, error) {
	if len(selected) != selectionCount {
		return nil, fmt.Errorf("select exactly %d ideas, got %d: %w",
			selectionCount, len(selected), ErrValidation)
	}
	seen := make(map[int]bool, selectionCount)
	picked := make([]types.CandidateIdea, 0, selectionCount)
	for _, idx := range selected {
		if idx < 0 || idx >= len(ideas) {
			return nil, fmt.Errorf("idea index %d out of range [0,%d): %w",
				idx, len(ideas), ErrValidation)
		}
		if seen[idx] {
			return nil, fmt.Errorf("idea index %d selected twice: %w", idx, ErrValidation)
		}
		seen[idx] = true
		picked = append(picked, ideas[idx])
	}
	return picked, nil
}

// fail parks the job in the error state and returns the cause. The
// job's progress keeps its last good value.
func (o *Orchestrator) fail(ctx context.Context, jobID string, cause error) error {
	if serr := o.Store.SetError(ctx, jobID, cause.Error()); serr != nil {
		return fmt.Errorf("%w (also failed to record error: %v)", cause, serr)
	}
	return cause
}
