// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pdiddy/discovery-engine/pkg/types"
)

// ErrNotComplete is returned when results are requested for a job that has
// not reached the complete state.
var ErrNotComplete = errors.New("job is not complete")

// SaveRankedResult persists the scoring stage output in one transaction:
// the searcher output blob on the job, one idea row per ranked idea, and
// one reference row per retained paper. The job moves to complete with its
// completion timestamp set.
func (s *Store) SaveRankedResult(ctx context.Context, jobID string, result types.RankedResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := nowUTC()
	res, err := tx.ExecContext(ctx,
		`UPDATE jobs SET searcher_output = ?, status = ?, progress = ?, completed_at = ? WHERE id = ?`,
		marshal(result), string(types.StatusComplete), types.StatusComplete.Progress(),
		formatTime(now), jobID)
	if err != nil {
		return fmt.Errorf("saving searcher output for job %s: %w", jobID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("job %s: %w", jobID, ErrNotFound)
	}

	for i, scored := range result.TopIdeas {
		ideaID := uuid.NewString()
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ideas (id, job_id, rank, title, description, rationale, topic_tags,
			                    novelty_score, doability_score, topic_match_score, composite_score,
			                    novelty_assessment, doability_assessment, literature_synthesis, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ideaID, jobID, i+1,
			scored.Idea.Title, scored.Idea.Description, scored.Idea.Rationale,
			marshal(scored.Idea.TopicTags),
			scored.Novelty.NoveltyScore, scored.Doability.DoabilityScore,
			scored.TopicMatchScore, scored.CompositeScore,
			marshal(scored.Novelty), marshal(scored.Doability), marshal(scored.Synthesis),
			formatTime(now),
		)
		if err != nil {
			return fmt.Errorf("inserting idea %d for job %s: %w", i+1, jobID, err)
		}

		// The synthesis classifies retained papers by 1-based index; carry
		// the category and summary onto the matching reference rows.
		categories := make(map[int]types.KeyPaper, len(scored.Synthesis.KeyPapers))
		for _, kp := range scored.Synthesis.KeyPapers {
			categories[kp.PaperIndex] = kp
		}

		for j, paper := range scored.Papers {
			kp := categories[j+1]
			_, err := tx.ExecContext(ctx,
				`INSERT INTO refs (id, idea_id, title, authors, year, venue, abstract, url,
				                   citation_count, category, summary, created_at)
				 VALUES (?, ?, ?, ?, ?, '', ?, ?, ?, ?, ?, ?)`,
				uuid.NewString(), ideaID,
				paper.Title, marshal(paper.Authors), paper.Year,
				paper.Abstract, paper.URL, paper.Citations,
				kp.Category, kp.Summary, formatTime(now),
			)
			if err != nil {
				return fmt.Errorf("inserting reference %d for idea %d: %w", j+1, i+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing ranked result for job %s: %w", jobID, err)
	}
	return nil
}

// Results returns the persisted output of a completed job: the read phase's
// summary and concepts plus the ranked ideas, best first, each with its
// literature references. Jobs in any other state return ErrNotComplete.
func (s *Store) Results(ctx context.Context, jobID string) (types.JobResults, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return types.JobResults{}, err
	}
	if job.Status != types.StatusComplete {
		return types.JobResults{}, fmt.Errorf("job %s is %s: %w", jobID, job.Status, ErrNotComplete)
	}
	ideas, err := s.rankedIdeas(ctx, jobID)
	if err != nil {
		return types.JobResults{}, err
	}
	results := types.JobResults{Ideas: ideas}
	if job.ReaderOutput != nil {
		results.Summary = job.ReaderOutput.Summary
		results.Concepts = job.ReaderOutput.Concepts
	}
	return results, nil
}

func (s *Store) rankedIdeas(ctx context.Context, jobID string) ([]types.RankedIdea, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_id, rank, title, description, rationale, topic_tags,
		        topic_match_score, composite_score,
		        novelty_assessment, doability_assessment, literature_synthesis, created_at
		 FROM ideas WHERE job_id = ? ORDER BY rank ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("listing ideas for job %s: %w", jobID, err)
	}
	defer rows.Close()

	var ideas []types.RankedIdea
	for rows.Next() {
		var (
			idea                     types.RankedIdea
			tags, novelty, doability string
			synthesis, created       string
		)
		err := rows.Scan(&idea.ID, &idea.JobID, &idea.Rank,
			&idea.Idea.Title, &idea.Idea.Description, &idea.Idea.Rationale, &tags,
			&idea.TopicMatchScore, &idea.CompositeScore,
			&novelty, &doability, &synthesis, &created)
		if err != nil {
			return nil, fmt.Errorf("scanning idea: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &idea.Idea.TopicTags); err != nil {
			return nil, fmt.Errorf("parsing topic tags: %w", err)
		}
		if err := json.Unmarshal([]byte(novelty), &idea.Novelty); err != nil {
			return nil, fmt.Errorf("parsing novelty assessment: %w", err)
		}
		if err := json.Unmarshal([]byte(doability), &idea.Doability); err != nil {
			return nil, fmt.Errorf("parsing doability assessment: %w", err)
		}
		if err := json.Unmarshal([]byte(synthesis), &idea.Synthesis); err != nil {
			return nil, fmt.Errorf("parsing literature synthesis: %w", err)
		}
		idea.CreatedAt = parseTime(created)
		ideas = append(ideas, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range ideas {
		refs, err := s.referencesForIdea(ctx, ideas[i].ID)
		if err != nil {
			return nil, err
		}
		ideas[i].References = refs
	}
	return ideas, nil
}

func (s *Store) referencesForIdea(ctx context.Context, ideaID string) ([]types.Reference, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, idea_id, title, authors, year, venue, abstract, url,
		        citation_count, category, summary, created_at
		 FROM refs WHERE idea_id = ? ORDER BY citation_count DESC`, ideaID)
	if err != nil {
		return nil, fmt.Errorf("listing references for idea %s: %w", ideaID, err)
	}
	defer rows.Close()

	var refs []types.Reference
	for rows.Next() {
		var (
			ref     types.Reference
			authors string
			created string
		)
		err := rows.Scan(&ref.ID, &ref.IdeaID, &ref.Title, &authors, &ref.Year,
			&ref.Venue, &ref.Abstract, &ref.URL, &ref.CitationCount,
			&ref.Category, &ref.Summary, &created)
		if err != nil {
			return nil, fmt.Errorf("scanning reference: %w", err)
		}
		if err := json.Unmarshal([]byte(authors), &ref.Authors); err != nil {
			return nil, fmt.Errorf("parsing reference authors: %w", err)
		}
		ref.CreatedAt = parseTime(created)
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return refs, nil
}
