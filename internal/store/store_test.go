// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/discovery-engine/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestPaper(t *testing.T, s *Store, userID string) *types.Paper {
	t.Helper()
	p := &types.Paper{
		Title:   "Sparse Attention",
		Authors: []string{"A. Researcher"},
		Year:    2024,
		PDFPath: "/tmp/sparse.pdf",
		UserID:  userID,
	}
	require.NoError(t, s.CreatePaper(context.Background(), p))
	return p
}

func TestUserRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := &types.User{
		Description: "I work on NLP",
		Profile: types.ResearcherProfile{
			ExpertiseLevel: types.ExpertisePostdoc,
			ResearchAreas:  []string{"NLP"},
		},
	}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NotEmpty(t, u.ID)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "I work on NLP", got.Description)
	assert.Equal(t, types.ExpertisePostdoc, got.Profile.ExpertiseLevel)
	// Normalization fills the fields the caller left zero.
	assert.Equal(t, types.StyleMixed, got.Profile.ResearchStyle)

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUserProfile(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := &types.User{Description: "old"}
	require.NoError(t, s.CreateUser(ctx, u))

	newProfile := types.ResearcherProfile{ExpertiseLevel: types.ExpertiseSeniorProf}
	require.NoError(t, s.UpdateUserProfile(ctx, u.ID, "new description", newProfile))

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new description", got.Description)
	assert.Equal(t, types.ExpertiseSeniorProf, got.Profile.ExpertiseLevel)

	err = s.UpdateUserProfile(ctx, "missing", "", newProfile)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaperRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := createTestPaper(t, s, "")
	got, err := s.GetPaper(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sparse Attention", got.Title)
	assert.Equal(t, []string{"A. Researcher"}, got.Authors)
	assert.Empty(t, got.UserID)

	list, err := s.ListPapers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)
}

func TestJobLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := createTestPaper(t, s, "")
	job, err := s.CreateJob(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusUploaded, job.Status)
	assert.Equal(t, 10, job.Progress)

	// Record read context.
	snapshot := types.DefaultProfile(types.ExpertisePostdoc)
	require.NoError(t, s.SetReadContext(ctx, job.ID, []string{"nlp", "ml"}, &snapshot))

	// Walk the happy path.
	require.NoError(t, s.SetStatus(ctx, job.ID, types.StatusParsing))
	require.NoError(t, s.SetStatus(ctx, job.ID, types.StatusReading))

	out := types.ReaderOutput{
		Summary:  "s",
		Concepts: []string{"c"},
		Ideas: []types.CandidateIdea{
			{Title: "i1"}, {Title: "i2"}, {Title: "i3"},
		},
	}
	require.NoError(t, s.SaveReaderOutput(ctx, job.ID, out))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusIdeasReady, got.Status)
	assert.Equal(t, 60, got.Progress)
	assert.Equal(t, []string{"nlp", "ml"}, got.SelectedTopics)
	require.NotNil(t, got.ProfileSnapshot)
	assert.Equal(t, types.ExpertisePostdoc, got.ProfileSnapshot.ExpertiseLevel)
	require.NotNil(t, got.ReaderOutput)
	assert.Len(t, got.ReaderOutput.Ideas, 3)
	assert.Nil(t, got.SearcherOutput)
	assert.Nil(t, got.CompletedAt)
}

func TestSetStatusRejectsBackwardMove(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := createTestPaper(t, s, "")
	job, err := s.CreateJob(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, s.SetStatus(ctx, job.ID, types.StatusParsing))
	err = s.SetStatus(ctx, job.ID, types.StatusUploaded)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// The failed transition must not have changed anything.
	status, err := s.GetStatus(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusParsing, status.Status)
	assert.Equal(t, 20, status.Progress)
}

func TestSetErrorKeepsProgress(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := createTestPaper(t, s, "")
	job, err := s.CreateJob(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, s.SetStatus(ctx, job.ID, types.StatusParsing))

	require.NoError(t, s.SetError(ctx, job.ID, "pdf extraction failed"))

	status, err := s.GetStatus(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusError, status.Status)
	assert.Equal(t, 20, status.Progress, "progress keeps the last good value")
	assert.Equal(t, "pdf extraction failed", status.ErrorMessage)

	// Error is absorbing.
	err = s.SetStatus(ctx, job.ID, types.StatusReading)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func rankedResultFixture() types.RankedResult {
	return types.RankedResult{
		TotalAnalyzed: 3,
		TopIdeas: []types.ScoredIdea{
			{
				Idea: types.CandidateIdea{Title: "best", TopicTags: []string{"nlp"}},
				Papers: []types.PaperRecord{
					{Title: "ref1", Abstract: "a1", Year: 2020, Citations: 10, URL: "u1"},
					{Title: "ref2", Abstract: "a2", Year: 2021, Citations: 90, URL: "u2"},
				},
				Novelty:         types.NoveltyAssessment{Explored: "No", Maturity: "Emerging", Gap: "g", NoveltyScore: 5},
				Doability:       types.DoabilityAssessment{DataAvailability: "Available", Methodology: "Standard", Timeline: "6 months", RequiredExpertise: "PhD level", DoabilityScore: 4},
				TopicMatchScore: 5,
				CompositeScore:  4.6,
				Synthesis: types.LiteratureSynthesis{
					Overview: "o",
					KeyPapers: []types.KeyPaper{
						{PaperIndex: 2, Category: "Foundational", Summary: "classic"},
					},
					WhatsMissing:      "m",
					SuggestedApproach: "a",
				},
			},
		},
	}
}

func TestSaveRankedResultAndResults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := createTestPaper(t, s, "")
	job, err := s.CreateJob(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, s.SaveReaderOutput(ctx, job.ID, types.ReaderOutput{
		Summary:  "a study of things",
		Concepts: []string{"attention", "scaling"},
	}))
	require.NoError(t, s.SetStatus(ctx, job.ID, types.StatusSearching))

	// Results are rejected before completion.
	_, err = s.Results(ctx, job.ID)
	assert.ErrorIs(t, err, ErrNotComplete)

	require.NoError(t, s.SaveRankedResult(ctx, job.ID, rankedResultFixture()))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusComplete, got.Status)
	assert.Equal(t, 100, got.Progress)
	require.NotNil(t, got.CompletedAt)
	assert.WithinDuration(t, time.Now().UTC(), *got.CompletedAt, time.Minute)
	require.NotNil(t, got.SearcherOutput)
	assert.Equal(t, 3, got.SearcherOutput.TotalAnalyzed)

	results, err := s.Results(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "a study of things", results.Summary)
	assert.Equal(t, []string{"attention", "scaling"}, results.Concepts)
	require.Len(t, results.Ideas, 1)

	idea := results.Ideas[0]
	assert.Equal(t, 1, idea.Rank)
	assert.Equal(t, "best", idea.Idea.Title)
	assert.InDelta(t, 4.6, idea.CompositeScore, 1e-9)
	assert.Equal(t, "Emerging", idea.Novelty.Maturity)
	assert.Equal(t, "o", idea.Synthesis.Overview)

	// References come back most cited first, with synthesis categories
	// carried onto the matching rows.
	require.Len(t, idea.References, 2)
	assert.Equal(t, "ref2", idea.References[0].Title)
	assert.Equal(t, "Foundational", idea.References[0].Category)
	assert.Equal(t, "classic", idea.References[0].Summary)
	assert.Equal(t, "ref1", idea.References[1].Title)
	assert.Empty(t, idea.References[1].Category)
}

func TestDeleteJobCascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := createTestPaper(t, s, "")
	job, err := s.CreateJob(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, s.SetStatus(ctx, job.ID, types.StatusSearching))
	require.NoError(t, s.SaveRankedResult(ctx, job.ID, rankedResultFixture()))

	require.NoError(t, s.DeleteJob(ctx, job.ID))

	_, err = s.GetJob(ctx, job.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var ideaCount, refCount int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM ideas`).Scan(&ideaCount))
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM refs`).Scan(&refCount))
	assert.Zero(t, ideaCount)
	assert.Zero(t, refCount)
}

func TestListJobsForPaper(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := createTestPaper(t, s, "")
	j1, err := s.CreateJob(ctx, p.ID)
	require.NoError(t, err)
	j2, err := s.CreateJob(ctx, p.ID)
	require.NoError(t, err)

	jobs, err := s.ListJobsForPaper(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	ids := []string{jobs[0].ID, jobs[1].ID}
	assert.Contains(t, ids, j1.ID)
	assert.Contains(t, ids, j2.ID)
}
