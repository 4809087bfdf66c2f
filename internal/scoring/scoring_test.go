// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/discovery-engine/pkg/types"
)

func init() {
	// No pacing in tests.
	InterIdeaDelay = 0
}

func TestTopicMatchScore(t *testing.T) {
	tests := []struct {
		name   string
		tags   []string
		topics []string
		want   float64
	}{
		{"no user topics is neutral", []string{"nlp"}, nil, 3},
		{"no tags scores below neutral", nil, []string{"nlp"}, 2.5},
		{"exact match", []string{"transformers"}, []string{"transformers"}, 5},
		{"case-insensitive match", []string{"transformers"}, []string{"Transformers"}, 5},
		{"tag contains topic", []string{"vision transformers"}, []string{"transformers"}, 5},
		{"topic contains tag", []string{"nlp"}, []string{"nlp for healthcare"}, 5},
		{"half the topics hit", []string{"nlp"}, []string{"nlp", "robotics"}, 2.5},
		{"no overlap", []string{"optics"}, []string{"databases"}, 0},
		{"hits capped at topic count", []string{"nlp models", "nlp datasets", "nlp evaluation"}, []string{"nlp"}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopicMatchScore(tt.tags, tt.topics)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestComposite(t *testing.T) {
	// 0.3*4 + 0.4*5 + 0.3*3 = 4.1
	assert.InDelta(t, 4.1, Composite(4, 5, 3), 1e-9)
	assert.InDelta(t, 3.0, Composite(3, 3, 3), 1e-9)
	assert.InDelta(t, 5.0, Composite(5, 5, 5), 1e-9)
}

func TestSearchQuery(t *testing.T) {
	idea := types.CandidateIdea{
		Title:       "Sparse attention",
		Description: strings.Repeat("d", 150),
	}
	q := searchQuery(idea)
	assert.Equal(t, "Sparse attention "+strings.Repeat("d", 100), q)

	// Multi-byte descriptions are capped at whole characters.
	idea.Description = strings.Repeat("é", 150)
	q = searchQuery(idea)
	assert.Equal(t, "Sparse attention "+strings.Repeat("é", 100), q)
	assert.True(t, utf8.ValidString(q))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short ascii untouched", "abc", 5, "abc"},
		{"ascii capped", "abcdef", 3, "abc"},
		{"multi-byte capped at character boundary", "ααααα", 3, "ααα"},
		{"cjk capped", "研究論文解析", 4, "研究論文"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestSharedWords(t *testing.T) {
	assert.Equal(t, 0, sharedWords("alpha beta", "gamma delta"))
	assert.Equal(t, 2, sharedWords("Alpha beta gamma", "alpha BETA delta"))
	// Repeated words count once.
	assert.Equal(t, 1, sharedWords("data data data", "data models"))
}

func scoredWithTitle(title string, composite float64) types.ScoredIdea {
	return types.ScoredIdea{
		Idea:           types.CandidateIdea{Title: title},
		CompositeScore: composite,
	}
}

func TestSelectDiverse(t *testing.T) {
	t.Run("three or fewer pass through", func(t *testing.T) {
		in := []types.ScoredIdea{
			scoredWithTitle("a", 5),
			scoredWithTitle("b", 4),
		}
		assert.Equal(t, in, selectDiverse(in))
	})

	t.Run("near-duplicate title is skipped", func(t *testing.T) {
		in := []types.ScoredIdea{
			scoredWithTitle("graph neural networks for molecules", 5),
			scoredWithTitle("graph neural networks for proteins molecules", 4.5),
			scoredWithTitle("causal inference in economics", 4),
			scoredWithTitle("robust speech recognition", 3.5),
		}
		got := selectDiverse(in)
		require.Len(t, got, 3)
		assert.Equal(t, "graph neural networks for molecules", got[0].Idea.Title)
		assert.Equal(t, "causal inference in economics", got[1].Idea.Title)
		assert.Equal(t, "robust speech recognition", got[2].Idea.Title)
	})

	t.Run("falls back to top three by score when diversity filters too much", func(t *testing.T) {
		in := []types.ScoredIdea{
			scoredWithTitle("deep learning for protein folding prediction", 5),
			scoredWithTitle("deep learning for protein folding analysis", 4.5),
			scoredWithTitle("deep learning for protein folding benchmarks", 4),
			scoredWithTitle("deep learning for protein folding datasets", 3.5),
		}
		got := selectDiverse(in)
		require.Len(t, got, 3)
		assert.Equal(t, in[:3], got)
	})
}

// fakeAnalyzer answers assessment prompts with canned JSON keyed by the
// idea title appearing in the prompt.
type fakeAnalyzer struct {
	novelty   map[string]float64
	doability map[string]float64
	calls     int
	failAll   bool
}

func (f *fakeAnalyzer) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	if f.failAll {
		return "", errors.New("service unavailable")
	}

	title := ""
	for t := range f.novelty {
		if strings.Contains(prompt, t) {
			title = t
			break
		}
	}

	switch {
	case strings.Contains(prompt, "Assess the novelty"):
		return fmt.Sprintf(`{"explored":"Partially","maturity":"Emerging","gap":"g","novelty_score":%v}`, f.novelty[title]), nil
	case strings.Contains(prompt, "doability of this research idea"):
		return fmt.Sprintf(`{"data_availability":"Available","methodology":"Standard","timeline":"6 months","required_expertise":"PhD level","doability_score":%v}`, f.doability[title]), nil
	case strings.Contains(prompt, "Synthesize the literature"):
		return `{"overview":"o","key_papers":[{"paper_index":1,"category":"Foundational","summary":"s"}],"whats_missing":"m","suggested_approach":"a"}`, nil
	}
	return "", fmt.Errorf("unexpected prompt")
}

// fakeSearcher returns a fixed paper list, or an error.
type fakeSearcher struct {
	papers []types.PaperRecord
	err    error
	calls  int
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ int) ([]types.PaperRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.papers, nil
}

func TestRankIdeasOrdersByComposite(t *testing.T) {
	analyzer := &fakeAnalyzer{
		novelty:   map[string]float64{"idea one": 2, "idea two": 5, "idea three": 4},
		doability: map[string]float64{"idea one": 2, "idea two": 5, "idea three": 4},
	}
	searcher := &fakeSearcher{papers: []types.PaperRecord{{Title: "p", Abstract: "a"}}}
	scorer := &Scorer{Analyzer: analyzer, Searcher: searcher}

	candidates := []types.CandidateIdea{
		{Title: "idea one", TopicTags: []string{"nlp"}},
		{Title: "idea two", TopicTags: []string{"nlp"}},
		{Title: "idea three", TopicTags: []string{"nlp"}},
	}

	result, err := scorer.RankIdeas(context.Background(), candidates, []string{"nlp"}, io.Discard)
	require.NoError(t, err)

	require.Len(t, result.TopIdeas, 3)
	assert.Equal(t, 3, result.TotalAnalyzed)
	assert.Equal(t, "idea two", result.TopIdeas[0].Idea.Title)
	assert.Equal(t, "idea three", result.TopIdeas[1].Idea.Title)
	assert.Equal(t, "idea one", result.TopIdeas[2].Idea.Title)

	// Composite for idea two: 0.3*5 + 0.4*5 + 0.3*5 = 5.
	assert.InDelta(t, 5.0, result.TopIdeas[0].CompositeScore, 1e-9)
	// Each selected idea got a synthesis.
	for _, idea := range result.TopIdeas {
		assert.Equal(t, "o", idea.Synthesis.Overview)
	}
	assert.Equal(t, 3, searcher.calls)
}

func TestRankIdeasTiesKeepInputOrder(t *testing.T) {
	analyzer := &fakeAnalyzer{
		novelty:   map[string]float64{"first": 4, "second": 4, "third": 4},
		doability: map[string]float64{"first": 5, "second": 5, "third": 5},
	}
	scorer := &Scorer{Analyzer: analyzer, Searcher: &fakeSearcher{}}

	candidates := []types.CandidateIdea{
		{Title: "first", TopicTags: []string{"nlp"}},
		{Title: "second", TopicTags: []string{"vision"}},
		{Title: "third", TopicTags: []string{"robotics"}},
	}

	// With no selected topics every idea gets the neutral topic match of 3,
	// so each composite is 0.3*4 + 0.4*5 + 0.3*3 = 4.1. The ranking is a
	// three-way tie and must preserve input order.
	result, err := scorer.RankIdeas(context.Background(), candidates, nil, io.Discard)
	require.NoError(t, err)
	require.Len(t, result.TopIdeas, 3)
	for _, idea := range result.TopIdeas {
		assert.InDelta(t, 4.1, idea.CompositeScore, 1e-9)
	}
	assert.Equal(t, "first", result.TopIdeas[0].Idea.Title)
	assert.Equal(t, "second", result.TopIdeas[1].Idea.Title)
	assert.Equal(t, "third", result.TopIdeas[2].Idea.Title)
}

func TestRankIdeasDegradesOnFailures(t *testing.T) {
	analyzer := &fakeAnalyzer{failAll: true}
	searcher := &fakeSearcher{err: errors.New("search down")}
	scorer := &Scorer{Analyzer: analyzer, Searcher: searcher}

	candidates := []types.CandidateIdea{{Title: "lonely idea", TopicTags: []string{"nlp"}}}

	result, err := scorer.RankIdeas(context.Background(), candidates, []string{"nlp"}, io.Discard)
	require.NoError(t, err)
	require.Len(t, result.TopIdeas, 1)

	got := result.TopIdeas[0]
	assert.Empty(t, got.Papers)
	assert.Equal(t, types.NeutralNovelty(), got.Novelty)
	assert.Equal(t, types.NeutralDoability(), got.Doability)
	assert.Equal(t, types.PlaceholderSynthesis(), got.Synthesis)
	// 0.3*3 + 0.4*3 + 0.3*5 = 3.6
	assert.InDelta(t, 3.6, got.CompositeScore, 1e-9)
}

func TestRankIdeasRetainsAtMostEightPapers(t *testing.T) {
	papers := make([]types.PaperRecord, 12)
	for i := range papers {
		papers[i] = types.PaperRecord{Title: fmt.Sprintf("p%d", i), Abstract: "a"}
	}
	analyzer := &fakeAnalyzer{
		novelty:   map[string]float64{"idea": 3},
		doability: map[string]float64{"idea": 3},
	}
	scorer := &Scorer{Analyzer: analyzer, Searcher: &fakeSearcher{papers: papers}}

	result, err := scorer.RankIdeas(context.Background(),
		[]types.CandidateIdea{{Title: "idea"}}, nil, io.Discard)
	require.NoError(t, err)
	require.Len(t, result.TopIdeas, 1)
	assert.Len(t, result.TopIdeas[0].Papers, retainedPapers)
}

func TestRankIdeasOutOfRangeScoreDegrades(t *testing.T) {
	analyzer := &fakeAnalyzer{
		novelty:   map[string]float64{"idea": 9},
		doability: map[string]float64{"idea": 4},
	}
	scorer := &Scorer{Analyzer: analyzer, Searcher: &fakeSearcher{}}

	result, err := scorer.RankIdeas(context.Background(),
		[]types.CandidateIdea{{Title: "idea"}}, nil, io.Discard)
	require.NoError(t, err)
	require.Len(t, result.TopIdeas, 1)
	assert.Equal(t, types.NeutralNovelty(), result.TopIdeas[0].Novelty)
	assert.InDelta(t, 4, result.TopIdeas[0].Doability.DoabilityScore, 1e-9)
}

func TestFormatNoveltyPapersCaps(t *testing.T) {
	papers := make([]types.PaperRecord, 15)
	for i := range papers {
		papers[i] = types.PaperRecord{
			Title:    fmt.Sprintf("paper %d", i),
			Abstract: strings.Repeat("x", 500),
		}
	}
	out := formatNoveltyPapers(papers)
	assert.Contains(t, out, "paper 9")
	assert.NotContains(t, out, "paper 10")
	// Abstracts are truncated to 300 characters.
	assert.NotContains(t, out, strings.Repeat("x", 301))
	assert.Contains(t, out, strings.Repeat("x", 300))
}

func TestFormatSynthesisPapersNumbersFromOne(t *testing.T) {
	papers := []types.PaperRecord{
		{Title: "alpha", Year: 2020, Abstract: "a"},
		{Title: "beta", Year: 2021, Abstract: "b"},
	}
	out := formatSynthesisPapers(papers)
	assert.Contains(t, out, "[1] alpha (2020)")
	assert.Contains(t, out, "[2] beta (2021)")
}
