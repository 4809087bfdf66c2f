// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring ranks candidate research ideas. For each idea it gathers
// supporting literature, obtains novelty and doability assessments from
// the text-analysis service, computes a local topic-match score, combines
// the three into a composite, and selects a diverse top three.
//
// Failures are contained at assessment granularity: a failed search means
// no supporting literature, a failed assessment means the neutral default.
// Only an unexpected error outside those calls aborts the ranking.
package scoring

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/discovery-engine/internal/textanalysis"
	"github.com/pdiddy/discovery-engine/pkg/types"
)

// Composite score weights. Doability is weighted highest: the scorer
// favors ideas that are both novel and executable.
const (
	NoveltyWeight    = 0.3
	DoabilityWeight  = 0.4
	TopicMatchWeight = 0.3
)

// Composite combines the three sub-scores. Novelty and doability are on
// [1,5], topic match on [0,5]; all three share the same scale so the
// weighted sum needs no further normalization.
func Composite(novelty, doability, topicMatch float64) float64 {
	return NoveltyWeight*novelty + DoabilityWeight*doability + TopicMatchWeight*topicMatch
}

// InterIdeaDelay is the mandatory pause between ideas, keeping the
// literature-search service under its request quota. This is a hard pacing
// rule applied regardless of search outcome. Tests override it.
var InterIdeaDelay = 3 * time.Second

// retainedPapers is how many searched papers are kept per scored idea.
const retainedPapers = 8

// maxSelected is the size of the final ranked set.
const maxSelected = 3

// diversityWordLimit is the greatest number of shared title words two
// selected ideas may have. The threshold is a crude lexical proxy for
// semantic diversity; the literal value is part of the ranking contract.
// TODO: replace the word-overlap heuristic with semantic similarity.
const diversityWordLimit = 3

// Searcher is the literature-search collaborator.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]types.PaperRecord, error)
}

// Scorer scores and ranks candidate ideas.
type Scorer struct {
	Analyzer textanalysis.Service
	Searcher Searcher

	// SearchLimit is the number of papers requested per idea (default 20).
	SearchLimit int
}

// queryDescriptionChars caps how much of the description joins the title
// in the literature search query.
const queryDescriptionChars = 100

// searchQuery builds the literature query for one idea.
func searchQuery(idea types.CandidateIdea) string {
	desc := truncate(idea.Description, queryDescriptionChars)
	return strings.TrimSpace(idea.Title + " " + desc)
}

// RankIdeas scores the candidates in input order, ranks them by composite
// score, selects a diverse top three, and synthesizes literature for each
// selected idea. Progress lines go to w.
//
// Ideas are processed strictly sequentially: the search for idea i+1 does
// not start until idea i, including its mandatory pacing delay, finishes.
func (s *Scorer) RankIdeas(ctx context.Context, candidates []types.CandidateIdea, userTopics []string, w io.Writer) (types.RankedResult, error) {
	limit := s.SearchLimit
	if limit <= 0 {
		limit = 20
	}

	scored := make([]types.ScoredIdea, 0, len(candidates))
	for i, idea := range candidates {
		fmt.Fprintf(w, "scoring idea %d/%d: %s\n", i+1, len(candidates), idea.Title)

		papers, err := s.Searcher.Search(ctx, searchQuery(idea), limit)
		if err != nil {
			// Degrade to "no supporting literature found".
			fmt.Fprintf(w, "warning: literature search failed for %q: %v\n", idea.Title, err)
			papers = nil
		} else {
			fmt.Fprintf(w, "found %d papers for: %s\n", len(papers), truncate(idea.Title, 50))
		}

		novelty := assessNovelty(ctx, s.Analyzer, idea, papers)
		if novelty.Fallback {
			fmt.Fprintf(w, "warning: %v\n", novelty.Reason)
		}

		doability := assessDoability(ctx, s.Analyzer, idea)
		if doability.Fallback {
			fmt.Fprintf(w, "warning: %v\n", doability.Reason)
		}

		topicMatch := TopicMatchScore(idea.TopicTags, userTopics)

		if len(papers) > retainedPapers {
			papers = papers[:retainedPapers]
		}

		scored = append(scored, types.ScoredIdea{
			Idea:            idea,
			Papers:          papers,
			Novelty:         novelty.Value,
			Doability:       doability.Value,
			TopicMatchScore: topicMatch,
			CompositeScore:  Composite(novelty.Value.NoveltyScore, doability.Value.DoabilityScore, topicMatch),
		})

		if err := pace(ctx); err != nil {
			return types.RankedResult{}, err
		}
	}

	// Stable sort keeps input order among equal composites.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CompositeScore > scored[j].CompositeScore
	})

	top := selectDiverse(scored)

	for i := range top {
		synth := synthesizeLiterature(ctx, s.Analyzer, top[i].Idea, top[i].Papers)
		if synth.Fallback {
			fmt.Fprintf(w, "warning: %v\n", synth.Reason)
		}
		top[i].Synthesis = synth.Value
	}

	return types.RankedResult{
		TopIdeas:      top,
		TotalAnalyzed: len(candidates),
	}, nil
}

// pace enforces the mandatory inter-idea delay, honoring cancellation.
func pace(ctx context.Context) error {
	if InterIdeaDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(InterIdeaDelay):
		return nil
	}
}

// selectDiverse greedily picks up to three ideas in score order, skipping
// any whose title shares more than diversityWordLimit whole words with an
// already accepted title. Diversity is a soft preference: when the greedy
// pass cannot fill three slots, the unfiltered top three by score win.
func selectDiverse(scored []types.ScoredIdea) []types.ScoredIdea {
	if len(scored) <= maxSelected {
		return scored
	}

	accepted := []types.ScoredIdea{scored[0]}
	for _, cand := range scored[1:] {
		if len(accepted) >= maxSelected {
			break
		}
		diverse := true
		for _, sel := range accepted {
			if sharedWords(cand.Idea.Title, sel.Idea.Title) > diversityWordLimit {
				diverse = false
				break
			}
		}
		if diverse {
			accepted = append(accepted, cand)
		}
	}

	if len(accepted) < maxSelected {
		return scored[:maxSelected]
	}
	return accepted
}

// sharedWords counts the distinct whole words two titles have in common,
// case-insensitively.
func sharedWords(a, b string) int {
	aw := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(a)) {
		aw[w] = true
	}
	seen := make(map[string]bool)
	n := 0
	for _, w := range strings.Fields(strings.ToLower(b)) {
		if aw[w] && !seen[w] {
			seen[w] = true
			n++
		}
	}
	return n
}
