// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reader

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	response string
	err      error
	prompts  []string
}

func (s *stubService) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const goodReaderJSON = `{
  "summary": "The paper proposes a sparse attention mechanism.",
  "concepts": ["attention", "sparsity"],
  "ideas": [
    {"title": "i1", "description": "d1", "rationale": "r1", "topic_tags": ["nlp"]},
    {"title": "i2", "description": "d2", "rationale": "r2", "topic_tags": ["nlp"]},
    {"title": "i3", "description": "d3", "rationale": "r3", "topic_tags": ["ml"]},
    {"title": "i4", "description": "d4", "rationale": "r4", "topic_tags": ["ml"]}
  ]
}`

func TestGenerateIdeas(t *testing.T) {
	svc := &stubService{response: "Sure!\n" + goodReaderJSON}

	out, err := GenerateIdeas(context.Background(), svc, "paper text here", []string{"nlp", "ml"})
	require.NoError(t, err)

	assert.Equal(t, "The paper proposes a sparse attention mechanism.", out.Summary)
	assert.Equal(t, []string{"attention", "sparsity"}, out.Concepts)
	require.Len(t, out.Ideas, 4)
	assert.Equal(t, "i1", out.Ideas[0].Title)

	require.Len(t, svc.prompts, 1)
	assert.Contains(t, svc.prompts[0], "nlp, ml")
	assert.Contains(t, svc.prompts[0], "paper text here")
}

func TestGenerateIdeasEmptyText(t *testing.T) {
	svc := &stubService{response: goodReaderJSON}
	_, err := GenerateIdeas(context.Background(), svc, "   \n", []string{"nlp"})
	require.Error(t, err)
	assert.Empty(t, svc.prompts, "no service call for empty paper text")
}

func TestGenerateIdeasTruncatesLongText(t *testing.T) {
	svc := &stubService{response: goodReaderJSON}
	long := strings.Repeat("a", maxPaperChars+1000)

	_, err := GenerateIdeas(context.Background(), svc, long, []string{"nlp"})
	require.NoError(t, err)
	require.Len(t, svc.prompts, 1)
	assert.LessOrEqual(t, len(svc.prompts[0]), maxPaperChars+2000, "prompt should carry at most the capped text")
	assert.NotContains(t, svc.prompts[0], strings.Repeat("a", maxPaperChars+1))
}

func TestGenerateIdeasServiceError(t *testing.T) {
	svc := &stubService{err: errors.New("quota exceeded")}
	_, err := GenerateIdeas(context.Background(), svc, "text", []string{"nlp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idea generation call")
}

func TestGenerateIdeasMalformedResponse(t *testing.T) {
	svc := &stubService{response: "no json here"}
	_, err := GenerateIdeas(context.Background(), svc, "text", []string{"nlp"})
	require.Error(t, err)
}

func TestGenerateIdeasTooFewIdeas(t *testing.T) {
	svc := &stubService{response: `{
	  "summary": "s",
	  "concepts": [],
	  "ideas": [
	    {"title": "only one", "description": "d", "rationale": "r", "topic_tags": []}
	  ]
	}`}
	_, err := GenerateIdeas(context.Background(), svc, "text", []string{"nlp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need at least 3")
}
