// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reader turns extracted paper text and user-selected topics into
// a summary, key concepts, and candidate research ideas. Unlike the
// per-idea assessments in the scoring stage, a failed generation call fails
// the read phase outright; there is no useful neutral default for an empty
// idea list.
package reader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/discovery-engine/internal/textanalysis"
	"github.com/pdiddy/discovery-engine/pkg/types"
)

// maxPaperChars caps how much paper text is placed in the prompt.
const maxPaperChars = 30000

// minIdeas is the smallest candidate set worth offering: the user must
// later select exactly three.
const minIdeas = 3

var ideaPromptTmpl = template.Must(template.New("reader").Parse(`You are a research idea generator. Read this paper and propose follow-up research ideas relevant to the given topics.

TOPICS OF INTEREST:
{{.Topics}}

PAPER TEXT:
{{.PaperText}}

Return ONLY valid JSON:
{
  "summary": "3-5 sentence summary of the paper",
  "concepts": ["key concept 1", "key concept 2"],
  "ideas": [
    {
      "title": "short idea title",
      "description": "what the idea is, in a few sentences",
      "rationale": "why this idea follows from the paper",
      "topic_tags": ["tag1", "tag2"]
    }
  ]
}

Propose 5-8 ideas. Every idea must carry topic_tags drawn from the paper's vocabulary and the topics of interest. Return ONLY the JSON object, no other text.`))

// GenerateIdeas runs one text-analysis call over the paper text and parses
// the reader output. Any service or parse failure is returned as an error;
// the read phase treats it as fatal.
func GenerateIdeas(ctx context.Context, svc textanalysis.Service, paperText string, topics []string) (types.ReaderOutput, error) {
	var out types.ReaderOutput

	if strings.TrimSpace(paperText) == "" {
		return out, fmt.Errorf("paper text is empty")
	}
	if len(paperText) > maxPaperChars {
		paperText = paperText[:maxPaperChars]
	}

	var buf bytes.Buffer
	err := ideaPromptTmpl.Execute(&buf, struct {
		Topics    string
		PaperText string
	}{strings.Join(topics, ", "), paperText})
	if err != nil {
		return out, fmt.Errorf("rendering reader prompt: %w", err)
	}

	raw, err := svc.Complete(ctx, buf.String())
	if err != nil {
		return out, fmt.Errorf("idea generation call: %w", err)
	}

	span, err := textanalysis.ExtractJSON(raw)
	if err != nil {
		return out, fmt.Errorf("idea generation response: %w", err)
	}

	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return out, fmt.Errorf("parsing reader output: %w", err)
	}

	if len(out.Ideas) < minIdeas {
		return out, fmt.Errorf("reader produced %d ideas, need at least %d", len(out.Ideas), minIdeas)
	}
	return out, nil
}
