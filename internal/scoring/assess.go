// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/discovery-engine/internal/textanalysis"
	"github.com/pdiddy/discovery-engine/pkg/types"
)

// assessNovelty asks the text-analysis service how novel the idea is given
// the retrieved literature. Any failure degrades to the neutral midpoint
// assessment so a single flaky call cannot unfairly tank a good idea.
func assessNovelty(ctx context.Context, svc textanalysis.Service, idea types.CandidateIdea, papers []types.PaperRecord) textanalysis.Outcome[types.NoveltyAssessment] {
	var buf bytes.Buffer
	err := noveltyPromptTmpl.Execute(&buf, struct {
		Title, Description, Papers string
	}{idea.Title, idea.Description, formatNoveltyPapers(papers)})
	if err != nil {
		return textanalysis.Degraded(types.NeutralNovelty(), fmt.Errorf("rendering novelty prompt: %w", err))
	}

	var a types.NoveltyAssessment
	if err := completeInto(ctx, svc, buf.String(), &a); err != nil {
		return textanalysis.Degraded(types.NeutralNovelty(), fmt.Errorf("novelty assessment: %w", err))
	}
	if a.NoveltyScore < 1 || a.NoveltyScore > 5 {
		return textanalysis.Degraded(types.NeutralNovelty(), fmt.Errorf("novelty score %v out of range [1,5]", a.NoveltyScore))
	}
	return textanalysis.Ok(a)
}

// assessDoability asks the service how executable the idea is. Failure
// degrades to the neutral midpoint.
func assessDoability(ctx context.Context, svc textanalysis.Service, idea types.CandidateIdea) textanalysis.Outcome[types.DoabilityAssessment] {
	var buf bytes.Buffer
	err := doabilityPromptTmpl.Execute(&buf, struct {
		Title, Description string
	}{idea.Title, idea.Description})
	if err != nil {
		return textanalysis.Degraded(types.NeutralDoability(), fmt.Errorf("rendering doability prompt: %w", err))
	}

	var a types.DoabilityAssessment
	if err := completeInto(ctx, svc, buf.String(), &a); err != nil {
		return textanalysis.Degraded(types.NeutralDoability(), fmt.Errorf("doability assessment: %w", err))
	}
	if a.DoabilityScore < 1 || a.DoabilityScore > 5 {
		return textanalysis.Degraded(types.NeutralDoability(), fmt.Errorf("doability score %v out of range [1,5]", a.DoabilityScore))
	}
	return textanalysis.Ok(a)
}

// synthesizeLiterature produces the literature synthesis for one selected
// idea over its retained papers. Failure degrades to the "unable to
// synthesize" placeholder rather than failing the ranking.
func synthesizeLiterature(ctx context.Context, svc textanalysis.Service, idea types.CandidateIdea, papers []types.PaperRecord) textanalysis.Outcome[types.LiteratureSynthesis] {
	var buf bytes.Buffer
	err := synthesisPromptTmpl.Execute(&buf, struct {
		Title, Papers string
	}{idea.Title, formatSynthesisPapers(papers)})
	if err != nil {
		return textanalysis.Degraded(types.PlaceholderSynthesis(), fmt.Errorf("rendering synthesis prompt: %w", err))
	}

	var s types.LiteratureSynthesis
	if err := completeInto(ctx, svc, buf.String(), &s); err != nil {
		return textanalysis.Degraded(types.PlaceholderSynthesis(), fmt.Errorf("literature synthesis: %w", err))
	}
	return textanalysis.Ok(s)
}

// completeInto runs one service call, extracts the JSON span, and parses it
// into out.
func completeInto(ctx context.Context, svc textanalysis.Service, prompt string, out any) error {
	raw, err := svc.Complete(ctx, prompt)
	if err != nil {
		return err
	}
	span, err := textanalysis.ExtractJSON(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(span), out)
}
