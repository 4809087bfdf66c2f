// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/discovery-engine/pkg/types"
)

const (
	// noveltyPaperCap is how many retrieved papers inform the novelty prompt.
	noveltyPaperCap = 10

	// noveltyAbstractChars truncates each abstract in the novelty prompt.
	noveltyAbstractChars = 300

	// synthesisPaperCap is how many retained papers inform the synthesis prompt.
	synthesisPaperCap = 8

	// synthesisAbstractChars truncates each abstract in the synthesis prompt.
	synthesisAbstractChars = 200
)

var noveltyPromptTmpl = template.Must(template.New("novelty").Parse(`Assess the novelty of this research idea based on existing literature.

Research Idea:
Title: {{.Title}}
Description: {{.Description}}

Related Papers Found:
{{.Papers}}

Assess:
1. Has this specific idea been extensively explored? (Yes/Partially/No)
2. Research maturity level: Unexplored / Emerging / Active / Saturated
3. What specific gap or unexplored angle does this idea address?
4. Novelty score: Rate 1-5 (1=extensively explored, 5=highly novel)

Return ONLY valid JSON:
{
  "explored": "Yes/Partially/No",
  "maturity": "Unexplored/Emerging/Active/Saturated",
  "gap": "description of gap",
  "novelty_score": 1-5
}`))

var doabilityPromptTmpl = template.Must(template.New("doability").Parse(`Assess the feasibility and doability of this research idea.

Research Idea:
Title: {{.Title}}
Description: {{.Description}}

Based on the idea and typical research resources, assess:
1. Data availability: Are datasets available or need to be collected? (Available/Partially/Need to Collect)
2. Methodology complexity: Can standard methods be used? (Standard/Moderate/Novel Methods Needed)
3. Estimated timeline: (3 months / 6 months / 1 year+)
4. Required expertise: (Undergraduate / Masters / PhD level)
5. Doability score: Rate 1-5 (1=very difficult, 5=highly doable)

Return ONLY valid JSON:
{
  "data_availability": "Available/Partially/Need to Collect",
  "methodology": "Standard/Moderate/Novel Methods Needed",
  "timeline": "3 months/6 months/1 year+",
  "required_expertise": "Undergraduate/Masters/PhD level",
  "doability_score": 1-5
}`))

var synthesisPromptTmpl = template.Must(template.New("synthesis").Parse(`Synthesize the literature for this research idea.

Research Idea: {{.Title}}

Related Papers:
{{.Papers}}

Create a synthesis that includes:
1. A brief overview of what has been done (2-3 sentences)
2. Key papers categorized as: Foundational Work, Recent Advances, or Identifies Gaps
3. What's missing or unexplored
4. Suggested approach (methodology, potential datasets, concrete next steps)

Return ONLY valid JSON:
{
  "overview": "What has been done...",
  "key_papers": [
    {"paper_index": 1, "category": "Foundational/Recent/Gap", "summary": "2 sentence summary"}
  ],
  "whats_missing": "The specific gap...",
  "suggested_approach": "Concrete next steps..."
}`))

// formatNoveltyPapers renders up to ten retrieved papers for the novelty
// prompt, truncating each abstract.
func formatNoveltyPapers(papers []types.PaperRecord) string {
	var parts []string
	for i, p := range papers {
		if i >= noveltyPaperCap {
			break
		}
		parts = append(parts, fmt.Sprintf("Title: %s\nYear: %d\nAbstract: %s...",
			p.Title, p.Year, truncate(p.Abstract, noveltyAbstractChars)))
	}
	return strings.Join(parts, "\n\n")
}

// formatSynthesisPapers renders up to eight retained papers, numbered from
// one so the model can reference them by paper_index.
func formatSynthesisPapers(papers []types.PaperRecord) string {
	var parts []string
	for i, p := range papers {
		if i >= synthesisPaperCap {
			break
		}
		parts = append(parts, fmt.Sprintf("[%d] %s (%d)\n%s...",
			i+1, p.Title, p.Year, truncate(p.Abstract, synthesisAbstractChars)))
	}
	return strings.Join(parts, "\n\n")
}

// truncate caps s at n characters, never splitting a multi-byte rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
