// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/discovery-engine/pkg/types"
)

// textPromptTmpl turns a researcher's free-text self-description into a
// structured profile. The model is asked for JSON only, but the response is
// still scanned for the first balanced JSON span before parsing.
var textPromptTmpl = template.Must(template.New("profile-text").Parse(`You are a research profile analyzer. Analyze this researcher's description and create a structured profile.

RESEARCHER'S DESCRIPTION:
{{.Description}}
{{if .StatedLevel}}
STATED EXPERIENCE LEVEL: {{.StatedLevel}}
{{end}}
Extract and infer the following information, returning ONLY valid JSON:

{
  "expertise_level": "Undergraduate Student" | "PhD Student" | "Postdoc" | "Assistant Professor" | "Associate/Full Professor" | "Industry Researcher",
  "research_areas": ["area1", "area2"],
  "specific_topics": ["topic1", "topic2"],
  "technical_skills": ["skill1", "skill2"],
  "research_style": "Empirical" | "Theoretical" | "Applied" | "Mixed",
  "resource_access": "Limited" | "Moderate" | "Extensive",
  "publication_count": 0,
  "h_index": 0,
  "novelty_preference": 0.5,
  "doability_preference": 0.7
}

GUIDELINES:
- research_areas: 3-5 broad fields such as "Machine Learning", "Bioinformatics", "Robotics"
- specific_topics: 5-10 specific methods, models, or subfields mentioned
- technical_skills: frameworks, languages, and tools explicitly mentioned
- research_style: "Empirical" for experiments and benchmarks, "Theoretical" for proofs and foundations, "Applied" for real-world systems, "Mixed" otherwise
- resource_access: "Limited" for early-career with no compute mentioned, "Moderate" for PhD/postdoc at a known institution, "Extensive" for professors, industry, or large compute
- novelty_preference: 0-1, higher when the description favors novel or risky directions
- doability_preference: 0-1, higher when the description favors feasible, practical projects

Return ONLY the JSON object, no other text.`))

// bibliometricPromptTmpl turns a publication record into a structured profile.
var bibliometricPromptTmpl = template.Must(template.New("profile-biblio").Parse(`You are a research profile analyzer. Analyze this researcher's publication record and create a structured profile.

RESEARCHER PROFILE:
Name: {{.Name}}
Affiliation: {{.Affiliation}}
H-Index: {{.HIndex}}
Total Citations: {{.TotalCitations}}
Stated Interests: {{.Interests}}

TOP PUBLICATIONS:
{{.Publications}}

Based on this publication record, infer and return ONLY valid JSON with the fields: expertise_level, research_areas, specific_topics, technical_skills, research_style, resource_access, publication_count, h_index, novelty_preference, doability_preference.

INFERENCE GUIDELINES:
- expertise_level from h-index: below 5 suggests "PhD Student", 5-14 "Postdoc", 15-29 "Assistant Professor", 30 and above "Associate/Full Professor"; an industry affiliation suggests "Industry Researcher"
- research_areas from publication venues and topics
- specific_topics from paper titles and stated interests
- research_style from the balance of empirical benchmarks versus theory papers
- resource_access from affiliation and publication scale
- novelty_preference and doability_preference in 0-1 from the publication pattern

Return ONLY the JSON object, no other text.`))

// formatPublications renders the top publications for the prompt, most
// cited first, capped at ten entries.
func formatPublications(pubs []types.Publication) string {
	var b strings.Builder
	for i, p := range pubs {
		if i >= 10 {
			break
		}
		year := "N/A"
		if p.Year > 0 {
			year = fmt.Sprintf("%d", p.Year)
		}
		fmt.Fprintf(&b, "- %s (%s) - %d citations\n", p.Title, year, p.Citations)
	}
	return b.String()
}
