// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CandidateIdea is one research idea proposed by the reading stage. The
// user selects exactly three candidates, by zero-based index, for deep
// literature scoring.
type CandidateIdea struct {
	// Title is a short name for the idea.
	Title string `json:"title" yaml:"title"`

	// Description explains the idea in a few sentences.
	Description string `json:"description" yaml:"description"`

	// Rationale explains why the idea follows from the analyzed paper.
	Rationale string `json:"rationale" yaml:"rationale"`

	// TopicTags lists the topics the idea touches, used for topic matching.
	TopicTags []string `json:"topic_tags" yaml:"topic_tags"`
}

// PaperRecord is a document collected by literature search. At most 20 are
// requested per idea and only those with a non-empty abstract are kept; the
// top 8 are retained downstream.
type PaperRecord struct {
	Title    string `json:"title" yaml:"title"`
	Abstract string `json:"abstract" yaml:"abstract"`

	// Year is the publication year, 0 when the source omitted it.
	Year int `json:"year" yaml:"year"`

	// Citations is the citation count reported by the search service.
	Citations int `json:"citations" yaml:"citations"`

	// Authors holds at most the first three author names.
	Authors []string `json:"authors" yaml:"authors"`

	URL string `json:"url" yaml:"url"`
}

// NoveltyAssessment is the analysis service's judgment of how novel an idea
// is relative to retrieved literature.
type NoveltyAssessment struct {
	// Explored is one of "Yes", "Partially", "No" ("Unknown" on fallback).
	Explored string `json:"explored" yaml:"explored"`

	// Maturity is one of "Unexplored", "Emerging", "Active", "Saturated".
	Maturity string `json:"maturity" yaml:"maturity"`

	// Gap describes the unexplored angle the idea addresses.
	Gap string `json:"gap" yaml:"gap"`

	// NoveltyScore is in [1,5]; 5 is highly novel.
	NoveltyScore float64 `json:"novelty_score" yaml:"novelty_score"`
}

// NeutralNovelty is the fallback substituted when a novelty assessment call
// fails. The midpoint score avoids unfairly tanking an otherwise-good idea.
func NeutralNovelty() NoveltyAssessment {
	return NoveltyAssessment{
		Explored:     "Unknown",
		Maturity:     "Unknown",
		Gap:          "Unable to assess",
		NoveltyScore: 3,
	}
}

// DoabilityAssessment is the analysis service's judgment of how executable
// an idea is with typical research resources.
type DoabilityAssessment struct {
	// DataAvailability is "Available", "Partially", or "Need to Collect".
	DataAvailability string `json:"data_availability" yaml:"data_availability"`

	// Methodology is "Standard", "Moderate", or "Novel Methods Needed".
	Methodology string `json:"methodology" yaml:"methodology"`

	// Timeline is an estimate such as "6 months" or "1 year+".
	Timeline string `json:"timeline" yaml:"timeline"`

	// RequiredExpertise is the level needed to execute the idea.
	RequiredExpertise string `json:"required_expertise" yaml:"required_expertise"`

	// DoabilityScore is in [1,5]; 5 is highly doable.
	DoabilityScore float64 `json:"doability_score" yaml:"doability_score"`
}

// NeutralDoability is the fallback substituted when a doability assessment
// call fails.
func NeutralDoability() DoabilityAssessment {
	return DoabilityAssessment{
		DataAvailability:  "Unknown",
		Methodology:       "Unknown",
		Timeline:          "Unknown",
		RequiredExpertise: "Unknown",
		DoabilityScore:    3,
	}
}

// KeyPaper categorizes one retained paper within a literature synthesis.
type KeyPaper struct {
	// PaperIndex is the 1-based index into the idea's retained papers.
	PaperIndex int `json:"paper_index" yaml:"paper_index"`

	// Category is one of "Foundational", "Recent", "Gap".
	Category string `json:"category" yaml:"category"`

	// Summary is a two sentence summary of the paper's contribution.
	Summary string `json:"summary" yaml:"summary"`
}

// LiteratureSynthesis summarizes the retrieved literature for one selected
// idea: what exists, what is missing, and how to proceed.
type LiteratureSynthesis struct {
	Overview          string     `json:"overview" yaml:"overview"`
	KeyPapers         []KeyPaper `json:"key_papers" yaml:"key_papers"`
	WhatsMissing      string     `json:"whats_missing" yaml:"whats_missing"`
	SuggestedApproach string     `json:"suggested_approach" yaml:"suggested_approach"`
}

// PlaceholderSynthesis is the fallback substituted when a synthesis call
// fails; the ranking result is still returned.
func PlaceholderSynthesis() LiteratureSynthesis {
	return LiteratureSynthesis{
		Overview:          "Unable to synthesize",
		KeyPapers:         []KeyPaper{},
		WhatsMissing:      "Unable to assess",
		SuggestedApproach: "Unable to provide",
	}
}

// ScoredIdea wraps a candidate idea with its literature evidence, both
// assessments, and the composite score used for ranking. Computed once per
// analysis run and immutable thereafter.
type ScoredIdea struct {
	Idea CandidateIdea `json:"idea" yaml:"idea"`

	// Papers holds at most 8 retained literature records.
	Papers []PaperRecord `json:"papers" yaml:"papers"`

	Novelty   NoveltyAssessment   `json:"novelty_assessment" yaml:"novelty_assessment"`
	Doability DoabilityAssessment `json:"doability_assessment" yaml:"doability_assessment"`

	// TopicMatchScore is in [0,5], computed locally without a service call.
	TopicMatchScore float64 `json:"topic_match_score" yaml:"topic_match_score"`

	// CompositeScore = 0.3*novelty + 0.4*doability + 0.3*topic_match.
	CompositeScore float64 `json:"composite_score" yaml:"composite_score"`

	// Synthesis is populated only for ideas selected into the final top 3.
	Synthesis LiteratureSynthesis `json:"literature_synthesis" yaml:"literature_synthesis"`
}

// RankedResult is the output of the scoring stage.
type RankedResult struct {
	// TopIdeas holds the selected ideas, best first, at most three.
	TopIdeas []ScoredIdea `json:"top_ideas" yaml:"top_ideas"`

	// TotalAnalyzed is the number of candidate ideas scored.
	TotalAnalyzed int `json:"total_ideas_analyzed" yaml:"total_ideas_analyzed"`
}

// ReaderOutput is the result of the reading stage: a paper summary, the key
// concepts, and the candidate ideas offered for selection.
type ReaderOutput struct {
	Summary  string          `json:"summary" yaml:"summary"`
	Concepts []string        `json:"concepts" yaml:"concepts"`
	Ideas    []CandidateIdea `json:"ideas" yaml:"ideas"`
}
