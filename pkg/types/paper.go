// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Paper is an uploaded research paper PDF registered for analysis. Paper
// metadata beyond the filename is optional; the reading stage works from
// the extracted text alone.
type Paper struct {
	// ID is the paper's unique identifier.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title, empty when not supplied at upload.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Authors lists author names in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Venue is the journal or conference, empty when unknown.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// DOI is the paper's DOI, empty when unknown.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// PDFPath is the local filesystem path to the PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// PDFSizeBytes is the size of the PDF file.
	PDFSizeBytes int64 `json:"pdf_size_bytes" yaml:"pdf_size_bytes"`

	// UserID links the paper to its owning user, empty for anonymous uploads.
	UserID string `json:"user_id,omitempty" yaml:"user_id,omitempty"`

	UploadedAt time.Time `json:"uploaded_at" yaml:"uploaded_at"`
}

// Reference is one literature reference persisted for a ranked idea,
// owned by the idea (cascade-deleted with it).
type Reference struct {
	ID     string `json:"id" yaml:"id"`
	IdeaID string `json:"idea_id" yaml:"idea_id"`

	Title    string   `json:"title" yaml:"title"`
	Authors  []string `json:"authors" yaml:"authors"`
	Year     int      `json:"year" yaml:"year"`
	Venue    string   `json:"venue,omitempty" yaml:"venue,omitempty"`
	Abstract string   `json:"abstract" yaml:"abstract"`
	URL      string   `json:"url" yaml:"url"`

	// CitationCount is the count reported by the literature search service.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// Category is "Foundational", "Recent", or "Gap" when the synthesis
	// classified this reference, empty otherwise.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Summary is the synthesis's short summary of the reference, when given.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// RankedIdea is a ScoredIdea persisted with its final rank for a job.
type RankedIdea struct {
	ID    string `json:"id" yaml:"id"`
	JobID string `json:"job_id" yaml:"job_id"`

	// Rank is 1-based; 1 is the best idea.
	Rank int `json:"rank" yaml:"rank"`

	ScoredIdea `yaml:",inline"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// References holds the persisted literature records for this idea.
	References []Reference `json:"references,omitempty" yaml:"references,omitempty"`
}

// JobResults is the retrievable output of a completed job: the read phase's
// paper summary and concept list plus the ranked ideas, best first.
type JobResults struct {
	Summary  string       `json:"summary" yaml:"summary"`
	Concepts []string     `json:"concepts" yaml:"concepts"`
	Ideas    []RankedIdea `json:"ideas" yaml:"ideas"`
}
