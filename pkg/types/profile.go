// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ExpertiseLevel classifies a researcher's career stage.
type ExpertiseLevel string

const (
	ExpertiseUndergraduate ExpertiseLevel = "Undergraduate Student"
	ExpertisePhDStudent    ExpertiseLevel = "PhD Student"
	ExpertisePostdoc       ExpertiseLevel = "Postdoc"
	ExpertiseAssistantProf ExpertiseLevel = "Assistant Professor"
	ExpertiseSeniorProf    ExpertiseLevel = "Associate/Full Professor"
	ExpertiseIndustry      ExpertiseLevel = "Industry Researcher"
)

// ResearchStyle describes the dominant methodology in a researcher's work.
type ResearchStyle string

const (
	StyleEmpirical   ResearchStyle = "Empirical"
	StyleTheoretical ResearchStyle = "Theoretical"
	StyleApplied     ResearchStyle = "Applied"
	StyleMixed       ResearchStyle = "Mixed"
)

// ResourceAccess estimates the compute and funding available to a researcher.
type ResourceAccess string

const (
	ResourcesLimited   ResourceAccess = "Limited"
	ResourcesModerate  ResourceAccess = "Moderate"
	ResourcesExtensive ResourceAccess = "Extensive"
)

// validExpertiseLevels is the set of accepted ExpertiseLevel values.
var validExpertiseLevels = map[ExpertiseLevel]bool{
	ExpertiseUndergraduate: true,
	ExpertisePhDStudent:    true,
	ExpertisePostdoc:       true,
	ExpertiseAssistantProf: true,
	ExpertiseSeniorProf:    true,
	ExpertiseIndustry:      true,
}

var validResearchStyles = map[ResearchStyle]bool{
	StyleEmpirical:   true,
	StyleTheoretical: true,
	StyleApplied:     true,
	StyleMixed:       true,
}

var validResourceAccess = map[ResourceAccess]bool{
	ResourcesLimited:   true,
	ResourcesModerate:  true,
	ResourcesExtensive: true,
}

// ResearcherProfile is the structured profile inferred from a researcher's
// self-description or bibliometric record. Enum fields always hold one of
// the declared values after Normalize; the analysis service's output is
// never trusted to be well-formed.
type ResearcherProfile struct {
	// ExpertiseLevel is the researcher's career stage.
	ExpertiseLevel ExpertiseLevel `json:"expertise_level" yaml:"expertise_level"`

	// ResearchAreas lists 3-5 broad fields (e.g. "Natural Language Processing").
	ResearchAreas []string `json:"research_areas" yaml:"research_areas"`

	// SpecificTopics lists 5-10 narrow topics (e.g. "Few-shot Learning").
	SpecificTopics []string `json:"specific_topics" yaml:"specific_topics"`

	// TechnicalSkills lists tools and frameworks (e.g. "PyTorch").
	TechnicalSkills []string `json:"technical_skills" yaml:"technical_skills"`

	// ResearchStyle is the dominant methodology.
	ResearchStyle ResearchStyle `json:"research_style" yaml:"research_style"`

	// ResourceAccess estimates available compute and funding.
	ResourceAccess ResourceAccess `json:"resource_access" yaml:"resource_access"`

	// PublicationCount is the number of publications, 0 when unknown.
	PublicationCount int `json:"publication_count" yaml:"publication_count"`

	// HIndex is the researcher's h-index, 0 when unknown.
	HIndex int `json:"h_index" yaml:"h_index"`

	// NoveltyPreference in [0,1] measures appetite for risky, novel ideas.
	NoveltyPreference float64 `json:"novelty_preference" yaml:"novelty_preference"`

	// DoabilityPreference in [0,1] measures preference for executable projects.
	DoabilityPreference float64 `json:"doability_preference" yaml:"doability_preference"`
}

// Documented neutral defaults substituted when the analysis service omits
// or corrupts a profile field.
const (
	DefaultNoveltyPreference   = 0.5
	DefaultDoabilityPreference = 0.7
)

// DefaultProfile returns the safe profile returned when inference fails
// outright. A stated level, when known, wins over the "PhD Student" default.
func DefaultProfile(stated ExpertiseLevel) ResearcherProfile {
	level := ExpertisePhDStudent
	if validExpertiseLevels[stated] {
		level = stated
	}
	return ResearcherProfile{
		ExpertiseLevel:      level,
		ResearchAreas:       []string{"Machine Learning"},
		SpecificTopics:      []string{},
		TechnicalSkills:     []string{},
		ResearchStyle:       StyleMixed,
		ResourceAccess:      ResourcesModerate,
		NoveltyPreference:   DefaultNoveltyPreference,
		DoabilityPreference: DefaultDoabilityPreference,
	}
}

// Normalize substitutes documented defaults for missing or invalid fields
// so that no profile field is ever left undefined regardless of what the
// analysis service returned.
func (p *ResearcherProfile) Normalize() {
	if !validExpertiseLevels[p.ExpertiseLevel] {
		p.ExpertiseLevel = ExpertisePhDStudent
	}
	if len(p.ResearchAreas) == 0 {
		p.ResearchAreas = []string{"Machine Learning"}
	}
	if p.SpecificTopics == nil {
		p.SpecificTopics = []string{}
	}
	if p.TechnicalSkills == nil {
		p.TechnicalSkills = []string{}
	}
	if !validResearchStyles[p.ResearchStyle] {
		p.ResearchStyle = StyleMixed
	}
	if !validResourceAccess[p.ResourceAccess] {
		p.ResourceAccess = ResourcesModerate
	}
	if p.PublicationCount < 0 {
		p.PublicationCount = 0
	}
	if p.HIndex < 0 {
		p.HIndex = 0
	}
	if p.NoveltyPreference < 0 || p.NoveltyPreference > 1 {
		p.NoveltyPreference = DefaultNoveltyPreference
	}
	if p.DoabilityPreference < 0 || p.DoabilityPreference > 1 {
		p.DoabilityPreference = DefaultDoabilityPreference
	}
}

// ExpertiseForHIndex maps an h-index to a career stage. Used by the offline
// bibliometric fallback when the analysis service cannot be consulted.
func ExpertiseForHIndex(h int) ExpertiseLevel {
	switch {
	case h < 5:
		return ExpertisePhDStudent
	case h < 15:
		return ExpertisePostdoc
	case h < 30:
		return ExpertiseAssistantProf
	default:
		return ExpertiseSeniorProf
	}
}

// Publication is one entry in a bibliometric record.
type Publication struct {
	Title     string `json:"title" yaml:"title"`
	Year      int    `json:"year" yaml:"year"`
	Citations int    `json:"citations" yaml:"citations"`
	Venue     string `json:"venue" yaml:"venue"`
}

// BibliometricRecord holds a researcher's publication metrics, typically
// imported from an academic profile page.
type BibliometricRecord struct {
	// Name is the researcher's name. A placeholder is acceptable.
	Name string `json:"name" yaml:"name"`

	// Affiliation is the researcher's institution, empty when unknown.
	Affiliation string `json:"affiliation" yaml:"affiliation"`

	// Interests lists stated research interests.
	Interests []string `json:"interests" yaml:"interests"`

	// Publications lists the researcher's papers, most cited first.
	Publications []Publication `json:"publications" yaml:"publications"`

	// HIndex is the researcher's h-index, 0 when unknown.
	HIndex int `json:"h_index" yaml:"h_index"`

	// TotalCitations is the citation count across all publications.
	TotalCitations int `json:"total_citations" yaml:"total_citations"`
}

// User owns a researcher profile and the papers uploaded for analysis.
type User struct {
	ID          string            `json:"id" yaml:"id"`
	CreatedAt   time.Time         `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" yaml:"updated_at"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	ScholarURL  string            `json:"scholar_url,omitempty" yaml:"scholar_url,omitempty"`
	Profile     ResearcherProfile `json:"profile" yaml:"profile"`
}
