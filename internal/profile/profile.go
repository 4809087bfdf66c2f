// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile infers a structured researcher profile from a free-text
// self-description or a bibliometric record. Inference delegates to the
// text-analysis service but never propagates a service failure to the
// caller: any error is downgraded to a documented default profile so that
// an analysis-service hiccup cannot fail the pipeline.
package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/discovery-engine/internal/textanalysis"
	"github.com/pdiddy/discovery-engine/pkg/types"
)

// InferFromText analyzes a researcher's self-description. description must
// be non-empty; that is the caller's validation duty, enforced before any
// service call. When statedLevel is a valid expertise level it overrides
// whatever the service inferred, because explicit user input always wins.
//
// The returned Outcome is Degraded (carrying the default profile and the
// failure reason) when the service errs, returns no JSON, or returns JSON
// that does not parse. It is never accompanied by an error.
func InferFromText(ctx context.Context, svc textanalysis.Service, description string, statedLevel types.ExpertiseLevel) textanalysis.Outcome[types.ResearcherProfile] {
	var buf bytes.Buffer
	err := textPromptTmpl.Execute(&buf, struct {
		Description string
		StatedLevel types.ExpertiseLevel
	}{description, statedLevel})
	if err != nil {
		return textanalysis.Degraded(types.DefaultProfile(statedLevel), fmt.Errorf("rendering profile prompt: %w", err))
	}

	p, err := completeProfile(ctx, svc, buf.String())
	if err != nil {
		return textanalysis.Degraded(types.DefaultProfile(statedLevel), err)
	}

	if statedLevel != "" {
		p.ExpertiseLevel = statedLevel
		p.Normalize()
	}
	return textanalysis.Ok(p)
}

// InferFromBibliometrics analyzes a publication record. Missing h-index and
// publication counts default to zero. On service failure the fallback
// profile derives the expertise level from the h-index alone and reuses the
// first three stated interests as research areas.
func InferFromBibliometrics(ctx context.Context, svc textanalysis.Service, record types.BibliometricRecord) textanalysis.Outcome[types.ResearcherProfile] {
	name := record.Name
	if name == "" {
		name = "Unknown"
	}

	var buf bytes.Buffer
	err := bibliometricPromptTmpl.Execute(&buf, struct {
		Name, Affiliation       string
		HIndex, TotalCitations  int
		Interests, Publications string
	}{
		Name:           name,
		Affiliation:    record.Affiliation,
		HIndex:         record.HIndex,
		TotalCitations: record.TotalCitations,
		Interests:      strings.Join(record.Interests, ", "),
		Publications:   formatPublications(record.Publications),
	})
	if err != nil {
		return textanalysis.Degraded(bibliometricFallback(record), fmt.Errorf("rendering bibliometric prompt: %w", err))
	}

	p, err := completeProfile(ctx, svc, buf.String())
	if err != nil {
		return textanalysis.Degraded(bibliometricFallback(record), err)
	}

	// The record's own counts are authoritative over the model's estimates.
	p.HIndex = record.HIndex
	p.PublicationCount = len(record.Publications)
	p.Normalize()
	return textanalysis.Ok(p)
}

// completeProfile runs one service call and parses the JSON span into a
// normalized profile.
func completeProfile(ctx context.Context, svc textanalysis.Service, prompt string) (types.ResearcherProfile, error) {
	var p types.ResearcherProfile

	raw, err := svc.Complete(ctx, prompt)
	if err != nil {
		return p, fmt.Errorf("profile analysis call: %w", err)
	}

	span, err := textanalysis.ExtractJSON(raw)
	if err != nil {
		return p, fmt.Errorf("profile analysis response: %w", err)
	}

	if err := json.Unmarshal([]byte(span), &p); err != nil {
		return p, fmt.Errorf("parsing profile JSON: %w", err)
	}

	p.Normalize()
	return p, nil
}

// bibliometricFallback is the offline default profile for a record: the
// expertise level comes from the h-index thresholds and the first three
// stated interests stand in for research areas.
func bibliometricFallback(record types.BibliometricRecord) types.ResearcherProfile {
	p := types.DefaultProfile(types.ExpertiseForHIndex(record.HIndex))
	if len(record.Interests) > 0 {
		n := len(record.Interests)
		if n > 3 {
			n = 3
		}
		p.ResearchAreas = append([]string{}, record.Interests[:n]...)
	}
	p.HIndex = record.HIndex
	p.PublicationCount = len(record.Publications)
	return p
}
