// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textanalysis defines the boundary to the external text-analysis
// service. The service takes a task prompt over free text and answers with
// free-form text that usually, but not always, contains a JSON object;
// callers extract the first balanced JSON span and parse that.
package textanalysis

import (
	"context"
	"fmt"
	"strings"
)

// Service is the text-analysis collaborator. Implementations may fail,
// time out, or return text with no JSON at all; callers decide whether a
// failure degrades to a documented default or fails the step.
type Service interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ExtractJSON locates the first '{' and the last '}' in s and returns the
// substring between them inclusive. The service is not guaranteed to return
// only JSON, so prose before or after the object is tolerated.
func ExtractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}

// Outcome carries a value from an assessment call together with whether it
// is the real result or a documented fallback. Components that must never
// fail the pipeline on a service hiccup return Outcome instead of an error.
type Outcome[T any] struct {
	// Value is the parsed result, or the fallback when Fallback is true.
	Value T

	// Fallback reports that the service call or parse failed and Value is
	// the documented default for this assessment.
	Fallback bool

	// Reason is the underlying failure when Fallback is true, nil otherwise.
	Reason error
}

// Ok wraps a successfully obtained value.
func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Degraded wraps a documented fallback value with the failure that caused it.
func Degraded[T any](v T, reason error) Outcome[T] {
	return Outcome[T]{Value: v, Fallback: true, Reason: reason}
}
