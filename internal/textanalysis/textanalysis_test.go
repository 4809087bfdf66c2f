// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textanalysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, false},
		{"prose around object", "Here you go:\n{\"a\":1}\nHope that helps!", `{"a":1}`, false},
		{"markdown fence", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"nested objects span to last brace", `x {"a":{"b":2}} y`, `{"a":{"b":2}}`, false},
		{"no braces", "no json here", "", true},
		{"only opening brace", "{oops", "", true},
		{"closing before opening", "} then {", "", true},
		{"empty string", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutcome(t *testing.T) {
	ok := Ok(42)
	assert.Equal(t, 42, ok.Value)
	assert.False(t, ok.Fallback)
	assert.NoError(t, ok.Reason)

	cause := errors.New("service down")
	deg := Degraded(7, cause)
	assert.Equal(t, 7, deg.Value)
	assert.True(t, deg.Fallback)
	assert.ErrorIs(t, deg.Reason, cause)
}
