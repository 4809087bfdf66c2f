// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textanalysis

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/pdiddy/discovery-engine/pkg/types"
)

// Gemini implements Service over the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed Service from an AIConfig.
func NewGemini(ctx context.Context, cfg types.AIConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("text-analysis API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Gemini{client: client, model: model}, nil
}

// Complete sends prompt to the model and returns the response text.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini request: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("Gemini returned an empty response")
	}
	return text, nil
}
