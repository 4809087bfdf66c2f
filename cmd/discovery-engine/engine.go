// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/discovery-engine/internal/litsearch"
	"github.com/pdiddy/discovery-engine/internal/pdftext"
	"github.com/pdiddy/discovery-engine/internal/pipeline"
	"github.com/pdiddy/discovery-engine/internal/scoring"
	"github.com/pdiddy/discovery-engine/internal/store"
	"github.com/pdiddy/discovery-engine/internal/textanalysis"
	"github.com/pdiddy/discovery-engine/pkg/types"
)

// openStore opens the SQLite store under the configured data directory.
func openStore(cfg types.PipelineConfig) (*store.Store, error) {
	return store.Open(cfg.Store)
}

// analyzer builds the text-analysis client for one stage's AI config.
func analyzer(ctx context.Context, cfg types.AIConfig) (textanalysis.Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no analysis API key: add .secrets/gemini-api-key or set api_key in config")
	}
	return textanalysis.NewGemini(ctx, cfg)
}

// orchestrator wires the full pipeline for the read and search commands.
func orchestrator(ctx context.Context, cfg types.PipelineConfig, st *store.Store) (*pipeline.Orchestrator, error) {
	readSvc, err := analyzer(ctx, cfg.Reader)
	if err != nil {
		return nil, err
	}
	scoreSvc, err := analyzer(ctx, cfg.Scoring.AIConfig)
	if err != nil {
		return nil, err
	}
	return &pipeline.Orchestrator{
		Store:    st,
		Analyzer: readSvc,
		Scorer: &scoring.Scorer{
			Analyzer:    scoreSvc,
			Searcher:    litsearch.NewClient(cfg.Scoring.Search),
			SearchLimit: cfg.Scoring.Search.MaxResults,
		},
		ExtractText: pdftext.ExtractText,
		Out:         os.Stderr,
	}, nil
}

// printYAML writes v to stdout as YAML, the CLI's default output format.
func printYAML(v any) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return enc.Close()
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
