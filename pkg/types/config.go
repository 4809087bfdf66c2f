// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the discovery-engine
// pipeline: researcher profiles, candidate and scored ideas, analysis jobs
// with their state machine, and per-stage configuration.
package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "discovery-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call the text-analysis service.
type AIConfig struct {
	// Model is the model identifier (default "gemini-2.5-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// SearchConfig holds settings for the literature search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of papers requested per idea (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// APIKey is an optional literature-search API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// ScoringConfig holds settings for the idea scoring and ranking stage.
type ScoringConfig struct {
	AIConfig `yaml:",inline"`

	// Search configures the per-idea literature search.
	Search SearchConfig `json:"search" yaml:"search"`
}

// StoreConfig holds settings for the persistence layer.
type StoreConfig struct {
	// DataDir is the directory holding the SQLite database and uploads/.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Profile AIConfig      `json:"profile" yaml:"profile"`
	Reader  AIConfig      `json:"reader" yaml:"reader"`
	Scoring ScoringConfig `json:"scoring" yaml:"scoring"`
	Store   StoreConfig   `json:"store" yaml:"store"`
}

// WithDefaults returns a copy of cfg with zero values replaced by defaults.
func (c PipelineConfig) WithDefaults() PipelineConfig {
	if c.Profile.Model == "" {
		c.Profile.Model = "gemini-2.5-flash"
	}
	if c.Reader.Model == "" {
		c.Reader.Model = "gemini-2.5-flash"
	}
	if c.Scoring.Model == "" {
		c.Scoring.Model = "gemini-2.5-flash"
	}
	if c.Scoring.Search.Timeout <= 0 {
		c.Scoring.Search.Timeout = 10 * time.Second
	}
	if c.Scoring.Search.UserAgent == "" {
		c.Scoring.Search.UserAgent = "discovery-engine/0.1"
	}
	if c.Scoring.Search.MaxResults <= 0 {
		c.Scoring.Search.MaxResults = 20
	}
	if c.Store.DataDir == "" {
		c.Store.DataDir = "data"
	}
	return c
}
