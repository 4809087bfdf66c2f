// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the discovery-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/discovery-engine/internal/secrets"
	"github.com/pdiddy/discovery-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value for
// key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the discovery-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "discovery-engine",
	Short: "Turn research papers into ranked, literature-backed research ideas",
	Long: `discovery-engine analyzes an uploaded research paper against a researcher's
profile. The read phase extracts the paper text and proposes candidate research
ideas for the researcher's topics; the search phase scores three selected ideas
for novelty, doability, and topic fit against retrieved literature and returns
a ranked top three with supporting references.

Each step is a subcommand: profile, upload, read, search, status, results,
and papers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./discovery-engine.yaml or ~/.config/discovery-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("discovery-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "discovery-engine"))
		}
	}

	viper.SetEnvPrefix("DISCOVERY_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the stage configuration from the config file,
// environment, and loaded secrets.
func pipelineConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Profile: types.AIConfig{
			Model:  viper.GetString("profile.model"),
			APIKey: secretDefault(secrets.GeminiAPIKey, viper.GetString("profile.api_key")),
		},
		Reader: types.AIConfig{
			Model:  viper.GetString("reader.model"),
			APIKey: secretDefault(secrets.GeminiAPIKey, viper.GetString("reader.api_key")),
		},
		Scoring: types.ScoringConfig{
			AIConfig: types.AIConfig{
				Model:  viper.GetString("scoring.model"),
				APIKey: secretDefault(secrets.GeminiAPIKey, viper.GetString("scoring.api_key")),
			},
			Search: types.SearchConfig{
				HTTPConfig: types.HTTPConfig{
					Timeout:   viper.GetDuration("scoring.search.timeout"),
					UserAgent: viper.GetString("scoring.search.user_agent"),
				},
				MaxResults: viper.GetInt("scoring.search.max_results"),
				APIKey:     secretDefault(secrets.SemanticScholarAPIKey, viper.GetString("scoring.search.api_key")),
			},
		},
		Store: types.StoreConfig{
			DataDir: viper.GetString("store.data_dir"),
		},
	}
	return cfg.WithDefaults()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
