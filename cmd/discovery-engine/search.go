// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [job-id]",
	Short: "Run the search phase: score and rank three selected ideas",
	Long: `Search scores the three selected candidate ideas against retrieved
literature. Each idea gets a novelty assessment, a doability assessment, and
a local topic-match score, combined into a composite; the ranked top three
are persisted with their supporting references. The job must be in
ideas_ready. Selection indices are the zero-based positions printed by the
read command.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ideasFlag, _ := cmd.Flags().GetString("ideas")
	selected, err := parseSelection(ideasFlag)
	if err != nil {
		return err
	}

	ctx := context.Background()
	cfg := pipelineConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	o, err := orchestrator(ctx, cfg, st)
	if err != nil {
		return err
	}

	result, err := o.SearchPhase(ctx, args[0], selected)
	if err != nil {
		return err
	}
	return printYAML(result)
}

// parseSelection parses "0,2,4" into index values. Count and range checks
// happen in the pipeline against the job's actual candidate list.
func parseSelection(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	selected := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid idea index %q: %w", p, err)
		}
		selected = append(selected, n)
	}
	return selected, nil
}

func init() {
	searchCmd.Flags().String("ideas", "", "comma-separated zero-based indices of exactly three candidate ideas")

	rootCmd.AddCommand(searchCmd)
}
