// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read [job-id]",
	Short: "Run the read phase: extract text and generate candidate ideas",
	Long: `Read extracts the paper text and asks the analysis service for candidate
research ideas matching the given topics. At least one topic is required and
is validated before anything else runs. On success the job moves to
ideas_ready and the candidate ideas are printed with their zero-based
indices, ready for selection with the search command.`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func runRead(cmd *cobra.Command, args []string) error {
	topicsFlag, _ := cmd.Flags().GetString("topics")
	topics := strings.Split(topicsFlag, ",")

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

	out, err := o.ReadPhase(ctx, args[0], topics)
	if err != nil {
		return err
	}
	return printYAML(out)
}

func init() {
	readCmd.Flags().String("topics", "", "comma-separated research topics (required)")

	rootCmd.AddCommand(readCmd)
}
