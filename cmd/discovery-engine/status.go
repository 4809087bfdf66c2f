// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [job-id]",
	Short: "Show a job's status, progress, and any error",
	Long: `Status prints the job's current state, its progress percentage, and the
error message when the job failed. Readable at any time; an errored job
keeps the progress it had reached when it failed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		status, err := st.GetStatus(context.Background(), args[0])
		if err != nil {
			return err
		}
		return printYAML(status)
	},
}

var resultsCmd = &cobra.Command{
	Use:   "results [job-id]",
	Short: "Show the ranked ideas for a completed job",
	Long: `Results prints the ranked top ideas for a completed job, best first, each
with its assessments, literature synthesis, and supporting references.
Jobs that have not completed are rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		results, err := st.Results(context.Background(), args[0])
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(results)
		}
		return printYAML(results)
	},
}

func init() {
	resultsCmd.Flags().Bool("json", false, "emit JSON instead of YAML")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resultsCmd)
}
