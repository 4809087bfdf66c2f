// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/discovery-engine/internal/fetch"
	"github.com/pdiddy/discovery-engine/internal/pipeline"
	"github.com/pdiddy/discovery-engine/pkg/types"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [pdf-path-or-identifier]",
	Short: "Register a paper PDF and create its analysis job",
	Long: `Upload registers a paper PDF for analysis and creates an analysis job in
the uploaded state. The argument is a local PDF path, or with --fetch an
arXiv ID, DOI, or direct URL to download into the data directory. Text
extraction happens during the read phase.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	userID, _ := cmd.Flags().GetString("user")
	doFetch, _ := cmd.Flags().GetBool("fetch")

	ctx := context.Background()
	cfg := pipelineConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var paper *types.Paper
	var job *types.AnalysisJob

	if doFetch {
		client := &http.Client{Timeout: cfg.Scoring.Search.Timeout}
		uploadsDir := filepath.Join(cfg.Store.DataDir, "uploads")
		paper, err = fetch.Fetch(ctx, client, args[0], uploadsDir, cfg.Scoring.Search.HTTPConfig, os.Stderr)
		if err != nil {
			return err
		}
		if title != "" {
			paper.Title = title
		}
		paper.UserID = userID
		if err := st.CreatePaper(ctx, paper); err != nil {
			return err
		}
		job, err = st.CreateJob(ctx, paper.ID)
		if err != nil {
			return err
		}
	} else {
		// A local upload needs no analysis services, only the store.
		o := &pipeline.Orchestrator{Store: st}
		paper, job, err = o.Upload(ctx, args[0], title, userID)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "registered paper %s, job %s\n", paper.ID, job.ID)
	return printYAML(map[string]any{
		"paper": paper,
		"job":   job,
	})
}

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "List registered papers and their jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg := pipelineConfig()
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		papers, err := st.ListPapers(ctx)
		if err != nil {
			return err
		}

		withJobs, _ := cmd.Flags().GetBool("jobs")
		if !withJobs {
			return printYAML(papers)
		}

		out := make([]map[string]any, 0, len(papers))
		for _, p := range papers {
			jobs, err := st.ListJobsForPaper(ctx, p.ID)
			if err != nil {
				return err
			}
			out = append(out, map[string]any{
				"paper": p,
				"jobs":  jobs,
			})
		}
		return printYAML(out)
	},
}

func init() {
	uploadCmd.Flags().String("title", "", "paper title (optional)")
	uploadCmd.Flags().String("user", "", "owning user ID (optional; links the profile)")
	uploadCmd.Flags().Bool("fetch", false, "treat the argument as an arXiv ID, DOI, or URL to download")

	papersCmd.Flags().Bool("jobs", false, "include each paper's analysis jobs")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(papersCmd)
}
