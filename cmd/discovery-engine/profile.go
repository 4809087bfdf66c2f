// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/discovery-engine/internal/profile"
	"github.com/pdiddy/discovery-engine/pkg/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage researcher profiles (create, show, update)",
	Long: `Profile manages researcher profiles. A profile is inferred from a free-text
self-description or from a bibliometric record (YAML file with publications and
an h-index) and steers idea generation and scoring. Inference never fails:
when the analysis service is unavailable, a documented default profile is
used and the degradation is reported on stderr.`,
}

// --- create subcommand ---

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a researcher and infer their profile",
	RunE:  runProfileCreate,
}

func runProfileCreate(cmd *cobra.Command, args []string) error {
	description, err := descriptionFromFlags(cmd)
	if err != nil {
		return err
	}
	recordPath, _ := cmd.Flags().GetString("record")
	level, _ := cmd.Flags().GetString("level")

	if description == "" && recordPath == "" {
		return fmt.Errorf("provide --description, --description-file, or --record")
	}

	ctx := context.Background()
	cfg := pipelineConfig()

	inferred, err := inferProfile(ctx, cfg, description, recordPath, level)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	user := &types.User{
		Description: description,
		Profile:     inferred,
	}
	if err := st.CreateUser(ctx, user); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "created user %s\n", user.ID)
	return printYAML(user)
}

// --- show subcommand ---

var profileShowCmd = &cobra.Command{
	Use:   "show [user-id]",
	Short: "Show a researcher's stored profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		user, err := st.GetUser(context.Background(), args[0])
		if err != nil {
			return err
		}
		return printYAML(user)
	},
}

// --- update subcommand ---

var profileUpdateCmd = &cobra.Command{
	Use:   "update [user-id]",
	Short: "Re-infer and replace a researcher's profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileUpdate,
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	description, err := descriptionFromFlags(cmd)
	if err != nil {
		return err
	}
	recordPath, _ := cmd.Flags().GetString("record")
	level, _ := cmd.Flags().GetString("level")

	if description == "" && recordPath == "" {
		return fmt.Errorf("provide --description, --description-file, or --record")
	}

	ctx := context.Background()
	cfg := pipelineConfig()

	inferred, err := inferProfile(ctx, cfg, description, recordPath, level)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.UpdateUserProfile(ctx, args[0], description, inferred); err != nil {
		return err
	}
	user, err := st.GetUser(ctx, args[0])
	if err != nil {
		return err
	}
	return printYAML(user)
}

// descriptionFromFlags resolves --description / --description-file,
// with the inline flag taking precedence.
func descriptionFromFlags(cmd *cobra.Command) (string, error) {
	description, _ := cmd.Flags().GetString("description")
	if description != "" {
		return description, nil
	}
	path, _ := cmd.Flags().GetString("description-file")
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading description file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// inferProfile runs text or bibliometric inference depending on which
// input was given. Degraded inference warns on stderr and proceeds with
// the fallback profile.
func inferProfile(ctx context.Context, cfg types.PipelineConfig, description, recordPath, level string) (types.ResearcherProfile, error) {
	svc, err := analyzer(ctx, cfg.Profile)
	if err != nil {
		return types.ResearcherProfile{}, err
	}

	if recordPath != "" {
		data, err := os.ReadFile(recordPath)
		if err != nil {
			return types.ResearcherProfile{}, fmt.Errorf("reading bibliometric record: %w", err)
		}
		var record types.BibliometricRecord
		if err := yaml.Unmarshal(data, &record); err != nil {
			return types.ResearcherProfile{}, fmt.Errorf("parsing bibliometric record: %w", err)
		}
		out := profile.InferFromBibliometrics(ctx, svc, record)
		if out.Fallback {
			fmt.Fprintf(os.Stderr, "warning: profile inference degraded: %v\n", out.Reason)
		}
		return out.Value, nil
	}

	stated := types.ExpertiseLevel(strings.TrimSpace(level))
	out := profile.InferFromText(ctx, svc, description, stated)
	if out.Fallback {
		fmt.Fprintf(os.Stderr, "warning: profile inference degraded: %v\n", out.Reason)
	}
	return out.Value, nil
}

func init() {
	for _, c := range []*cobra.Command{profileCreateCmd, profileUpdateCmd} {
		c.Flags().String("description", "", "free-text research self-description")
		c.Flags().String("description-file", "", "file holding the self-description")
		c.Flags().String("record", "", "path to a bibliometric record YAML file")
		c.Flags().String("level", "", "stated expertise level (overrides inference)")
	}

	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)

	rootCmd.AddCommand(profileCmd)
}
