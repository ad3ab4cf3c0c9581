package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/dnav/internal/server"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a reviewer token for the review API",
	Long:  "Sign a bearer token for PATCH /runs/{id}/candidates/{candidate_id}. Requires JWT_SECRET.",
	RunE:  runToken,
}

var tokenReviewer string

func init() {
	tokenCmd.Flags().StringVar(&tokenReviewer, "reviewer", "", "Reviewer UUID (required)")
	_ = tokenCmd.MarkFlagRequired("reviewer")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	reviewerID, err := uuid.Parse(tokenReviewer)
	if err != nil {
		return fmt.Errorf("invalid --reviewer: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	jwtCfg, err := cfg.JWT()
	if err != nil {
		return err
	}

	token, err := server.NewJWTService(jwtCfg).GenerateToken(reviewerID)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
