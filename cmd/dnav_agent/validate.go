package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/dnav/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an extraction output file against the output schema",
	RunE:  runValidate,
}

var validateFile string

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Path to extraction output JSON (required)")
	_ = validateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	err := schemas.ValidateJSONFile(validateFile)
	if err == nil {
		fmt.Fprintf(out, "Validation passed: %s\n", validateFile)
		return nil
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		fmt.Fprintf(out, "Validation failed: %s\n", validateFile)
		for i, fe := range validationErr.Errors {
			fmt.Fprintf(out, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
		}
		return fmt.Errorf("%d schema violation(s)", len(validationErr.Errors))
	}
	return err
}
