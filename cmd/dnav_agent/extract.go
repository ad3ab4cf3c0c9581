package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/dnav/internal/extraction"
	"github.com/jonathan/dnav/internal/fetch"
	"github.com/jonathan/dnav/internal/ingestion"
	"github.com/jonathan/dnav/internal/logging"
	"github.com/jonathan/dnav/internal/observability"
	"github.com/jonathan/dnav/internal/schemas"
	"github.com/jonathan/dnav/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract decision candidates from documents",
	Long: "Load one or more documents (text, HTML or page JSON) and/or a URL, run the " +
		"extraction pipeline, and write the ranked candidates as JSON.",
	RunE: runExtract,
}

var (
	extractInputs     []string
	extractURL        string
	extractOut        string
	extractVerbose    bool
	extractUseBrowser bool
)

func init() {
	extractCmd.Flags().StringSliceVarP(&extractInputs, "in", "i", nil, "Input document path (repeatable)")
	extractCmd.Flags().StringVarP(&extractURL, "url", "u", "", "URL of a filing or investor-relations page")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Output JSON file (required)")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print debug counters and candidates")
	extractCmd.Flags().BoolVar(&extractUseBrowser, "browser", false, "Render --url in headless Chrome when the page text is thin")

	_ = extractCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	if len(extractInputs) == 0 && extractURL == "" {
		return fmt.Errorf("at least one --in or --url must be provided")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, extractVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync(logger) }()

	opts, err := cfg.ExtractionOptions()
	if err != nil {
		return err
	}

	var pages []types.PageText
	for _, path := range extractInputs {
		filePages, meta, err := ingestion.LoadFile(path)
		if err != nil {
			return err
		}
		logger.Debug("loaded document",
			zap.String("file", meta.FileName),
			zap.String("format", meta.Format),
			zap.Int("pages", meta.PageCount),
			zap.String("hash", meta.Hash),
		)
		pages = append(pages, filePages...)
	}

	if extractURL != "" {
		urlPages, meta, err := ingestion.LoadURL(cmd.Context(), extractURL, ingestion.URLOptions{
			Fetch: &fetch.Options{
				Timeout:   cfg.Fetch.Timeout,
				UserAgent: cfg.Fetch.UserAgent,
			},
			UseBrowser: extractUseBrowser || cfg.Fetch.UseBrowser,
			Logger:     logger,
		})
		if err != nil {
			return fmt.Errorf("failed to load URL: %w", err)
		}
		logger.Debug("loaded URL",
			zap.String("url", meta.Source),
			zap.String("site", meta.Site),
			zap.Int("pages", meta.PageCount),
		)
		pages = append(pages, urlPages...)
	}

	extractor := extraction.NewExtractor(opts, logger)
	result := extractor.Extract(pages)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(extractOut, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if err := schemas.ValidateResult(&result); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: output does not match schema:\n%s", validationErr.Error())
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not validate output: %v\n", err)
		}
	}

	out := cmd.OutOrStdout()
	if extractVerbose {
		observability.NewPrinter(out).PrintResult(&result)
	}
	fmt.Fprintf(out, "Extracted %d decision candidates from %d pages\n", len(result.Candidates), result.Debug.PagesParsed)
	if result.Debug.FallbackUsed {
		fmt.Fprintf(out, "Score threshold relaxed to reach the candidate floor\n")
	}
	fmt.Fprintf(out, "Output: %s\n", extractOut)
	return nil
}
