package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/recipe-keeper/internal/observability"
)

var extractNoCache bool

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract preview metadata and recipe fields from a URL",
	Long:  "Run the extraction pipeline once and print the result as JSON, or as a summary box with --verbose.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractNoCache, "no-cache", false, "Bypass the result cache")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd, !extractNoCache)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn("failed to release resources", "err", err)
		}
	}()

	data := a.fetcher.FetchOGP(ctx, args[0])

	if a.cfg.Verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintPreview(data)
	}
	if data == nil {
		return fmt.Errorf("could not retrieve recipe information for %s", args[0])
	}
	if a.cfg.Verbose {
		return nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
