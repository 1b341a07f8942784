package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/recipe-keeper/internal/description"
	"github.com/jonathan/recipe-keeper/internal/observability"
)

var parseDescriptionCmd = &cobra.Command{
	Use:   "parse-description <file|->",
	Short: "Find ingredient and instruction sections in a video description",
	Long:  "Run the rule-based description parser on a text file, or on stdin when the argument is -. No network access is needed.",
	Args:  cobra.ExactArgs(1),
	RunE:  runParseDescription,
}

func init() {
	rootCmd.AddCommand(parseDescriptionCmd)
}

// parsedOutput is the JSON form of description.Parsed.
type parsedOutput struct {
	Ingredients   string `json:"ingredients"`
	Instructions  string `json:"instructions"`
	RemainingText string `json:"remaining_text"`
	Found         bool   `json:"found"`
}

func runParseDescription(cmd *cobra.Command, args []string) error {
	var (
		content []byte
		err     error
	)
	if args[0] == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read description: %w", err)
	}

	parsed := description.Parse(string(content))

	if verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintParsedDescription(parsed)
		return nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(parsedOutput{
		Ingredients:   parsed.Ingredients,
		Instructions:  parsed.Instructions,
		RemainingText: parsed.RemainingText,
		Found:         parsed.Found(),
	})
}
