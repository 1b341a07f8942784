// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jonathan/recipe-keeper/internal/description"
	"github.com/jonathan/recipe-keeper/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of lines to display per section
	maxItemsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Widths are
// measured in terminal cells so wide characters stay aligned.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", fit(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", fit(line, inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// fit truncates or pads line to exactly width cells.
func fit(line string, width int) string {
	line = runewidth.Truncate(line, width, "...")
	return runewidth.FillRight(line, width)
}

// writeSection appends a labelled multi-line field, eliding lines past the limit.
func writeSection(sb *strings.Builder, label, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	lines := strings.Split(text, "\n")
	sb.WriteString(fmt.Sprintf("\n%s (%d lines):\n", label, len(lines)))
	count := min(len(lines), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", strings.TrimSpace(lines[i])))
	}
	if len(lines) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(lines)-maxItemsToShow))
	}
}

// PrintPreview outputs a human-readable summary of an extraction result.
func (p *Printer) PrintPreview(data *types.OGPData) {
	if data == nil {
		p.printBox("RECIPE PREVIEW", "No preview could be extracted.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:  %s\n", data.Title))
	sb.WriteString(fmt.Sprintf("URL:    %s\n", data.URL))
	if data.Description != "" {
		sb.WriteString(fmt.Sprintf("About:  %s\n", strings.ReplaceAll(data.Description, "\n", " ")))
	}
	if data.Image != "" {
		sb.WriteString(fmt.Sprintf("Image:  %s\n", data.Image))
	}

	if data.HasRecipe() {
		writeSection(&sb, "Ingredients", data.Ingredients)
		writeSection(&sb, "Instructions", data.Instructions)
	} else {
		sb.WriteString("\nNo ingredients or instructions found.\n")
	}

	p.printBox("RECIPE PREVIEW", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintParsedDescription outputs the sections found by the description parser.
func (p *Printer) PrintParsedDescription(parsed description.Parsed) {
	var sb strings.Builder
	if !parsed.Found() {
		sb.WriteString("No recipe sections found.\n")
	}
	writeSection(&sb, "Ingredients", parsed.Ingredients)
	writeSection(&sb, "Instructions", parsed.Instructions)
	writeSection(&sb, "Other text", parsed.RemainingText)

	p.printBox("PARSED DESCRIPTION", strings.TrimSpace(sb.String()))
}
