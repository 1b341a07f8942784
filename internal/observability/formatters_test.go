package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/recipe-keeper/internal/description"
	"github.com/jonathan/recipe-keeper/internal/types"
)

func TestPrintPreview(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPreview(&types.OGPData{
		Title:        "Fluffy Pancakes",
		Description:  "by Chef",
		URL:          "https://example.com/pancakes",
		Ingredients:  "flour\nmilk\negg",
		Instructions: "Mix\nFry",
	})
	output := buf.String()

	assert.Contains(t, output, "RECIPE PREVIEW")
	assert.Contains(t, output, "Fluffy Pancakes")
	assert.Contains(t, output, "by Chef")
	assert.Contains(t, output, "Ingredients (3 lines)")
	assert.Contains(t, output, "• milk")
	assert.Contains(t, output, "Instructions (2 lines)")
	assert.NotContains(t, output, "Image:")
}

func TestPrintPreview_MetadataOnly(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPreview(&types.OGPData{Title: "no title", URL: "https://example.com"})

	assert.Contains(t, buf.String(), "No ingredients or instructions found.")
}

func TestPrintPreview_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPreview(nil)

	assert.Contains(t, buf.String(), "No preview could be extracted.")
}

func TestPrintPreview_ElidesLongSections(t *testing.T) {
	lines := make([]string, maxItemsToShow+3)
	for i := range lines {
		lines[i] = fmt.Sprintf("step %d", i+1)
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintPreview(&types.OGPData{Title: "t", URL: "u", Instructions: strings.Join(lines, "\n")})

	output := buf.String()
	assert.Contains(t, output, fmt.Sprintf("step %d", maxItemsToShow))
	assert.NotContains(t, output, fmt.Sprintf("step %d", maxItemsToShow+1))
	assert.Contains(t, output, "... and 3 more")
}

func TestPrintBox_AlignsWideCharacters(t *testing.T) {
	// Box-drawing characters are ambiguous-width; pin them to one cell.
	runewidth.DefaultCondition.EastAsianWidth = false

	var buf bytes.Buffer
	NewPrinter(&buf).PrintPreview(&types.OGPData{
		Title:       "基本の肉じゃが",
		URL:         "https://www.youtube.com/watch?v=abc123",
		Description: strings.Repeat("とても長い説明文です", 10),
		Ingredients: "牛肉 200g\nじゃがいも 3個",
	})

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, runewidth.StringWidth(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestPrintParsedDescription(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintParsedDescription(description.Parsed{
		Ingredients:   "卵 2個",
		Instructions:  "混ぜる",
		RemainingText: "チャンネル登録お願いします",
	})
	output := buf.String()

	assert.Contains(t, output, "PARSED DESCRIPTION")
	assert.Contains(t, output, "• 卵 2個")
	assert.Contains(t, output, "Other text (1 lines)")
	assert.NotContains(t, output, "No recipe sections found.")
}

func TestPrintParsedDescription_NothingFound(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintParsedDescription(description.Parsed{RemainingText: "hello"})

	assert.Contains(t, buf.String(), "No recipe sections found.")
}
