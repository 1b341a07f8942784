package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTextBudget is the number of runes of page text handed to the model.
const DefaultTextBudget = 8000

const (
	noiseSelector = "script, style, nav, header, footer, iframe, svg, noscript"
	blockSelector = "p, div, section, article, main, aside, li, ul, ol, dl, dt, dd, table, tr, h1, h2, h3, h4, h5, h6, blockquote, pre, figure, figcaption, form"
)

// CleanPageText strips markup and page chrome from html, keeping one line per
// block element, and truncates the result to budget runes. A budget <= 0
// disables truncation.
func CleanPageText(html string, budget int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find(noiseSelector).Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelector).AppendHtml("\n")

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	return Truncate(cleanWhitespace(root.Text()), budget)
}

// Truncate cuts text to at most budget runes.
func Truncate(text string, budget int) string {
	if budget <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return string(runes[:budget])
}

// cleanWhitespace collapses runs of spaces inside each line and drops blank lines.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
