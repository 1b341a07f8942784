// Package description locates ingredient and instruction sections inside
// free-form text such as a video description. Japanese and English headers
// are recognized; descriptions without headers fall back to a
// "today's recipe" marker followed by a rule-delimited block.
package description

import (
	"strings"

	"github.com/jonathan/recipe-keeper/internal/types"
)

// Parsed is the result of parsing a description. Empty strings mean absent.
type Parsed struct {
	Ingredients   string
	Instructions  string
	RemainingText string
}

// Fields returns the recipe body fields.
func (p Parsed) Fields() types.RecipeFields {
	return types.RecipeFields{Ingredients: p.Ingredients, Instructions: p.Instructions}
}

// Found reports whether a recipe section was detected.
func (p Parsed) Found() bool {
	return p.Ingredients != "" || p.Instructions != ""
}

// MarkerKind identifies what a SectionMarker opens or closes.
type MarkerKind int

const (
	// MarkerIngredients opens an ingredients section.
	MarkerIngredients MarkerKind = iota
	// MarkerInstructions opens an instructions section.
	MarkerInstructions
	// MarkerEnd closes the recipe part of the text.
	MarkerEnd
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerIngredients:
		return "ingredients"
	case MarkerInstructions:
		return "instructions"
	default:
		return "end"
	}
}

// SectionMarker is a header or boundary found at LineIndex.
type SectionMarker struct {
	Kind      MarkerKind
	LineIndex int
}

// Parse runs header-based parsing and, only when no header is found, the
// separator-based fallback.
func Parse(text string) Parsed {
	if parsed, ok := ParseHeaders(text); ok {
		return parsed
	}
	return ParseSeparators(text)
}

// ParseHeaders runs only the header-based stage. ok is false when the text
// has no recognizable section header.
func ParseHeaders(text string) (Parsed, bool) {
	lines := splitLines(text)
	markers := ScanMarkers(lines)
	if len(markers) == 0 {
		return Parsed{}, false
	}
	return fromMarkers(lines, markers), true
}

// ParseSeparators runs only the separator-based stage.
func ParseSeparators(text string) Parsed {
	return parseSeparated(splitLines(text))
}

// ScanMarkers returns header and end markers in ascending line order. End
// markers are only emitted after a section has opened, and scanning stops at
// the first one.
func ScanMarkers(lines []string) []SectionMarker {
	var markers []SectionMarker
	sectionHasContent := false

	for i, line := range lines {
		switch {
		case isIngredientsHeader(line):
			markers = append(markers, SectionMarker{Kind: MarkerIngredients, LineIndex: i})
			sectionHasContent = false
			continue
		case isInstructionsHeader(line):
			markers = append(markers, SectionMarker{Kind: MarkerInstructions, LineIndex: i})
			sectionHasContent = false
			continue
		}

		if len(markers) == 0 {
			continue
		}

		if isPromo(line) || (longRuleRe.MatchString(line) && closesSection(lines, i, sectionHasContent)) {
			markers = append(markers, SectionMarker{Kind: MarkerEnd, LineIndex: i})
			return markers
		}

		if strings.TrimSpace(line) != "" && !isRule(line) {
			sectionHasContent = true
		}
	}

	return markers
}

// closesSection decides whether a long rule at index i ends the recipe. Rules
// that decorate a header (directly before another header, or before any
// content of the current section) do not.
func closesSection(lines []string, i int, sectionHasContent bool) bool {
	if !sectionHasContent {
		return false
	}
	for _, next := range lines[i+1:] {
		if strings.TrimSpace(next) == "" || isRule(next) {
			continue
		}
		return !isHeader(next)
	}
	return true
}

// fromMarkers slices the text between consecutive markers. Sections of the
// same kind are concatenated in source order.
func fromMarkers(lines []string, markers []SectionMarker) Parsed {
	var ingredients, instructions []string

	for i, m := range markers {
		if m.Kind == MarkerEnd {
			continue
		}
		end := len(lines)
		if i+1 < len(markers) {
			end = markers[i+1].LineIndex
		}
		content := compact(lines[m.LineIndex+1 : end])
		if m.Kind == MarkerIngredients {
			ingredients = append(ingredients, content...)
		} else {
			instructions = append(instructions, content...)
		}
	}

	return Parsed{
		Ingredients:   strings.Join(ingredients, "\n"),
		Instructions:  strings.Join(instructions, "\n"),
		RemainingText: strings.Join(compact(lines[:markers[0].LineIndex]), "\n"),
	}
}

// parseSeparated handles descriptions shaped like:
//
//	★今回のレシピはこちら↓
//	----------
//	<ingredients>
//
//	<steps...>
//	----------
//
// The first blank-line group between the first two rules after the marker is
// the ingredient list; every later group belongs to the instructions.
func parseSeparated(lines []string) Parsed {
	markerIdx := -1
	for i, line := range lines {
		if recipeMarkerRe.MatchString(line) {
			markerIdx = i
			break
		}
	}
	if markerIdx < 0 {
		return Parsed{}
	}

	var rules []int
	for i := markerIdx + 1; i < len(lines) && len(rules) < 2; i++ {
		if ruleRe.MatchString(lines[i]) {
			rules = append(rules, i)
		}
	}
	if len(rules) < 2 {
		return Parsed{}
	}

	groups := splitGroups(lines[rules[0]+1 : rules[1]])

	var parsed Parsed
	if len(groups) > 0 {
		parsed.Ingredients = strings.Join(groups[0], "\n")
	}
	if len(groups) > 1 {
		var steps []string
		for _, g := range groups[1:] {
			steps = append(steps, g...)
		}
		parsed.Instructions = strings.Join(steps, "\n")
	}
	parsed.RemainingText = strings.Join(compact(lines[:markerIdx]), "\n")
	return parsed
}

// splitLines normalizes line endings and splits text into lines.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// compact trims lines and drops blank and rule-only lines.
func compact(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isRule(trimmed) {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// splitGroups splits lines into blank-line delimited groups of trimmed lines.
func splitGroups(lines []string) [][]string {
	var groups [][]string
	var current []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(current) > 0 {
				groups = append(groups, current)
				current = nil
			}
			continue
		}
		current = append(current, trimmed)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}
