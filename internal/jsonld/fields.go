package jsonld

import "strings"

// Ingredients joins recipeIngredient with newlines. It is empty unless the
// field is a non-empty list of strings.
func (r *Recipe) Ingredients() string {
	items, ok := r.node["recipeIngredient"].([]any)
	if !ok || len(items) == 0 {
		return ""
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}

// Instructions flattens recipeInstructions, which may be a string, a list of
// strings, or a list of HowToStep objects carrying a "text" field.
// HowToSection objects contribute the steps in their itemListElement.
// Empty contributions are dropped; an empty result means absent.
func (r *Recipe) Instructions() string {
	switch v := r.node["recipeInstructions"].(type) {
	case string:
		return v
	case []any:
		return strings.Join(stepTexts(v), "\n")
	default:
		return ""
	}
}

// stepTexts collects the non-empty text of every step in order.
func stepTexts(steps []any) []string {
	var lines []string
	for _, step := range steps {
		switch s := step.(type) {
		case string:
			if s != "" {
				lines = append(lines, s)
			}
		case map[string]any:
			if text, ok := s["text"].(string); ok && text != "" {
				lines = append(lines, text)
				continue
			}
			if nested, ok := s["itemListElement"].([]any); ok {
				lines = append(lines, stepTexts(nested)...)
			}
		}
	}
	return lines
}
