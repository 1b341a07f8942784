package jsonld

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func recipe(node map[string]any) *Recipe {
	node["@type"] = "Recipe"
	return &Recipe{node: node}
}

func TestIngredients(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"list preserves order", []any{"卵 2個", "牛乳 200ml", "砂糖"}, "卵 2個\n牛乳 200ml\n砂糖"},
		{"empty list", []any{}, ""},
		{"missing", nil, ""},
		{"single string is not a list", "flour", ""},
		{"non-string items skipped", []any{"salt", 3.0, map[string]any{}}, "salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := map[string]any{}
			if tt.value != nil {
				node["recipeIngredient"] = tt.value
			}
			assert.Equal(t, tt.expected, recipe(node).Ingredients())
		})
	}
}

func TestInstructions(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"string verbatim", "Mix well.\nBake.", "Mix well.\nBake."},
		{"empty string", "", ""},
		{"list of strings", []any{"Chop", "", "Fry"}, "Chop\nFry"},
		{
			"list of steps",
			[]any{
				map[string]any{"@type": "HowToStep", "text": "Boil water"},
				map[string]any{"@type": "HowToStep", "text": ""},
				map[string]any{"@type": "HowToStep"},
				map[string]any{"@type": "HowToStep", "text": "Add pasta"},
			},
			"Boil water\nAdd pasta",
		},
		{
			"sections flatten",
			[]any{
				map[string]any{
					"@type": "HowToSection",
					"name":  "Sauce",
					"itemListElement": []any{
						map[string]any{"@type": "HowToStep", "text": "Melt butter"},
					},
				},
				map[string]any{"@type": "HowToStep", "text": "Serve"},
			},
			"Melt butter\nServe",
		},
		{"empty list", []any{}, ""},
		{"all contributions empty", []any{"", map[string]any{"text": ""}}, ""},
		{"number", 42.0, ""},
		{"missing", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := map[string]any{}
			if tt.value != nil {
				node["recipeInstructions"] = tt.value
			}
			assert.Equal(t, tt.expected, recipe(node).Instructions())
		})
	}
}
