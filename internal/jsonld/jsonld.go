// Package jsonld finds schema.org Recipe objects embedded in HTML as JSON-LD
// and flattens their ingredient and instruction fields into plain text.
package jsonld

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/recipe-keeper/internal/types"
)

const (
	scriptSelector = `script[type="application/ld+json"]`
	recipeType     = "Recipe"
	typeKey        = "@type"
	graphKey       = "@graph"
)

// nodeKind tags the shapes the recipe search distinguishes.
type nodeKind int

const (
	kindOther nodeKind = iota
	kindList
	kindRecipe
	kindGraph
)

// Recipe is a matched schema.org Recipe node.
type Recipe struct {
	node map[string]any
}

// Raw returns the decoded node.
func (r *Recipe) Raw() map[string]any {
	return r.node
}

// FindRecipe returns the first Recipe node found across all JSON-LD scripts
// in document order. Scripts that fail to parse are skipped.
func FindRecipe(html string) (*Recipe, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, false
	}

	var found *Recipe
	doc.Find(scriptSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		value, ok := decode(s.Text())
		if !ok {
			return true
		}
		if node, ok := search(value); ok {
			found = &Recipe{node: node}
			return false
		}
		return true
	})

	return found, found != nil
}

// Extract finds a Recipe node and returns its flattened fields. The boolean
// reports whether a Recipe node matched, even when both fields are empty.
func Extract(html string) (types.RecipeFields, bool) {
	recipe, ok := FindRecipe(html)
	if !ok {
		return types.RecipeFields{}, false
	}
	return types.RecipeFields{
		Ingredients:  recipe.Ingredients(),
		Instructions: recipe.Instructions(),
	}, true
}

// decode parses a script body as JSON. Bodies with raw control characters
// inside string literals, which some CMSes emit, get a second attempt with
// those characters replaced by spaces.
func decode(body string) (any, bool) {
	body = strings.TrimSpace(body)
	body = strings.TrimPrefix(body, "<!--")
	body = strings.TrimSuffix(body, "-->")
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, ";")
	if body == "" {
		return nil, false
	}

	var value any
	if err := json.Unmarshal([]byte(body), &value); err == nil {
		return value, true
	}

	relaxed := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		}
		return r
	}, body)
	if err := json.Unmarshal([]byte(relaxed), &value); err == nil {
		return value, true
	}
	return nil, false
}

// kindOf classifies a decoded JSON value.
func kindOf(value any) nodeKind {
	switch v := value.(type) {
	case []any:
		return kindList
	case map[string]any:
		if isRecipeType(v[typeKey]) {
			return kindRecipe
		}
		if _, ok := v[graphKey].([]any); ok {
			return kindGraph
		}
	}
	return kindOther
}

// search walks value depth-first and returns the first Recipe node.
func search(value any) (map[string]any, bool) {
	switch kindOf(value) {
	case kindList:
		return searchEach(value.([]any))
	case kindRecipe:
		return value.(map[string]any), true
	case kindGraph:
		return searchEach(value.(map[string]any)[graphKey].([]any))
	default:
		return nil, false
	}
}

func searchEach(items []any) (map[string]any, bool) {
	for _, item := range items {
		if node, ok := search(item); ok {
			return node, true
		}
	}
	return nil, false
}

// isRecipeType accepts "Recipe" or a type list containing it.
func isRecipeType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == recipeType
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == recipeType {
				return true
			}
		}
	}
	return false
}
