// Package prompts holds the LLM prompt templates used for recipe extraction.
// Each JSON file maps a key to a text/template body and is embedded at build time.
package prompts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"
	"text/template"
)

// Recipe extraction prompts.
const (
	RecipeFile            = "recipe.json"
	KeyExtractSystem      = "extract-system"
	KeyExtractPage        = "extract-page"
	KeyExtractDescription = "extract-description"
)

//go:embed *.json
var promptFiles embed.FS

// Set is a parsed prompt file.
type Set struct {
	file string
	raw  map[string]string
	tmpl *template.Template
}

// Recipe returns the recipe prompt set, parsed once per process.
var Recipe = sync.OnceValues(func() (*Set, error) {
	return Load(RecipeFile)
})

// Load reads and parses an embedded prompt file. Every entry must be a
// valid template; references to missing data fields fail at render time.
func Load(filename string) (*Set, error) {
	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	root := template.New(filename).Option("missingkey=error")
	for key, body := range raw {
		if _, err := root.New(key).Parse(body); err != nil {
			return nil, fmt.Errorf("prompt %s/%s: %w", filename, key, err)
		}
	}
	return &Set{file: filename, raw: raw, tmpl: root}, nil
}

// Text returns the unrendered body of a prompt.
func (s *Set) Text(key string) (string, error) {
	body, ok := s.raw[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, s.file)
	}
	return body, nil
}

// Render executes a prompt with data. data is usually a struct or a
// map[string]string keyed by the field names the template uses.
func (s *Set) Render(key string, data any) (string, error) {
	if _, ok := s.raw[key]; !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, s.file)
	}
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, key, data); err != nil {
		return "", fmt.Errorf("render %s/%s: %w", s.file, key, err)
	}
	return buf.String(), nil
}

// Keys lists the prompt keys in the set, sorted.
func (s *Set) Keys() []string {
	return slices.Sorted(maps.Keys(s.raw))
}
