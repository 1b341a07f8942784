package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/generative-ai-go/genai"

	"github.com/jonathan/recipe-keeper/internal/guard"
	"github.com/jonathan/recipe-keeper/internal/logging"
	"github.com/jonathan/recipe-keeper/internal/prompts"
	"github.com/jonathan/recipe-keeper/internal/schemas"
	"github.com/jonathan/recipe-keeper/internal/types"
)

// Source selects the prompt used for the input text.
type Source string

const (
	// SourcePage is cleaned text of a web page.
	SourcePage Source = "page"
	// SourceDescription is a video description.
	SourceDescription Source = "description"
)

var recipeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"ingredients":  {Type: genai.TypeString},
		"instructions": {Type: genai.TypeString},
	},
	Required: []string{"ingredients", "instructions"},
}

// RecipeExtractor asks a model to copy ingredients and instructions out of
// unstructured text.
type RecipeExtractor struct {
	client Client
	tier   ModelTier
	guard  *guard.Guard
	logger *log.Logger
}

// NewRecipeExtractor creates an extractor. A nil client yields an extractor
// whose Extract always reports types.ErrMissingCredential.
func NewRecipeExtractor(client Client, tier ModelTier, g *guard.Guard, logger *log.Logger) *RecipeExtractor {
	if tier == "" {
		tier = TierLite
	}
	return &RecipeExtractor{client: client, tier: tier, guard: g, logger: logging.OrDiscard(logger)}
}

// Enabled reports whether a model client is configured.
func (e *RecipeExtractor) Enabled() bool {
	return e != nil && e.client != nil
}

// Extract returns the recipe fields the model found in text. It fails with
// types.ErrMissingCredential when no client is configured, types.ErrShape when
// the answer does not match the schema, and types.ErrNotFound when the model
// reported both fields empty.
func (e *RecipeExtractor) Extract(ctx context.Context, source Source, text string) (*types.RecipeFields, error) {
	if !e.Enabled() {
		return nil, types.ErrMissingCredential
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty input: %w", types.ErrNotFound)
	}

	req, err := buildRequest(source, text, e.tier)
	if err != nil {
		return nil, err
	}

	raw, err := guard.Do(ctx, e.guard, func(ctx context.Context) (string, error) {
		return e.client.GenerateJSON(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	fields, err := parseFields(raw)
	if err != nil {
		e.logger.Debug("model answer rejected", "source", source, "err", err)
		return nil, err
	}
	return fields, nil
}

func buildRequest(source Source, text string, tier ModelTier) (Request, error) {
	key := prompts.KeyExtractPage
	if source == SourceDescription {
		key = prompts.KeyExtractDescription
	}

	set, err := prompts.Recipe()
	if err != nil {
		return Request{}, err
	}
	system, err := set.Text(prompts.KeyExtractSystem)
	if err != nil {
		return Request{}, err
	}
	user, err := set.Render(key, struct{ Text string }{text})
	if err != nil {
		return Request{}, err
	}

	return Request{System: system, Prompt: user, Tier: tier, Schema: recipeSchema}, nil
}

func parseFields(raw string) (*types.RecipeFields, error) {
	raw = CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.RecipeFields, raw); err != nil {
		return nil, errors.Join(types.ErrShape, err)
	}

	var fields types.RecipeFields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, errors.Join(types.ErrShape, err)
	}

	fields.Ingredients = strings.TrimSpace(fields.Ingredients)
	fields.Instructions = strings.TrimSpace(fields.Instructions)
	if fields.Empty() {
		return nil, types.ErrNotFound
	}
	return &fields, nil
}
