// Package types provides type definitions for structured data used throughout the recipe-keeper system.
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// OGPData is the normalized result of extracting recipe metadata from a URL.
// Title is never empty on a non-nil value; URL is the validated input URL.
type OGPData struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	URL          string `json:"url"`
	Ingredients  string `json:"ingredients,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// HasRecipe reports whether any recipe body field was extracted.
func (d *OGPData) HasRecipe() bool {
	return d != nil && (d.Ingredients != "" || d.Instructions != "")
}

// Extraction is one run of the pipeline. Degraded is set when an upstream
// could not be reached or the call's context ended before the pipeline
// finished, so a later attempt may return more.
type Extraction struct {
	Data     *OGPData
	Degraded bool
}

// RecipeFields holds the ingredients/instructions pair produced by every
// recipe-body strategy (structured data, description parser, LLM).
type RecipeFields struct {
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
}

// Empty reports whether both fields are blank.
func (f RecipeFields) Empty() bool {
	return strings.TrimSpace(f.Ingredients) == "" && strings.TrimSpace(f.Instructions) == ""
}

// PreviewRequest is the request body of the preview endpoint.
type PreviewRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// Validate validates the PreviewRequest using the validator.
func (r *PreviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
