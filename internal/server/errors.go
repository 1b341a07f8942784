// Package server provides the HTTP API for recipe previews.
package server

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedBody indicates the request body could not be decoded
type ErrMalformedBody struct {
	Err error
}

func (e *ErrMalformedBody) Error() string {
	return fmt.Sprintf("malformed request body: %v", e.Err)
}

func (e *ErrMalformedBody) Unwrap() error { return e.Err }

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotExtracted indicates that no preview could be produced for a URL
type ErrNotExtracted struct {
	URL string
}

func (e *ErrNotExtracted) Error() string {
	return "could not retrieve recipe information"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		malformed  *ErrMalformedBody
		validation *ErrValidation
		missing    *ErrNotExtracted
	)
	switch {
	case errors.As(err, &malformed), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &missing):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
