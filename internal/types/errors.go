package types

import "errors"

// Sentinel errors shared by the upstream fetchers. Fetchers wrap these with
// context; callers classify them with errors.Is.
var (
	// ErrInvalidURL is returned when an input string is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrMissingCredential is returned when an optional strategy has no API key configured.
	ErrMissingCredential = errors.New("credential not configured")
	// ErrUpstreamStatus is returned when an upstream answered with a non-success status.
	ErrUpstreamStatus = errors.New("upstream returned non-success status")
	// ErrNotFound is returned when an upstream answered but carried nothing usable.
	ErrNotFound = errors.New("no usable data found")
	// ErrShape is returned when an upstream response does not have the expected structure.
	ErrShape = errors.New("unexpected response shape")
)
