package recipe

import (
	"errors"

	"github.com/jonathan/recipe-keeper/internal/guard"
	"github.com/jonathan/recipe-keeper/internal/types"
)

// Reason explains the result of one strategy attempt.
type Reason string

const (
	// ReasonOK means the strategy produced a value.
	ReasonOK Reason = "ok"
	// ReasonSkipped means the strategy was not attempted, usually for lack of a credential.
	ReasonSkipped Reason = "skipped"
	// ReasonUnavailable means a transport failure, timeout or non-success status.
	ReasonUnavailable Reason = "unavailable"
	// ReasonShape means the upstream answered with an unexpected structure.
	ReasonShape Reason = "shape"
	// ReasonEmpty means the strategy ran and found nothing.
	ReasonEmpty Reason = "empty"
)

// Outcome is the typed result of a strategy. Value is non-nil only when
// Reason is ReasonOK.
type Outcome[T any] struct {
	Value  *T
	Reason Reason
	Err    error
}

// OK wraps a value. A nil value is reported as empty.
func OK[T any](v *T) Outcome[T] {
	if v == nil {
		return Outcome[T]{Reason: ReasonEmpty}
	}
	return Outcome[T]{Value: v, Reason: ReasonOK}
}

// Empty reports a strategy that ran and found nothing.
func Empty[T any]() Outcome[T] {
	return Outcome[T]{Reason: ReasonEmpty}
}

// Skipped reports a strategy that was not attempted.
func Skipped[T any](err error) Outcome[T] {
	return Outcome[T]{Reason: ReasonSkipped, Err: err}
}

// From converts a fetcher's (value, error) pair into an outcome.
func From[T any](v *T, err error) Outcome[T] {
	if err != nil {
		return Outcome[T]{Reason: classify(err), Err: err}
	}
	return OK(v)
}

// Ok reports whether the outcome carries a value.
func (o Outcome[T]) Ok() bool {
	return o.Reason == ReasonOK && o.Value != nil
}

func classify(err error) Reason {
	switch {
	case err == nil:
		return ReasonOK
	case errors.Is(err, types.ErrMissingCredential):
		return ReasonSkipped
	case errors.Is(err, types.ErrShape):
		return ReasonShape
	case errors.Is(err, types.ErrNotFound):
		return ReasonEmpty
	default:
		return ReasonUnavailable
	}
}

// isTransport reports whether err is a failure to reach the upstream at all,
// as opposed to an answer that carried nothing usable. A call rejected by an
// open circuit breaker never reached the network.
func isTransport(err error) bool {
	return err != nil &&
		!guard.IsOpen(err) &&
		!errors.Is(err, types.ErrUpstreamStatus) &&
		!errors.Is(err, types.ErrNotFound) &&
		!errors.Is(err, types.ErrShape) &&
		!errors.Is(err, types.ErrMissingCredential)
}
