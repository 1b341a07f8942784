package recipe

import "context"

// Strategy is one named step of a fallback chain.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) Outcome[T]
}

// Chain runs strategies in priority order until one succeeds.
type Chain[T any] struct {
	strategies []Strategy[T]
	observe    func(name string, o Outcome[T])
}

// NewChain creates a chain. observe, if non-nil, sees every attempt.
func NewChain[T any](observe func(name string, o Outcome[T]), strategies ...Strategy[T]) *Chain[T] {
	return &Chain[T]{strategies: strategies, observe: observe}
}

// First returns the first ok outcome and the name of the strategy that
// produced it. When nothing succeeds it returns the last attempted outcome
// and an empty name.
func (c *Chain[T]) First(ctx context.Context) (Outcome[T], string) {
	last := Empty[T]()
	for _, s := range c.strategies {
		if ctx.Err() != nil {
			return Outcome[T]{Reason: ReasonUnavailable, Err: ctx.Err()}, ""
		}
		o := s.Run(ctx)
		if c.observe != nil {
			c.observe(s.Name, o)
		}
		if o.Ok() {
			return o, s.Name
		}
		last = o
	}
	return last, ""
}
