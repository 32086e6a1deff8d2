package datasmith

import "context"

// Planner converts free-text requests into structured tasks and derives
// execution strategies for them.
//
// Implementations must be resilient: a malformed response from the
// underlying reasoning engine degrades to FallbackTask or FallbackStrategy
// rather than propagating an error for every malformed field.
type Planner interface {
	// Analyze converts a free-text request into a structured task.
	Analyze(ctx context.Context, request string) (*Task, error)

	// Strategize derives priority sources and per-attribute selectors
	// for a task.
	Strategize(ctx context.Context, task *Task) (*Strategy, error)
}
