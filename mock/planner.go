package mock

import (
	"context"

	"github.com/datasmithhq/datasmith"
)

var _ datasmith.Planner = (*Planner)(nil)

// Planner is a mock implementation of datasmith.Planner.
type Planner struct {
	AnalyzeFn    func(ctx context.Context, request string) (*datasmith.Task, error)
	StrategizeFn func(ctx context.Context, task *datasmith.Task) (*datasmith.Strategy, error)
}

func (p *Planner) Analyze(ctx context.Context, request string) (*datasmith.Task, error) {
	return p.AnalyzeFn(ctx, request)
}

func (p *Planner) Strategize(ctx context.Context, task *datasmith.Task) (*datasmith.Strategy, error) {
	return p.StrategizeFn(ctx, task)
}
