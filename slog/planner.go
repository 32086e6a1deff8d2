package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/datasmithhq/datasmith"
)

// Ensure LoggingPlanner implements datasmith.Planner.
var _ datasmith.Planner = (*LoggingPlanner)(nil)

// LoggingPlanner wraps a Planner with timing logs for both planning calls.
type LoggingPlanner struct {
	next   datasmith.Planner
	logger *slog.Logger
}

// NewLoggingPlanner creates a new LoggingPlanner.
func NewLoggingPlanner(next datasmith.Planner, logger *slog.Logger) *LoggingPlanner {
	return &LoggingPlanner{next: next, logger: logger}
}

// Analyze delegates to the wrapped planner, logging the outcome.
func (p *LoggingPlanner) Analyze(ctx context.Context, request string) (*datasmith.Task, error) {
	begin := time.Now()
	task, err := p.next.Analyze(ctx, request)
	if err != nil {
		p.logger.Error("analyze",
			"duration", time.Since(begin),
			"error", err,
		)
		return nil, err
	}
	p.logger.Info("analyze",
		"topic", task.Topic,
		"data_type", task.DataType,
		"sources", len(task.Sources),
		"duration", time.Since(begin),
	)
	return task, nil
}

// Strategize delegates to the wrapped planner, logging the outcome.
func (p *LoggingPlanner) Strategize(ctx context.Context, task *datasmith.Task) (*datasmith.Strategy, error) {
	begin := time.Now()
	strategy, err := p.next.Strategize(ctx, task)
	if err != nil {
		p.logger.Error("strategize",
			"topic", task.Topic,
			"duration", time.Since(begin),
			"error", err,
		)
		return nil, err
	}
	p.logger.Info("strategize",
		"topic", task.Topic,
		"priority_sources", len(strategy.PrioritySources),
		"selectors", len(strategy.Selectors),
		"duration", time.Since(begin),
	)
	return strategy, nil
}
