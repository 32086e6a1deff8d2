// Package dispatch runs the fetch set of a task through a fetch backend
// with bounded parallelism, isolating per-source failures and reporting
// live progress.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/datasmithhq/datasmith"
	dsgoquery "github.com/datasmithhq/datasmith/goquery"
	"golang.org/x/sync/errgroup"
)

// MaxWorkers caps the number of concurrent fetches in one dispatch call.
const MaxWorkers = 5

// Dispatcher coordinates concurrent fetches against a single backend.
// It never mutates the task or strategy it is dispatched for.
type Dispatcher struct {
	Fetcher     datasmith.Fetcher
	RateLimiter *DomainLimiter
	Logger      *slog.Logger
}

// Dispatch fetches every source exactly once and returns the successfully
// extracted records in completion order.
//
// Up to min(MaxWorkers, len(sources)) fetches run concurrently. A failure
// on one source is logged and excluded without cancelling its siblings.
// After each source completes, onProgress receives a value in [50, 70]
// computed from the completed count, with a "Scraped X/Y sources" status.
// An empty source list returns immediately without touching the backend.
func (d *Dispatcher) Dispatch(ctx context.Context, sources []string, selectors map[string]string, onProgress datasmith.ProgressFunc) ([]datasmith.Record, error) {
	if len(sources) == 0 {
		return []datasmith.Record{}, nil
	}

	workers := min(MaxWorkers, len(sources))
	if workers < 1 {
		workers = 1
	}

	total := len(sources)

	var mu sync.Mutex
	var records []datasmith.Record
	completed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, source := range sources {
		g.Go(func() error {
			record, err := d.fetchOne(gctx, source, selectors)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				d.logf("scrape failed", "url", source, "err", err)
			} else {
				records = append(records, record)
			}

			completed++
			if onProgress != nil {
				onProgress(datasmith.ScrapeProgress{
					Status:    fmt.Sprintf("Scraped %d/%d sources", completed, total),
					Progress:  datasmith.ProgressCollecting + (20*completed)/total,
					URL:       source,
					Completed: completed,
					Total:     total,
					Err:       err,
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return records, err
	}
	if err := ctx.Err(); err != nil {
		return records, err
	}
	return records, nil
}

// fetchOne retrieves and extracts a single source.
func (d *Dispatcher) fetchOne(ctx context.Context, source string, selectors map[string]string) (datasmith.Record, error) {
	if d.RateLimiter != nil {
		parsed, err := url.Parse(source)
		if err != nil {
			return nil, datasmith.Errorf(datasmith.EINVALID, "invalid source URL %q: %v", source, err)
		}
		if err := d.RateLimiter.Wait(ctx, parsed.Host); err != nil {
			return nil, err
		}
	}

	html, err := d.Fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	return dsgoquery.ExtractRecord(html, source, selectors, d.Logger)
}

func (d *Dispatcher) logf(msg string, args ...any) {
	if d.Logger != nil {
		d.Logger.Error(msg, args...)
	}
}
