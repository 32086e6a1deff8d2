package rod

import (
	"context"
	"time"

	"github.com/datasmithhq/datasmith"
	"github.com/go-rod/rod"
)

// requestIdleWindow is how long the network must stay quiet before a page
// is considered settled.
const requestIdleWindow = 300 * time.Millisecond

// Ensure IdleFetcher implements datasmith.Fetcher at compile time.
var _ datasmith.Fetcher = (*IdleFetcher)(nil)

// IdleFetcher is the heavier browser variant: after the document loads it
// also waits until network activity settles, which captures content that
// single-page applications render from late XHR responses.
type IdleFetcher struct {
	inner *Fetcher
}

// NewIdleFetcher creates a new IdleFetcher backed by its own headless
// Chrome browser. Close must be called when the fetcher is no longer needed.
func NewIdleFetcher(opts ...Option) (*IdleFetcher, error) {
	inner, err := NewFetcher(opts...)
	if err != nil {
		return nil, err
	}
	return &IdleFetcher{inner: inner}, nil
}

// Fetch navigates to the URL, waits for the load event and for network
// activity to settle, and returns the rendered HTML.
func (f *IdleFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.inner.fetch(ctx, url, func(page *rod.Page) error {
		if err := page.WaitLoad(); err != nil {
			return err
		}
		wait := page.WaitRequestIdle(requestIdleWindow, nil, nil, nil)
		wait()
		return nil
	})
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *IdleFetcher) Close() error {
	return f.inner.Close()
}
