// Package rod provides browser-automation implementations of
// datasmith.Fetcher using Chrome via go-rod. Two variants share the same
// contract: Fetcher waits for document load, IdleFetcher additionally waits
// for network activity to settle before extracting.
package rod

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/datasmithhq/datasmith"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout is the default timeout for browser fetches.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements datasmith.Fetcher at compile time.
var _ datasmith.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// It waits for the document load event before extracting.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	headers  []string
	timeout  time.Duration
	delay    time.Duration
	closed   atomic.Bool
}

// Option configures a Fetcher or IdleFetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-fetch timeout.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithDelay sets the base pre-request delay. The actual delay is scaled by
// a random factor in [0.5, 1.5). Set to zero to disable, e.g. in tests.
func WithDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.delay = d
	}
}

// WithHeaders replaces the default extra HTTP headers.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headerPairs(headers)
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		delay:   datasmith.DefaultRequestDelay,
		headers: headerPairs(datasmith.DefaultHeaders()),
	}
	for _, opt := range opts {
		opt(f)
	}

	browser, lnchr, err := launchBrowser()
	if err != nil {
		return nil, err
	}
	f.browser = browser
	f.launcher = lnchr

	return f, nil
}

// Fetch navigates to the URL, waits for the load event, and returns the
// rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.fetch(ctx, url, func(page *rod.Page) error {
		return page.WaitLoad()
	})
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := f.browser.Close()
	f.launcher.Kill()
	return err
}

// fetch runs the shared navigate/wait/extract sequence. The ready function
// decides what "loaded" means for the variant.
func (f *Fetcher) fetch(ctx context.Context, url string, ready func(*rod.Page) error) (string, error) {
	if err := sleepJittered(ctx, f.delay); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if len(f.headers) > 0 {
		cleanup, err := page.SetExtraHeaders(f.headers)
		if err != nil {
			return "", err
		}
		defer cleanup()
	}

	if err := page.Navigate(url); err != nil {
		return "", err
	}

	if err := ready(page); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", err
	}

	return html, nil
}

// launchBrowser starts a headless browser with stability flags and connects
// to it.
func launchBrowser() (*rod.Browser, *launcher.Launcher, error) {
	lnchr := launcher.New().
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-sandbox").
		Set("window-size", "1920,1080").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill() // Clean up launched process on connection failure
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return browser, lnchr, nil
}

// headerPairs flattens a header map into the key/value pair slice rod
// expects.
func headerPairs(headers map[string]string) []string {
	pairs := make([]string, 0, len(headers)*2)
	for key, value := range headers {
		pairs = append(pairs, key, value)
	}
	return pairs
}

// sleepJittered waits for base scaled by a random factor in [0.5, 1.5),
// respecting context cancellation.
func sleepJittered(ctx context.Context, base time.Duration) error {
	if base <= 0 {
		return ctx.Err()
	}
	jittered := time.Duration(float64(base) * (0.5 + rand.Float64()))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(jittered):
		return nil
	}
}
