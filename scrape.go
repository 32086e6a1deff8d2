package datasmith

import "context"

// Record holds the data extracted from a single page: attribute name mapped
// to a string (one selector match), a []string (multiple matches), or nil
// (no matches). Every record carries the URL it came from under "url".
type Record map[string]any

// SourceURL returns the URL the record was extracted from.
func (r Record) SourceURL() string {
	url, _ := r["url"].(string)
	return url
}

// Fetcher retrieves HTML content from URLs.
// Implementations may use browser automation to handle JavaScript-rendered
// content. Fetchers apply their configured pre-request delay and headers on
// every call.
type Fetcher interface {
	// Fetch retrieves the page at url and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases held resources (browser process, connection pool).
	// Close is safe to call more than once.
	Close() error
}

// MediaKind identifies which media elements a downloader collects.
type MediaKind string

// Media kinds understood by MediaDownloader implementations.
const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// MediaDownloader retrieves binary media assets referenced by a page.
type MediaDownloader interface {
	// DownloadFromPage fetches the page at pageURL, discovers media of the
	// given kind, downloads each asset, and returns the saved file paths.
	// Individual download failures are logged and skipped, never returned.
	DownloadFromPage(ctx context.Context, pageURL string, kind MediaKind) ([]string, error)

	// Close releases the downloader's connection resources.
	Close() error
}

// ScrapeProgress reports progress during a dispatch run.
type ScrapeProgress struct {
	Status    string
	Progress  int
	URL       string
	Completed int
	Total     int
	Err       error
}

// ProgressFunc is called as sources are processed. Invocations are strictly
// increasing in completed count but arrive in completion order, not
// submission order.
type ProgressFunc func(ScrapeProgress)
