// Package resty provides the media-download implementation of
// datasmith.MediaDownloader using the resty HTTP client. It discovers media
// references on a page and retrieves the binary assets to a local directory.
package resty

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/datasmithhq/datasmith"
	dsgoquery "github.com/datasmithhq/datasmith/goquery"
	"github.com/go-resty/resty/v2"
)

// DefaultDownloadTimeout is the default timeout for page fetches and binary
// downloads.
const DefaultDownloadTimeout = 30 * time.Second

// Ensure Downloader implements datasmith.MediaDownloader at compile time.
var _ datasmith.MediaDownloader = (*Downloader)(nil)

// Downloader fetches pages, discovers media references on them, and
// downloads the referenced binaries.
type Downloader struct {
	client    *resty.Client
	outputDir string
	delay     time.Duration
	logger    *slog.Logger
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithTimeout sets the request timeout for page fetches and downloads.
// Defaults to DefaultDownloadTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(dl *Downloader) {
		dl.client.SetTimeout(d)
	}
}

// WithDelay sets the base pre-request delay. The actual delay is scaled by
// a random factor in [0.5, 1.5). Set to zero to disable, e.g. in tests.
func WithDelay(d time.Duration) Option {
	return func(dl *Downloader) {
		dl.delay = d
	}
}

// WithLogger sets the logger for skipped downloads.
func WithLogger(logger *slog.Logger) Option {
	return func(dl *Downloader) {
		dl.logger = logger
	}
}

// NewDownloader creates a Downloader that saves files under outputDir,
// creating the directory if needed.
func NewDownloader(outputDir string, opts ...Option) (*Downloader, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media directory: %w", err)
	}

	client := resty.New().
		SetTimeout(DefaultDownloadTimeout).
		SetHeaders(datasmith.DefaultHeaders())

	dl := &Downloader{
		client:    client,
		outputDir: outputDir,
		delay:     datasmith.DefaultRequestDelay,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(dl)
	}

	return dl, nil
}

// DownloadFromPage fetches the page at pageURL, discovers media of the
// given kind, and downloads each asset. Failed individual downloads are
// logged and skipped; the successfully saved paths are returned.
func (dl *Downloader) DownloadFromPage(ctx context.Context, pageURL string, kind datasmith.MediaKind) ([]string, error) {
	if err := sleepJittered(ctx, dl.delay); err != nil {
		return nil, err
	}

	resp, err := dl.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode(), pageURL)
	}

	mediaURLs, err := dsgoquery.ExtractMediaURLs(string(resp.Body()), pageURL, kind)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, mediaURL := range mediaURLs {
		filePath, err := dl.Download(ctx, mediaURL)
		if err != nil {
			if ctx.Err() != nil {
				return paths, ctx.Err()
			}
			dl.logger.Error("download skipped", "url", mediaURL, "err", err)
			continue
		}
		paths = append(paths, filePath)
	}

	return paths, nil
}

// Download retrieves a single binary asset and returns the saved file path.
func (dl *Downloader) Download(ctx context.Context, mediaURL string) (string, error) {
	if err := sleepJittered(ctx, dl.delay); err != nil {
		return "", err
	}

	resp, err := dl.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(mediaURL)
	if err != nil {
		return "", err
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode(), mediaURL)
	}

	filename := chooseFilename(mediaURL, resp.Header().Get("Content-Disposition"), resp.Header().Get("Content-Type"))
	filePath := filepath.Join(dl.outputDir, filename)

	out, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, body); err != nil {
		os.Remove(filePath)
		return "", err
	}

	return filePath, nil
}

// Close releases idle connections held by the client. Safe to call more
// than once.
func (dl *Downloader) Close() error {
	dl.client.GetClient().CloseIdleConnections()
	return nil
}

// chooseFilename picks a filename for a downloaded asset: the
// content-disposition filename when the server provides one, otherwise the
// final URL path segment, otherwise a name synthesized from the content
// type with a timestamp and random suffix.
func chooseFilename(mediaURL, contentDisposition, contentType string) string {
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			if name := params["filename"]; name != "" {
				return filepath.Base(name)
			}
		}
	}

	if parsed, err := url.Parse(mediaURL); err == nil {
		name := path.Base(parsed.Path)
		if name != "." && name != "/" && strings.Contains(name, ".") {
			return name
		}
	}

	return synthesizeFilename(contentType)
}

// synthesizeFilename builds a collision-resistant filename from the
// declared content type: <bucket>_<millis>_<rand>.<ext>.
func synthesizeFilename(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}

	bucket := "file"
	ext := ""
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		bucket, ext = "image", subtypeExt(mediaType, "jpg")
	case strings.HasPrefix(mediaType, "video/"):
		bucket, ext = "video", subtypeExt(mediaType, "mp4")
	case strings.HasPrefix(mediaType, "audio/"):
		bucket, ext = "audio", subtypeExt(mediaType, "mp3")
	}

	name := fmt.Sprintf("%s_%d_%04d", bucket, time.Now().UnixMilli(), rand.IntN(10000))
	if ext != "" {
		return name + "." + ext
	}
	return name
}

// subtypeExt returns the subtype of a media type as a file extension, or
// the fallback when the subtype is missing.
func subtypeExt(mediaType, fallback string) string {
	if _, sub, ok := strings.Cut(mediaType, "/"); ok && sub != "" {
		return sub
	}
	return fallback
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
