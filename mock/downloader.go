package mock

import (
	"context"

	"github.com/datasmithhq/datasmith"
)

var _ datasmith.MediaDownloader = (*MediaDownloader)(nil)

// MediaDownloader is a mock implementation of datasmith.MediaDownloader.
type MediaDownloader struct {
	DownloadFromPageFn func(ctx context.Context, pageURL string, kind datasmith.MediaKind) ([]string, error)
	CloseFn            func() error
}

func (d *MediaDownloader) DownloadFromPage(ctx context.Context, pageURL string, kind datasmith.MediaKind) ([]string, error) {
	return d.DownloadFromPageFn(ctx, pageURL, kind)
}

func (d *MediaDownloader) Close() error {
	if d.CloseFn == nil {
		return nil
	}
	return d.CloseFn()
}
