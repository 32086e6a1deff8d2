package resty_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/datasmithhq/datasmith"
	dsresty "github.com/datasmithhq/datasmith/resty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDownloader(t *testing.T) *dsresty.Downloader {
	t.Helper()
	dl, err := dsresty.NewDownloader(t.TempDir(), dsresty.WithDelay(0))
	require.NoError(t, err)
	t.Cleanup(func() { dl.Close() })
	return dl
}

func TestDownloader_DownloadFromPage(t *testing.T) {
	t.Parallel()

	t.Run("downloads every image referenced by the page", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/gallery", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body><img src="/a.jpg"><img src="/b.png"></body></html>`))
		})
		mux.HandleFunc("/a.jpg", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte("jpeg-bytes"))
		})
		mux.HandleFunc("/b.png", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("png-bytes"))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		dl := newDownloader(t)
		paths, err := dl.DownloadFromPage(context.Background(), srv.URL+"/gallery", datasmith.MediaImage)
		require.NoError(t, err)
		require.Len(t, paths, 2)
		assert.Equal(t, "a.jpg", filepath.Base(paths[0]))
		assert.Equal(t, "b.png", filepath.Base(paths[1]))

		data, err := os.ReadFile(paths[0])
		require.NoError(t, err)
		assert.Equal(t, "jpeg-bytes", string(data))
	})

	t.Run("failed individual download is skipped, not fatal", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body><img src="/missing.jpg"><img src="/ok.jpg"></body></html>`))
		})
		mux.HandleFunc("/missing.jpg", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		mux.HandleFunc("/ok.jpg", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		dl := newDownloader(t)
		paths, err := dl.DownloadFromPage(context.Background(), srv.URL+"/page", datasmith.MediaImage)
		require.NoError(t, err)
		require.Len(t, paths, 1)
		assert.Equal(t, "ok.jpg", filepath.Base(paths[0]))
	})

	t.Run("unreachable page returns an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		dl := newDownloader(t)
		_, err := dl.DownloadFromPage(context.Background(), srv.URL, datasmith.MediaImage)
		require.Error(t, err)
	})
}

func TestDownloader_Download_Filenames(t *testing.T) {
	t.Parallel()

	t.Run("uses content-disposition filename when provided", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
			_, _ = w.Write([]byte("pdf"))
		}))
		defer srv.Close()

		dl := newDownloader(t)
		path, err := dl.Download(context.Background(), srv.URL+"/dl")
		require.NoError(t, err)
		assert.Equal(t, "report.pdf", filepath.Base(path))
	})

	t.Run("synthesizes a name from content type for extension-less paths", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("png"))
		}))
		defer srv.Close()

		dl := newDownloader(t)
		path, err := dl.Download(context.Background(), srv.URL+"/assets/raw")
		require.NoError(t, err)

		name := filepath.Base(path)
		assert.Regexp(t, `^image_\d+_\d{4}\.png$`, name)
	})

	t.Run("generic bucket for unknown content types", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write([]byte("bytes"))
		}))
		defer srv.Close()

		dl := newDownloader(t)
		path, err := dl.Download(context.Background(), srv.URL+"/blob/")
		require.NoError(t, err)
		assert.Regexp(t, `^file_\d+_\d{4}$`, filepath.Base(path))
	})
}

func TestDownloader_Close_Idempotent(t *testing.T) {
	t.Parallel()

	dl, err := dsresty.NewDownloader(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, dl.Close())
	require.NoError(t, dl.Close())
}

// Compile-time verification that Downloader implements datasmith.MediaDownloader
var _ datasmith.MediaDownloader = (*dsresty.Downloader)(nil)
