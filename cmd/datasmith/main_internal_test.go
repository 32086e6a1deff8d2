package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datasmithhq/datasmith"
	dsslog "github.com/datasmithhq/datasmith/slog"
)

func TestLoggingFetcherFactory(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := loggingFetcherFactory(logger)

	t.Run("wraps the http backend", func(t *testing.T) {
		t.Parallel()

		f, err := factory(datasmith.BackendHTTP)
		require.NoError(t, err)
		_, ok := f.(*dsslog.LoggingFetcher)
		assert.True(t, ok)
		assert.NoError(t, f.Close())
	})

	t.Run("unknown backend errors", func(t *testing.T) {
		t.Parallel()

		_, err := factory(datasmith.BackendType("carrier-pigeon"))
		require.Error(t, err)
		assert.Equal(t, datasmith.EINVALID, datasmith.ErrorCode(err))
	})
}
