package mock

import (
	"context"

	"github.com/datasmithhq/datasmith"
)

var _ datasmith.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of datasmith.Exporter.
type Exporter struct {
	ExportFn func(ctx context.Context, dataFile string, mediaFiles []string, metadata datasmith.ExportMetadata) (string, error)
}

func (e *Exporter) Export(ctx context.Context, dataFile string, mediaFiles []string, metadata datasmith.ExportMetadata) (string, error) {
	return e.ExportFn(ctx, dataFile, mediaFiles, metadata)
}
