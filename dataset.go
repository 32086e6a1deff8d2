package datasmith

import "context"

// Dataset is a normalized tabular view of scraped records. Column order is
// stable; row values are strings, numbers, or string slices.
type Dataset struct {
	Columns []string
	Rows    []map[string]any
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Normalizer turns raw scrape records into a clean tabular dataset and
// serializes it to a file.
type Normalizer interface {
	// Normalize filters, cleans, and coerces raw records according to the
	// task's filters and attributes.
	Normalize(records []Record, task *Task) (*Dataset, error)

	// Serialize writes the dataset in the given format and returns the
	// file path. The baseName is used without extension.
	Serialize(dataset *Dataset, format OutputFormat, baseName string) (string, error)
}

// ExportMetadata describes a completed dataset for packaging.
type ExportMetadata struct {
	TaskID         string   `json:"task_id"`
	Topic          string   `json:"topic"`
	DataType       DataType `json:"data_type"`
	Sources        []string `json:"sources"`
	Attributes     []string `json:"attributes"`
	CompletionTime string   `json:"completion_time"`
	RecordCount    int      `json:"record_count"`
}

// Exporter packages a serialized dataset, its media files, and metadata
// into a single downloadable artifact.
type Exporter interface {
	Export(ctx context.Context, dataFile string, mediaFiles []string, metadata ExportMetadata) (string, error)
}
