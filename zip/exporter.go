// Package zip packages a serialized dataset, its media files, and metadata
// into a single downloadable archive.
package zip

import (
	stdzip "archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/datasmithhq/datasmith"
)

// Ensure Exporter implements datasmith.Exporter at compile time.
var _ datasmith.Exporter = (*Exporter)(nil)

// Exporter stages a dataset directory (data file, media files, metadata,
// README) under its output directory and compresses it into a zip archive.
type Exporter struct {
	outputDir string
	logger    *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the exporter's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// NewExporter creates an Exporter writing archives under outputDir,
// creating the directory if needed.
func NewExporter(outputDir string, opts ...Option) (*Exporter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, datasmith.Errorf(datasmith.EINTERNAL, "creating export directory: %v", err)
	}
	e := &Exporter{outputDir: outputDir, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Export assembles the dataset directory and returns the path of the zip
// archive. Media files that no longer exist on disk are skipped. The
// staging directory stays next to the archive so the dataset can also be
// browsed uncompressed.
func (e *Exporter) Export(ctx context.Context, dataFile string, mediaFiles []string, metadata datasmith.ExportMetadata) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	datasetName := "dataset_" + time.Now().Format("20060102_150405")
	datasetDir := filepath.Join(e.outputDir, datasetName)
	if err := os.MkdirAll(datasetDir, 0o755); err != nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "creating dataset directory: %v", err)
	}

	dataFilename := filepath.Base(dataFile)
	if err := copyFile(dataFile, filepath.Join(datasetDir, dataFilename)); err != nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "copying data file: %v", err)
	}

	if len(mediaFiles) > 0 {
		mediaDir := filepath.Join(datasetDir, "media")
		if err := os.MkdirAll(mediaDir, 0o755); err != nil {
			return "", datasmith.Errorf(datasmith.EINTERNAL, "creating media directory: %v", err)
		}
		for _, mediaFile := range mediaFiles {
			if _, err := os.Stat(mediaFile); err != nil {
				e.logger.Warn("skipping missing media file", "path", mediaFile)
				continue
			}
			if err := copyFile(mediaFile, filepath.Join(mediaDir, filepath.Base(mediaFile))); err != nil {
				return "", datasmith.Errorf(datasmith.EINTERNAL, "copying media file: %v", err)
			}
		}
	}

	metadataJSON, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "encoding metadata: %v", err)
	}
	if err := os.WriteFile(filepath.Join(datasetDir, "metadata.json"), metadataJSON, 0o644); err != nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "writing metadata: %v", err)
	}

	readme := buildReadme(datasetName, dataFilename, mediaFiles, metadata)
	if err := os.WriteFile(filepath.Join(datasetDir, "README.md"), []byte(readme), 0o644); err != nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "writing readme: %v", err)
	}

	archivePath, err := e.archive(datasetDir)
	if err != nil {
		return "", err
	}

	e.logger.Info("dataset exported", "path", archivePath)
	return archivePath, nil
}

// buildReadme renders the dataset's README describing its contents.
func buildReadme(datasetName, dataFilename string, mediaFiles []string, metadata datasmith.ExportMetadata) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Dataset: %s\n\n", datasetName)
	fmt.Fprintf(&sb, "Created on: %s\n\n", metadata.CompletionTime)

	sb.WriteString("## Metadata\n\n")
	fmt.Fprintf(&sb, "**Topic:** %s\n\n", metadata.Topic)
	fmt.Fprintf(&sb, "**Data type:** %s\n\n", metadata.DataType)
	if len(metadata.Sources) > 0 {
		sb.WriteString("**Sources:**\n\n")
		for _, source := range metadata.Sources {
			fmt.Fprintf(&sb, "- %s\n", source)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Data File\n\n")
	fmt.Fprintf(&sb, "The main data file is `%s`.\n\n", dataFilename)
	fmt.Fprintf(&sb, "Number of records: %d\n\n", metadata.RecordCount)
	if len(metadata.Attributes) > 0 {
		sb.WriteString("Columns:\n\n")
		for _, attr := range metadata.Attributes {
			fmt.Fprintf(&sb, "- `%s`\n", attr)
		}
		sb.WriteString("\n")
	}

	if len(mediaFiles) > 0 {
		sb.WriteString("## Media Files\n\n")
		fmt.Fprintf(&sb, "Number of media files: %d\n\n", len(mediaFiles))

		counts := map[string]int{}
		var exts []string
		for _, mediaFile := range mediaFiles {
			ext := strings.ToLower(filepath.Ext(mediaFile))
			if counts[ext] == 0 {
				exts = append(exts, ext)
			}
			counts[ext]++
		}
		sb.WriteString("File types:\n\n")
		for _, ext := range exts {
			fmt.Fprintf(&sb, "- %s: %d files\n", ext, counts[ext])
		}
		sb.WriteString("\nMedia files are stored in the `media` directory.\n")
	}

	return sb.String()
}

// archive compresses the dataset directory into <dir>.zip with entries
// prefixed by the directory name.
func (e *Exporter) archive(datasetDir string) (string, error) {
	archivePath := datasetDir + ".zip"
	f, err := os.Create(archivePath)
	if err != nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "creating archive: %v", err)
	}
	defer f.Close()

	w := stdzip.NewWriter(f)
	root := filepath.Dir(datasetDir)

	err = filepath.WalkDir(datasetDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entry, err := w.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(entry, src)
		return err
	})
	if err != nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "writing archive: %v", err)
	}
	if err := w.Close(); err != nil {
		return "", datasmith.Errorf(datasmith.EINTERNAL, "finalizing archive: %v", err)
	}

	return archivePath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
