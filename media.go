package datasmith

import (
	"os"
	"path/filepath"
	"strings"
)

// mediaExtensions buckets file extensions into coarse media categories for
// the metadata records of a media dataset.
var mediaExtensions = map[string]string{
	".jpg": "image", ".jpeg": "image", ".png": "image", ".gif": "image",
	".webp": "image", ".svg": "image", ".bmp": "image",
	".mp4": "video", ".webm": "video", ".mov": "video", ".avi": "video",
	".mkv": "video",
	".mp3": "audio", ".wav": "audio", ".ogg": "audio", ".flac": "audio",
	".m4a": "audio",
	".pdf": "document", ".doc": "document", ".docx": "document",
	".txt": "document",
}

// MediaFileRecords converts downloaded media file paths into metadata
// records, one per file. Files that cannot be stat'd still get a record
// with a zero size so the dataset reflects every download.
func MediaFileRecords(paths []string, topic string) []Record {
	records := make([]Record, 0, len(paths))
	for _, path := range paths {
		ext := strings.ToLower(filepath.Ext(path))
		fileType, ok := mediaExtensions[ext]
		if !ok {
			fileType = "other"
		}

		var sizeKB float64
		if fi, err := os.Stat(path); err == nil {
			sizeKB = float64(fi.Size()) / 1024
		}

		records = append(records, Record{
			"filename":  filepath.Base(path),
			"path":      path,
			"size_kb":   sizeKB,
			"extension": strings.TrimPrefix(ext, "."),
			"file_type": fileType,
			"topic":     topic,
		})
	}
	return records
}
