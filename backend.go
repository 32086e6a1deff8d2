package datasmith

import "strings"

// BackendType identifies a fetch backend implementation.
type BackendType string

// The closed set of fetch backends.
const (
	// BackendHTTP is the plain HTTP fetcher for static pages.
	BackendHTTP BackendType = "http"
	// BackendBrowser is the JavaScript-capable browser fetcher.
	BackendBrowser BackendType = "browser"
	// BackendMedia downloads binary assets referenced by a page.
	BackendMedia BackendType = "media"
)

// jsHeavyDomains lists platforms that render nothing useful without
// JavaScript. Sources on these domains force the browser backend.
var jsHeavyDomains = []string{
	"twitter.com",
	"facebook.com",
	"instagram.com",
	"youtube.com",
	"linkedin.com",
	"tiktok.com",
}

// SelectBackend maps a task to the backend that should fetch its sources.
//
// Image, video, and audio tasks use the media backend. Text and mixed tasks
// use plain HTTP unless any source sits on a JavaScript-heavy domain, in
// which case the browser backend is selected. Unknown data types default to
// plain HTTP. The function is pure and deterministic.
func SelectBackend(task *Task) BackendType {
	switch task.DataType {
	case DataTypeImage, DataTypeVideo, DataTypeAudio:
		return BackendMedia
	case DataTypeText, DataTypeMixed:
		for _, source := range task.Sources {
			for _, domain := range jsHeavyDomains {
				if strings.Contains(source, domain) {
					return BackendBrowser
				}
			}
		}
		return BackendHTTP
	default:
		return BackendHTTP
	}
}
