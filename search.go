package datasmith

import "net/url"

// Search engines understood by SearchURLs.
const (
	SearchGoogle     = "google"
	SearchBing       = "bing"
	SearchDuckDuckGo = "duckduckgo"
)

// SearchURLs converts search queries into search-engine result URLs.
// Unknown engines fall back to Google.
func SearchURLs(queries []string, engine string) []string {
	urls := make([]string, 0, len(queries))
	for _, query := range queries {
		encoded := url.QueryEscape(query)
		switch engine {
		case SearchBing:
			urls = append(urls, "https://www.bing.com/search?q="+encoded)
		case SearchDuckDuckGo:
			urls = append(urls, "https://duckduckgo.com/?q="+encoded)
		default:
			urls = append(urls, "https://www.google.com/search?q="+encoded)
		}
	}
	return urls
}
