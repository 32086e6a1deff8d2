package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/datasmithhq/datasmith"
)

// videoHostDomains identifies iframe embeds pointing at known video hosts.
// Matching embed URLs are returned as-is, unresolved.
var videoHostDomains = []string{"youtube.com", "youtu.be", "vimeo.com"}

// ExtractMediaURLs parses the document for media references of the given
// kind and returns their absolute URLs, resolved against baseURL.
// Inline data: URLs are skipped. For video, iframe embeds from known video
// hosts are included as raw embed URLs.
func ExtractMediaURLs(html string, baseURL string, kind datasmith.MediaKind) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, datasmith.Errorf(datasmith.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, datasmith.Errorf(datasmith.EINVALID, "failed to parse HTML: %v", err)
	}

	var urls []string
	add := func(src string) {
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		if resolved := resolveURL(base, src); resolved != "" {
			urls = append(urls, resolved)
		}
	}

	switch kind {
	case datasmith.MediaImage:
		doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
			src, _ := s.Attr("src")
			add(src)
		})

	case datasmith.MediaVideo:
		doc.Find("video").Each(func(_ int, s *goquery.Selection) {
			s.Find("source[src]").Each(func(_ int, source *goquery.Selection) {
				src, _ := source.Attr("src")
				add(src)
			})
			if src, ok := s.Attr("src"); ok {
				add(src)
			}
		})
		doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
			src, _ := s.Attr("src")
			for _, domain := range videoHostDomains {
				if strings.Contains(src, domain) {
					urls = append(urls, src)
					break
				}
			}
		})

	case datasmith.MediaAudio:
		doc.Find("audio").Each(func(_ int, s *goquery.Selection) {
			s.Find("source[src]").Each(func(_ int, source *goquery.Selection) {
				src, _ := source.Attr("src")
				add(src)
			})
			if src, ok := s.Attr("src"); ok {
				add(src)
			}
		})
	}

	return urls, nil
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the src cannot be parsed.
func resolveURL(base *url.URL, src string) string {
	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
