// Package goquery provides selector evaluation over fetched HTML documents:
// per-attribute record extraction and media URL discovery.
package goquery

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/datasmithhq/datasmith"
)

// ExtractRecord evaluates each attribute's selector against the document
// and returns a record tagged with the page URL.
//
// Zero matches map the attribute to nil, one match to the element's trimmed
// text, and multiple matches to a []string of trimmed texts. A selector that
// fails to compile maps its attribute to nil without affecting the other
// attributes.
func ExtractRecord(html string, pageURL string, selectors map[string]string, logger *slog.Logger) (datasmith.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, datasmith.Errorf(datasmith.EINVALID, "failed to parse HTML: %v", err)
	}

	record := datasmith.Record{"url": pageURL}

	for attr, selector := range selectors {
		matcher, err := cascadia.Compile(selector)
		if err != nil {
			if logger != nil {
				logger.Error("invalid selector", "attribute", attr, "selector", selector, "err", err)
			}
			record[attr] = nil
			continue
		}

		sel := doc.FindMatcher(matcher)
		switch sel.Length() {
		case 0:
			record[attr] = nil
		case 1:
			record[attr] = strings.TrimSpace(sel.Text())
		default:
			values := make([]string, 0, sel.Length())
			sel.Each(func(_ int, s *goquery.Selection) {
				values = append(values, strings.TrimSpace(s.Text()))
			})
			record[attr] = values
		}
	}

	return record, nil
}
