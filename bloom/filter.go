// Package bloom provides source URL deduplication using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter for source URL deduplication.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a URL to the filter.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test returns true if the URL might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// Dedupe returns the sources with repeat URLs removed, preserving first
// occurrence order. Strategy-generated source lists commonly repeat URLs;
// dispatching must visit each source exactly once.
func Dedupe(sources []string) []string {
	if len(sources) < 2 {
		return sources
	}

	f := NewFilter(uint(len(sources)), 0.0001)
	deduped := make([]string, 0, len(sources))
	for _, source := range sources {
		if f.Test(source) {
			continue
		}
		f.Add(source)
		deduped = append(deduped, source)
	}
	return deduped
}
