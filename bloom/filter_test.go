package bloom_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datasmithhq/datasmith/bloom"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	// URL not yet added should return false
	assert.False(t, f.Test("https://example.com/page1"))

	// Add URL
	f.Add("https://example.com/page1")

	// Now it should return true
	assert.True(t, f.Test("https://example.com/page1"))

	// Different URL should still return false
	assert.False(t, f.Test("https://example.com/page2"))
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	for i := range numItems {
		f.Add(fmt.Sprintf("https://example.com/added/%d", i))
	}

	// Test with URLs that were NOT added
	falsePositives := 0
	for i := range testProbes {
		url := fmt.Sprintf("https://example.com/notadded/%d", i)
		if f.Test(url) {
			falsePositives++
		}
	}

	// Allow up to 2% to account for statistical variance
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	t.Run("removes repeats preserving order", func(t *testing.T) {
		t.Parallel()

		sources := []string{
			"https://example.com/a",
			"https://example.com/b",
			"https://example.com/a",
			"https://example.com/c",
			"https://example.com/b",
		}

		deduped := bloom.Dedupe(sources)
		assert.Equal(t, []string{
			"https://example.com/a",
			"https://example.com/b",
			"https://example.com/c",
		}, deduped)
	})

	t.Run("unique list unchanged", func(t *testing.T) {
		t.Parallel()

		sources := []string{"https://example.com/a", "https://example.com/b"}
		assert.Equal(t, sources, bloom.Dedupe(sources))
	})

	t.Run("empty and single", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, bloom.Dedupe(nil))
		assert.Equal(t, []string{"https://example.com"}, bloom.Dedupe([]string{"https://example.com"}))
	})
}
