package datasmith_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datasmithhq/datasmith"
)

func TestSearchURLs(t *testing.T) {
	t.Parallel()

	t.Run("google", func(t *testing.T) {
		t.Parallel()

		urls := datasmith.SearchURLs([]string{"coffee roasters warsaw"}, datasmith.SearchGoogle)
		assert.Equal(t, []string{"https://www.google.com/search?q=coffee+roasters+warsaw"}, urls)
	})

	t.Run("bing", func(t *testing.T) {
		t.Parallel()

		urls := datasmith.SearchURLs([]string{"f1 results"}, datasmith.SearchBing)
		assert.Equal(t, []string{"https://www.bing.com/search?q=f1+results"}, urls)
	})

	t.Run("duckduckgo", func(t *testing.T) {
		t.Parallel()

		urls := datasmith.SearchURLs([]string{"f1 results"}, datasmith.SearchDuckDuckGo)
		assert.Equal(t, []string{"https://duckduckgo.com/?q=f1+results"}, urls)
	})

	t.Run("unknown engine falls back to google", func(t *testing.T) {
		t.Parallel()

		urls := datasmith.SearchURLs([]string{"x"}, "altavista")
		assert.Equal(t, []string{"https://www.google.com/search?q=x"}, urls)
	})

	t.Run("empty queries", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, datasmith.SearchURLs(nil, datasmith.SearchGoogle))
	})
}
