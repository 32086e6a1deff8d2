package goquery_test

import (
	"testing"

	"github.com/datasmithhq/datasmith"
	dsgoquery "github.com/datasmithhq/datasmith/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureHTML = `<html><body>
<h1 class="title">Monaco Grand Prix</h1>
<ul>
	<li class="driver">Leclerc</li>
	<li class="driver">Verstappen</li>
</ul>
<span class="team">  Ferrari  </span>
</body></html>`

func TestExtractRecord(t *testing.T) {
	t.Parallel()

	t.Run("single match yields scalar string", func(t *testing.T) {
		t.Parallel()

		record, err := dsgoquery.ExtractRecord(fixtureHTML, "https://example.com/race",
			map[string]string{"title": "h1.title"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Monaco Grand Prix", record["title"])
	})

	t.Run("multiple matches yield list of strings", func(t *testing.T) {
		t.Parallel()

		record, err := dsgoquery.ExtractRecord(fixtureHTML, "https://example.com/race",
			map[string]string{"drivers": "li.driver"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"Leclerc", "Verstappen"}, record["drivers"])
	})

	t.Run("zero matches yield nil", func(t *testing.T) {
		t.Parallel()

		record, err := dsgoquery.ExtractRecord(fixtureHTML, "https://example.com/race",
			map[string]string{"points": ".points"}, nil)
		require.NoError(t, err)
		val, ok := record["points"]
		assert.True(t, ok, "attribute should be present")
		assert.Nil(t, val)
	})

	t.Run("trims whitespace from matched text", func(t *testing.T) {
		t.Parallel()

		record, err := dsgoquery.ExtractRecord(fixtureHTML, "https://example.com/race",
			map[string]string{"team": "span.team"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Ferrari", record["team"])
	})

	t.Run("invalid selector nils one attribute without aborting the rest", func(t *testing.T) {
		t.Parallel()

		record, err := dsgoquery.ExtractRecord(fixtureHTML, "https://example.com/race",
			map[string]string{
				"broken": "li[",
				"title":  "h1.title",
			}, nil)
		require.NoError(t, err)
		assert.Nil(t, record["broken"])
		assert.Equal(t, "Monaco Grand Prix", record["title"])
	})

	t.Run("record is tagged with the page URL", func(t *testing.T) {
		t.Parallel()

		record, err := dsgoquery.ExtractRecord(fixtureHTML, "https://example.com/race",
			map[string]string{}, nil)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/race", record.SourceURL())
	})
}

func TestExtractMediaURLs(t *testing.T) {
	t.Parallel()

	t.Run("images resolve relative URLs and skip data URLs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<img src="/img/a.jpg">
<img src="https://cdn.example.com/b.png">
<img src="data:image/png;base64,AAAA">
</body></html>`

		urls, err := dsgoquery.ExtractMediaURLs(html, "https://example.com/gallery", datasmith.MediaImage)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/img/a.jpg",
			"https://cdn.example.com/b.png",
		}, urls)
	})

	t.Run("video collects source tags, src attributes, and known embeds", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<video src="/v/clip.mp4"><source src="/v/clip.webm"></video>
<iframe src="https://www.youtube.com/embed/abc123"></iframe>
<iframe src="https://maps.example.com/embed"></iframe>
</body></html>`

		urls, err := dsgoquery.ExtractMediaURLs(html, "https://example.com/page", datasmith.MediaVideo)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/v/clip.webm",
			"https://example.com/v/clip.mp4",
			"https://www.youtube.com/embed/abc123",
		}, urls)
	})

	t.Run("audio collects nested sources", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><audio><source src="track.mp3"></audio></body></html>`

		urls, err := dsgoquery.ExtractMediaURLs(html, "https://example.com/music/", datasmith.MediaAudio)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/music/track.mp3"}, urls)
	})

	t.Run("invalid base URL returns EINVALID", func(t *testing.T) {
		t.Parallel()

		_, err := dsgoquery.ExtractMediaURLs("<html></html>", "://bad", datasmith.MediaImage)
		require.Error(t, err)
		assert.Equal(t, datasmith.EINVALID, datasmith.ErrorCode(err))
	})
}
