package render

import (
	"testing"

	"metasearch/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(source search.Engine, url, thumb string) search.SearchResult {
	return search.SearchResult{Query: "q", Source: source, URL: url, Thumbnail: thumb}
}

func urls(results []search.SearchResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.URL)
	}
	return out
}

func TestAggregate_DropsDuplicateURLs(t *testing.T) {
	a := &Aggregator{}
	got := a.Aggregate([][]search.SearchResult{
		{rec(search.Encyclopedia, "https://en.wikipedia.org/wiki/Brutalism", "none")},
		{rec(search.Encyclopedia, "https://en.wikipedia.org/wiki/Brutalism", "none")},
		{rec(search.StockPhoto, "https://unsplash.com/photos/a", "https://img/a")},
	})
	assert.Equal(t, []string{
		"https://en.wikipedia.org/wiki/Brutalism",
		"https://unsplash.com/photos/a",
	}, urls(got))
}

func TestAggregate_DropsErrorRecordsAndMissingURLs(t *testing.T) {
	a := &Aggregator{}
	got := a.Aggregate([][]search.SearchResult{
		{search.ErrorResult("faucet", search.Discussion, "auth token failure")},
		{rec(search.Podcast, "", "https://img/p")},
		{rec(search.Podcast, "https://pod/1", "https://img/p")},
	})
	assert.Equal(t, []string{"https://pod/1"}, urls(got))
}

func TestAggregate_OnlyRedditThumbnailsAreRemembered(t *testing.T) {
	a := &Aggregator{}

	// Two non-Reddit records sharing a thumbnail are both kept.
	got := a.Aggregate([][]search.SearchResult{
		{rec(search.Podcast, "https://pod/1", "https://img/series")},
		{rec(search.Podcast, "https://pod/2", "https://img/series")},
	})
	assert.Len(t, got, 2)

	// A Reddit thumbnail blocks any later record showing the same image.
	got = a.Aggregate([][]search.SearchResult{
		{rec(search.Discussion, "https://reddit/1", "https://img/shared")},
		{rec(search.StockPhoto, "https://unsplash/1", "https://img/shared")},
		{rec(search.Discussion, "https://reddit/2", "https://img/shared")},
	})
	assert.Equal(t, []string{"https://reddit/1"}, urls(got))

	// Empty Reddit thumbnails are remembered too.
	got = a.Aggregate([][]search.SearchResult{
		{rec(search.Discussion, "https://reddit/1", "")},
		{rec(search.Discussion, "https://reddit/2", "")},
	})
	assert.Equal(t, []string{"https://reddit/1"}, urls(got))
}

func TestAggregate_Shuffles(t *testing.T) {
	called := false
	a := &Aggregator{Shuffle: func(rs []search.SearchResult) {
		called = true
		rs[0], rs[1] = rs[1], rs[0]
	}}
	got := a.Aggregate([][]search.SearchResult{
		{rec(search.Podcast, "https://pod/1", "")},
		{rec(search.Podcast, "https://pod/2", "")},
	})
	require.True(t, called)
	assert.Equal(t, []string{"https://pod/2", "https://pod/1"}, urls(got))
}

func TestAggregate_DefaultShuffleKeepsSet(t *testing.T) {
	a := NewAggregator()
	var lists [][]search.SearchResult
	want := map[string]bool{}
	for _, u := range []string{"https://a", "https://b", "https://c", "https://d"} {
		lists = append(lists, []search.SearchResult{rec(search.StockPhoto, u, u+"/img")})
		want[u] = true
	}

	got := a.Aggregate(lists)
	require.Len(t, got, 4)
	for _, r := range got {
		assert.True(t, want[r.URL])
	}
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, NewAggregator().Aggregate(nil))
}
