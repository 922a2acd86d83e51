package pipeline

import (
	"context"
	"errors"
	"testing"

	"metasearch/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePlanner struct {
	queries []search.TaggedQuery
	err     error
}

func (f *fakePlanner) Plan(context.Context, string) ([]search.TaggedQuery, error) {
	return f.queries, f.err
}

type recordingDispatcher struct {
	got []search.TaggedQuery
}

func (d *recordingDispatcher) Dispatch(_ context.Context, queries []search.TaggedQuery) [][]search.SearchResult {
	d.got = queries
	out := make([][]search.SearchResult, len(queries))
	for i, q := range queries {
		out[i] = []search.SearchResult{{Query: q.Text, Source: q.Engine, URL: "https://example.com/" + q.Text}}
	}
	return out
}

type flatten struct{}

func (flatten) Aggregate(lists [][]search.SearchResult) []search.SearchResult {
	var out []search.SearchResult
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func TestSearch(t *testing.T) {
	planned := []search.TaggedQuery{
		{Engine: search.Encyclopedia, Text: "brutalist architecture"},
		{Engine: search.StockPhoto, Text: "concrete towers"},
	}
	d := &recordingDispatcher{}
	p := New(&fakePlanner{queries: planned}, d, flatten{}, zap.NewNop())

	outcome := p.Search(context.Background(), "brutalist architecture")

	assert.Equal(t, planned, outcome.Queries)
	assert.Equal(t, planned, d.got)
	require.Len(t, outcome.Results, 2)
	assert.Equal(t, "concrete towers", outcome.Results[1].Query)
}

func TestSearch_DegradedPlanStillDispatches(t *testing.T) {
	literal := []search.TaggedQuery{{Engine: search.Encyclopedia, Text: "homes"}}
	d := &recordingDispatcher{}
	p := New(&fakePlanner{queries: literal, err: errors.New("timeout")}, d, flatten{}, zap.NewNop())

	outcome := p.Search(context.Background(), "homes")

	assert.Equal(t, literal, d.got)
	assert.Len(t, outcome.Results, 1)
}

func TestSearch_NoPlanner(t *testing.T) {
	p := New(nil, &recordingDispatcher{}, flatten{}, zap.NewNop())

	outcome := p.Search(context.Background(), "anything")
	assert.Empty(t, outcome.Queries)
	assert.Empty(t, outcome.Results)
}

func TestImages(t *testing.T) {
	d := &recordingDispatcher{}
	p := New(&fakePlanner{err: errors.New("never called")}, d, flatten{}, zap.NewNop())

	outcome := p.Images(context.Background(), "concrete tower")

	assert.Equal(t, []search.TaggedQuery{{Engine: search.VectorImage, Text: "concrete tower"}}, d.got)
	require.Len(t, outcome.Results, 1)
	assert.Equal(t, search.VectorImage, outcome.Results[0].Source)
}
