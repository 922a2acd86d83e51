package planner

import (
	"context"
	"errors"
	"testing"

	"metasearch/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// scriptedModel replays canned replies and records every transcript it sees.
type scriptedModel struct {
	replies []string
	errs    []error
	seen    [][]llms.MessageContent
}

func (m *scriptedModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	i := len(m.seen)
	m.seen = append(m.seen, append([]llms.MessageContent(nil), messages...))
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i >= len(m.replies) {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.replies[i]}}}, nil
}

func textOf(t *testing.T, msg llms.MessageContent) string {
	t.Helper()
	require.Len(t, msg.Parts, 1)
	part, ok := msg.Parts[0].(llms.TextContent)
	require.True(t, ok)
	return part.Text
}

func TestPlan_TextBranch(t *testing.T) {
	model := &scriptedModel{replies: []string{
		"Text and link based content would be best here.",
		`1. [Wikipedia] "Home repair" 2. [Wikipedia] "Do it yourself"
3. [Reddit] "first time fixing a leaky faucet"
4. [Reddit] "drywall patch tips" 5. [Reddit] "tools every homeowner needs"
6. [Podcast] "home repair for beginners"
7. [Podcast] "renovation horror stories" 8. [Podcast] "plumbing basics"`,
	}}
	p := New(model, 0.5, zap.NewNop())

	queries, err := p.Plan(context.Background(), "home repair")
	require.NoError(t, err)

	require.Len(t, queries, 8)
	assert.Equal(t, search.TaggedQuery{Engine: search.Encyclopedia, Text: "Home repair"}, queries[0])
	assert.Equal(t, search.TaggedQuery{Engine: search.Discussion, Text: "drywall patch tips"}, queries[3])
	assert.Equal(t, search.TaggedQuery{Engine: search.Podcast, Text: "plumbing basics"}, queries[7])

	require.Len(t, model.seen, 2)
	first := model.seen[0]
	require.Len(t, first, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, first[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, first[1].Role)
	assert.Contains(t, textOf(t, first[1]), "home repair")

	second := model.seen[1]
	require.Len(t, second, 4)
	assert.Equal(t, llms.ChatMessageTypeAI, second[2].Role)
	assert.Equal(t, "Text and link based content would be best here.", textOf(t, second[2]))
	assert.Contains(t, textOf(t, second[3]), "Reddit posts")
}

func TestPlan_VisualBranchInjectsLiteralTopic(t *testing.T) {
	model := &scriptedModel{replies: []string{
		"Visual content.",
		`1. [Unsplash] "brutalist concrete towers" 2. [Unsplash] "brutalist interiors" 3. [Unsplash] "brutalism at dusk"`,
	}}
	p := New(model, 1, zap.NewNop())

	queries, err := p.Plan(context.Background(), "brutalist architecture")
	require.NoError(t, err)

	assert.Equal(t, []search.TaggedQuery{
		{Engine: search.Encyclopedia, Text: "brutalist architecture"},
		{Engine: search.StockPhoto, Text: "brutalist concrete towers"},
		{Engine: search.StockPhoto, Text: "brutalist interiors"},
		{Engine: search.StockPhoto, Text: "brutalism at dusk"},
	}, queries)
	assert.Contains(t, textOf(t, model.seen[1][3]), "Unsplash")
}

func TestPlan_VisualBranchDropsDuplicateLiteral(t *testing.T) {
	model := &scriptedModel{replies: []string{
		"visual",
		`1. [Wikipedia] "wedding dresses" 2. [Unsplash] "lace wedding dress"`,
	}}
	p := New(model, 1, zap.NewNop())

	queries, err := p.Plan(context.Background(), "wedding dresses")
	require.NoError(t, err)
	assert.Equal(t, []search.TaggedQuery{
		{Engine: search.Encyclopedia, Text: "wedding dresses"},
		{Engine: search.StockPhoto, Text: "lace wedding dress"},
	}, queries)
}

func TestPlan_KeepsRepeatedModelQueries(t *testing.T) {
	model := &scriptedModel{replies: []string{
		"text and link",
		`1. [Reddit] "faucet repair" 2. [Reddit] "faucet repair" 3. [Wikipedia] "home repair"`,
	}}
	p := New(model, 1, zap.NewNop())

	queries, err := p.Plan(context.Background(), "home repair")
	require.NoError(t, err)
	assert.Equal(t, []search.TaggedQuery{
		{Engine: search.Discussion, Text: "faucet repair"},
		{Engine: search.Discussion, Text: "faucet repair"},
		{Engine: search.Encyclopedia, Text: "home repair"},
	}, queries)
}

func TestPlan_ClassificationFailure(t *testing.T) {
	model := &scriptedModel{errs: []error{errors.New("rate limited")}}
	p := New(model, 1, zap.NewNop())

	queries, err := p.Plan(context.Background(), "anything")
	assert.Error(t, err)
	assert.Empty(t, queries)
}

func TestPlan_QueryTurnFailureKeepsLiteral(t *testing.T) {
	model := &scriptedModel{
		replies: []string{"visual"},
		errs:    []error{nil, errors.New("timeout")},
	}
	p := New(model, 1, zap.NewNop())

	queries, err := p.Plan(context.Background(), "beautiful homes")
	assert.Error(t, err)
	assert.Equal(t, []search.TaggedQuery{{Engine: search.Encyclopedia, Text: "beautiful homes"}}, queries)
}

func TestPlan_NoChoicesIsError(t *testing.T) {
	p := New(&scriptedModel{}, 1, zap.NewNop())

	_, err := p.Plan(context.Background(), "anything")
	assert.Error(t, err)
}
