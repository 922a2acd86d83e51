package planner

import (
	"context"
	"errors"
	"fmt"

	"metasearch/search"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

type Branch int

const (
	VisualBranch Branch = iota
	TextBranch
)

func (b Branch) String() string {
	if b == TextBranch {
		return "text"
	}
	return "visual"
}

// Model is the part of llms.Model the planner needs.
type Model interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

type Planner struct {
	model       Model
	temperature float64
	logger      *zap.Logger
}

func New(model Model, temperature float64, logger *zap.Logger) *Planner {
	return &Planner{
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

// Plan turns a topic into engine-tagged sub-queries using two chat turns.
// It never fails hard: on error the queries gathered so far are returned
// together with the error, and callers are expected to carry on with them.
func (p *Planner) Plan(ctx context.Context, topic string) ([]search.TaggedQuery, error) {
	conv := newConversation(topic)

	reply, err := p.complete(ctx, conv.turns)
	if err != nil {
		return nil, fmt.Errorf("classification turn: %w", err)
	}
	branch := conv.classified(reply)
	p.logger.Info("topic classified",
		zap.String("topic", topic),
		zap.String("branch", branch.String()))

	reply, err = p.complete(ctx, conv.turns)
	if err != nil {
		return conv.queries, fmt.Errorf("query turn: %w", err)
	}
	queries := conv.answered(reply)

	p.logger.Info("sub-queries planned",
		zap.String("topic", topic),
		zap.Int("count", len(queries)))
	return queries, nil
}

func (p *Planner) complete(ctx context.Context, turns []llms.MessageContent) (string, error) {
	resp, err := p.model.GenerateContent(ctx, turns, llms.WithTemperature(p.temperature))
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Content, nil
}

type stage int

const (
	awaitingClassification stage = iota
	awaitingQueries
	done
)

// conversation is the shared transcript for one Plan call.
type conversation struct {
	topic   string
	stage   stage
	branch  Branch
	turns   []llms.MessageContent
	queries []search.TaggedQuery
}

func newConversation(topic string) *conversation {
	return &conversation{
		topic: topic,
		stage: awaitingClassification,
		turns: []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, classifyPrompt(topic)),
		},
	}
}

// classified records the first reply and queues the branch follow-up. The
// visual branch always starts with a literal encyclopedia lookup of the topic.
func (c *conversation) classified(reply string) Branch {
	if c.stage != awaitingClassification {
		return c.branch
	}
	c.branch = Classify(reply)
	c.turns = append(c.turns,
		llms.TextParts(llms.ChatMessageTypeAI, reply),
		llms.TextParts(llms.ChatMessageTypeHuman, followUpPrompt(c.branch, c.topic)),
	)
	if c.branch == VisualBranch {
		c.queries = append(c.queries, search.TaggedQuery{Engine: search.Encyclopedia, Text: c.topic})
	}
	c.stage = awaitingQueries
	return c.branch
}

func (c *conversation) answered(reply string) []search.TaggedQuery {
	if c.stage != awaitingQueries {
		return c.queries
	}
	c.turns = append(c.turns, llms.TextParts(llms.ChatMessageTypeAI, reply))

	literal := search.TaggedQuery{Engine: search.Encyclopedia, Text: c.topic}
	for _, q := range ParseQueries(reply) {
		// The injected lookup is not repeated; other repeats are kept.
		if c.branch == VisualBranch && q == literal {
			continue
		}
		c.queries = append(c.queries, q)
	}
	c.stage = done
	return c.queries
}
