package pipeline

import (
	"context"

	"metasearch/search"

	"go.uber.org/zap"
)

type Planner interface {
	Plan(ctx context.Context, topic string) ([]search.TaggedQuery, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, queries []search.TaggedQuery) [][]search.SearchResult
}

type Aggregator interface {
	Aggregate(lists [][]search.SearchResult) []search.SearchResult
}

// Pipeline runs plan, dispatch and aggregate for one request.
type Pipeline struct {
	planner    Planner
	dispatcher Dispatcher
	aggregator Aggregator
	logger     *zap.Logger
}

func New(planner Planner, dispatcher Dispatcher, aggregator Aggregator, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		planner:    planner,
		dispatcher: dispatcher,
		aggregator: aggregator,
		logger:     logger,
	}
}

type Outcome struct {
	Queries []search.TaggedQuery
	Results []search.SearchResult
}

// Search never fails: planner errors are logged and the pipeline carries on
// with whatever sub-queries were produced.
func (p *Pipeline) Search(ctx context.Context, topic string) Outcome {
	var queries []search.TaggedQuery
	if p.planner == nil {
		p.logger.Warn("no planner configured", zap.String("topic", topic))
	} else {
		var err error
		queries, err = p.planner.Plan(ctx, topic)
		if err != nil {
			p.logger.Warn("planning degraded",
				zap.String("topic", topic),
				zap.Int("queries", len(queries)),
				zap.Error(err))
		}
	}

	return Outcome{
		Queries: queries,
		Results: p.aggregator.Aggregate(p.dispatcher.Dispatch(ctx, queries)),
	}
}

// Images runs the vector image search on its own; it is never planned.
func (p *Pipeline) Images(ctx context.Context, text string) Outcome {
	queries := []search.TaggedQuery{{Engine: search.VectorImage, Text: text}}
	return Outcome{
		Queries: queries,
		Results: p.aggregator.Aggregate(p.dispatcher.Dispatch(ctx, queries)),
	}
}
