package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"metasearch/search"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Dispatcher struct {
	engines map[search.Engine]search.SearchEngine
	logger  *zap.Logger
}

func New(logger *zap.Logger, engines ...search.SearchEngine) *Dispatcher {
	table := make(map[search.Engine]search.SearchEngine, len(engines))
	for _, e := range engines {
		if e == nil {
			continue
		}
		table[e.Engine()] = e
	}
	return &Dispatcher{engines: table, logger: logger}
}

// Engines lists the engines that have a connector registered.
func (d *Dispatcher) Engines() []search.Engine {
	out := make([]search.Engine, 0, len(d.engines))
	for e := range d.engines {
		out = append(out, e)
	}
	return out
}

// Dispatch runs every sub-query concurrently and returns once all of them
// have finished. Slot i of the result holds the records for queries[i]; a
// failing connector never affects the other slots.
func (d *Dispatcher) Dispatch(ctx context.Context, queries []search.TaggedQuery) [][]search.SearchResult {
	results := make([][]search.SearchResult, len(queries))

	var g errgroup.Group
	for i, q := range queries {
		g.Go(func() error {
			results[i] = d.run(ctx, q)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (d *Dispatcher) run(ctx context.Context, q search.TaggedQuery) (out []search.SearchResult) {
	engine, ok := d.engines[q.Engine]
	if !ok {
		d.logger.Warn("no connector for engine",
			zap.String("engine", string(q.Engine)),
			zap.String("query", q.Text))
		return nil
	}

	logger := d.logger.With(
		zap.String("engine", string(q.Engine)),
		zap.String("query", q.Text))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("connector panicked", zap.Any("panic", r))
			out = nil
		}
	}()

	start := time.Now()
	results, err := engine.Search(ctx, q.Text)
	if err != nil {
		return fromError(logger, q, err)
	}

	logger.Info("connector done",
		zap.Int("results", len(results)),
		zap.Duration("took", time.Since(start)))
	return results
}

// fromError applies the failure policy: provider refusals become one inline
// error record, everything else is absorbed as an empty list.
func fromError(logger *zap.Logger, q search.TaggedQuery, err error) []search.SearchResult {
	var pe *search.ProviderError
	if errors.As(err, &pe) {
		logger.Warn("provider refused request", zap.Error(err))
		return []search.SearchResult{search.ErrorResult(q.Text, q.Engine, pe.Message)}
	}
	logger.Warn("connector failed", zap.Error(fmt.Errorf("search %s: %w", q.Engine, err)))
	return nil
}
