package main

import (
	"fmt"
	"log"
	"strings"

	"metasearch/config"
	"metasearch/dispatch"
	"metasearch/pipeline"
	"metasearch/pkg/embedding"
	qdrantClient "metasearch/pkg/qdrantdb"
	"metasearch/planner"
	"metasearch/render"
	"metasearch/search"

	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	planner  *planner.Planner
	images   *qdrantClient.ImageClient
	pipeline *pipeline.Pipeline
}

func setup() (*app, error) {
	// =========
	// Config
	// =========
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// =========
	// Logging
	// =========
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	// =========
	// Query planner
	// =========
	var queryPlanner pipeline.Planner
	if cfg.PlannerEnabled() {
		opts := []openai.Option{
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.OpenAIModel),
		}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create completion client: %w", err)
		}
		a.planner = planner.New(llm, cfg.Temperature, logger)
		queryPlanner = a.planner
	} else {
		logger.Warn("OPENAI_API_KEY not set, searches will return no results")
	}

	// =========
	// Connectors
	// =========
	engines := []search.SearchEngine{
		search.NewWikipediaSearchEngine(cfg.WikipediaURL, logger),
	}
	if cfg.RedditEnabled() {
		engines = append(engines, search.NewRedditSearchEngine(search.RedditConfig{
			ClientID:     cfg.RedditUser,
			ClientSecret: cfg.RedditKey,
			UserAgent:    cfg.RedditAgent,
		}, logger))
	}
	if cfg.TaddyEnabled() {
		engines = append(engines, search.NewTaddySearchEngine(search.TaddyConfig{
			UserID: cfg.TaddyUser,
			APIKey: cfg.TaddyKey,
		}, logger))
	}
	if cfg.UnsplashEnabled() {
		engines = append(engines, search.NewUnsplashSearchEngine(cfg.UnsplashAccess, "", cfg.UnsplashPerPage, logger))
	}

	// =========
	// Image vector search
	// =========
	if cfg.VectorImageEnabled() {
		qdb, err := qdrantClient.NewClient(qdrantClient.Config{
			Host:   cfg.QdrantHost,
			Port:   cfg.QdrantPort,
			APIKey: cfg.QdrantAPIKey,
			UseTLS: cfg.QdrantUseTLS,
		}, cfg.ImageCollection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize qdrant: %w", err)
		}
		a.images = qdb
		engines = append(engines, search.NewVectorImageSearchEngine(
			embedding.NewClipViTB32(cfg.ClipEmbeddingURL),
			qdb,
			cfg.ImageCollectionLabel,
			cfg.ImageTopK,
			logger,
		))
	}

	dispatcher := dispatch.New(logger, engines...)
	names := make([]string, 0, len(engines))
	for _, e := range dispatcher.Engines() {
		names = append(names, string(e))
	}
	logger.Info("connectors registered", zap.Strings("engines", names))

	a.pipeline = pipeline.New(queryPlanner, dispatcher, render.NewAggregator(), logger)
	return a, nil
}

func (a *app) Close() {
	if a.images != nil {
		if err := a.images.Close(); err != nil {
			a.logger.Warn("failed to close qdrant client", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	var zcfg zap.Config
	if lvl == zapcore.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func printOutcome(cmd *cobra.Command, outcome pipeline.Outcome) {
	out := cmd.OutOrStdout()
	for _, q := range outcome.Queries {
		fmt.Fprintln(out, q.String())
	}
	fmt.Fprintln(out)
	for _, r := range outcome.Results {
		fmt.Fprintf(out, "source: %s\n", r.Source)
		if r.Subsource != "" {
			fmt.Fprintf(out, "subsource: %s (%s)\n", r.Subsource, r.SubsourceURL)
		}
		fmt.Fprintf(out, "query: %s\n", r.Query)
		fmt.Fprintf(out, "url: %s\n", r.URL)
		if r.Title != "" {
			fmt.Fprintf(out, "title: %s\n", r.Title)
		}
		if r.Snippet != "" {
			fmt.Fprintf(out, "snippet: %s\n", r.Snippet)
		}
		if r.HasThumbnail() {
			fmt.Fprintf(out, "thumbnail: %s\n", r.Thumbnail)
		}
		fmt.Fprintln(out)
	}
}
