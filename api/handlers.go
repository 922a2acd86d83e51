package api

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"metasearch/render"
	"metasearch/search"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SearchHandler serves the form, or the full results page when a query is
// given. Upstream failures only thin out the page; they never produce a 5xx.
// The topic is passed on exactly as typed; trimming only decides whether
// there is one.
func (s *Server) SearchHandler(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("query")
	if strings.TrimSpace(topic) == "" {
		s.writePage(w, s.logger, render.SearchAction, "", nil)
		return
	}

	logger := s.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("topic", topic))
	start := time.Now()

	// Sub-queries run to completion even if the client goes away.
	outcome := s.searcher.Search(context.WithoutCancel(r.Context()), topic)
	logger.Info("search complete",
		zap.Int("sub_queries", len(outcome.Queries)),
		zap.Int("results", len(outcome.Results)),
		zap.Duration("took", time.Since(start)))

	s.writePage(w, logger, render.SearchAction, topic, outcome.Results)
}

// ImagesHandler runs the vector image search directly, bypassing the planner.
func (s *Server) ImagesHandler(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("query")
	if strings.TrimSpace(text) == "" {
		s.writePage(w, s.logger, render.ImagesAction, "", nil)
		return
	}

	logger := s.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("topic", text))

	outcome := s.searcher.Images(context.WithoutCancel(r.Context()), text)
	logger.Info("image search complete", zap.Int("results", len(outcome.Results)))

	s.writePage(w, logger, render.ImagesAction, text, outcome.Results)
}

func (s *Server) writePage(w http.ResponseWriter, logger *zap.Logger, action, topic string, results []search.SearchResult) {
	var buf bytes.Buffer
	if err := render.Render(&buf, action, topic, results); err != nil {
		logger.Error("failed to render page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
