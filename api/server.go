package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"metasearch/pipeline"

	"go.uber.org/zap"
)

type Searcher interface {
	Search(ctx context.Context, topic string) pipeline.Outcome
	Images(ctx context.Context, text string) pipeline.Outcome
}

// Server represents the API server
type Server struct {
	searcher Searcher
	logger   *zap.Logger
	port     int
}

// NewServer creates a new API server
func NewServer(searcher Searcher, logger *zap.Logger, port int) *Server {
	return &Server{
		searcher: searcher,
		logger:   logger,
		port:     port,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.SearchHandler)
	mux.HandleFunc("GET /images", s.ImagesHandler)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

// Start blocks serving HTTP until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              ":" + strconv.Itoa(s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", zap.Int("port", s.port))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
