package search

import (
	"context"
	"fmt"
	"strings"

	"metasearch/pkg/embedding"
	"metasearch/repository"

	"go.uber.org/zap"
)

const (
	DefaultImageTopK       = 10
	DefaultCollectionLabel = "Savee"

	minOriginalURLLen = 7
)

// VectorImageSearchEngine embeds the query into the joint text/image space
// and returns the nearest stored images.
type VectorImageSearchEngine struct {
	embedder embedding.Client
	repo     repository.ImageVectorRepo
	label    string
	topK     uint64
	logger   *zap.Logger
}

func NewVectorImageSearchEngine(embedder embedding.Client, repo repository.ImageVectorRepo,
	label string, topK int, logger *zap.Logger) *VectorImageSearchEngine {
	if label == "" {
		label = DefaultCollectionLabel
	}
	if topK <= 0 {
		topK = DefaultImageTopK
	}
	return &VectorImageSearchEngine{
		embedder: embedder,
		repo:     repo,
		label:    label,
		topK:     uint64(topK),
		logger:   logger,
	}
}

func (v *VectorImageSearchEngine) Engine() Engine {
	return VectorImage
}

func (v *VectorImageSearchEngine) Search(ctx context.Context, query string) ([]SearchResult, error) {
	vector, err := embedding.EmbedOne(ctx, v.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := v.repo.QueryNearest(ctx, vector, v.topK)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		result, ok := mapImageMatch(m, query, v.label)
		if !ok {
			v.logger.Debug("skipping image match without url", zap.String("id", m.ID))
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

func mapImageMatch(m repository.ImageMatch, query, label string) (SearchResult, bool) {
	sourcePage := m.Metadata[repository.FieldSourcePageURL]

	link := sourcePage
	if original := strings.TrimSpace(m.Metadata[repository.FieldOriginalURL]); len(original) > minOriginalURLLen {
		link = m.Metadata[repository.FieldOriginalURL]
	}
	if link == "" {
		return SearchResult{}, false
	}

	return SearchResult{
		Query:        query,
		Source:       VectorImage,
		Subsource:    label,
		SubsourceURL: sourcePage,
		URL:          link,
		Snippet:      TruncateSnippet(m.Metadata[repository.FieldCaption]),
		Thumbnail:    m.Metadata[repository.FieldSourceImageURL],
	}, true
}
