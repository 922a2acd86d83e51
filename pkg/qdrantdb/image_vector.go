package qdrantdb

import (
	"context"
	"fmt"
	"strconv"

	"metasearch/pkg/embedding"
	"metasearch/repository"

	"github.com/qdrant/go-client/qdrant"
)

const DefaultImageCollection = "image_collection"

var _ repository.ImageVectorRepo = (*ImageClient)(nil)

// EnsureImageCollection creates the image collection if it does not exist yet.
func (c *ImageClient) EnsureImageCollection(ctx context.Context) error {
	exists, err := c.Client.CollectionExists(ctx, c.collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	err = c.Client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: c.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     embedding.ClipDimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("err create image collection: %w", err)
	}

	_, err = c.Client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: c.collection,
		FieldName:      repository.FieldSourcePageURL,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil {
		return fmt.Errorf("err create source_page_url index: %w", err)
	}
	return nil
}

func (c *ImageClient) QueryNearest(ctx context.Context, vector []float32, topK uint64) ([]repository.ImageMatch, error) {
	points, err := c.points.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(topK),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("err query image collection: %w", err)
	}

	matches := make([]repository.ImageMatch, 0, len(points))
	for _, p := range points {
		matches = append(matches, matchFromPoint(p))
	}
	return matches, nil
}

func matchFromPoint(p *qdrant.ScoredPoint) repository.ImageMatch {
	md := make(map[string]string, len(p.GetPayload()))
	for k, v := range p.GetPayload() {
		if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
			md[k] = s.StringValue
		}
	}
	return repository.ImageMatch{
		ID:       pointID(p.GetId()),
		Score:    p.GetScore(),
		Metadata: md,
	}
}

func pointID(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if u := id.GetUuid(); u != "" {
		return u
	}
	return strconv.FormatUint(id.GetNum(), 10)
}
