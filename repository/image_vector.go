package repository

import "context"

// Payload keys stored alongside each image vector.
const (
	FieldSourcePageURL  = "source_page_url"
	FieldSourceImageURL = "source_image_url"
	FieldCaption        = "caption"
	FieldOriginalURL    = "original_url"
)

type ImageVectorRepo interface {
	QueryNearest(ctx context.Context, vector []float32, topK uint64) ([]ImageMatch, error)
}

type ImageMatch struct {
	ID       string            `json:"id"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata"`
}
