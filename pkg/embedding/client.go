package embedding

import (
	"context"
	"errors"
)

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

type EmbeddingRequest struct {
	Inputs    []string `json:"inputs"`
	Normalize bool     `json:"normalize,omitempty"`
}

type EmbeddingResponse [][]float32

type Client interface {
	// One vector per input text, in input order.
	GetEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedOne is a convenience for the common single-query case.
func EmbedOne(ctx context.Context, c Client, text string) ([]float32, error) {
	vectors, err := c.GetEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, errors.New("embedding service returned no vector")
	}
	return vectors[0], nil
}
