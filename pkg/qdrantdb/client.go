package qdrantdb

import (
	"context"

	"github.com/qdrant/go-client/qdrant"
)

type Config struct {
	Host   string
	Port   int // gRPC port
	APIKey string
	UseTLS bool
}

// pointQuerier is the subset of *qdrant.Client used for reads.
type pointQuerier interface {
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
}

type ImageClient struct {
	Client     *qdrant.Client
	collection string
	points     pointQuerier
}

func NewClient(cfg Config, collection string) (*ImageClient, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, err
	}
	return &ImageClient{Client: client, collection: collection, points: client}, nil
}

func (c *ImageClient) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
