package domain

import (
	"context"
)

// SearchProvider defines the interface for the external search engines
type SearchProvider interface {
	SearchProducts(ctx context.Context, query string) ([]RawProductRecord, error)
	SearchImages(ctx context.Context, query string) ([]RawMediaResult, error)
	SearchVideos(ctx context.Context, query string) ([]RawMediaResult, error)
	SearchLens(ctx context.Context, imageURL string) ([]RawMediaResult, error)
}

// TextGenerator defines the interface for the language model producing summaries
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RateLimitStore tracks per-key request budgets for inbound rate limiting
type RateLimitStore interface {
	Allow(ctx context.Context, key string) (bool, error)
}
