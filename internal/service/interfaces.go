package service

import (
	"context"

	"trends-go/pkg/trends"
)

// TrendService is what the CLI and HTTP handlers depend on
type TrendService interface {
	Fetch(ctx context.Context, keywords []string) ([]trends.Record, error)
}

var _ TrendService = (*trends.Fetcher)(nil)
