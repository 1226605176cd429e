package cache

import (
	"context"

	"smap/internal/domain"
)

// SummaryCache is the single-entry cache behind the dashboard aggregator.
// Invalidation is whole-entry eviction; there is no TTL, mutations drive it.
type SummaryCache interface {
	Get(ctx context.Context) (*domain.Summary, bool, error)
	Set(ctx context.Context, s *domain.Summary) error
	Invalidate(ctx context.Context) error
}
