package dashboard

import (
	"context"
	"log"

	"smap/internal/cache"
	"smap/internal/domain"
	"smap/internal/pkg/metrics"
)

type Service struct {
	cache   cache.SummaryCache
	items   ItemCounter
	loans   OpenCounter
	tickets OpenCounter
	hub     *Hub
}

func NewService(c cache.SummaryCache, items ItemCounter, loans, tickets OpenCounter, hub *Hub) *Service {
	return &Service{cache: c, items: items, loans: loans, tickets: tickets, hub: hub}
}

// Summary returns the dashboard rollup, served from the cache when present
// and recomputed from count queries on a miss.
func (s *Service) Summary(ctx context.Context) (*domain.Summary, error) {
	if cached, ok, err := s.cache.Get(ctx); err == nil && ok {
		metrics.SummaryCacheHits.Inc()
		return cached, nil
	}

	metrics.SummaryCacheMisses.Inc()
	return s.recompute(ctx)
}

// InvalidateSummary evicts the cached rollup, recomputes it and pushes the
// fresh value to websocket subscribers. Called by the item, loan and
// maintenance modules after every successful mutation; eviction is
// best-effort, the next read recomputes regardless.
func (s *Service) InvalidateSummary(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("dashboard: summary cache eviction failed: %v", err)
	}

	fresh, err := s.recompute(ctx)
	if err != nil {
		log.Printf("dashboard: summary recompute failed: %v", err)
		return
	}
	if s.hub != nil {
		s.hub.Broadcast(summaryEvent(fresh))
	}
}

func (s *Service) recompute(ctx context.Context) (*domain.Summary, error) {
	sum := &domain.Summary{}

	var err error
	if sum.TotalItems, err = s.items.CountActive(ctx); err != nil {
		return nil, err
	}
	if sum.ItemsAvailable, err = s.items.CountByStatus(ctx, domain.ItemAvailable); err != nil {
		return nil, err
	}
	if sum.ItemsOnLoan, err = s.items.CountByStatus(ctx, domain.ItemOnLoan); err != nil {
		return nil, err
	}
	if sum.ItemsInMaintenance, err = s.items.CountByStatus(ctx, domain.ItemInMaintenance); err != nil {
		return nil, err
	}
	if sum.ItemsDamaged, err = s.items.CountByStatus(ctx, domain.ItemDamaged); err != nil {
		return nil, err
	}
	if sum.OpenLoans, err = s.loans.CountOpen(ctx); err != nil {
		return nil, err
	}
	if sum.OpenTickets, err = s.tickets.CountOpen(ctx); err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, sum); err != nil {
		log.Printf("dashboard: summary cache write failed: %v", err)
	}
	return sum, nil
}

func summaryEvent(sum *domain.Summary) map[string]interface{} {
	return map[string]interface{}{
		"type":    "summary",
		"summary": sum,
	}
}
