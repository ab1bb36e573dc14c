package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/kestrelhq/model-registry/internal/core/ports"
	"github.com/kestrelhq/model-registry/internal/store"
	"github.com/kestrelhq/model-registry/internal/store/model"
)

const overviewCacheTTL = time.Minute

type Service interface {
	GetUsageOverview(ctx context.Context, days int) ([]model.DailyStats, error)
}

type service struct {
	repo  store.Repository
	cache ports.CacheService
}

func NewService(repo store.Repository, cache ports.CacheService) Service {
	return &service{
		repo:  repo,
		cache: cache,
	}
}

// GetUsageOverview aggregates the trailing window, memoized briefly so
// dashboard polling does not hammer the aggregate query.
func (s *service) GetUsageOverview(ctx context.Context, days int) ([]model.DailyStats, error) {
	if days <= 0 {
		days = 7
	}

	cacheKey := fmt.Sprintf("usage:overview:%d", days)
	if s.cache != nil {
		var cached []model.DailyStats
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	stats, err := s.repo.Requests().GetDailyStats(ctx, days)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, stats, overviewCacheTTL)
	}
	return stats, nil
}
