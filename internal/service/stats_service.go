package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const statsCacheKey = "helpdesk:stats:resolution"

// StatsService serves resolution statistics behind a short-lived Redis
// cache. Cache failures fall through to Postgres; the cache is an
// optimization, never a dependency.
type StatsService struct {
	stats    repository.StatsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewStatsService constructs the service. A nil cache client disables
// caching entirely.
func NewStatsService(stats repository.StatsRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *StatsService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &StatsService{stats: stats, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// ResolutionStats returns the reporting aggregates. Top-level admin only.
func (s *StatsService) ResolutionStats(ctx context.Context, caller *domain.Account) (*domain.ResolutionStats, error) {
	if !auth.Allowed(auth.ActionStatsView, caller, auth.Resource{}) {
		return nil, apperrors.NewForbidden("not allowed to view statistics")
	}

	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	stats, err := s.stats.ResolutionStats(ctx)
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}
	s.toCache(ctx, stats)
	return stats, nil
}

func (s *StatsService) fromCache(ctx context.Context) *domain.ResolutionStats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		}
		return nil
	}
	var stats domain.ResolutionStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *StatsService) toCache(ctx context.Context, stats *domain.ResolutionStats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("stats cache write failed", zap.Error(err))
	}
}
