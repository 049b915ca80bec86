package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// StatsRepository aggregates ticket activity for reporting.
type StatsRepository interface {
	ResolutionStats(ctx context.Context) (*domain.ResolutionStats, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository returns a Postgres-backed implementation.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

// ResolutionStats counts submissions and resolutions over the trailing
// day, week, and month in a single round trip.
func (r *statsRepository) ResolutionStats(ctx context.Context) (*domain.ResolutionStats, error) {
	const query = `
        SELECT
            COUNT(*) FILTER (WHERE created_at  >= NOW() - INTERVAL '1 day'),
            COUNT(*) FILTER (WHERE resolved_at >= NOW() - INTERVAL '1 day'),
            COUNT(*) FILTER (WHERE created_at  >= NOW() - INTERVAL '7 days'),
            COUNT(*) FILTER (WHERE resolved_at >= NOW() - INTERVAL '7 days'),
            COUNT(*) FILTER (WHERE created_at  >= NOW() - INTERVAL '30 days'),
            COUNT(*) FILTER (WHERE resolved_at >= NOW() - INTERVAL '30 days')
        FROM tickets`

	stats := &domain.ResolutionStats{
		Daily:   domain.PeriodStats{Period: "daily"},
		Weekly:  domain.PeriodStats{Period: "weekly"},
		Monthly: domain.PeriodStats{Period: "monthly"},
	}
	if err := r.pool.QueryRow(ctx, query).Scan(
		&stats.Daily.Submitted,
		&stats.Daily.Resolved,
		&stats.Weekly.Submitted,
		&stats.Weekly.Resolved,
		&stats.Monthly.Submitted,
		&stats.Monthly.Resolved,
	); err != nil {
		return nil, err
	}
	return stats, nil
}
