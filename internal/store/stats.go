package store

import (
	"context"
	"fmt"
	"strings"

	"aidbridge/internal/utils"
	"aidbridge/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const statsTableName = "statistics_cache"

var statsColumns = utils.StructTagValues(types.Statistics{})

// The snapshot is a single denormalized row.
const statsRowID = 1

type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// Statistics returns the snapshot row, computing it first if it has
// never been refreshed.
func (r *StatsRepository) Statistics(ctx context.Context) (*types.Statistics, error) {
	query, args, err := psql().
		Select(statsColumns...).
		From(statsTableName).
		Where(sq.Eq{"id": statsRowID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate statistics query: %w", err)
	}

	var stats types.Statistics
	err = pgxscan.Get(ctx, r.pool, &stats, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return r.Refresh(ctx)
		}
		return nil, fmt.Errorf("failed to fetch statistics: %w", err)
	}

	return &stats, nil
}

// Refresh recomputes every aggregate and rewrites the snapshot row.
func (r *StatsRepository) Refresh(ctx context.Context) (*types.Statistics, error) {
	query := `
		INSERT INTO statistics_cache (
			id, total_users, total_donors, total_receivers, active_causes,
			fulfilled_requests, total_donated_cents, total_connections, refreshed_at
		)
		VALUES (
			$1,
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM users WHERE role = 'donor'),
			(SELECT count(*) FROM users WHERE role = 'receiver'),
			(SELECT count(*) FROM causes WHERE status = 'active'),
			(SELECT count(*) FROM requests WHERE status = 'fulfilled'),
			(SELECT coalesce(sum(amount_cents), 0) FROM cause_donations WHERE status = 'completed'),
			(SELECT count(*) FROM connections),
			now()
		)
		ON CONFLICT (id) DO UPDATE SET
			total_users = EXCLUDED.total_users,
			total_donors = EXCLUDED.total_donors,
			total_receivers = EXCLUDED.total_receivers,
			active_causes = EXCLUDED.active_causes,
			fulfilled_requests = EXCLUDED.fulfilled_requests,
			total_donated_cents = EXCLUDED.total_donated_cents,
			total_connections = EXCLUDED.total_connections,
			refreshed_at = EXCLUDED.refreshed_at
		RETURNING ` + strings.Join(statsColumns, ", ")

	var stats types.Statistics
	if err := pgxscan.Get(ctx, r.pool, &stats, query, statsRowID); err != nil {
		return nil, fmt.Errorf("failed to refresh statistics: %w", err)
	}

	return &stats, nil
}
