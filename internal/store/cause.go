package store

import (
	"context"
	"fmt"
	"time"

	"aidbridge/internal/utils"
	"aidbridge/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const causeTableName = "causes"

var causeColumns = utils.StructTagValues(types.Cause{})

type CauseRepository struct {
	pool *pgxpool.Pool
}

func NewCauseRepository(pool *pgxpool.Pool) *CauseRepository {
	return &CauseRepository{pool: pool}
}

func (r *CauseRepository) Cause(ctx context.Context, causeID string) (*types.Cause, error) {
	query, args, err := psql().
		Select(causeColumns...).
		From(causeTableName).
		Where(sq.Eq{"id": causeID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate cause query: %w", err)
	}

	var cause types.Cause
	err = pgxscan.Get(ctx, r.pool, &cause, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrCauseNotFound
		}
		return nil, fmt.Errorf("failed to fetch cause: %w", err)
	}

	return &cause, nil
}

func (r *CauseRepository) ListByStatus(ctx context.Context, status types.CauseStatus) ([]*types.Cause, error) {
	query, args, err := psql().
		Select(causeColumns...).
		From(causeTableName).
		Where(sq.Eq{"status": status}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate list causes query: %w", err)
	}

	causes := make([]*types.Cause, 0)
	if err := pgxscan.Select(ctx, r.pool, &causes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list causes: %w", err)
	}

	return causes, nil
}

func (r *CauseRepository) Create(ctx context.Context, cause *types.Cause) error {
	now := time.Now()
	cause.ID = utils.NanoID()
	cause.CreatedAt = now
	cause.UpdatedAt = now
	if cause.StartDate.IsZero() {
		cause.StartDate = now
	}

	query, args, err := psql().
		Insert(causeTableName).
		SetMap(utils.StructToMap(cause)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert cause query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create cause")
}

func (r *CauseRepository) UpdateFields(ctx context.Context, causeID string, fields map[string]any) error {
	if len(fields) == 0 {
		return types.ErrNoFieldsToUpdate
	}

	query, args, err := psql().
		Update(causeTableName).
		SetMap(fields).
		Where(sq.Eq{"id": causeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update cause query for cause %s: %w", causeID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update cause: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrCauseNotFound
	}

	return nil
}
