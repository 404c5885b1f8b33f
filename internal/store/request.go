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

const requestTableName = "requests"

var requestColumns = utils.StructTagValues(types.Request{})

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func (r *RequestRepository) Request(ctx context.Context, requestID string) (*types.Request, error) {
	query, args, err := psql().
		Select(requestColumns...).
		From(requestTableName).
		Where(sq.Eq{"id": requestID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request query: %w", err)
	}

	var request types.Request
	err = pgxscan.Get(ctx, r.pool, &request, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fetch request: %w", err)
	}

	return &request, nil
}

// ListApproved returns approved requests, newest first, narrowed by the
// exact-match filters that were supplied.
func (r *RequestRepository) ListApproved(ctx context.Context, filter types.RequestFilter) ([]*types.Request, error) {
	where := sq.Eq{"status": types.RequestStatusApproved}
	if filter.Category != "" {
		where["category"] = filter.Category
	}
	if filter.Location != "" {
		where["location"] = filter.Location
	}
	if filter.Urgency != "" {
		where["urgency"] = filter.Urgency
	}

	query, args, err := psql().
		Select(requestColumns...).
		From(requestTableName).
		Where(where).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate list requests query: %w", err)
	}

	requests := make([]*types.Request, 0)
	if err := pgxscan.Select(ctx, r.pool, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	return requests, nil
}

func (r *RequestRepository) ListByUser(ctx context.Context, userID string) ([]*types.Request, error) {
	query, args, err := psql().
		Select(requestColumns...).
		From(requestTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate list-by-user query: %w", err)
	}

	requests := make([]*types.Request, 0)
	if err := pgxscan.Select(ctx, r.pool, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list requests by user: %w", err)
	}

	return requests, nil
}

func (r *RequestRepository) ListByStatus(ctx context.Context, status types.RequestStatus) ([]*types.Request, error) {
	query, args, err := psql().
		Select(requestColumns...).
		From(requestTableName).
		Where(sq.Eq{"status": status}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate list-by-status query: %w", err)
	}

	requests := make([]*types.Request, 0)
	if err := pgxscan.Select(ctx, r.pool, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list requests by status: %w", err)
	}

	return requests, nil
}

func (r *RequestRepository) Create(ctx context.Context, request *types.Request) error {
	now := time.Now()
	request.ID = utils.NanoID()
	request.CreatedAt = now
	request.UpdatedAt = now

	query, args, err := psql().
		Insert(requestTableName).
		SetMap(utils.StructToMap(request)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert request query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create request")
}

func (r *RequestRepository) UpdateFields(ctx context.Context, requestID string, fields map[string]any) error {
	if len(fields) == 0 {
		return types.ErrNoFieldsToUpdate
	}

	query, args, err := psql().
		Update(requestTableName).
		SetMap(fields).
		Where(sq.Eq{"id": requestID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update request query for request %s: %w", requestID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrRequestNotFound
	}

	return nil
}
