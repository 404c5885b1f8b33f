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

const connectionTableName = "connections"

var connectionColumns = utils.StructTagValues(types.Connection{})

type ConnectionRepository struct {
	pool *pgxpool.Pool
}

func NewConnectionRepository(pool *pgxpool.Pool) *ConnectionRepository {
	return &ConnectionRepository{pool: pool}
}

func (r *ConnectionRepository) Connection(ctx context.Context, connectionID string) (*types.Connection, error) {
	query, args, err := psql().
		Select(connectionColumns...).
		From(connectionTableName).
		Where(sq.Eq{"id": connectionID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate connection query: %w", err)
	}

	var conn types.Connection
	err = pgxscan.Get(ctx, r.pool, &conn, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to fetch connection: %w", err)
	}

	return &conn, nil
}

// ConnectionsByUser returns connections where the user is either the
// donor or the owner of the connected request.
func (r *ConnectionRepository) ConnectionsByUser(ctx context.Context, userID string) ([]*types.Connection, error) {
	query, args, err := psql().
		Select(connectionColumns...).
		From(connectionTableName).
		Where(sq.Or{
			sq.Eq{"donor_id": userID},
			sq.Expr("request_id IN (SELECT id FROM requests WHERE user_id = ?)", userID),
		}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate connections-by-user query: %w", err)
	}

	conns := make([]*types.Connection, 0)
	if err := pgxscan.Select(ctx, r.pool, &conns, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	return conns, nil
}

func (r *ConnectionRepository) Create(ctx context.Context, conn *types.Connection) error {
	now := time.Now()
	conn.ID = utils.NanoID()
	conn.CreatedAt = now
	conn.UpdatedAt = now

	query, args, err := psql().
		Insert(connectionTableName).
		SetMap(utils.StructToMap(conn)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert connection query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create connection")
}

func (r *ConnectionRepository) UpdateFields(ctx context.Context, connectionID string, fields map[string]any) error {
	if len(fields) == 0 {
		return types.ErrNoFieldsToUpdate
	}

	fields["updated_at"] = time.Now()

	query, args, err := psql().
		Update(connectionTableName).
		SetMap(fields).
		Where(sq.Eq{"id": connectionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update connection query for connection %s: %w", connectionID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update connection: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrConnectionNotFound
	}

	return nil
}
