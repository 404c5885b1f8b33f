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

const messageTableName = "messages"

var messageColumns = utils.StructTagValues(types.Message{})

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func (r *MessageRepository) MessagesByConnection(ctx context.Context, connectionID string) ([]*types.Message, error) {
	query, args, err := psql().
		Select(messageColumns...).
		From(messageTableName).
		Where(sq.Eq{"connection_id": connectionID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate messages query: %w", err)
	}

	messages := make([]*types.Message, 0)
	if err := pgxscan.Select(ctx, r.pool, &messages, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

func (r *MessageRepository) Create(ctx context.Context, message *types.Message) error {
	message.ID = utils.NanoID()
	message.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(messageTableName).
		SetMap(utils.StructToMap(message)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert message query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create message")
}

// MarkRead flags every message in the thread not sent by the reader.
func (r *MessageRepository) MarkRead(ctx context.Context, connectionID, readerID string) error {
	query, args, err := psql().
		Update(messageTableName).
		Set("is_read", true).
		Where(sq.Eq{"connection_id": connectionID}).
		Where(sq.NotEq{"sender_id": readerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate mark-read query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to mark messages read")
}
