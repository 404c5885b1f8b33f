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

const transactionTableName = "aid_transactions"

var transactionColumns = utils.StructTagValues(types.AidTransaction{})

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func (r *TransactionRepository) TransactionsByConnection(ctx context.Context, connectionID string) ([]*types.AidTransaction, error) {
	query, args, err := psql().
		Select(transactionColumns...).
		From(transactionTableName).
		Where(sq.Eq{"connection_id": connectionID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate transactions query: %w", err)
	}

	transactions := make([]*types.AidTransaction, 0)
	if err := pgxscan.Select(ctx, r.pool, &transactions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, nil
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *types.AidTransaction) error {
	transaction.ID = utils.NanoID()
	transaction.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(transactionTableName).
		SetMap(utils.StructToMap(transaction)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert transaction query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create transaction")
}
