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

const documentTableName = "request_documents"

var documentColumns = utils.StructTagValues(types.RequestDocument{})

type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

func (r *DocumentRepository) Document(ctx context.Context, documentID string) (*types.RequestDocument, error) {
	query, args, err := psql().
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.Eq{"id": documentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate document query: %w", err)
	}

	var doc types.RequestDocument
	err = pgxscan.Get(ctx, r.pool, &doc, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}

	return &doc, nil
}

func (r *DocumentRepository) DocumentsByRequestID(ctx context.Context, requestID string) ([]*types.RequestDocument, error) {
	query, args, err := psql().
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.Eq{"request_id": requestID}).
		OrderBy("uploaded_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate documents-by-request query: %w", err)
	}

	docs := make([]*types.RequestDocument, 0)
	if err := pgxscan.Select(ctx, r.pool, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return docs, nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *types.RequestDocument) error {
	doc.ID = utils.NanoID()
	doc.UploadedAt = time.Now()

	query, args, err := psql().
		Insert(documentTableName).
		SetMap(utils.StructToMap(doc)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert document query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create document")
}

// SetVerified marks a document verified and records the reviewing admin.
func (r *DocumentRepository) SetVerified(ctx context.Context, documentID, verifiedBy string) error {
	query, args, err := psql().
		Update(documentTableName).
		Set("is_verified", true).
		Set("verified_by", verifiedBy).
		Where(sq.Eq{"id": documentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate verify document query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to verify document: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDocumentNotFound
	}

	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, documentID string) error {
	query, args, err := psql().
		Delete(documentTableName).
		Where(sq.Eq{"id": documentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete document query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete document")
}
