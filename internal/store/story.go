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

const storyTableName = "success_stories"

var storyColumns = utils.StructTagValues(types.SuccessStory{})

type StoryRepository struct {
	pool *pgxpool.Pool
}

func NewStoryRepository(pool *pgxpool.Pool) *StoryRepository {
	return &StoryRepository{pool: pool}
}

func (r *StoryRepository) Story(ctx context.Context, storyID string) (*types.SuccessStory, error) {
	query, args, err := psql().
		Select(storyColumns...).
		From(storyTableName).
		Where(sq.Eq{"id": storyID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate story query: %w", err)
	}

	var story types.SuccessStory
	err = pgxscan.Get(ctx, r.pool, &story, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to fetch story: %w", err)
	}

	return &story, nil
}

// ListPublished returns published stories, newest first, optionally
// narrowed to featured ones.
func (r *StoryRepository) ListPublished(ctx context.Context, featured *bool) ([]*types.SuccessStory, error) {
	builder := psql().
		Select(storyColumns...).
		From(storyTableName).
		Where(sq.NotEq{"published_at": nil}).
		OrderBy("published_at DESC")

	if featured != nil {
		builder = builder.Where(sq.Eq{"is_featured": *featured})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate list stories query: %w", err)
	}

	stories := make([]*types.SuccessStory, 0)
	if err := pgxscan.Select(ctx, r.pool, &stories, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	return stories, nil
}

func (r *StoryRepository) Create(ctx context.Context, story *types.SuccessStory) error {
	now := time.Now()
	story.ID = utils.NanoID()
	story.CreatedAt = now
	story.UpdatedAt = now

	query, args, err := psql().
		Insert(storyTableName).
		SetMap(utils.StructToMap(story)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert story query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create story")
}

func (r *StoryRepository) UpdateFields(ctx context.Context, storyID string, fields map[string]any) error {
	if len(fields) == 0 {
		return types.ErrNoFieldsToUpdate
	}

	fields["updated_at"] = time.Now()

	query, args, err := psql().
		Update(storyTableName).
		SetMap(fields).
		Where(sq.Eq{"id": storyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update story query for story %s: %w", storyID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update story: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrStoryNotFound
	}

	return nil
}
