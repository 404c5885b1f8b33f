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

const donationTableName = "cause_donations"

var donationColumns = utils.StructTagValues(types.CauseDonation{})

type DonationRepository struct {
	pool *pgxpool.Pool
}

func NewDonationRepository(pool *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{pool: pool}
}

func (r *DonationRepository) Donation(ctx context.Context, donationID string) (*types.CauseDonation, error) {
	query, args, err := psql().
		Select(donationColumns...).
		From(donationTableName).
		Where(sq.Eq{"id": donationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donation query: %w", err)
	}

	var donation types.CauseDonation
	err = pgxscan.Get(ctx, r.pool, &donation, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to fetch donation: %w", err)
	}

	return &donation, nil
}

// CompletedByCause lists completed donations for the public cause page,
// newest first.
func (r *DonationRepository) CompletedByCause(ctx context.Context, causeID string) ([]*types.CauseDonation, error) {
	query, args, err := psql().
		Select(donationColumns...).
		From(donationTableName).
		Where(sq.Eq{"cause_id": causeID, "status": types.DonationStatusCompleted}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donations-by-cause query: %w", err)
	}

	donations := make([]*types.CauseDonation, 0)
	if err := pgxscan.Select(ctx, r.pool, &donations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}

	return donations, nil
}

func (r *DonationRepository) Create(ctx context.Context, donation *types.CauseDonation) error {
	donation.ID = utils.NanoID()
	donation.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(donationTableName).
		SetMap(utils.StructToMap(donation)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert donation query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create donation")
}

// UpdateStatus moves a donation to the given status. Entering completed
// adds the amount to the cause's raised total; leaving completed
// subtracts it again. Both writes happen in one transaction.
func (r *DonationRepository) UpdateStatus(ctx context.Context, donationID string, status types.DonationStatus) (*types.CauseDonation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin donation update: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql().
		Select(donationColumns...).
		From(donationTableName).
		Where(sq.Eq{"id": donationID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donation lock query: %w", err)
	}

	var donation types.CauseDonation
	err = pgxscan.Get(ctx, tx, &donation, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to fetch donation: %w", err)
	}

	if donation.Status == status {
		return &donation, nil
	}

	wasCompleted := donation.Status == types.DonationStatusCompleted
	donation.Status = status

	query, args, err = psql().
		Update(donationTableName).
		Set("status", status).
		Where(sq.Eq{"id": donationID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donation status query: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update donation status: %w", err)
	}

	var delta int64
	switch {
	case status == types.DonationStatusCompleted && !wasCompleted:
		delta = donation.AmountCents
	case wasCompleted:
		delta = -donation.AmountCents
	}

	if delta != 0 {
		_, err = tx.Exec(ctx,
			`UPDATE causes SET raised_amount_cents = raised_amount_cents + $1 WHERE id = $2`,
			delta, donation.CauseID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to adjust cause raised amount: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit donation update: %w", err)
	}

	return &donation, nil
}
