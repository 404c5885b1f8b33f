package seed

import (
	"context"
	"fmt"

	"aidbridge/internal/store"
	"aidbridge/pkg/types"
)

type fakeCauseSeed struct {
	Title           string
	Description     string
	GoalAmountCents int64
}

var fakeCauses = []fakeCauseSeed{
	{
		Title:           "Winter Heating Fund",
		Description:     "Covers electricity and heating bills for families facing winter shutoffs.",
		GoalAmountCents: 500000,
	},
	{
		Title:           "School Supplies Drive",
		Description:     "Backpacks, notebooks and supplies for kids starting the school year.",
		GoalAmountCents: 250000,
	},
	{
		Title:           "Emergency Medical Relief",
		Description:     "Helps with unexpected emergency room and follow-up care costs.",
		GoalAmountCents: 1000000,
	},
}

// SeedFakeCauses creates the fixture causes owned by the seed admin.
// Existing active causes are left alone so reruns stay idempotent.
func SeedFakeCauses(ctx context.Context, causeRepo *store.CauseRepository, adminID string) error {
	existing, err := causeRepo.ListByStatus(ctx, types.CauseStatusActive)
	if err != nil {
		return fmt.Errorf("failed to list active causes: %w", err)
	}

	titles := make(map[string]bool, len(existing))
	for _, cause := range existing {
		titles[cause.Title] = true
	}

	seeded := 0
	for _, fakeCause := range fakeCauses {
		if titles[fakeCause.Title] {
			continue
		}

		cause := &types.Cause{
			Title:           fakeCause.Title,
			Description:     fakeCause.Description,
			GoalAmountCents: fakeCause.GoalAmountCents,
			Status:          types.CauseStatusActive,
			CreatedBy:       adminID,
		}

		if err := causeRepo.Create(ctx, cause); err != nil {
			return fmt.Errorf("failed to create fake cause %q: %w", fakeCause.Title, err)
		}
		seeded++
	}

	fmt.Printf("Fake causes seeded: %d created\n", seeded)
	return nil
}
