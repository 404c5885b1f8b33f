package seed

import (
	"context"
	"fmt"

	"aidbridge/internal/store"
	"aidbridge/pkg/types"

	"github.com/k0kubun/pp/v3"
)

type fakeRequestSeed struct {
	OwnerEmail        string
	Title             string
	Description       string
	Category          string
	Location          string
	Urgency           types.Urgency
	AmountNeededCents int64
	Status            types.RequestStatus
}

var fakeRequests = []fakeRequestSeed{
	{
		OwnerEmail:        "sarah.receiver+seed3@example.com",
		Title:             "Emergency room bills",
		Description:       "Medical bills assistance needed for an unexpected emergency room visit and follow-up care.",
		Category:          "medical",
		Location:          "Charlotte, NC",
		Urgency:           types.UrgencyHigh,
		AmountNeededCents: 100600,
		Status:            types.RequestStatusApproved,
	},
	{
		OwnerEmail:        "david.receiver+seed4@example.com",
		Title:             "Winter heating costs",
		Description:       "Family needs help with electricity bills and winter heating after a job transition.",
		Category:          "utilities",
		Location:          "Durham, NC",
		Urgency:           types.UrgencyMedium,
		AmountNeededCents: 60000,
		Status:            types.RequestStatusApproved,
	},
	{
		OwnerEmail:        "lisa.receiver+seed5@example.com",
		Title:             "Childcare assistance",
		Description:       "Single parent needs childcare support to maintain part-time employment.",
		Category:          "family",
		Location:          "Charlotte, NC",
		Urgency:           types.UrgencyHigh,
		AmountNeededCents: 100000,
		Status:            types.RequestStatusPending,
	},
}

// SeedFakeRequests creates the fixture requests for the seed receivers.
// A receiver who already has requests is skipped.
func SeedFakeRequests(ctx context.Context, requestRepo *store.RequestRepository, users map[string]*types.User) error {
	seeded := 0

	for _, fakeRequest := range fakeRequests {
		owner, ok := users[fakeRequest.OwnerEmail]
		if !ok {
			return fmt.Errorf("seed user %s not found for request %q", fakeRequest.OwnerEmail, fakeRequest.Title)
		}

		existing, err := requestRepo.ListByUser(ctx, owner.ID)
		if err != nil {
			return fmt.Errorf("failed to list requests for %s: %w", fakeRequest.OwnerEmail, err)
		}
		if len(existing) > 0 {
			continue
		}

		request := &types.Request{
			UserID:            owner.ID,
			Title:             fakeRequest.Title,
			Description:       fakeRequest.Description,
			Category:          fakeRequest.Category,
			Location:          fakeRequest.Location,
			Urgency:           fakeRequest.Urgency,
			AmountNeededCents: fakeRequest.AmountNeededCents,
			Status:            fakeRequest.Status,
		}

		if err := requestRepo.Create(ctx, request); err != nil {
			return fmt.Errorf("failed to create fake request %q: %w", fakeRequest.Title, err)
		}

		pp.Println(request.ID, request.Title)
		seeded++
	}

	fmt.Printf("Fake requests seeded: %d created\n", seeded)
	return nil
}
