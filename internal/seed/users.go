package seed

import (
	"context"
	"errors"
	"fmt"

	"aidbridge/internal/store"
	"aidbridge/internal/utils"
	"aidbridge/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type fakeUserSeed struct {
	Email    string
	Name     string
	Role     types.Role
	Password string
	Location string
}

// Seed passwords are for local development only.
var fakeUsers = []fakeUserSeed{
	{Email: "admin+seed@aidbridge.local", Name: "Avery Admin", Role: types.RoleAdmin, Password: "admin-password", Location: "Charlotte, NC"},
	{Email: "maria.donor+seed1@example.com", Name: "Maria Lopez", Role: types.RoleDonor, Password: "donor-password", Location: "Charlotte, NC"},
	{Email: "james.donor+seed2@example.com", Name: "James Tran", Role: types.RoleDonor, Password: "donor-password", Location: "Raleigh, NC"},
	{Email: "sarah.receiver+seed3@example.com", Name: "Sarah Kim", Role: types.RoleReceiver, Password: "receiver-password", Location: "Charlotte, NC"},
	{Email: "david.receiver+seed4@example.com", Name: "David Moore", Role: types.RoleReceiver, Password: "receiver-password", Location: "Durham, NC"},
	{Email: "lisa.receiver+seed5@example.com", Name: "Lisa Reyes", Role: types.RoleReceiver, Password: "receiver-password", Location: "Charlotte, NC"},
}

// SeedFakeUsers upserts the fixture accounts keyed by email and returns
// them for use by the other seeders.
func SeedFakeUsers(ctx context.Context, userRepo *store.UserRepository) (map[string]*types.User, error) {
	users := make(map[string]*types.User, len(fakeUsers))
	seeded := 0

	for _, fakeUser := range fakeUsers {
		existing, err := userRepo.UserByEmail(ctx, fakeUser.Email)
		if err == nil {
			users[fakeUser.Email] = existing
			continue
		}
		if !errors.Is(err, types.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to fetch fake user %s: %w", fakeUser.Email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(fakeUser.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash seed password: %w", err)
		}

		newUser := &types.User{
			Email:        fakeUser.Email,
			Name:         fakeUser.Name,
			PasswordHash: string(hash),
			Role:         fakeUser.Role,
			Location:     utils.StringPtr(fakeUser.Location),
			IsVerified:   true,
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return nil, fmt.Errorf("failed to create fake user %s: %w", fakeUser.Email, err)
		}

		users[fakeUser.Email] = newUser
		seeded++
	}

	fmt.Printf("Fake users seeded: %d created\n", seeded)
	return users, nil
}
