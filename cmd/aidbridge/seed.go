package main

import (
	"context"
	"fmt"

	"aidbridge/internal/db"
	"aidbridge/internal/seed"
	"aidbridge/internal/store"
	"aidbridge/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with development fixtures",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		userRepo := store.NewUserRepository(pool)
		causeRepo := store.NewCauseRepository(pool)
		requestRepo := store.NewRequestRepository(pool)

		logrus.Info("Seeding users...")
		users, err := seed.SeedFakeUsers(ctx, userRepo)
		if err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		var admin *types.User
		for _, user := range users {
			if user.Role == types.RoleAdmin {
				admin = user
				break
			}
		}
		if admin == nil {
			return fmt.Errorf("seed users contain no admin")
		}

		logrus.Info("Seeding causes...")
		if err := seed.SeedFakeCauses(ctx, causeRepo, admin.ID); err != nil {
			return fmt.Errorf("failed to seed causes: %w", err)
		}

		logrus.Info("Seeding requests...")
		if err := seed.SeedFakeRequests(ctx, requestRepo, users); err != nil {
			return fmt.Errorf("failed to seed requests: %w", err)
		}

		logrus.Info("Seed data applied successfully")
		return nil
	},
}
