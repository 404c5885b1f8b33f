package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aidbridge/internal/db"
	"aidbridge/internal/server"
	"aidbridge/internal/storage"
	"aidbridge/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	s3Client := s3.NewFromConfig(awsConfig)
	documents := storage.NewS3Storage(s3Client, config.DocumentBucket)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	usersRepo := store.NewUserRepository(pool)
	requestsRepo := store.NewRequestRepository(pool)
	documentsRepo := store.NewDocumentRepository(pool)
	causesRepo := store.NewCauseRepository(pool)
	donationsRepo := store.NewDonationRepository(pool)
	connectionsRepo := store.NewConnectionRepository(pool)
	messagesRepo := store.NewMessageRepository(pool)
	transactionsRepo := store.NewTransactionRepository(pool)
	storiesRepo := store.NewStoryRepository(pool)
	statsRepo := store.NewStatsRepository(pool)

	srv, err := server.New(
		config,
		logger,
		usersRepo,
		requestsRepo,
		documentsRepo,
		causesRepo,
		donationsRepo,
		connectionsRepo,
		messagesRepo,
		transactionsRepo,
		storiesRepo,
		statsRepo,
		documents,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
