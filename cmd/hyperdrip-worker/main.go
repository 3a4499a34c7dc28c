package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyperdrip/hyperdrip/internal/common"
	"github.com/hyperdrip/hyperdrip/internal/interfaces"
	"github.com/hyperdrip/hyperdrip/internal/queue/memqueue"
	"github.com/hyperdrip/hyperdrip/internal/queue/sqsqueue"
	"github.com/hyperdrip/hyperdrip/internal/storage/surrealdb"
	"github.com/hyperdrip/hyperdrip/internal/worker"
)

func main() {
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(os.Getenv("HYPERDRIP_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger(config.Logging.Level)
	common.PrintBanner(config, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := buildLeadStore(logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize lead store")
	}
	defer closeStore()

	q, err := buildQueue(ctx, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize queue")
	}

	sender := worker.NewLogSender(logger)
	w := worker.New(
		store,
		q,
		sender,
		logger,
		config.Worker.PollInterval(),
		config.Worker.MessageDelay(),
		config.Worker.VisibilityTimeout(),
		config.Worker.TestMode,
	)

	janitor := worker.NewJanitor(q, logger, config.Worker.JanitorRetentionDays, time.UTC)
	janitor.Run(ctx)

	w.Start(ctx)
	logger.Info().Msg("hyperdrip worker ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutdown signal received")
	common.PrintShutdownBanner(logger)

	w.Stop()
}

// buildLeadStore wires the configured lead store backend and returns its
// close function.
func buildLeadStore(logger *common.Logger, config *common.Config) (interfaces.LeadStore, func(), error) {
	mgr, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, nil, err
	}
	return mgr.LeadStore(), func() {
		if err := mgr.Close(); err != nil {
			logger.Warn().Err(err).Msg("lead store close failed")
		}
	}, nil
}

// buildQueue wires the configured queue backend: "sqs" for production,
// "memory" for local smoke-testing without an AWS-compatible endpoint.
func buildQueue(ctx context.Context, logger *common.Logger, config *common.Config) (interfaces.Queue, error) {
	switch config.Queue.Backend {
	case "memory":
		return memqueue.New(), nil
	default:
		return sqsqueue.New(ctx, config.Queue.Region, config.Queue.Endpoint, logger)
	}
}
