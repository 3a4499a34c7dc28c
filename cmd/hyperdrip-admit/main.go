// Command hyperdrip-admit is a thin CLI standing in for the out-of-scope
// HTTP front-end: it performs minimal well-formedness checks, persists a
// lead, and invokes the scheduler. Useful for smoke-testing the admission
// path without a web server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/mail"
	"os"
	"time"

	"github.com/hyperdrip/hyperdrip/internal/common"
	"github.com/hyperdrip/hyperdrip/internal/interfaces"
	"github.com/hyperdrip/hyperdrip/internal/models"
	"github.com/hyperdrip/hyperdrip/internal/queue/memqueue"
	"github.com/hyperdrip/hyperdrip/internal/queue/sqsqueue"
	"github.com/hyperdrip/hyperdrip/internal/scheduler"
	"github.com/hyperdrip/hyperdrip/internal/storage/surrealdb"
)

func main() {
	var (
		name        = flag.String("name", "", "lead name (required)")
		email       = flag.String("email", "", "lead email (required, well-formed)")
		phone       = flag.String("phone", "", "lead phone (required, at least 10 characters)")
		notes       = flag.String("notes", "", "optional free-text notes")
		maxMessages = flag.Int("messages", 5, "number of drip messages to schedule")
	)
	flag.Parse()

	if err := validate(*name, *email, *phone, *maxMessages); err != nil {
		fmt.Fprintf(os.Stderr, "invalid lead: %v\n", err)
		os.Exit(1)
	}

	config, err := common.LoadConfig(os.Getenv("HYPERDRIP_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := common.NewLogger(config.Logging.Level)

	mgr, err := surrealdb.NewManager(logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize lead store")
	}
	defer mgr.Close()

	ctx := context.Background()
	q, err := buildQueue(ctx, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize queue")
	}

	capacity := scheduler.NewCapacityOracle(mgr.LeadStore(), config.Scheduler.DailyMax, time.UTC)
	s := scheduler.New(mgr.LeadStore(), q, capacity, logger, config.Scheduler.OverflowHorizonDays, config.Worker.TestMode)

	lead, err := s.Admit(ctx, &models.Draft{
		Name:        *name,
		Email:       *email,
		Phone:       *phone,
		Notes:       *notes,
		MaxMessages: *maxMessages,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "admission failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("admitted lead %s (%s), %d messages scheduled starting today\n", lead.ID, lead.Email, lead.MaxMessages)
}

func validate(name, email, phone string, maxMessages int) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("email is not well-formed: %w", err)
	}
	if len(phone) < 10 {
		return fmt.Errorf("phone must be at least 10 characters")
	}
	if maxMessages < 1 {
		return fmt.Errorf("messages must be at least 1")
	}
	return nil
}

func buildQueue(ctx context.Context, logger *common.Logger, config *common.Config) (interfaces.Queue, error) {
	switch config.Queue.Backend {
	case "memory":
		return memqueue.New(), nil
	default:
		return sqsqueue.New(ctx, config.Queue.Region, config.Queue.Endpoint, logger)
	}
}
