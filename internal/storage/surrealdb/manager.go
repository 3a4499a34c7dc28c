package surrealdb

import (
	"context"
	"fmt"

	"github.com/hyperdrip/hyperdrip/internal/common"
	"github.com/hyperdrip/hyperdrip/internal/interfaces"
	"github.com/surrealdb/surrealdb.go"
)

// Manager owns the SurrealDB connection and the lead store built on top of it.
type Manager struct {
	db     *surrealdb.DB
	logger *common.Logger

	leadStore *LeadStore
}

// NewManager connects to SurrealDB, selects the configured namespace/database,
// and defines the lead table and its indexes.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Username,
		"pass": config.Storage.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Storage.Namespace, config.Storage.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	if err := defineSchema(ctx, db); err != nil {
		return nil, err
	}

	m := &Manager{
		db:     db,
		logger: logger,
	}
	m.leadStore = NewLeadStore(db, logger)

	logger.Info().
		Str("address", config.Storage.Address).
		Str("namespace", config.Storage.Namespace).
		Str("database", config.Storage.Database).
		Msg("SurrealDB lead store initialized")

	return m, nil
}

// defineSchema ensures the lead table and its indexes exist. SurrealDB errors
// on querying a table that has never been defined, so this runs on every boot.
func defineSchema(ctx context.Context, db *surrealdb.DB) error {
	statements := []string{
		"DEFINE TABLE IF NOT EXISTS lead SCHEMALESS",
		"DEFINE INDEX IF NOT EXISTS idx_lead_email ON lead FIELDS email UNIQUE",
		"DEFINE INDEX IF NOT EXISTS idx_lead_phone ON lead FIELDS phone UNIQUE",
		"DEFINE INDEX IF NOT EXISTS idx_next_scheduled ON lead FIELDS next_scheduled_for, status",
	}
	for _, stmt := range statements {
		if _, err := surrealdb.Query[any](ctx, db, stmt, nil); err != nil {
			return fmt.Errorf("failed to apply schema statement %q: %w", stmt, err)
		}
	}
	return nil
}

// LeadStore returns the lead store backed by this connection.
func (m *Manager) LeadStore() interfaces.LeadStore {
	return m.leadStore
}

// Close releases the underlying SurrealDB connection.
func (m *Manager) Close() error {
	m.db.Close(context.Background())
	return nil
}
