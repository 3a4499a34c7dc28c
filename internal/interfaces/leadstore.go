// Package interfaces defines the storage and queue contracts Hyperdrip's
// scheduler and worker are built against. Any implementation satisfying these
// capability sets is substitutable — production code wires a SurrealDB-backed
// LeadStore and an SQS-backed Queue; tests wire in-memory equivalents.
package interfaces

import (
	"context"
	"time"

	"github.com/hyperdrip/hyperdrip/internal/models"
)

// LeadStore is the durable home for Lead records.
type LeadStore interface {
	// Create persists a new lead, assigning its ID. Returns ErrDuplicateKey if
	// email or phone conflicts with an existing lead.
	Create(ctx context.Context, draft *models.Draft) (*models.Lead, error)

	// Get loads a lead by id. Returns ErrLeadNotFound if absent.
	Get(ctx context.Context, id string) (*models.Lead, error)

	// AdvanceIfCurrent atomically advances a lead's message_count from
	// expectedCount to expectedCount+1 and updates LastSentAt/NextScheduledFor/
	// Status accordingly. Returns (false, nil) without error if the lead's
	// current message_count no longer equals expectedCount (another
	// transaction already advanced it) — the caller distinguishes that
	// condition from a hard error via the returned bool.
	AdvanceIfCurrent(ctx context.Context, id string, expectedCount int, now time.Time) (advanced bool, lead *models.Lead, err error)

	// CountSentOnDay returns the number of leads whose LastSentAt falls
	// within [start, end) — the capacity oracle's read.
	CountSentOnDay(ctx context.Context, start, end time.Time) (int, error)

	Close() error
}

// Queue is a named, date-partitioned FIFO-ish queue with leased delivery,
// idempotent create/drop/archive, and a bounded-wait read.
type Queue interface {
	// Create ensures the named queue exists. Idempotent.
	Create(ctx context.Context, name string) error

	// Drop deletes the named queue and everything in it. Idempotent.
	Drop(ctx context.Context, name string) error

	// Send appends one entry and returns the id the backend assigned to it.
	// Archive takes the MsgID of a ReadEntry; in the SQS backend that is the
	// receipt handle of the read, not the id Send returns.
	Send(ctx context.Context, name string, payload *models.QueueEntry) (msgID string, err error)

	// Read polls for up to qty messages, blocking up to a short bounded wait.
	// Returned entries are leased: invisible to other readers for vt.
	Read(ctx context.Context, name string, vt time.Duration, qty int) ([]ReadEntry, error)

	// Archive permanently removes an entry. Idempotent on already-archived ids.
	Archive(ctx context.Context, name, msgID string) error
}

// ReadEntry is one leased message returned by Queue.Read.
type ReadEntry struct {
	MsgID      string
	ReadCount  int
	EnqueuedAt time.Time
	VisibleAt  time.Time
	Payload    models.QueueEntry
}
