package worker

import (
	"context"
	"time"

	"github.com/hyperdrip/hyperdrip/internal/common"
	"github.com/hyperdrip/hyperdrip/internal/interfaces"
	"github.com/hyperdrip/hyperdrip/internal/models"
	"github.com/hyperdrip/hyperdrip/internal/queue"
)

// janitorTimeout bounds the whole run; remaining drops are abandoned once it
// elapses rather than blocking worker startup indefinitely.
const janitorTimeout = 10 * time.Second

// lookbackDays bounds how far past the retention cutoff the janitor scans
// for queues to drop. Drop is idempotent, so scanning days that never had a
// queue is harmless — this just keeps the scan itself from running forever.
const lookbackDays = 60

// Janitor drops day-queues older than a retention horizon at worker startup.
type Janitor struct {
	queue         interfaces.Queue
	logger        *common.Logger
	retentionDays int
	loc           *time.Location
}

// NewJanitor builds a Janitor that keeps retentionDays of past queues alive.
func NewJanitor(q interfaces.Queue, logger *common.Logger, retentionDays int, loc *time.Location) *Janitor {
	if loc == nil {
		loc = time.UTC
	}
	return &Janitor{queue: q, logger: logger, retentionDays: retentionDays, loc: loc}
}

// Run drops every day-queue (both test-prefixed and production-named) dated
// on or before the retention cutoff. Failing or timed-out drops are ignored:
// the janitor is best-effort housekeeping, not a correctness requirement.
func (j *Janitor) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, janitorTimeout)
	defer cancel()

	today := models.Today(j.loc)
	cutoff := today.AddDays(-j.retentionDays)

	for i := 0; i < lookbackDays; i++ {
		if ctx.Err() != nil {
			j.logger.Warn().Msg("janitor timed out, abandoning remaining drops")
			return
		}
		day := cutoff.AddDays(-i)
		j.dropBoth(ctx, day)
	}
}

func (j *Janitor) dropBoth(ctx context.Context, day models.CivilDate) {
	for _, testMode := range [...]bool{false, true} {
		name := queue.NameFor(day, testMode)
		if err := j.queue.Drop(ctx, name); err != nil {
			j.logger.Warn().Str("queue", name).Err(err).Msg("janitor drop failed, ignoring")
		}
	}
}
