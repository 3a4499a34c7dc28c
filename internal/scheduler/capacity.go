package scheduler

import (
	"context"
	"time"

	"github.com/hyperdrip/hyperdrip/internal/interfaces"
	"github.com/hyperdrip/hyperdrip/internal/models"
)

// CapacityOracle answers "does day D still have room under the daily cap?"
// by consulting the lead store's count of already-completed sends. It does
// not count queued-but-unsent messages, so the scheduler's forward scan is
// optimistic: a day can be over-packed if everything queued against it later
// completes.
type CapacityOracle struct {
	store    interfaces.LeadStore
	dailyMax int
	loc      *time.Location
}

// NewCapacityOracle builds an oracle over store, capping each civil day at
// dailyMax completed sends, measured in loc.
func NewCapacityOracle(store interfaces.LeadStore, dailyMax int, loc *time.Location) *CapacityOracle {
	if loc == nil {
		loc = time.UTC
	}
	return &CapacityOracle{store: store, dailyMax: dailyMax, loc: loc}
}

// HasCapacity reports whether day still has room under DAILY_MAX. A
// non-positive DAILY_MAX means no day ever has capacity.
func (c *CapacityOracle) HasCapacity(ctx context.Context, day models.CivilDate) (bool, error) {
	if c.dailyMax <= 0 {
		return false, nil
	}
	start, end := day.Bounds(c.loc)
	used, err := c.store.CountSentOnDay(ctx, start, end)
	if err != nil {
		return false, err
	}
	return used < c.dailyMax, nil
}
