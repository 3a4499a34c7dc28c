// Package scheduler implements lead admission: persisting a new lead and
// fanning its N drip messages out across date-partitioned queues under a
// global daily capacity cap.
package scheduler

import (
	"context"
	"time"

	"github.com/hyperdrip/hyperdrip/internal/common"
	"github.com/hyperdrip/hyperdrip/internal/interfaces"
	"github.com/hyperdrip/hyperdrip/internal/models"
	"github.com/hyperdrip/hyperdrip/internal/queue"
)

// Scheduler admits leads and schedules their drip messages.
type Scheduler struct {
	store    interfaces.LeadStore
	queue    interfaces.Queue
	capacity *CapacityOracle
	logger   *common.Logger

	horizonDays int
	testMode    bool
	loc         *time.Location
}

// Option customizes a Scheduler at construction time.
type Option func(*Scheduler)

// WithLocation sets the time zone civil dates are computed in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.loc = loc }
}

// New builds a Scheduler. horizonDays bounds the forward scan for capacity;
// testMode prefixes queue names so integration tests never collide with
// production queues on a shared backend.
func New(store interfaces.LeadStore, q interfaces.Queue, capacity *CapacityOracle, logger *common.Logger, horizonDays int, testMode bool, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:       store,
		queue:       q,
		capacity:    capacity,
		logger:      logger,
		horizonDays: horizonDays,
		testMode:    testMode,
		loc:         time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.horizonDays <= 0 {
		s.horizonDays = 30
	}
	return s
}

// Admit persists draft as a new lead and schedules its max_messages drip
// entries. It returns the created lead even if some entries fail to
// schedule: the lead row is the durable record of admission, and a partial
// schedule is repaired operationally rather than rolled back (the scheduler
// is not transactional with the queue, per the system's design).
func (s *Scheduler) Admit(ctx context.Context, draft *models.Draft) (*models.Lead, error) {
	lead, err := s.store.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	today := models.Today(s.loc)
	for m := 1; m <= lead.MaxMessages; m++ {
		preferred := today.AddDays(m - 1)
		day, err := s.assignDate(ctx, preferred)
		if err != nil {
			s.logger.Warn().Int("messageNumber", m).Str("leadId", lead.ID).Err(err).Msg("scheduling message failed, continuing")
			continue
		}

		name := queue.NameFor(day, s.testMode)
		if err := s.queue.Create(ctx, name); err != nil {
			s.logger.Warn().Int("messageNumber", m).Str("queue", name).Err(err).Msg("queue create failed, continuing")
			continue
		}

		entry := &models.QueueEntry{
			LeadID:        lead.ID,
			Email:         lead.Email,
			MessageNumber: m,
			ScheduledDate: day,
		}
		if _, err := s.queue.Send(ctx, name, entry); err != nil {
			s.logger.Warn().Int("messageNumber", m).Str("queue", name).Err(err).Msg("enqueue failed, continuing")
			continue
		}
	}

	return lead, nil
}

// assignDate scans forward from preferred, day by day, for up to
// horizonDays, returning the first day with spare capacity. If the horizon
// is exhausted, it clamps to the last day scanned — the lead is still
// scheduled, at degraded fidelity, rather than dropped.
func (s *Scheduler) assignDate(ctx context.Context, preferred models.CivilDate) (models.CivilDate, error) {
	var day models.CivilDate
	for i := 0; i < s.horizonDays; i++ {
		day = preferred.AddDays(i)
		ok, err := s.capacity.HasCapacity(ctx, day)
		if err != nil {
			return models.CivilDate{}, err
		}
		if ok {
			return day, nil
		}
	}
	// Horizon exhausted: clamp to the last day scanned rather than drop the
	// message.
	return day, nil
}
