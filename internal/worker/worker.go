// Package worker implements the drain path: it polls today's date-partitioned
// queue and advances lead state for each entry under the exactly-once
// state-advance guarantee.
package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/hyperdrip/hyperdrip/internal/common"
	"github.com/hyperdrip/hyperdrip/internal/interfaces"
	"github.com/hyperdrip/hyperdrip/internal/models"
	"github.com/hyperdrip/hyperdrip/internal/queue"
	"golang.org/x/time/rate"
)

// readQty is how many entries pollLoop asks the queue for per read. One at a time
// keeps per-entry pacing (the inter-message delay) exact.
const readQty = 1

// Worker drains one civil day's queue at a time. Its running state (the
// cancel func and wait group) is process-global by design (§9): Start is
// safe against concurrent invocation and a no-op if already running; Stop is
// idempotent.
type Worker struct {
	store  interfaces.LeadStore
	queue  interfaces.Queue
	sender Sender
	logger *common.Logger

	pollInterval      time.Duration
	visibilityTimeout time.Duration
	testMode          bool
	loc               *time.Location
	limiter           *rate.Limiter

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option customizes a Worker at construction time.
type Option func(*Worker)

// WithLocation sets the time zone civil dates are computed in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(w *Worker) { w.loc = loc }
}

// New builds a Worker. messageDelay paces successive sends within one
// worker; pollInterval is the sleep between empty reads.
func New(store interfaces.LeadStore, q interfaces.Queue, sender Sender, logger *common.Logger, pollInterval, messageDelay, visibilityTimeout time.Duration, testMode bool, opts ...Option) *Worker {
	w := &Worker{
		store:             store,
		queue:             q,
		sender:            sender,
		logger:            logger,
		pollInterval:      pollInterval,
		visibilityTimeout: visibilityTimeout,
		testMode:          testMode,
		loc:               time.UTC,
		limiter:           rate.NewLimiter(rate.Every(messageDelay), 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// safeGo launches a goroutine with panic recovery, mirroring the production
// job runner's defensive goroutine wrapper.
func (w *Worker) safeGo(name string, fn func()) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error().
					Str("goroutine", name).
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(debug.Stack())).
					Msg("recovered from panic in worker goroutine")
			}
		}()
		fn()
	}()
}

// Start ensures today's queue exists and begins the poll loop. Calling Start
// while already running is a no-op.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	today := models.Today(w.loc)
	name := queue.NameFor(today, w.testMode)
	if err := w.queue.Create(runCtx, name); err != nil {
		w.logger.Warn().Str("queue", name).Err(err).Msg("failed to ensure today's queue exists")
	}

	w.safeGo("worker-poll", func() { w.pollLoop(runCtx) })

	w.logger.Info().Str("queue", name).Msg("worker started")
}

// Stop cancels the poll loop and waits for in-flight processing to return.
// Calling Stop while not running is a no-op.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	w.wg.Wait()
	w.logger.Info().Msg("worker stopped")
}

func (w *Worker) pollLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		today := models.Today(w.loc)
		name := queue.NameFor(today, w.testMode)

		entries, err := w.queue.Read(ctx, name, w.visibilityTimeout, readQty)
		if err != nil {
			w.logger.Warn().Str("queue", name).Err(err).Msg("read failed, retrying next tick")
			if !w.sleep(ctx, w.pollInterval) {
				return
			}
			continue
		}

		if len(entries) == 0 {
			if !w.sleep(ctx, w.pollInterval) {
				return
			}
			continue
		}

		for _, entry := range entries {
			w.processEntry(ctx, name, entry)
		}
	}
}

// sleep waits for d or ctx cancellation, returning false if cancelled.
func (w *Worker) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
