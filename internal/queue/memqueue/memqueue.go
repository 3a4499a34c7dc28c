// Package memqueue is an in-process interfaces.Queue, reproducing SQS's
// lease semantics (visibility timeout, bounded-wait read) with a
// mutex-guarded map instead of a network call. It backs unit tests for the
// scheduler and worker that don't need a real queue backend.
package memqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyperdrip/hyperdrip/internal/interfaces"
	"github.com/hyperdrip/hyperdrip/internal/models"
	"github.com/hyperdrip/hyperdrip/internal/queue"
)

// boundedWait caps how long Read polls for a message before returning empty,
// mirroring SQS's WaitTimeSeconds long-poll without needing a real timer wheel.
const boundedWait = 200 * time.Millisecond

const pollInterval = 10 * time.Millisecond

type message struct {
	id         string
	payload    models.QueueEntry
	enqueuedAt time.Time
	visibleAt  time.Time
	readCount  int
}

// Queue is an in-process interfaces.Queue implementation.
type Queue struct {
	mu     sync.Mutex
	queues map[string][]*message
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{queues: make(map[string][]*message)}
}

func (q *Queue) Create(_ context.Context, name string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.queues[name]; !ok {
		q.queues[name] = nil
	}
	return nil
}

func (q *Queue) Drop(_ context.Context, name string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.queues, name)
	return nil
}

func (q *Queue) Send(_ context.Context, name string, payload *models.QueueEntry) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.queues[name]; !ok {
		return "", fmt.Errorf("send to %s: queue does not exist: %w", name, queue.ErrTransient)
	}

	id := uuid.New().String()
	q.queues[name] = append(q.queues[name], &message{
		id:         id,
		payload:    *payload,
		enqueuedAt: time.Now(),
	})
	return id, nil
}

func (q *Queue) Read(ctx context.Context, name string, vt time.Duration, qty int) ([]interfaces.ReadEntry, error) {
	deadline := time.Now().Add(boundedWait)

	for {
		q.mu.Lock()
		msgs, ok := q.queues[name]
		if !ok {
			q.mu.Unlock()
			return nil, nil
		}

		now := time.Now()
		var result []interfaces.ReadEntry
		for _, m := range msgs {
			if len(result) >= qty {
				break
			}
			if m.visibleAt.After(now) {
				continue
			}
			m.readCount++
			m.visibleAt = now.Add(vt)
			result = append(result, interfaces.ReadEntry{
				MsgID:      m.id,
				ReadCount:  m.readCount,
				EnqueuedAt: m.enqueuedAt,
				VisibleAt:  m.visibleAt,
				Payload:    m.payload,
			})
		}
		q.mu.Unlock()

		if len(result) > 0 || time.Now().After(deadline) {
			return result, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (q *Queue) Archive(_ context.Context, name, msgID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	msgs, ok := q.queues[name]
	if !ok {
		return nil
	}
	filtered := msgs[:0]
	for _, m := range msgs {
		if m.id != msgID {
			filtered = append(filtered, m)
		}
	}
	q.queues[name] = filtered
	return nil
}

// Compile-time check
var _ interfaces.Queue = (*Queue)(nil)
