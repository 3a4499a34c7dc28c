package memqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hyperdrip/hyperdrip/internal/models"
	"github.com/hyperdrip/hyperdrip/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_SendAndRead(t *testing.T) {
	q := New()
	ctx := context.Background()

	require.NoError(t, q.Create(ctx, "drip-messages-2026-07-30"))

	entry := &models.QueueEntry{LeadID: "lead-1", Email: "a@example.com", MessageNumber: 1}
	id, err := q.Send(ctx, "drip-messages-2026-07-30", entry)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	read, err := q.Read(ctx, "drip-messages-2026-07-30", 30*time.Second, 10)
	require.NoError(t, err)
	require.Len(t, read, 1)
	assert.Equal(t, "lead-1", read[0].Payload.LeadID)
	assert.Equal(t, 1, read[0].ReadCount)
}

func TestQueue_Read_EmptyReturnsNoError(t *testing.T) {
	q := New()
	ctx := context.Background()
	require.NoError(t, q.Create(ctx, "empty-queue"))

	read, err := q.Read(ctx, "empty-queue", time.Second, 5)
	require.NoError(t, err)
	assert.Empty(t, read)
}

func TestQueue_Send_NonExistentQueue(t *testing.T) {
	q := New()
	ctx := context.Background()

	_, err := q.Send(ctx, "ghost", &models.QueueEntry{LeadID: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, queue.ErrTransient))
}

func TestQueue_Read_LeasedMessageInvisibleUntilExpiry(t *testing.T) {
	q := New()
	ctx := context.Background()
	require.NoError(t, q.Create(ctx, "lease-test"))

	_, err := q.Send(ctx, "lease-test", &models.QueueEntry{LeadID: "lead-2"})
	require.NoError(t, err)

	// The lease must outlast Read's bounded wait, or the second read would
	// pick the message up again once the lease expires mid-wait.
	first, err := q.Read(ctx, "lease-test", 500*time.Millisecond, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// While leased, a second reader sees nothing.
	second, err := q.Read(ctx, "lease-test", 500*time.Millisecond, 10)
	require.NoError(t, err)
	assert.Empty(t, second)

	time.Sleep(400 * time.Millisecond)

	third, err := q.Read(ctx, "lease-test", 500*time.Millisecond, 10)
	require.NoError(t, err)
	require.Len(t, third, 1)
	assert.Equal(t, 2, third[0].ReadCount)
}

func TestQueue_Archive(t *testing.T) {
	q := New()
	ctx := context.Background()
	require.NoError(t, q.Create(ctx, "archive-test"))

	id, err := q.Send(ctx, "archive-test", &models.QueueEntry{LeadID: "lead-3"})
	require.NoError(t, err)

	read, err := q.Read(ctx, "archive-test", time.Second, 10)
	require.NoError(t, err)
	require.Len(t, read, 1)

	require.NoError(t, q.Archive(ctx, "archive-test", id))

	// Archive is idempotent.
	require.NoError(t, q.Archive(ctx, "archive-test", id))

	time.Sleep(time.Millisecond)
	after, err := q.Read(ctx, "archive-test", time.Second, 10)
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestQueue_Drop(t *testing.T) {
	q := New()
	ctx := context.Background()
	require.NoError(t, q.Create(ctx, "drop-test"))
	_, err := q.Send(ctx, "drop-test", &models.QueueEntry{LeadID: "lead-4"})
	require.NoError(t, err)

	require.NoError(t, q.Drop(ctx, "drop-test"))

	_, err = q.Send(ctx, "drop-test", &models.QueueEntry{LeadID: "lead-5"})
	require.Error(t, err)
}
