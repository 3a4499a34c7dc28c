package surrealdb

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hyperdrip/hyperdrip/internal/models"
	"github.com/hyperdrip/hyperdrip/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadStore_CreateAndGet(t *testing.T) {
	db := testDB(t)
	store := NewLeadStore(db, testLogger())
	ctx := context.Background()

	lead, err := store.Create(ctx, &models.Draft{
		Email:       "ada@example.com",
		Phone:       "+1-555-0100",
		Name:        "Ada Lovelace",
		MaxMessages: 3,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, models.LeadStatusActive, lead.Status)
	assert.Equal(t, 0, lead.MessageCount)

	got, err := store.Get(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.Email, got.Email)
	assert.Equal(t, lead.MaxMessages, got.MaxMessages)
}

func TestLeadStore_Get_NotFound(t *testing.T) {
	db := testDB(t)
	store := NewLeadStore(db, testLogger())
	ctx := context.Background()

	_, err := store.Get(ctx, "does-not-exist")
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrLeadNotFound))
}

func TestLeadStore_Create_DuplicateEmail(t *testing.T) {
	db := testDB(t)
	store := NewLeadStore(db, testLogger())
	ctx := context.Background()

	draft := &models.Draft{Email: "dup@example.com", Phone: "+1-555-0200", Name: "First", MaxMessages: 2}
	_, err := store.Create(ctx, draft)
	require.NoError(t, err)

	draft2 := &models.Draft{Email: "dup@example.com", Phone: "+1-555-0201", Name: "Second", MaxMessages: 2}
	_, err = store.Create(ctx, draft2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey))
}

func TestLeadStore_Create_DuplicatePhone(t *testing.T) {
	db := testDB(t)
	store := NewLeadStore(db, testLogger())
	ctx := context.Background()

	draft := &models.Draft{Email: "phone1@example.com", Phone: "+1-555-0300", Name: "First", MaxMessages: 2}
	_, err := store.Create(ctx, draft)
	require.NoError(t, err)

	draft2 := &models.Draft{Email: "phone2@example.com", Phone: "+1-555-0300", Name: "Second", MaxMessages: 2}
	_, err = store.Create(ctx, draft2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey))
}

func TestLeadStore_AdvanceIfCurrent(t *testing.T) {
	db := testDB(t)
	store := NewLeadStore(db, testLogger())
	ctx := context.Background()

	lead, err := store.Create(ctx, &models.Draft{Email: "advance@example.com", Phone: "+1-555-0400", Name: "Advance", MaxMessages: 2})
	require.NoError(t, err)

	advanced, updated, err := store.AdvanceIfCurrent(ctx, lead.ID, 0, time.Now())
	require.NoError(t, err)
	assert.True(t, advanced)
	require.NotNil(t, updated)
	assert.Equal(t, 1, updated.MessageCount)
	assert.Equal(t, models.LeadStatusActive, updated.Status)

	advanced, updated, err = store.AdvanceIfCurrent(ctx, lead.ID, 1, time.Now())
	require.NoError(t, err)
	assert.True(t, advanced)
	assert.Equal(t, 2, updated.MessageCount)
	assert.Equal(t, models.LeadStatusCompleted, updated.Status)
}

func TestLeadStore_AdvanceIfCurrent_StaleExpected(t *testing.T) {
	db := testDB(t)
	store := NewLeadStore(db, testLogger())
	ctx := context.Background()

	lead, err := store.Create(ctx, &models.Draft{Email: "stale@example.com", Phone: "+1-555-0500", Name: "Stale", MaxMessages: 3})
	require.NoError(t, err)

	advanced, _, err := store.AdvanceIfCurrent(ctx, lead.ID, 0, time.Now())
	require.NoError(t, err)
	require.True(t, advanced)

	// Retrying the same expected count (as if a stale/duplicate delivery
	// re-ran the same message) must not advance a second time.
	advanced, updated, err := store.AdvanceIfCurrent(ctx, lead.ID, 0, time.Now())
	require.NoError(t, err)
	assert.False(t, advanced)
	assert.Nil(t, updated)
}

func TestLeadStore_AdvanceIfCurrent_ConcurrentCallersCommitExactlyOnce(t *testing.T) {
	db := testDB(t)
	store := NewLeadStore(db, testLogger())
	ctx := context.Background()

	lead, err := store.Create(ctx, &models.Draft{Email: "concurrent@example.com", Phone: "+1-555-0600", Name: "Concurrent", MaxMessages: 5})
	require.NoError(t, err)

	const racers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func() {
			defer wg.Done()
			advanced, _, err := store.AdvanceIfCurrent(ctx, lead.ID, 0, time.Now())
			if err != nil {
				return
			}
			if advanced {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)

	final, err := store.Get(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, final.MessageCount)
}

func TestLeadStore_CountSentOnDay(t *testing.T) {
	db := testDB(t)
	store := NewLeadStore(db, testLogger())
	ctx := context.Background()

	lead, err := store.Create(ctx, &models.Draft{Email: "count@example.com", Phone: "+1-555-0700", Name: "Count", MaxMessages: 1})
	require.NoError(t, err)

	now := time.Now()
	_, _, err = store.AdvanceIfCurrent(ctx, lead.ID, 0, now)
	require.NoError(t, err)

	start := now.Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)
	count, err := store.CountSentOnDay(ctx, start, end)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 1)
}
