package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/hyperdrip/hyperdrip/internal/models"
	"github.com/hyperdrip/hyperdrip/internal/storage/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityOracle_HasCapacity(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	oracle := NewCapacityOracle(store, 2, time.UTC)

	today := models.Today(time.UTC)

	ok, err := oracle.HasCapacity(ctx, today)
	require.NoError(t, err)
	assert.True(t, ok)

	lead, err := store.Create(ctx, &models.Draft{Email: "c1@example.com", Phone: "5555551000", MaxMessages: 1})
	require.NoError(t, err)
	_, _, err = store.AdvanceIfCurrent(ctx, lead.ID, 0, time.Now())
	require.NoError(t, err)

	ok, err = oracle.HasCapacity(ctx, today)
	require.NoError(t, err)
	assert.True(t, ok, "one of two slots used")

	lead2, err := store.Create(ctx, &models.Draft{Email: "c2@example.com", Phone: "5555551001", MaxMessages: 1})
	require.NoError(t, err)
	_, _, err = store.AdvanceIfCurrent(ctx, lead2.ID, 0, time.Now())
	require.NoError(t, err)

	ok, err = oracle.HasCapacity(ctx, today)
	require.NoError(t, err)
	assert.False(t, ok, "both slots used")
}

func TestCapacityOracle_ZeroDailyMaxNeverHasCapacity(t *testing.T) {
	store := memstore.New()
	oracle := NewCapacityOracle(store, 0, time.UTC)

	ok, err := oracle.HasCapacity(context.Background(), models.Today(time.UTC))
	require.NoError(t, err)
	assert.False(t, ok)
}
