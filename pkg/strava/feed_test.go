package strava

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFeedLifecycle(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	feed := NewSeededFeed(1, func() time.Time { return now })
	ctx := context.Background()

	connected, err := feed.Connected(ctx, "user-1")
	assert.NoError(t, err)
	assert.False(t, connected)

	athlete, activities, err := feed.Connect(ctx, "user-1")
	assert.NoError(t, err)
	assert.NotNil(t, athlete)
	assert.NotNil(t, athlete.Stats)
	assert.Len(t, athlete.Gear, 3)
	assert.Len(t, activities, 8)

	connected, err = feed.Connected(ctx, "user-1")
	assert.NoError(t, err)
	assert.True(t, connected)

	// Reconnecting keeps the session.
	again, _, err := feed.Connect(ctx, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, athlete.ID, again.ID)

	synced, err := feed.Sync(ctx, "user-1")
	assert.NoError(t, err)
	assert.NotNil(t, synced)
	assert.Equal(t, "Ride", synced.Type)
	assert.Greater(t, synced.Distance, float64(0))

	all, err := feed.Activities(ctx, "user-1")
	assert.NoError(t, err)
	assert.Len(t, all, 9)

	assert.NoError(t, feed.Disconnect(ctx, "user-1"))
	connected, err = feed.Connected(ctx, "user-1")
	assert.NoError(t, err)
	assert.False(t, connected)
}

func TestFeedSyncIDsIncrease(t *testing.T) {
	feed := NewSeededFeed(7, func() time.Time { return time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC) })
	ctx := context.Background()

	_, _, err := feed.Connect(ctx, "user-1")
	assert.NoError(t, err)

	first, err := feed.Sync(ctx, "user-1")
	assert.NoError(t, err)
	second, err := feed.Sync(ctx, "user-1")
	assert.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestFeedSyncWithoutConnection(t *testing.T) {
	feed := NewFeed()
	activity, err := feed.Sync(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, activity)
}
