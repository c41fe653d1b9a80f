package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewChannelLock(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lock := NewChannelLock(100, 200, 300, "raid", 10*time.Minute, now)

	assert.NotEqual(t, lock.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, now, lock.LockedAt)
	// Every persisted lock carries its scheduled unlock time
	assert.Equal(t, now.Add(10*time.Minute), lock.UnlockAt)
}

func TestChannelLock_Expired(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lock := NewChannelLock(100, 200, 300, "", 10*time.Minute, now)

	assert.False(t, lock.Expired(now))
	assert.False(t, lock.Expired(now.Add(10*time.Minute-time.Second)))
	// Exactly at the boundary counts as expired
	assert.True(t, lock.Expired(now.Add(10*time.Minute)))
	assert.True(t, lock.Expired(now.Add(time.Hour)))
}

func TestChannelLock_Remaining(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lock := NewChannelLock(100, 200, 300, "", 10*time.Minute, now)

	assert.Equal(t, 10*time.Minute, lock.Remaining(now))
	assert.Equal(t, 4*time.Minute, lock.Remaining(now.Add(6*time.Minute)))
	// Past due clamps at zero rather than going negative
	assert.Equal(t, time.Duration(0), lock.Remaining(now.Add(time.Hour)))
}
