package entities

import (
	"time"

	"github.com/google/uuid"
)

// ChannelLock records a channel that has been locked with a timed automatic
// unlock. Every persisted lock is timed, so UnlockAt is always set to LockedAt
// plus the duration. Indefinite locks (no duration) are applied directly to
// the platform and persist no record. At most one lock exists per channel per
// guild.
type ChannelLock struct {
	ID        uuid.UUID     `db:"id"`
	GuildID   int64         `db:"guild_id"`
	ChannelID int64         `db:"channel_id"`
	LockedBy  int64         `db:"locked_by"`
	Reason    string        `db:"reason"`
	LockedAt  time.Time     `db:"locked_at"`
	Duration  time.Duration `db:"duration_ms"`
	UnlockAt  time.Time     `db:"unlock_at"`
}

// NewChannelLock builds a lock record for a timed lock. duration must be
// positive.
func NewChannelLock(guildID, channelID, lockedBy int64, reason string, duration time.Duration, now time.Time) *ChannelLock {
	return &ChannelLock{
		ID:        uuid.New(),
		GuildID:   guildID,
		ChannelID: channelID,
		LockedBy:  lockedBy,
		Reason:    reason,
		LockedAt:  now,
		Duration:  duration,
		UnlockAt:  now.Add(duration),
	}
}

// Expired reports whether the scheduled unlock time has passed.
func (l *ChannelLock) Expired(now time.Time) bool {
	return !now.Before(l.UnlockAt)
}

// Remaining returns the time left until the scheduled unlock, clamped at zero.
func (l *ChannelLock) Remaining(now time.Time) time.Duration {
	remaining := l.UnlockAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
