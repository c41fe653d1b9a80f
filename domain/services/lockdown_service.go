package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warden/domain/entities"
	"warden/domain/events"
	"warden/domain/interfaces"
)

// lockdownService implements the LockdownService interface. Timer management
// lives in the application-layer scheduler; this service owns the store and
// platform mutations for a single lock or unlock.
type lockdownService struct {
	lockRepo       interfaces.ChannelLockRepository
	platform       interfaces.PlatformAdapter
	eventPublisher interfaces.EventPublisher
}

// NewLockdownService creates a new lockdown service
func NewLockdownService(lockRepo interfaces.ChannelLockRepository, platform interfaces.PlatformAdapter, eventPublisher interfaces.EventPublisher) interfaces.LockdownService {
	return &lockdownService{
		lockRepo:       lockRepo,
		platform:       platform,
		eventPublisher: eventPublisher,
	}
}

// Lock denies send-messages for the guild's default role on the channel. The
// overwrite is applied first: if the platform refuses, nothing is persisted.
// A positive duration persists a lock record carrying the scheduled unlock
// time; a zero duration is an indefinite lock with no record and no timer.
func (s *lockdownService) Lock(ctx context.Context, guildID, channelID, lockedBy int64, reason string, duration time.Duration) (*entities.ChannelLock, error) {
	if duration < 0 {
		return nil, entities.NewValidationError("lock duration cannot be negative")
	}

	if existing, err := s.lockRepo.GetByChannel(ctx, channelID); err == nil && existing != nil {
		return nil, entities.NewValidationError(fmt.Sprintf("channel %d is already locked", channelID))
	} else if err != nil && !errors.Is(err, entities.ErrLockNotFound) {
		return nil, fmt.Errorf("failed to check existing lock: %w", err)
	}

	// The @everyone role shares the guild's ID
	if err := s.platform.SetChannelDenyOverride(ctx, channelID, guildID, interfaces.PermissionSendMessages); err != nil {
		if errors.Is(err, entities.ErrForbidden) {
			return nil, entities.NewPermissionError("missing permission to manage the channel", err)
		}
		return nil, fmt.Errorf("failed to set channel override: %w", err)
	}

	var lock *entities.ChannelLock
	if duration > 0 {
		lock = entities.NewChannelLock(guildID, channelID, lockedBy, reason, duration, time.Now().UTC())
		if err := s.lockRepo.Create(ctx, lock); err != nil {
			return nil, fmt.Errorf("failed to persist channel lock: %w", err)
		}
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(events.ChannelLockedEvent{
			GuildID:    guildID,
			ChannelID:  channelID,
			LockedBy:   lockedBy,
			Reason:     reason,
			DurationMs: duration.Milliseconds(),
		})
	}

	return lock, nil
}

// Unlock restores the channel and removes any persisted lock, reporting
// whether a record existed. Idempotent: clearing an absent overwrite and
// deleting a missing record are both no-ops, so unlocking an unlocked channel
// succeeds quietly. Only a release with a record publishes an event.
func (s *lockdownService) Unlock(ctx context.Context, guildID, channelID int64, reason string) (bool, error) {
	if err := s.platform.ClearChannelOverride(ctx, channelID, guildID); err != nil {
		return false, fmt.Errorf("failed to clear channel override: %w", err)
	}

	hadRecord := true
	if _, err := s.lockRepo.GetByChannel(ctx, channelID); err != nil {
		if !errors.Is(err, entities.ErrLockNotFound) {
			return false, fmt.Errorf("failed to look up channel lock: %w", err)
		}
		hadRecord = false
	}

	if err := s.lockRepo.Delete(ctx, channelID); err != nil {
		return false, fmt.Errorf("failed to delete channel lock: %w", err)
	}

	if s.eventPublisher != nil && hadRecord {
		_ = s.eventPublisher.Publish(events.ChannelUnlockedEvent{
			GuildID:   guildID,
			ChannelID: channelID,
			Reason:    reason,
		})
	}

	return hadRecord, nil
}

// GetLock returns the persisted lock for a channel
func (s *lockdownService) GetLock(ctx context.Context, channelID int64) (*entities.ChannelLock, error) {
	return s.lockRepo.GetByChannel(ctx, channelID)
}
