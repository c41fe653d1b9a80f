package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"warden/domain/entities"
	"warden/domain/interfaces"
	"warden/domain/services"
	"warden/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// sweepInterval backs up the in-memory timers: a sweep pass releases any lock
// whose timer was lost (missed arm, clock weirdness) once it is past due.
const sweepInterval = time.Minute

type timerKey struct {
	guildID   int64
	channelID int64
}

// LockScheduler is the long-lived owner of channel lock timers. Lock and
// Unlock run the store/platform mutation inside a unit of work and keep the
// timer table in step; Start reconciles persisted locks after a restart and
// runs the periodic sweep.
type LockScheduler struct {
	uowFactory UnitOfWorkFactory
	platform   interfaces.PlatformAdapter

	mu     sync.Mutex
	timers map[timerKey]*time.Timer
}

// NewLockScheduler creates a new lock scheduler
func NewLockScheduler(uowFactory UnitOfWorkFactory, platform interfaces.PlatformAdapter) *LockScheduler {
	return &LockScheduler{
		uowFactory: uowFactory,
		platform:   platform,
		timers:     make(map[timerKey]*time.Timer),
	}
}

// Lock applies a channel lock and, for timed locks, arms the auto-unlock timer
func (s *LockScheduler) Lock(ctx context.Context, guildID, channelID, lockedBy int64, reason string, duration time.Duration) (*entities.ChannelLock, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	lockdownService := services.NewLockdownService(uow.ChannelLockRepository(), s.platform, uow.EventBus())
	lock, err := lockdownService.Lock(ctx, guildID, channelID, lockedBy, reason, duration)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if lock != nil {
		s.armTimer(guildID, channelID, duration)
		if metrics := observability.GetMetrics(); metrics != nil {
			metrics.UpdateActiveLocks(1)
		}
	}

	return lock, nil
}

// Unlock releases a channel lock and cancels any armed timer. Safe to call
// whether the lock was timed, indefinite, or already released.
func (s *LockScheduler) Unlock(ctx context.Context, guildID, channelID int64, reason string) error {
	s.cancelTimer(guildID, channelID)

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	lockdownService := services.NewLockdownService(uow.ChannelLockRepository(), s.platform, uow.EventBus())
	released, err := lockdownService.Unlock(ctx, guildID, channelID, reason)
	if err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	// The gauge only tracks persisted (timed) locks
	if released {
		if metrics := observability.GetMetrics(); metrics != nil {
			metrics.UpdateActiveLocks(-1)
		}
	}

	return nil
}

// GetLock returns the persisted lock for a channel, if any
func (s *LockScheduler) GetLock(ctx context.Context, guildID, channelID int64) (*entities.ChannelLock, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	lockdownService := services.NewLockdownService(uow.ChannelLockRepository(), s.platform, uow.EventBus())
	return lockdownService.GetLock(ctx, channelID)
}

// armTimer schedules an auto-unlock. A second timer for the same channel
// replaces the first; at most one timer is ever outstanding per channel.
func (s *LockScheduler) armTimer(guildID, channelID int64, duration time.Duration) {
	key := timerKey{guildID: guildID, channelID: channelID}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[key]; ok {
		existing.Stop()
	}
	s.timers[key] = time.AfterFunc(duration, func() {
		s.fireUnlock(guildID, channelID)
	})
}

// cancelTimer stops and forgets the timer for a channel, if one is armed
func (s *LockScheduler) cancelTimer(guildID, channelID int64) {
	key := timerKey{guildID: guildID, channelID: channelID}

	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[key]; ok {
		timer.Stop()
		delete(s.timers, key)
	}
}

// fireUnlock runs when a timer elapses
func (s *LockScheduler) fireUnlock(guildID, channelID int64) {
	s.cancelTimer(guildID, channelID)

	ctx := context.Background()
	if err := s.Unlock(ctx, guildID, channelID, "lock duration expired"); err != nil {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"channel_id": channelID,
		}).Errorf("Scheduled unlock failed: %v", err)
		return
	}

	log.WithFields(log.Fields{
		"guild_id":   guildID,
		"channel_id": channelID,
	}).Info("Channel automatically unlocked")
}

// Start reconciles persisted locks against the current time and begins the
// periodic sweep. In-memory timers do not survive a restart: past-due locks
// are released immediately and future ones re-armed with their remaining
// duration. Returns a cleanup function that stops the worker and all timers.
func (s *LockScheduler) Start(ctx context.Context) func() {
	ticker := time.NewTicker(sweepInterval)
	stopChan := make(chan struct{})

	go func() {
		log.Info("Lock scheduler started")

		// Run immediately on startup
		s.reconcile(ctx)

		for {
			select {
			case <-ctx.Done():
				log.Info("Lock scheduler shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Lock scheduler shutting down (stop requested)...")
				return
			case <-ticker.C:
				s.reconcile(ctx)
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
		s.stopAllTimers()
	}
}

// reconcile walks every persisted lock: expired ones are unlocked now, future
// ones get a timer if none is armed.
func (s *LockScheduler) reconcile(ctx context.Context) {
	uow := s.uowFactory.CreateForGuild(0)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction for lock reconciliation: %v", err)
		return
	}

	locks, err := uow.ChannelLockRepository().ListAllGuilds(ctx)
	uow.Rollback()
	if err != nil {
		log.Errorf("Failed to list channel locks: %v", err)
		return
	}

	now := time.Now().UTC()
	for _, lock := range locks {
		if lock.Expired(now) {
			if err := s.Unlock(ctx, lock.GuildID, lock.ChannelID, "lock duration expired"); err != nil {
				log.WithFields(log.Fields{
					"guild_id":   lock.GuildID,
					"channel_id": lock.ChannelID,
				}).Errorf("Failed to release expired lock: %v", err)
			}
			continue
		}
		s.armTimerIfAbsent(lock.GuildID, lock.ChannelID, lock.Remaining(now))
	}
}

// armTimerIfAbsent arms a timer only when the channel has none, so the sweep
// never resets a countdown that is already running.
func (s *LockScheduler) armTimerIfAbsent(guildID, channelID int64, duration time.Duration) {
	key := timerKey{guildID: guildID, channelID: channelID}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.timers[key]; ok {
		return
	}
	s.timers[key] = time.AfterFunc(duration, func() {
		s.fireUnlock(guildID, channelID)
	})
}

func (s *LockScheduler) stopAllTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, timer := range s.timers {
		timer.Stop()
		delete(s.timers, key)
	}
}
