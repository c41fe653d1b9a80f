package application

import (
	"context"
	"testing"
	"time"

	"warden/domain/entities"
	"warden/domain/events"
	"warden/domain/interfaces"
	"warden/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	schedGuildID   = int64(100)
	schedChannelID = int64(200)
	schedUserID    = int64(300)
)

// stubUnitOfWork satisfies UnitOfWork without a database; every transaction
// sees the same underlying mocks.
type stubUnitOfWork struct {
	locks     *testhelpers.MockChannelLockRepository
	publisher *testhelpers.MockEventPublisher
}

func (u *stubUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *stubUnitOfWork) Commit() error                   { return nil }
func (u *stubUnitOfWork) Rollback() error                 { return nil }
func (u *stubUnitOfWork) GuildConfigRepository() interfaces.GuildConfigRepository {
	return nil
}
func (u *stubUnitOfWork) RoleMenuRepository() interfaces.RoleMenuRepository {
	return nil
}
func (u *stubUnitOfWork) ChannelLockRepository() interfaces.ChannelLockRepository {
	return u.locks
}
func (u *stubUnitOfWork) EventBus() interfaces.EventPublisher {
	return u.publisher
}

type stubUnitOfWorkFactory struct {
	uow *stubUnitOfWork
}

func (f *stubUnitOfWorkFactory) CreateForGuild(guildID int64) UnitOfWork {
	return f.uow
}

func newSchedulerFixture() (*LockScheduler, *testhelpers.MockChannelLockRepository, *testhelpers.MockPlatformAdapter, *testhelpers.MockEventPublisher) {
	locks := new(testhelpers.MockChannelLockRepository)
	publisher := new(testhelpers.MockEventPublisher)
	platform := new(testhelpers.MockPlatformAdapter)

	factory := &stubUnitOfWorkFactory{uow: &stubUnitOfWork{locks: locks, publisher: publisher}}
	return NewLockScheduler(factory, platform), locks, platform, publisher
}

func timedLock(duration time.Duration) *entities.ChannelLock {
	return entities.NewChannelLock(schedGuildID, schedChannelID, schedUserID, "raid", duration, time.Now().UTC())
}

func TestLockScheduler_TimedLockFiresAutoUnlock(t *testing.T) {
	t.Parallel()

	scheduler, locks, platform, publisher := newSchedulerFixture()
	ctx := context.Background()

	record := timedLock(20 * time.Millisecond)

	// Lock path: no existing lock, overwrite applied, record persisted
	locks.On("GetByChannel", mock.Anything, schedChannelID).Return(nil, entities.ErrLockNotFound).Once()
	platform.On("SetChannelDenyOverride", mock.Anything, schedChannelID, schedGuildID, interfaces.PermissionSendMessages).Return(nil)
	locks.On("Create", mock.Anything, mock.AnythingOfType("*entities.ChannelLock")).Return(nil)
	publisher.On("Publish", mock.AnythingOfType("events.ChannelLockedEvent")).Return(nil)

	// Auto-unlock path once the timer elapses
	unlocked := make(chan struct{})
	locks.On("GetByChannel", mock.Anything, schedChannelID).Return(record, nil)
	platform.On("ClearChannelOverride", mock.Anything, schedChannelID, schedGuildID).Return(nil)
	locks.On("Delete", mock.Anything, schedChannelID).Return(nil)
	publisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		event, ok := e.(events.ChannelUnlockedEvent)
		return ok && event.Reason == "lock duration expired"
	})).Run(func(mock.Arguments) { close(unlocked) }).Return(nil)

	lock, err := scheduler.Lock(ctx, schedGuildID, schedChannelID, schedUserID, "raid", 20*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, lock)

	select {
	case <-unlocked:
	case <-time.After(2 * time.Second):
		t.Fatal("timed lock never fired its auto-unlock")
	}

	locks.AssertExpectations(t)
	platform.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestLockScheduler_ManualUnlockCancelsTimer(t *testing.T) {
	t.Parallel()

	scheduler, locks, platform, publisher := newSchedulerFixture()
	ctx := context.Background()

	record := timedLock(50 * time.Millisecond)

	locks.On("GetByChannel", mock.Anything, schedChannelID).Return(nil, entities.ErrLockNotFound).Once()
	platform.On("SetChannelDenyOverride", mock.Anything, schedChannelID, schedGuildID, interfaces.PermissionSendMessages).Return(nil)
	locks.On("Create", mock.Anything, mock.AnythingOfType("*entities.ChannelLock")).Return(nil)
	publisher.On("Publish", mock.AnythingOfType("events.ChannelLockedEvent")).Return(nil)

	locks.On("GetByChannel", mock.Anything, schedChannelID).Return(record, nil)
	platform.On("ClearChannelOverride", mock.Anything, schedChannelID, schedGuildID).Return(nil)
	locks.On("Delete", mock.Anything, schedChannelID).Return(nil)
	publisher.On("Publish", mock.AnythingOfType("events.ChannelUnlockedEvent")).Return(nil)

	_, err := scheduler.Lock(ctx, schedGuildID, schedChannelID, schedUserID, "raid", 50*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, scheduler.Unlock(ctx, schedGuildID, schedChannelID, "all clear"))

	scheduler.mu.Lock()
	assert.Empty(t, scheduler.timers, "manual unlock should cancel the armed timer")
	scheduler.mu.Unlock()

	// The cancelled timer must not fire a second unlock
	time.Sleep(150 * time.Millisecond)
	publisher.AssertNumberOfCalls(t, "Publish", 2)

	// One query from the lock's existing-check, one from the unlock's record
	// check; the gauge reuses the latter instead of probing again
	locks.AssertNumberOfCalls(t, "GetByChannel", 2)
}

func TestLockScheduler_ReconcileReleasesExpiredAndArmsFuture(t *testing.T) {
	t.Parallel()

	scheduler, locks, platform, publisher := newSchedulerFixture()
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Minute)
	expired := &entities.ChannelLock{GuildID: schedGuildID, ChannelID: 10, UnlockAt: past}

	futureAt := time.Now().UTC().Add(time.Hour)
	future := &entities.ChannelLock{GuildID: schedGuildID, ChannelID: 20, UnlockAt: futureAt}

	locks.On("ListAllGuilds", mock.Anything).Return([]*entities.ChannelLock{expired, future}, nil)

	// Expired lock is released immediately
	locks.On("GetByChannel", mock.Anything, int64(10)).Return(expired, nil)
	platform.On("ClearChannelOverride", mock.Anything, int64(10), schedGuildID).Return(nil)
	locks.On("Delete", mock.Anything, int64(10)).Return(nil)
	publisher.On("Publish", mock.AnythingOfType("events.ChannelUnlockedEvent")).Return(nil)

	scheduler.reconcile(ctx)
	defer scheduler.stopAllTimers()

	scheduler.mu.Lock()
	_, expiredArmed := scheduler.timers[timerKey{guildID: schedGuildID, channelID: 10}]
	_, futureArmed := scheduler.timers[timerKey{guildID: schedGuildID, channelID: 20}]
	scheduler.mu.Unlock()

	assert.False(t, expiredArmed, "expired lock should be released, not re-armed")
	assert.True(t, futureArmed, "future lock should get a timer")

	locks.AssertExpectations(t)
	platform.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestLockScheduler_SweepNeverResetsRunningTimer(t *testing.T) {
	t.Parallel()

	scheduler, locks, _, _ := newSchedulerFixture()
	ctx := context.Background()

	futureAt := time.Now().UTC().Add(time.Hour)
	future := &entities.ChannelLock{GuildID: schedGuildID, ChannelID: schedChannelID, UnlockAt: futureAt}
	locks.On("ListAllGuilds", mock.Anything).Return([]*entities.ChannelLock{future}, nil)

	scheduler.armTimer(schedGuildID, schedChannelID, time.Hour)
	defer scheduler.stopAllTimers()

	key := timerKey{guildID: schedGuildID, channelID: schedChannelID}
	scheduler.mu.Lock()
	before := scheduler.timers[key]
	scheduler.mu.Unlock()

	scheduler.reconcile(ctx)

	scheduler.mu.Lock()
	after := scheduler.timers[key]
	scheduler.mu.Unlock()

	assert.Same(t, before, after, "sweep must not replace an already armed timer")
}
