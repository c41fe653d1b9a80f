package repository

import (
	"context"
	"testing"
	"time"

	"warden/domain/entities"
	"warden/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelLockRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	testGuildID := int64(1018733499869577296)

	repo := NewChannelLockRepository(testDB.DB, testGuildID)

	now := time.Now().UTC().Truncate(time.Millisecond)
	lock := entities.NewChannelLock(testGuildID, 222333444, 555666777, "raid cleanup", 30*time.Minute, now)
	require.NoError(t, repo.Create(ctx, lock))

	saved, err := repo.GetByChannel(ctx, lock.ChannelID)
	require.NoError(t, err)
	assert.Equal(t, lock.ID, saved.ID)
	assert.Equal(t, "raid cleanup", saved.Reason)
	assert.Equal(t, 30*time.Minute, saved.Duration)
	assert.WithinDuration(t, lock.UnlockAt, saved.UnlockAt, time.Millisecond)
}

func TestChannelLockRepository_GetByChannel_NotFound(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewChannelLockRepository(testDB.DB, 100)
	_, err := repo.GetByChannel(ctx, 42)
	assert.ErrorIs(t, err, entities.ErrLockNotFound)
}

func TestChannelLockRepository_OneLockPerChannel(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	testGuildID := int64(1018733499869577296)

	repo := NewChannelLockRepository(testDB.DB, testGuildID)

	now := time.Now().UTC()
	first := entities.NewChannelLock(testGuildID, 222333444, 555666777, "", time.Hour, now)
	require.NoError(t, repo.Create(ctx, first))

	// The unique constraint rejects a second lock on the same channel
	second := entities.NewChannelLock(testGuildID, 222333444, 555666777, "", time.Hour, now)
	assert.Error(t, repo.Create(ctx, second))
}

func TestChannelLockRepository_ListAllGuilds(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	now := time.Now().UTC()
	repoA := NewChannelLockRepository(testDB.DB, 100)
	repoB := NewChannelLockRepository(testDB.DB, 200)
	require.NoError(t, repoA.Create(ctx, entities.NewChannelLock(100, 1, 9, "", time.Hour, now)))
	require.NoError(t, repoB.Create(ctx, entities.NewChannelLock(200, 2, 9, "", 2*time.Hour, now)))

	// Guild-scoped list sees only its own lock
	locks, err := repoA.List(ctx)
	require.NoError(t, err)
	require.Len(t, locks, 1)
	assert.Equal(t, int64(100), locks[0].GuildID)

	// The reconciler's view crosses guild boundaries
	all, err := repoA.ListAllGuilds(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestChannelLockRepository_DeleteIsIdempotent(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	testGuildID := int64(1018733499869577296)

	repo := NewChannelLockRepository(testDB.DB, testGuildID)

	now := time.Now().UTC()
	lock := entities.NewChannelLock(testGuildID, 222333444, 555666777, "", time.Hour, now)
	require.NoError(t, repo.Create(ctx, lock))

	require.NoError(t, repo.Delete(ctx, lock.ChannelID))
	_, err := repo.GetByChannel(ctx, lock.ChannelID)
	assert.ErrorIs(t, err, entities.ErrLockNotFound)

	// Deleting a missing record is a no-op
	assert.NoError(t, repo.Delete(ctx, lock.ChannelID))
}
