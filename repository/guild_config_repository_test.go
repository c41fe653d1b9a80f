package repository

import (
	"context"
	"testing"

	"warden/domain/entities"
	"warden/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildConfigRepository_GetOrCreate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	testGuildID := int64(1018733499869577296)

	repo := NewGuildConfigRepository(testDB.DB)

	// First call materialises the default row
	cfg, err := repo.GetOrCreateGuildConfig(ctx, testGuildID)
	require.NoError(t, err)
	assert.Equal(t, testGuildID, cfg.GuildID)
	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Empty(t, cfg.ModuleFlags)
	assert.Nil(t, cfg.LogChannelID)

	// Legacy columns start at the compiled-in defaults
	assert.True(t, cfg.LegacyFlags.Moderation)
	assert.False(t, cfg.LegacyFlags.Economy)

	// Second call returns the same row, not a fresh one
	again, err := repo.GetOrCreateGuildConfig(ctx, testGuildID)
	require.NoError(t, err)
	assert.Equal(t, cfg.CreatedAt, again.CreatedAt)
}

func TestGuildConfigRepository_SetModule_WritesBothViews(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	testGuildID := int64(1018733499869577296)

	repo := NewGuildConfigRepository(testDB.DB)
	_, err := repo.GetOrCreateGuildConfig(ctx, testGuildID)
	require.NoError(t, err)

	err = repo.SetModule(ctx, testGuildID, entities.ModuleEconomy, true)
	require.NoError(t, err)

	cfg, err := repo.GetOrCreateGuildConfig(ctx, testGuildID)
	require.NoError(t, err)

	// The canonical flag and its legacy mirror agree after the write
	enabled, ok := cfg.ModuleFlags[entities.ModuleEconomy]
	assert.True(t, ok, "explicit flag should be recorded")
	assert.True(t, enabled)
	assert.True(t, cfg.LegacyFlags.Economy)

	// Flip it back off and check both views again
	err = repo.SetModule(ctx, testGuildID, entities.ModuleEconomy, false)
	require.NoError(t, err)

	cfg, err = repo.GetOrCreateGuildConfig(ctx, testGuildID)
	require.NoError(t, err)
	assert.False(t, cfg.ModuleFlags[entities.ModuleEconomy])
	assert.False(t, cfg.LegacyFlags.Economy)
}

func TestGuildConfigRepository_SetModule_NoLegacyMirror(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	testGuildID := int64(1018733499869577296)

	repo := NewGuildConfigRepository(testDB.DB)
	_, err := repo.GetOrCreateGuildConfig(ctx, testGuildID)
	require.NoError(t, err)

	// rolemenus has no legacy column; only the flag map changes
	err = repo.SetModule(ctx, testGuildID, entities.ModuleRoleMenus, false)
	require.NoError(t, err)

	cfg, err := repo.GetOrCreateGuildConfig(ctx, testGuildID)
	require.NoError(t, err)
	assert.False(t, cfg.ModuleEnabled(entities.ModuleRoleMenus))
	_, hasMirror := cfg.LegacyFlags.Get(entities.ModuleRoleMenus)
	assert.False(t, hasMirror)
}

func TestGuildConfigRepository_SetModule_MissingGuild(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewGuildConfigRepository(testDB.DB)
	err := repo.SetModule(ctx, 42, entities.ModuleFun, true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGuildConfigRepository_UpdateSettings(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	testGuildID := int64(1018733499869577296)

	repo := NewGuildConfigRepository(testDB.DB)
	_, err := repo.GetOrCreateGuildConfig(ctx, testGuildID)
	require.NoError(t, err)

	err = repo.UpdateCommandPrefix(ctx, testGuildID, "?")
	require.NoError(t, err)

	logChannelID := int64(555666777)
	err = repo.UpdateLogChannel(ctx, testGuildID, &logChannelID)
	require.NoError(t, err)

	muteRoleID := int64(888999000)
	err = repo.UpdateMuteRole(ctx, testGuildID, &muteRoleID)
	require.NoError(t, err)

	cfg, err := repo.GetOrCreateGuildConfig(ctx, testGuildID)
	require.NoError(t, err)
	assert.Equal(t, "?", cfg.CommandPrefix)
	require.NotNil(t, cfg.LogChannelID)
	assert.Equal(t, logChannelID, *cfg.LogChannelID)
	require.NotNil(t, cfg.MuteRoleID)
	assert.Equal(t, muteRoleID, *cfg.MuteRoleID)

	// Clearing the log channel writes NULL
	err = repo.UpdateLogChannel(ctx, testGuildID, nil)
	require.NoError(t, err)

	cfg, err = repo.GetOrCreateGuildConfig(ctx, testGuildID)
	require.NoError(t, err)
	assert.Nil(t, cfg.LogChannelID)
}
