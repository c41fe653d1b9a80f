package repository

import (
	"context"
	"testing"

	"warden/domain/entities"
	"warden/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleMenuRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	testGuildID := int64(1018733499869577296)

	repo := NewRoleMenuRepository(testDB.DB, testGuildID)

	menu := &entities.RoleMenu{
		MessageID: 1394399185394077766,
		ChannelID: 222333444,
		Title:     "Pick your roles",
		Roles: []entities.RoleOption{
			{RoleID: 1001, Label: "Gamer", Emoji: "🎮"},
			{RoleID: 1002, Label: "Artist"},
		},
		MaxSelections: 1,
		Active:        true,
		CreatedBy:     555666777,
	}

	err := repo.Create(ctx, menu)
	require.NoError(t, err)
	assert.NotEqual(t, int64(0), menu.ID)
	assert.Equal(t, testGuildID, menu.GuildID)
	assert.False(t, menu.CreatedAt.IsZero())

	saved, err := repo.GetByMessageID(ctx, menu.MessageID)
	require.NoError(t, err)
	assert.Equal(t, menu.Title, saved.Title)
	assert.Equal(t, menu.Roles, saved.Roles)
	assert.Equal(t, 1, saved.MaxSelections)
	assert.True(t, saved.Active)
}

func TestRoleMenuRepository_GetByMessageID_NotFound(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewRoleMenuRepository(testDB.DB, 100)
	_, err := repo.GetByMessageID(ctx, 42)
	assert.ErrorIs(t, err, entities.ErrMenuNotFound)
}

func TestRoleMenuRepository_GuildScoping(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repoA := NewRoleMenuRepository(testDB.DB, 100)
	repoB := NewRoleMenuRepository(testDB.DB, 200)

	menu := &entities.RoleMenu{
		MessageID: 300,
		ChannelID: 400,
		Title:     "Guild A menu",
		Roles:     []entities.RoleOption{{RoleID: 1001, Label: "Gamer"}},
		Active:    true,
		CreatedBy: 500,
	}
	require.NoError(t, repoA.Create(ctx, menu))

	// Another guild's repository cannot see or touch the menu
	_, err := repoB.GetByMessageID(ctx, menu.MessageID)
	assert.ErrorIs(t, err, entities.ErrMenuNotFound)
	assert.ErrorIs(t, repoB.Delete(ctx, menu.MessageID), entities.ErrMenuNotFound)

	menus, err := repoB.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, menus)

	menus, err = repoA.List(ctx)
	require.NoError(t, err)
	assert.Len(t, menus, 1)
}

func TestRoleMenuRepository_UpdateDetails(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	testGuildID := int64(1018733499869577296)

	repo := NewRoleMenuRepository(testDB.DB, testGuildID)

	menu := &entities.RoleMenu{
		MessageID: 300,
		ChannelID: 400,
		Title:     "Original",
		Roles:     []entities.RoleOption{{RoleID: 1001, Label: "Gamer"}},
		Active:    true,
		CreatedBy: 500,
	}
	require.NoError(t, repo.Create(ctx, menu))

	menu.Title = "Updated"
	menu.Description = "Now with more roles"
	menu.Roles = append(menu.Roles, entities.RoleOption{RoleID: 1002, Label: "Artist", Emoji: "🎨"})
	menu.MaxSelections = 2
	require.NoError(t, repo.UpdateDetails(ctx, menu))

	saved, err := repo.GetByMessageID(ctx, menu.MessageID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", saved.Title)
	assert.Equal(t, "Now with more roles", saved.Description)
	assert.Len(t, saved.Roles, 2)
	assert.Equal(t, 2, saved.MaxSelections)
}

func TestRoleMenuRepository_UpdateActiveAndDelete(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	testGuildID := int64(1018733499869577296)

	repo := NewRoleMenuRepository(testDB.DB, testGuildID)

	menu := &entities.RoleMenu{
		MessageID: 300,
		ChannelID: 400,
		Title:     "Pick your roles",
		Roles:     []entities.RoleOption{{RoleID: 1001, Label: "Gamer"}},
		Active:    true,
		CreatedBy: 500,
	}
	require.NoError(t, repo.Create(ctx, menu))

	require.NoError(t, repo.UpdateActive(ctx, menu.MessageID, false))
	saved, err := repo.GetByMessageID(ctx, menu.MessageID)
	require.NoError(t, err)
	assert.False(t, saved.Active)

	require.NoError(t, repo.Delete(ctx, menu.MessageID))
	_, err = repo.GetByMessageID(ctx, menu.MessageID)
	assert.ErrorIs(t, err, entities.ErrMenuNotFound)

	// Deleting again reports the absence
	assert.ErrorIs(t, repo.Delete(ctx, menu.MessageID), entities.ErrMenuNotFound)
}
