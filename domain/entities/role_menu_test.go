package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleMenu_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		menu        RoleMenu
		errContains string
	}{
		{
			name: "valid menu",
			menu: RoleMenu{
				Title:         "Pick your roles",
				Roles:         []RoleOption{{RoleID: 1, Label: "Gamer"}},
				MaxSelections: 1,
			},
		},
		{
			name: "zero max selections means unlimited",
			menu: RoleMenu{
				Title: "Pick your roles",
				Roles: []RoleOption{{RoleID: 1, Label: "Gamer"}, {RoleID: 2, Label: "Artist"}},
			},
		},
		{
			name:        "empty role set",
			menu:        RoleMenu{Title: "Pick your roles"},
			errContains: "at least one role",
		},
		{
			name: "max selections above role count",
			menu: RoleMenu{
				Title:         "Pick your roles",
				Roles:         []RoleOption{{RoleID: 1, Label: "Gamer"}},
				MaxSelections: 2,
			},
			errContains: "max selections",
		},
		{
			name: "negative max selections",
			menu: RoleMenu{
				Title:         "Pick your roles",
				Roles:         []RoleOption{{RoleID: 1, Label: "Gamer"}},
				MaxSelections: -1,
			},
			errContains: "max selections",
		},
		{
			name: "empty title",
			menu: RoleMenu{
				Roles: []RoleOption{{RoleID: 1, Label: "Gamer"}},
			},
			errContains: "title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.menu.Validate()
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, IsValidationError(err))
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestRoleMenu_SelectionLimit(t *testing.T) {
	t.Parallel()

	menu := RoleMenu{
		Roles: []RoleOption{{RoleID: 1}, {RoleID: 2}, {RoleID: 3}},
	}
	assert.Equal(t, 3, menu.SelectionLimit())

	menu.MaxSelections = 2
	assert.Equal(t, 2, menu.SelectionLimit())
}

func TestRoleMenu_HasRole(t *testing.T) {
	t.Parallel()

	menu := RoleMenu{
		Roles: []RoleOption{{RoleID: 1, Label: "Gamer"}, {RoleID: 2, Label: "Artist"}},
	}
	assert.True(t, menu.HasRole(1))
	assert.False(t, menu.HasRole(3))
	assert.Equal(t, []int64{1, 2}, menu.RoleIDs())
}
