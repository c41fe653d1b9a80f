package entities

import (
	"fmt"
	"time"
)

// RoleOption is one selectable role inside a menu.
type RoleOption struct {
	RoleID int64  `json:"role_id"`
	Label  string `json:"label"`
	Emoji  string `json:"emoji,omitempty"`
}

// RoleMenu is a persisted self-assign role menu backed by a live Discord
// message carrying a multi-select component. MessageID is unique per guild.
type RoleMenu struct {
	ID            int64        `db:"id"`
	GuildID       int64        `db:"guild_id"`
	MessageID     int64        `db:"message_id"`
	ChannelID     int64        `db:"channel_id"`
	Title         string       `db:"title"`
	Description   string       `db:"description"`
	Roles         []RoleOption `db:"roles"`
	MaxSelections int          `db:"max_selections"`
	Active        bool         `db:"active"`
	CreatedBy     int64        `db:"created_by"`
	CreatedAt     time.Time    `db:"created_at"`
}

// Validate checks the menu invariants: a non-empty role set and a selection
// limit of zero (unlimited) or between 1 and the number of roles.
func (m *RoleMenu) Validate() error {
	if len(m.Roles) == 0 {
		return NewValidationError("role menu must contain at least one role")
	}
	if m.MaxSelections < 0 || m.MaxSelections > len(m.Roles) {
		return NewValidationError(fmt.Sprintf("max selections must be between 0 and %d", len(m.Roles)))
	}
	if m.Title == "" {
		return NewValidationError("role menu title cannot be empty")
	}
	return nil
}

// RoleIDs returns the ids of every role offered by the menu.
func (m *RoleMenu) RoleIDs() []int64 {
	ids := make([]int64, 0, len(m.Roles))
	for _, r := range m.Roles {
		ids = append(ids, r.RoleID)
	}
	return ids
}

// HasRole reports whether roleID is offered by the menu.
func (m *RoleMenu) HasRole(roleID int64) bool {
	for _, r := range m.Roles {
		if r.RoleID == roleID {
			return true
		}
	}
	return false
}

// SelectionLimit returns the effective component max: MaxSelections, or the
// full role count when unlimited.
func (m *RoleMenu) SelectionLimit() int {
	if m.MaxSelections == 0 {
		return len(m.Roles)
	}
	return m.MaxSelections
}

// RoleMenuPatch describes an edit to an existing menu. Nil fields are left
// unchanged. AddRole appends one role; RemoveRoleIDs removes by id;
// EmojiUpdate changes one role's display emoji.
type RoleMenuPatch struct {
	Title         *string
	Description   *string
	MaxSelections *int
	AddRole       *RoleOption
	RemoveRoleIDs []int64
	EmojiUpdate   *RoleEmojiUpdate
}

// RoleEmojiUpdate sets the display emoji for one role in a menu.
type RoleEmojiUpdate struct {
	RoleID int64
	Emoji  string
}
