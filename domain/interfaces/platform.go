package interfaces

import "context"

// MenuView is the platform-neutral rendering of a role menu message. The bot
// layer turns it into an embed plus a multi-select component; min selectable is
// always zero so members can clear their choices.
type MenuView struct {
	Title         string
	Description   string
	Options       []MenuViewOption
	MaxSelections int
	Disabled      bool
	Placeholder   string
}

// MenuViewOption is one selectable entry in a MenuView.
type MenuViewOption struct {
	RoleID int64
	Label  string
	Emoji  string
}

// RoleInfo describes a guild role as seen on the platform.
type RoleInfo struct {
	ID       int64
	Name     string
	Position int
	Managed  bool
}

// Permission bits denied or restored on channel overwrites.
const (
	PermissionSendMessages int64 = 1 << 11
)

// PlatformAdapter abstracts the chat platform. Every call is a network round
// trip that can fail or be rate limited; implementations map platform errors
// to entities.ErrNotFound / entities.ErrForbidden where the caller needs to
// distinguish them.
type PlatformAdapter interface {
	// SendMenuMessage posts a menu message and returns its message ID
	SendMenuMessage(ctx context.Context, channelID int64, view MenuView) (int64, error)

	// EditMenuMessage rewrites an existing menu message in place
	EditMenuMessage(ctx context.Context, channelID, messageID int64, view MenuView) error

	// DeleteMessage removes a message; a message already gone is ErrNotFound
	DeleteMessage(ctx context.Context, channelID, messageID int64) error

	// AddMemberRole grants a role to a member
	AddMemberRole(ctx context.Context, guildID, userID, roleID int64) error

	// RemoveMemberRole revokes a role from a member
	RemoveMemberRole(ctx context.Context, guildID, userID, roleID int64) error

	// GetMemberRoles returns the member's current role IDs
	GetMemberRoles(ctx context.Context, guildID, userID int64) ([]int64, error)

	// GetRole returns role metadata, or entities.ErrNotFound
	GetRole(ctx context.Context, guildID, roleID int64) (*RoleInfo, error)

	// HighestRolePosition returns the position of the bot's highest role in the guild
	HighestRolePosition(ctx context.Context, guildID int64) (int, error)

	// SetChannelDenyOverride denies the given permission bits on a channel for
	// a role (the @everyone role for lockdowns)
	SetChannelDenyOverride(ctx context.Context, channelID, roleID int64, deny int64) error

	// ClearChannelOverride removes the bot's permission overwrite for a role on
	// a channel; clearing an absent overwrite is not an error
	ClearChannelOverride(ctx context.Context, channelID, roleID int64) error
}
