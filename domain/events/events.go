package events

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeModuleToggled   EventType = "module_toggled"
	EventTypeRoleMenuCreated EventType = "role_menu_created"
	EventTypeRoleMenuDeleted EventType = "role_menu_deleted"
	EventTypeRolesSelected   EventType = "roles_selected"
	EventTypeChannelLocked   EventType = "channel_locked"
	EventTypeChannelUnlocked EventType = "channel_unlocked"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// ModuleToggledEvent represents a module being enabled or disabled for a guild
type ModuleToggledEvent struct {
	GuildID int64
	Module  string
	Enabled bool
}

func (e ModuleToggledEvent) Type() EventType {
	return EventTypeModuleToggled
}

// RoleMenuCreatedEvent represents a new role menu being posted
type RoleMenuCreatedEvent struct {
	GuildID   int64
	MessageID int64
	ChannelID int64
	RoleCount int
	CreatedBy int64
}

func (e RoleMenuCreatedEvent) Type() EventType {
	return EventTypeRoleMenuCreated
}

// RoleMenuDeletedEvent represents a role menu being removed
type RoleMenuDeletedEvent struct {
	GuildID   int64
	MessageID int64
	ChannelID int64
}

func (e RoleMenuDeletedEvent) Type() EventType {
	return EventTypeRoleMenuDeleted
}

// RolesSelectedEvent represents the outcome of one menu selection
type RolesSelectedEvent struct {
	GuildID   int64
	MessageID int64
	UserID    int64
	Added     []int64
	Removed   []int64
	Failed    int
}

func (e RolesSelectedEvent) Type() EventType {
	return EventTypeRolesSelected
}

// ChannelLockedEvent represents a channel lock being applied
type ChannelLockedEvent struct {
	GuildID    int64
	ChannelID  int64
	LockedBy   int64
	Reason     string
	DurationMs int64
}

func (e ChannelLockedEvent) Type() EventType {
	return EventTypeChannelLocked
}

// ChannelUnlockedEvent represents a channel lock being cleared
type ChannelUnlockedEvent struct {
	GuildID   int64
	ChannelID int64
	Reason    string
}

func (e ChannelUnlockedEvent) Type() EventType {
	return EventTypeChannelUnlocked
}
