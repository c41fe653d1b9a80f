package interfaces

import (
	"context"

	"warden/domain/entities"
	"warden/domain/events"
)

// GuildConfigRepository defines the interface for guild configuration data access
type GuildConfigRepository interface {
	// GetOrCreateGuildConfig retrieves the guild config or creates a default row if not found
	GetOrCreateGuildConfig(ctx context.Context, guildID int64) (*entities.GuildConfig, error)

	// SetModule writes module_flags[key] and, when key has a legacy mirror, the
	// mirror column, in a single statement so both views always agree
	SetModule(ctx context.Context, guildID int64, key entities.ModuleKey, enabled bool) error

	// UpdateCommandPrefix updates the command prefix for a guild
	UpdateCommandPrefix(ctx context.Context, guildID int64, prefix string) error

	// UpdateLogChannel updates the log channel (nil disables)
	UpdateLogChannel(ctx context.Context, guildID int64, channelID *int64) error

	// UpdateMuteRole updates the mute role (nil disables)
	UpdateMuteRole(ctx context.Context, guildID int64, roleID *int64) error
}

// RoleMenuRepository defines the interface for role menu data access
type RoleMenuRepository interface {
	// Create persists a new role menu
	Create(ctx context.Context, menu *entities.RoleMenu) error

	// GetByMessageID retrieves a menu by its Discord message ID
	GetByMessageID(ctx context.Context, messageID int64) (*entities.RoleMenu, error)

	// List returns all menus for the repository's guild
	List(ctx context.Context) ([]*entities.RoleMenu, error)

	// UpdateDetails updates title, description, max selections and the role set
	// as a targeted column update
	UpdateDetails(ctx context.Context, menu *entities.RoleMenu) error

	// UpdateActive flips the active flag
	UpdateActive(ctx context.Context, messageID int64, active bool) error

	// Delete removes a menu record
	Delete(ctx context.Context, messageID int64) error
}

// ChannelLockRepository defines the interface for channel lock data access
type ChannelLockRepository interface {
	// Create persists a new channel lock
	Create(ctx context.Context, lock *entities.ChannelLock) error

	// GetByChannel retrieves the lock for a channel, if any
	GetByChannel(ctx context.Context, channelID int64) (*entities.ChannelLock, error)

	// List returns all locks for the repository's guild
	List(ctx context.Context) ([]*entities.ChannelLock, error)

	// ListAllGuilds returns every persisted lock across guilds, used by the
	// startup reconciler
	ListAllGuilds(ctx context.Context) ([]*entities.ChannelLock, error)

	// Delete removes a lock record; deleting a missing record is not an error
	Delete(ctx context.Context, channelID int64) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events during a unit of work. Flush
// publishes the buffer after a successful commit; Discard drops it on rollback.
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}
