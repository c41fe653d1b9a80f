package interfaces

import (
	"context"
	"time"

	"warden/domain/entities"
)

// ModuleService defines the interface for module enablement operations
type ModuleService interface {
	// IsModuleEnabled resolves enablement for a module key
	IsModuleEnabled(ctx context.Context, guildID int64, key entities.ModuleKey) (bool, error)

	// SetModule toggles a module, keeping the legacy mirror in sync.
	// Unknown keys return entities.ErrUnknownModule without writing.
	SetModule(ctx context.Context, guildID int64, key entities.ModuleKey, enabled bool) (*entities.GuildConfig, error)
}

// SelectionResult reports what one menu selection actually changed. Added and
// Removed may be strict subsets of the computed diff when individual roles
// could not be applied.
type SelectionResult struct {
	Added   []int64
	Removed []int64
	Failed  []entities.RoleFailure
}

// BulkUpdateResult reports a bulk pause/resume: which menus were updated and
// which live messages could not be re-rendered.
type BulkUpdateResult struct {
	Updated        []int64
	RenderFailures map[int64]error
}

// RoleMenuService defines the interface for role menu lifecycle operations
type RoleMenuService interface {
	// CreateMenu validates, posts the menu message, and persists the record.
	// Nothing is persisted or sent when validation or permission checks fail.
	CreateMenu(ctx context.Context, guildID, channelID, createdBy int64, title, description string, roles []entities.RoleOption, maxSelections int) (*entities.RoleMenu, error)

	// EditMenu applies a patch, persists it, then re-renders the live message.
	// A render failure is returned alongside the (already persisted) menu.
	EditMenu(ctx context.Context, messageID int64, patch entities.RoleMenuPatch) (*entities.RoleMenu, error)

	// PauseMenu and ResumeMenu flip one menu's active state and re-render
	PauseMenu(ctx context.Context, messageID int64) (*entities.RoleMenu, error)
	ResumeMenu(ctx context.Context, messageID int64) (*entities.RoleMenu, error)

	// PauseAll and ResumeAll apply to every menu in the opposite state,
	// collecting per-menu render failures instead of aborting
	PauseAll(ctx context.Context) (*BulkUpdateResult, error)
	ResumeAll(ctx context.Context) (*BulkUpdateResult, error)

	// DeleteMenu best-effort deletes the live message, then removes the record
	DeleteMenu(ctx context.Context, messageID int64) error

	// HandleSelection diffs the member's selection against their live roles
	// restricted to the menu's role set and applies the minimal add/remove set
	HandleSelection(ctx context.Context, messageID, userID int64, selectedRoleIDs []int64) (*SelectionResult, error)
}

// LockdownService defines the interface for channel lock operations
type LockdownService interface {
	// Lock applies a deny-send overwrite and, for a positive duration, persists
	// a lock record with the scheduled unlock time
	Lock(ctx context.Context, guildID, channelID, lockedBy int64, reason string, duration time.Duration) (*entities.ChannelLock, error)

	// Unlock clears the overwrite and removes any lock record, reporting
	// whether a persisted record existed. Idempotent: unlocking an unlocked
	// channel is a no-op success.
	Unlock(ctx context.Context, guildID, channelID int64, reason string) (bool, error)

	// GetLock returns the persisted lock for a channel, or entities.ErrLockNotFound
	GetLock(ctx context.Context, channelID int64) (*entities.ChannelLock, error)
}
