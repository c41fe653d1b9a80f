package services

import (
	"context"
	"errors"
	"fmt"

	"warden/domain/entities"
	"warden/domain/events"
	"warden/domain/interfaces"
)

const (
	menuPlaceholderActive = "Select your roles"
	menuPlaceholderPaused = "This menu is paused"
)

// roleMenuService implements the RoleMenuService interface. The menu
// repository is guild-scoped by the unit of work that produced it.
type roleMenuService struct {
	menuRepo       interfaces.RoleMenuRepository
	platform       interfaces.PlatformAdapter
	eventPublisher interfaces.EventPublisher
}

// NewRoleMenuService creates a new role menu service
func NewRoleMenuService(menuRepo interfaces.RoleMenuRepository, platform interfaces.PlatformAdapter, eventPublisher interfaces.EventPublisher) interfaces.RoleMenuService {
	return &roleMenuService{
		menuRepo:       menuRepo,
		platform:       platform,
		eventPublisher: eventPublisher,
	}
}

// CreateMenu validates the menu and the bot's ability to manage every
// referenced role, posts the menu message, and persists the record with
// active=true. Validate-then-act: a failed precondition leaves no trace.
func (s *roleMenuService) CreateMenu(ctx context.Context, guildID, channelID, createdBy int64, title, description string, roles []entities.RoleOption, maxSelections int) (*entities.RoleMenu, error) {
	menu := &entities.RoleMenu{
		GuildID:       guildID,
		ChannelID:     channelID,
		Title:         title,
		Description:   description,
		Roles:         roles,
		MaxSelections: maxSelections,
		Active:        true,
		CreatedBy:     createdBy,
	}
	if err := menu.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkRolesManageable(ctx, guildID, roles); err != nil {
		return nil, err
	}

	messageID, err := s.platform.SendMenuMessage(ctx, channelID, renderMenu(menu))
	if err != nil {
		return nil, fmt.Errorf("failed to post role menu message: %w", err)
	}
	menu.MessageID = messageID

	if err := s.menuRepo.Create(ctx, menu); err != nil {
		return nil, fmt.Errorf("failed to persist role menu: %w", err)
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(events.RoleMenuCreatedEvent{
			GuildID:   guildID,
			MessageID: messageID,
			ChannelID: channelID,
			RoleCount: len(roles),
			CreatedBy: createdBy,
		})
	}

	return menu, nil
}

// EditMenu applies a patch to the persisted menu and then re-renders the live
// message preserving its active state. The persisted change stands even when
// the re-render fails; the render error is returned with the updated menu so
// the caller can report it.
func (s *roleMenuService) EditMenu(ctx context.Context, messageID int64, patch entities.RoleMenuPatch) (*entities.RoleMenu, error) {
	menu, err := s.menuRepo.GetByMessageID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	applyPatch(menu, patch)

	if err := menu.Validate(); err != nil {
		return nil, err
	}

	if patch.AddRole != nil {
		if err := s.checkRolesManageable(ctx, menu.GuildID, []entities.RoleOption{*patch.AddRole}); err != nil {
			return nil, err
		}
	}

	if err := s.menuRepo.UpdateDetails(ctx, menu); err != nil {
		return nil, fmt.Errorf("failed to update role menu: %w", err)
	}

	if err := s.platform.EditMenuMessage(ctx, menu.ChannelID, menu.MessageID, renderMenu(menu)); err != nil {
		return menu, fmt.Errorf("menu updated but message re-render failed: %w", err)
	}

	return menu, nil
}

// applyPatch computes the new menu contents. Removals are applied before the
// addition so replacing a menu's last role in one edit is possible.
func applyPatch(menu *entities.RoleMenu, patch entities.RoleMenuPatch) {
	if patch.Title != nil {
		menu.Title = *patch.Title
	}
	if patch.Description != nil {
		menu.Description = *patch.Description
	}
	if patch.MaxSelections != nil {
		menu.MaxSelections = *patch.MaxSelections
	}
	if len(patch.RemoveRoleIDs) > 0 {
		remove := make(map[int64]struct{}, len(patch.RemoveRoleIDs))
		for _, id := range patch.RemoveRoleIDs {
			remove[id] = struct{}{}
		}
		var kept []entities.RoleOption
		for _, r := range menu.Roles {
			if _, gone := remove[r.RoleID]; !gone {
				kept = append(kept, r)
			}
		}
		menu.Roles = kept
		// A shrunken role set can invalidate an explicit selection cap
		if menu.MaxSelections > len(menu.Roles) {
			menu.MaxSelections = len(menu.Roles)
		}
	}
	if patch.AddRole != nil && !menu.HasRole(patch.AddRole.RoleID) {
		menu.Roles = append(menu.Roles, *patch.AddRole)
	}
	if patch.EmojiUpdate != nil {
		for i := range menu.Roles {
			if menu.Roles[i].RoleID == patch.EmojiUpdate.RoleID {
				menu.Roles[i].Emoji = patch.EmojiUpdate.Emoji
			}
		}
	}
}

// PauseMenu disables a menu's select component
func (s *roleMenuService) PauseMenu(ctx context.Context, messageID int64) (*entities.RoleMenu, error) {
	return s.setActive(ctx, messageID, false)
}

// ResumeMenu re-enables a paused menu
func (s *roleMenuService) ResumeMenu(ctx context.Context, messageID int64) (*entities.RoleMenu, error) {
	return s.setActive(ctx, messageID, true)
}

func (s *roleMenuService) setActive(ctx context.Context, messageID int64, active bool) (*entities.RoleMenu, error) {
	menu, err := s.menuRepo.GetByMessageID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if menu.Active == active {
		return menu, nil
	}

	if err := s.menuRepo.UpdateActive(ctx, messageID, active); err != nil {
		return nil, fmt.Errorf("failed to update menu state: %w", err)
	}
	menu.Active = active

	if err := s.platform.EditMenuMessage(ctx, menu.ChannelID, menu.MessageID, renderMenu(menu)); err != nil {
		return menu, fmt.Errorf("menu state updated but message re-render failed: %w", err)
	}

	return menu, nil
}

// PauseAll pauses every active menu in the guild
func (s *roleMenuService) PauseAll(ctx context.Context) (*interfaces.BulkUpdateResult, error) {
	return s.setActiveAll(ctx, false)
}

// ResumeAll resumes every paused menu in the guild
func (s *roleMenuService) ResumeAll(ctx context.Context) (*interfaces.BulkUpdateResult, error) {
	return s.setActiveAll(ctx, true)
}

// setActiveAll applies the state flip to every menu currently in the opposite
// state. Per-menu render failures are collected; they never block the
// remaining menus, and the persisted flips all stand.
func (s *roleMenuService) setActiveAll(ctx context.Context, active bool) (*interfaces.BulkUpdateResult, error) {
	menus, err := s.menuRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list role menus: %w", err)
	}

	result := &interfaces.BulkUpdateResult{
		RenderFailures: make(map[int64]error),
	}
	for _, menu := range menus {
		if menu.Active == active {
			continue
		}
		if err := s.menuRepo.UpdateActive(ctx, menu.MessageID, active); err != nil {
			return nil, fmt.Errorf("failed to update menu %d: %w", menu.MessageID, err)
		}
		menu.Active = active
		result.Updated = append(result.Updated, menu.MessageID)

		if err := s.platform.EditMenuMessage(ctx, menu.ChannelID, menu.MessageID, renderMenu(menu)); err != nil {
			result.RenderFailures[menu.MessageID] = err
		}
	}

	return result, nil
}

// DeleteMenu best-effort deletes the live message, then unconditionally
// removes the persisted record. A message already deleted externally is fine.
func (s *roleMenuService) DeleteMenu(ctx context.Context, messageID int64) error {
	menu, err := s.menuRepo.GetByMessageID(ctx, messageID)
	if err != nil {
		return err
	}

	if err := s.platform.DeleteMessage(ctx, menu.ChannelID, menu.MessageID); err != nil && !errors.Is(err, entities.ErrNotFound) {
		return fmt.Errorf("failed to delete menu message: %w", err)
	}

	if err := s.menuRepo.Delete(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete role menu: %w", err)
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(events.RoleMenuDeletedEvent{
			GuildID:   menu.GuildID,
			MessageID: menu.MessageID,
			ChannelID: menu.ChannelID,
		})
	}

	return nil
}

// HandleSelection applies one member's menu selection. The previous grant set
// is the intersection of the member's live roles with the menu's role set,
// computed at selection time rather than from stored grants, so roles granted
// or revoked by other tools are tolerated. Replaying the same selection
// against the resulting state yields an empty diff.
func (s *roleMenuService) HandleSelection(ctx context.Context, messageID, userID int64, selectedRoleIDs []int64) (*interfaces.SelectionResult, error) {
	menu, err := s.menuRepo.GetByMessageID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if !menu.Active {
		return nil, entities.ErrMenuPaused
	}

	memberRoles, err := s.platform.GetMemberRoles(ctx, menu.GuildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member roles: %w", err)
	}

	previous := make(map[int64]struct{})
	for _, roleID := range memberRoles {
		if menu.HasRole(roleID) {
			previous[roleID] = struct{}{}
		}
	}

	selected := make(map[int64]struct{}, len(selectedRoleIDs))
	for _, roleID := range selectedRoleIDs {
		// Ignore ids outside the menu's role set; the component should never
		// deliver them, but a stale message can
		if menu.HasRole(roleID) {
			selected[roleID] = struct{}{}
		}
	}

	var toAdd, toRemove []int64
	for roleID := range selected {
		if _, had := previous[roleID]; !had {
			toAdd = append(toAdd, roleID)
		}
	}
	for roleID := range previous {
		if _, want := selected[roleID]; !want {
			toRemove = append(toRemove, roleID)
		}
	}

	result := &interfaces.SelectionResult{}
	for _, roleID := range toAdd {
		if reason := s.roleUnmanageable(ctx, menu.GuildID, roleID); reason != "" {
			result.Failed = append(result.Failed, entities.RoleFailure{RoleID: roleID, Reason: reason})
			continue
		}
		if err := s.platform.AddMemberRole(ctx, menu.GuildID, userID, roleID); err != nil {
			result.Failed = append(result.Failed, entities.RoleFailure{RoleID: roleID, Reason: err.Error()})
			continue
		}
		result.Added = append(result.Added, roleID)
	}
	for _, roleID := range toRemove {
		if reason := s.roleUnmanageable(ctx, menu.GuildID, roleID); reason != "" {
			result.Failed = append(result.Failed, entities.RoleFailure{RoleID: roleID, Reason: reason})
			continue
		}
		if err := s.platform.RemoveMemberRole(ctx, menu.GuildID, userID, roleID); err != nil {
			result.Failed = append(result.Failed, entities.RoleFailure{RoleID: roleID, Reason: err.Error()})
			continue
		}
		result.Removed = append(result.Removed, roleID)
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(events.RolesSelectedEvent{
			GuildID:   menu.GuildID,
			MessageID: menu.MessageID,
			UserID:    userID,
			Added:     result.Added,
			Removed:   result.Removed,
			Failed:    len(result.Failed),
		})
	}

	return result, nil
}

// roleUnmanageable returns a non-empty reason when the bot cannot assign the
// role: platform-managed roles and roles at or above the bot's highest role.
// An ordinary expected condition, not an exceptional one.
func (s *roleMenuService) roleUnmanageable(ctx context.Context, guildID, roleID int64) string {
	role, err := s.platform.GetRole(ctx, guildID, roleID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return "role no longer exists"
		}
		return fmt.Sprintf("failed to inspect role: %v", err)
	}
	if role.Managed {
		return "role is managed by an integration"
	}
	highest, err := s.platform.HighestRolePosition(ctx, guildID)
	if err != nil {
		return fmt.Sprintf("failed to check role hierarchy: %v", err)
	}
	if role.Position >= highest {
		return "role is above the bot's highest role"
	}
	return ""
}

// checkRolesManageable rejects a menu referencing any role the bot cannot
// manage. Runs before anything is persisted or sent.
func (s *roleMenuService) checkRolesManageable(ctx context.Context, guildID int64, roles []entities.RoleOption) error {
	for _, option := range roles {
		if reason := s.roleUnmanageable(ctx, guildID, option.RoleID); reason != "" {
			return entities.NewPermissionError(fmt.Sprintf("cannot manage role %s: %s", option.Label, reason), nil)
		}
	}
	return nil
}

// renderMenu builds the platform-neutral view for a menu's live message.
func renderMenu(menu *entities.RoleMenu) interfaces.MenuView {
	view := interfaces.MenuView{
		Title:         menu.Title,
		Description:   menu.Description,
		MaxSelections: menu.SelectionLimit(),
		Disabled:      !menu.Active,
		Placeholder:   menuPlaceholderActive,
	}
	if !menu.Active {
		view.Placeholder = menuPlaceholderPaused
	}
	for _, r := range menu.Roles {
		view.Options = append(view.Options, interfaces.MenuViewOption{
			RoleID: r.RoleID,
			Label:  r.Label,
			Emoji:  r.Emoji,
		})
	}
	return view
}
