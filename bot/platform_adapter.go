package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"warden/bot/features/rolemenus"
	"warden/domain/entities"
	"warden/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// platformAdapter implements interfaces.PlatformAdapter on top of a discordgo
// session. IDs cross the boundary as int64 and are formatted to snowflake
// strings here; Discord REST errors are mapped to the domain sentinels the
// services distinguish.
type platformAdapter struct {
	session *discordgo.Session
}

// NewPlatformAdapter creates a platform adapter backed by the given session
func NewPlatformAdapter(session *discordgo.Session) interfaces.PlatformAdapter {
	return &platformAdapter{session: session}
}

// SendMenuMessage posts a menu message and returns its message ID
func (a *platformAdapter) SendMenuMessage(ctx context.Context, channelID int64, view interfaces.MenuView) (int64, error) {
	msg, err := a.session.ChannelMessageSendComplex(formatID(channelID), &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{rolemenus.CreateMenuEmbed(view)},
		Components: rolemenus.CreateMenuComponents(view),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return 0, mapDiscordError(err)
	}

	messageID, err := strconv.ParseInt(msg.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("discord returned non-numeric message ID %q: %w", msg.ID, err)
	}
	return messageID, nil
}

// EditMenuMessage rewrites an existing menu message in place
func (a *platformAdapter) EditMenuMessage(ctx context.Context, channelID, messageID int64, view interfaces.MenuView) error {
	edit := discordgo.NewMessageEdit(formatID(channelID), formatID(messageID))
	edit.SetEmbeds([]*discordgo.MessageEmbed{rolemenus.CreateMenuEmbed(view)})
	components := rolemenus.CreateMenuComponents(view)
	edit.Components = &components

	_, err := a.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	return mapDiscordError(err)
}

// DeleteMessage removes a message; a message already gone is entities.ErrNotFound
func (a *platformAdapter) DeleteMessage(ctx context.Context, channelID, messageID int64) error {
	err := a.session.ChannelMessageDelete(formatID(channelID), formatID(messageID), discordgo.WithContext(ctx))
	return mapDiscordError(err)
}

// AddMemberRole grants a role to a member
func (a *platformAdapter) AddMemberRole(ctx context.Context, guildID, userID, roleID int64) error {
	err := a.session.GuildMemberRoleAdd(formatID(guildID), formatID(userID), formatID(roleID), discordgo.WithContext(ctx))
	return mapDiscordError(err)
}

// RemoveMemberRole revokes a role from a member
func (a *platformAdapter) RemoveMemberRole(ctx context.Context, guildID, userID, roleID int64) error {
	err := a.session.GuildMemberRoleRemove(formatID(guildID), formatID(userID), formatID(roleID), discordgo.WithContext(ctx))
	return mapDiscordError(err)
}

// GetMemberRoles returns the member's current role IDs
func (a *platformAdapter) GetMemberRoles(ctx context.Context, guildID, userID int64) ([]int64, error) {
	member, err := a.session.GuildMember(formatID(guildID), formatID(userID), discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapDiscordError(err)
	}

	roleIDs := make([]int64, 0, len(member.Roles))
	for _, roleStr := range member.Roles {
		roleID, err := strconv.ParseInt(roleStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("discord returned non-numeric role ID %q: %w", roleStr, err)
		}
		roleIDs = append(roleIDs, roleID)
	}
	return roleIDs, nil
}

// GetRole returns role metadata, or entities.ErrNotFound
func (a *platformAdapter) GetRole(ctx context.Context, guildID, roleID int64) (*interfaces.RoleInfo, error) {
	role, err := a.lookupRole(ctx, formatID(guildID), formatID(roleID))
	if err != nil {
		return nil, err
	}
	return &interfaces.RoleInfo{
		ID:       roleID,
		Name:     role.Name,
		Position: role.Position,
		Managed:  role.Managed,
	}, nil
}

// HighestRolePosition returns the position of the bot's highest role in the guild
func (a *platformAdapter) HighestRolePosition(ctx context.Context, guildID int64) (int, error) {
	guildStr := formatID(guildID)

	member, err := a.session.GuildMember(guildStr, a.session.State.User.ID, discordgo.WithContext(ctx))
	if err != nil {
		return 0, mapDiscordError(err)
	}

	highest := 0
	for _, roleStr := range member.Roles {
		role, err := a.lookupRole(ctx, guildStr, roleStr)
		if err != nil {
			if errors.Is(err, entities.ErrNotFound) {
				continue
			}
			return 0, err
		}
		if role.Position > highest {
			highest = role.Position
		}
	}
	return highest, nil
}

// SetChannelDenyOverride denies the given permission bits on a channel for a role
func (a *platformAdapter) SetChannelDenyOverride(ctx context.Context, channelID, roleID int64, deny int64) error {
	err := a.session.ChannelPermissionSet(
		formatID(channelID),
		formatID(roleID),
		discordgo.PermissionOverwriteTypeRole,
		0,
		deny,
		discordgo.WithContext(ctx),
	)
	return mapDiscordError(err)
}

// ClearChannelOverride removes the permission overwrite for a role on a channel.
// Clearing an absent overwrite is not an error.
func (a *platformAdapter) ClearChannelOverride(ctx context.Context, channelID, roleID int64) error {
	err := a.session.ChannelPermissionDelete(formatID(channelID), formatID(roleID), discordgo.WithContext(ctx))
	if err := mapDiscordError(err); err != nil && !errors.Is(err, entities.ErrNotFound) {
		return err
	}
	return nil
}

// lookupRole resolves a role from the session state cache, falling back to a
// full role fetch when the cache misses
func (a *platformAdapter) lookupRole(ctx context.Context, guildID, roleID string) (*discordgo.Role, error) {
	if role, err := a.session.State.Role(guildID, roleID); err == nil {
		return role, nil
	}

	roles, err := a.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapDiscordError(err)
	}
	for _, role := range roles {
		if role.ID == roleID {
			return role, nil
		}
	}
	return nil, entities.ErrNotFound
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// mapDiscordError translates discordgo REST errors into domain sentinels where
// callers branch on them, leaving everything else wrapped as-is
func mapDiscordError(err error) error {
	if err == nil {
		return nil
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			switch restErr.Message.Code {
			case discordgo.ErrCodeUnknownChannel,
				discordgo.ErrCodeUnknownMessage,
				discordgo.ErrCodeUnknownRole,
				discordgo.ErrCodeUnknownMember,
				discordgo.ErrCodeUnknownUser:
				return fmt.Errorf("%w: %s", entities.ErrNotFound, restErr.Message.Message)
			case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
				return fmt.Errorf("%w: %s", entities.ErrForbidden, restErr.Message.Message)
			}
		}
		if restErr.Response != nil && restErr.Response.StatusCode == 403 {
			return fmt.Errorf("%w: %v", entities.ErrForbidden, err)
		}
		if restErr.Response != nil && restErr.Response.StatusCode == 404 {
			return fmt.Errorf("%w: %v", entities.ErrNotFound, err)
		}
	}
	return err
}
