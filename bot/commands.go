package bot

import (
	"fmt"
	"sort"

	"warden/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	adminOnly := int64(discordgo.PermissionAdministrator)

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "modules",
			Description: "View and toggle feature modules",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "Show every module and whether it is enabled",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "enable",
					Description: "Enable a module (admin only)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "module",
							Description: "Module to enable",
							Required:    true,
							Choices:     moduleChoices(),
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "disable",
					Description: "Disable a module (admin only)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "module",
							Description: "Module to disable",
							Required:    true,
							Choices:     moduleChoices(),
						},
					},
				},
			},
		},
		{
			Name:        "rolemenu",
			Description: "Create and manage self-assign role menus",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Post a new role menu (admin only)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Channel to post the menu in",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "title",
							Description: "Menu title",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "First selectable role",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "description",
							Description: "Menu description",
							Required:    false,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "max-selections",
							Description: "Maximum roles a member may hold from this menu (0 = unlimited)",
							Required:    false,
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role2",
							Description: "Additional selectable role",
							Required:    false,
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role3",
							Description: "Additional selectable role",
							Required:    false,
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role4",
							Description: "Additional selectable role",
							Required:    false,
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role5",
							Description: "Additional selectable role",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List the role menus in this server",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "edit",
					Description: "Edit a menu's title, description or selection limit (admin only)",
					Options: []*discordgo.ApplicationCommandOption{
						messageIDOption(),
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "title",
							Description: "New title",
							Required:    false,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "description",
							Description: "New description",
							Required:    false,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "max-selections",
							Description: "New selection limit (0 = unlimited)",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add-role",
					Description: "Add a role to a menu (admin only)",
					Options: []*discordgo.ApplicationCommandOption{
						messageIDOption(),
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to add",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "emoji",
							Description: "Emoji shown next to the role",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove-role",
					Description: "Remove a role from a menu (admin only)",
					Options: []*discordgo.ApplicationCommandOption{
						messageIDOption(),
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to remove",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "emoji",
					Description: "Set or clear a role's emoji on a menu (admin only)",
					Options: []*discordgo.ApplicationCommandOption{
						messageIDOption(),
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to change",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "emoji",
							Description: "New emoji (leave empty to clear)",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "pause",
					Description: "Pause a menu so selections are rejected (admin only)",
					Options:     []*discordgo.ApplicationCommandOption{messageIDOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "resume",
					Description: "Resume a paused menu (admin only)",
					Options:     []*discordgo.ApplicationCommandOption{messageIDOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "pause-all",
					Description: "Pause every active menu in this server (admin only)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "resume-all",
					Description: "Resume every paused menu in this server (admin only)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a menu and its message (admin only)",
					Options:     []*discordgo.ApplicationCommandOption{messageIDOption()},
				},
			},
		},
		{
			Name:                     "lockdown",
			Description:              "Lock and unlock channels",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "lock",
					Description: "Lock a channel, optionally for a limited time",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Channel to lock (defaults to this one)",
							Required:    false,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "minutes",
							Description: "Minutes until automatic unlock (0 = until unlocked manually)",
							Required:    false,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "reason",
							Description: "Reason for the lock",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "unlock",
					Description: "Unlock a channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Channel to unlock (defaults to this one)",
							Required:    false,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "reason",
							Description: "Reason for the unlock",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show the lock status of a channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Channel to check (defaults to this one)",
							Required:    false,
						},
					},
				},
			},
		},
		{
			Name:        "settings",
			Description: "Configure guild settings (admin only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "prefix",
					Description: "Set the legacy command prefix",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "prefix",
							Description: "New command prefix",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "log-channel",
					Description: "Set the channel for moderation log messages",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "The log channel (leave empty to disable)",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "mute-role",
					Description: "Set the role applied to muted members",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "The mute role (leave empty to disable)",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the current guild settings",
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

// messageIDOption is the shared message-id option used by every per-menu
// subcommand. Message IDs exceed the integer range Discord accepts for
// integer options, so they travel as strings.
func messageIDOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "message-id",
		Description: "Message ID of the menu",
		Required:    true,
	}
}

// moduleChoices builds the module choice list from the compiled-in module table
func moduleChoices() []*discordgo.ApplicationCommandOptionChoice {
	keys := entities.AllModuleKeys()
	sort.Slice(keys, func(a, b int) bool { return keys[a] < keys[b] })

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(keys))
	for _, key := range keys {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(key),
			Value: string(key),
		})
	}
	return choices
}
