package rolemenus

import (
	"fmt"
	"strings"

	"warden/bot/common"
	"warden/domain/entities"
	"warden/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// CreateMenuEmbed creates the embed shown above a menu's select component
func CreateMenuEmbed(view interfaces.MenuView) *discordgo.MessageEmbed {
	color := common.ColorPrimary
	if view.Disabled {
		color = common.ColorWarning
	}

	lines := make([]string, 0, len(view.Options))
	for _, option := range view.Options {
		if option.Emoji != "" {
			lines = append(lines, fmt.Sprintf("%s <@&%d>", option.Emoji, option.RoleID))
		} else {
			lines = append(lines, fmt.Sprintf("<@&%d>", option.RoleID))
		}
	}

	footer := "Pick as many roles as you like"
	if view.MaxSelections < len(view.Options) {
		footer = fmt.Sprintf("Pick up to %d role(s)", view.MaxSelections)
	}
	if view.Disabled {
		footer = "This menu is paused"
	}

	embed := &discordgo.MessageEmbed{
		Title:       view.Title,
		Description: view.Description,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Roles",
				Value:  strings.Join(lines, "\n"),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footer},
	}

	return embed
}

// CreateSelectionResultEmbed creates the ephemeral embed confirming what one
// selection actually changed
func CreateSelectionResultEmbed(result *interfaces.SelectionResult) *discordgo.MessageEmbed {
	color := common.ColorSuccess
	if len(result.Failed) > 0 {
		color = common.ColorWarning
	}

	embed := &discordgo.MessageEmbed{
		Title: "Roles updated",
		Color: color,
	}

	if len(result.Added) == 0 && len(result.Removed) == 0 && len(result.Failed) == 0 {
		embed.Description = "Nothing to change - your roles already match your selection"
		return embed
	}

	if len(result.Added) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Added",
			Value:  roleMentionList(result.Added),
			Inline: false,
		})
	}
	if len(result.Removed) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Removed",
			Value:  roleMentionList(result.Removed),
			Inline: false,
		})
	}
	if len(result.Failed) > 0 {
		lines := make([]string, 0, len(result.Failed))
		for _, failure := range result.Failed {
			lines = append(lines, fmt.Sprintf("<@&%d>: %s", failure.RoleID, failure.Reason))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Could not apply",
			Value:  strings.Join(lines, "\n"),
			Inline: false,
		})
	}

	return embed
}

// CreateMenuListEmbed creates the embed for the menu list command
func CreateMenuListEmbed(menus []*entities.RoleMenu) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Role Menus",
		Color: common.ColorInfo,
	}

	if len(menus) == 0 {
		embed.Description = "No role menus in this server"
		return embed
	}

	lines := make([]string, 0, len(menus))
	for _, menu := range menus {
		state := "active"
		if !menu.Active {
			state = "paused"
		}
		lines = append(lines, fmt.Sprintf("`%d` **%s** - %d role(s), %s, in <#%d>",
			menu.MessageID, menu.Title, len(menu.Roles), state, menu.ChannelID))
	}
	embed.Description = strings.Join(lines, "\n")

	return embed
}

func roleMentionList(roleIDs []int64) string {
	mentions := make([]string, 0, len(roleIDs))
	for _, id := range roleIDs {
		mentions = append(mentions, fmt.Sprintf("<@&%d>", id))
	}
	return strings.Join(mentions, ", ")
}
