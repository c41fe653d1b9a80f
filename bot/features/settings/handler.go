package settings

import (
	"context"
	"fmt"

	"warden/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handlePrefix handles the /settings prefix command
func (f *Feature) handlePrefix(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	options := i.ApplicationCommandData().Options[0].Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Prefix is required")
		return
	}
	prefix := options[0].StringValue()
	if prefix == "" || len(prefix) > 5 {
		common.RespondWithError(s, i, "Prefix must be between 1 and 5 characters")
		return
	}

	ctx := context.Background()

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}
	defer uow.Rollback()

	if _, err := uow.GuildConfigRepository().GetOrCreateGuildConfig(ctx, guildID); err != nil {
		log.Errorf("Failed to get guild config: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	if err := uow.GuildConfigRepository().UpdateCommandPrefix(ctx, guildID, prefix); err != nil {
		log.Errorf("Failed to update command prefix: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	common.RespondEphemeral(s, i, fmt.Sprintf("✅ Command prefix updated to `%s`", prefix))
}

// handleLogChannel handles the /settings log-channel command
func (f *Feature) handleLogChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	// Get the channel option (if provided)
	options := i.ApplicationCommandData().Options[0].Options
	var channelID *int64

	if len(options) > 0 && options[0].Name == "channel" {
		channelIDStr := options[0].ChannelValue(s).ID
		if channelIDStr != "" {
			channelIDInt, err := common.ParseSnowflake(channelIDStr)
			if err != nil {
				log.Errorf("Failed to parse channel ID: %v", err)
				common.RespondWithError(s, i, "Invalid channel selected")
				return
			}
			channelID = &channelIDInt
		}
	}

	ctx := context.Background()

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}
	defer uow.Rollback()

	if _, err := uow.GuildConfigRepository().GetOrCreateGuildConfig(ctx, guildID); err != nil {
		log.Errorf("Failed to get guild config: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	if err := uow.GuildConfigRepository().UpdateLogChannel(ctx, guildID, channelID); err != nil {
		log.Errorf("Failed to update log channel: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	var message string
	if channelID != nil {
		message = fmt.Sprintf("✅ Log channel updated to <#%d>", *channelID)
	} else {
		message = "✅ Log channel disabled"
	}
	common.RespondEphemeral(s, i, message)
}

// handleMuteRole handles the /settings mute-role command
func (f *Feature) handleMuteRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	// Get the role option (if provided)
	options := i.ApplicationCommandData().Options[0].Options
	var roleID *int64

	if len(options) > 0 && options[0].Name == "role" {
		roleIDStr := options[0].RoleValue(s, "").ID
		if roleIDStr != "" {
			roleIDInt, err := common.ParseSnowflake(roleIDStr)
			if err != nil {
				log.Errorf("Failed to parse role ID: %v", err)
				common.RespondWithError(s, i, "Invalid role selected")
				return
			}
			roleID = &roleIDInt
		}
	}

	ctx := context.Background()

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}
	defer uow.Rollback()

	if _, err := uow.GuildConfigRepository().GetOrCreateGuildConfig(ctx, guildID); err != nil {
		log.Errorf("Failed to get guild config: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	if err := uow.GuildConfigRepository().UpdateMuteRole(ctx, guildID, roleID); err != nil {
		log.Errorf("Failed to update mute role: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	var message string
	if roleID != nil {
		message = fmt.Sprintf("✅ Mute role updated to <@&%d>", *roleID)
	} else {
		message = "✅ Mute role disabled"
	}
	common.RespondEphemeral(s, i, message)
}

// handleShow handles the /settings show command
func (f *Feature) handleShow(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	ctx := context.Background()

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, "Failed to load settings")
		return
	}
	defer uow.Rollback()

	cfg, err := uow.GuildConfigRepository().GetOrCreateGuildConfig(ctx, guildID)
	if err != nil {
		log.Errorf("Failed to get guild config: %v", err)
		common.RespondWithError(s, i, "Failed to load settings")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, "Failed to load settings")
		return
	}

	logChannel := "not set"
	if cfg.HasLogChannel() {
		logChannel = fmt.Sprintf("<#%d>", *cfg.LogChannelID)
	}
	muteRole := "not set"
	if cfg.HasMuteRole() {
		muteRole = fmt.Sprintf("<@&%d>", *cfg.MuteRoleID)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Server Settings",
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Command Prefix", Value: fmt.Sprintf("`%s`", cfg.CommandPrefix), Inline: true},
			{Name: "Log Channel", Value: logChannel, Inline: true},
			{Name: "Mute Role", Value: muteRole, Inline: true},
		},
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}
