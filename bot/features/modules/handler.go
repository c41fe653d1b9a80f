package modules

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"warden/bot/common"
	"warden/domain/entities"
	"warden/domain/services"
	"warden/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleList handles the /modules list command
func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
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
		common.RespondWithError(s, i, "Failed to list modules")
		return
	}
	defer uow.Rollback()

	moduleService := services.NewModuleService(uow.GuildConfigRepository(), uow.EventBus())

	keys := entities.AllModuleKeys()
	sort.Slice(keys, func(a, b int) bool { return keys[a] < keys[b] })

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		enabled, err := moduleService.IsModuleEnabled(ctx, guildID, key)
		if err != nil {
			log.Errorf("Failed to resolve module %s: %v", key, err)
			common.RespondWithError(s, i, "Failed to list modules")
			return
		}
		state := "disabled"
		if enabled {
			state = "enabled"
		}
		lines = append(lines, fmt.Sprintf("**%s** - %s", key, state))
	}

	// Listing may lazily create the config row
	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, "Failed to list modules")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Modules",
		Color:       common.ColorInfo,
		Description: strings.Join(lines, "\n"),
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

// handleToggle handles the /modules enable and /modules disable commands
func (f *Feature) handleToggle(s *discordgo.Session, i *discordgo.InteractionCreate, enabled bool) {
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
		common.RespondWithError(s, i, "Module name is required")
		return
	}
	key := entities.ModuleKey(options[0].StringValue())

	ctx := context.Background()

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, "Failed to update module")
		return
	}
	defer uow.Rollback()

	moduleService := services.NewModuleService(uow.GuildConfigRepository(), uow.EventBus())

	if _, err := moduleService.SetModule(ctx, guildID, key, enabled); err != nil {
		log.WithFields(log.Fields{
			"guild_id": guildID,
			"module":   key,
		}).Errorf("Failed to set module: %v", err)
		common.RespondWithError(s, i, common.UserErrorMessage(err, "Failed to update module"))
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, "Failed to update module")
		return
	}

	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.RecordModuleToggle(string(key))
	}

	verb := "disabled"
	if enabled {
		verb = "enabled"
	}
	common.RespondEphemeral(s, i, fmt.Sprintf("✅ Module **%s** %s", key, verb))
}
