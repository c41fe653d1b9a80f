package rolemenus

import (
	"context"

	"warden/application"
	"warden/bot/common"
	"warden/domain/entities"
	"warden/domain/interfaces"
	"warden/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles role menu management and selection interactions
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	platform   interfaces.PlatformAdapter
}

// NewFeature creates a new role menus feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, platform interfaces.PlatformAdapter) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		platform:   platform,
	}
}

// HandleCommand routes role menu commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	if !f.moduleEnabled(guildID) {
		common.RespondWithError(s, i, "The rolemenus module is disabled in this server")
		return
	}

	switch options[0].Name {
	case "create":
		f.handleCreate(s, i, guildID)
	case "list":
		f.handleList(s, i, guildID)
	case "edit":
		f.handleEdit(s, i, guildID)
	case "add-role":
		f.handleAddRole(s, i, guildID)
	case "remove-role":
		f.handleRemoveRole(s, i, guildID)
	case "emoji":
		f.handleEmoji(s, i, guildID)
	case "pause":
		f.handleSetActive(s, i, guildID, false)
	case "resume":
		f.handleSetActive(s, i, guildID, true)
	case "pause-all":
		f.handleSetActiveAll(s, i, guildID, false)
	case "resume-all":
		f.handleSetActiveAll(s, i, guildID, true)
	case "delete":
		f.handleDelete(s, i, guildID)
	}
}

// HandleInteraction handles select component interactions on menu messages
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleSelection(s, i)
}

// moduleEnabled checks whether the rolemenus module is enabled for the guild.
// Resolution failures fail closed.
func (f *Feature) moduleEnabled(guildID int64) bool {
	ctx := context.Background()

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		return false
	}
	defer uow.Rollback()

	moduleService := services.NewModuleService(uow.GuildConfigRepository(), uow.EventBus())
	enabled, err := moduleService.IsModuleEnabled(ctx, guildID, entities.ModuleRoleMenus)
	if err != nil {
		log.Errorf("Failed to resolve rolemenus module: %v", err)
		return false
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		return false
	}
	return enabled
}
