package lockdown

import (
	"context"

	"warden/application"
	"warden/bot/common"
	"warden/domain/entities"
	"warden/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles channel lockdown management. Lock and unlock go through the
// scheduler so the in-memory auto-unlock timers stay in step with the store.
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	scheduler  *application.LockScheduler
}

// NewFeature creates a new lockdown feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, scheduler *application.LockScheduler) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		scheduler:  scheduler,
	}
}

// HandleCommand routes lockdown commands to appropriate handlers
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
		common.RespondWithError(s, i, "The lockdown module is disabled in this server")
		return
	}

	switch options[0].Name {
	case "lock":
		f.handleLock(s, i, guildID)
	case "unlock":
		f.handleUnlock(s, i, guildID)
	case "status":
		f.handleStatus(s, i, guildID)
	}
}

// moduleEnabled checks whether the lockdown module is enabled for the guild.
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
	enabled, err := moduleService.IsModuleEnabled(ctx, guildID, entities.ModuleLockdown)
	if err != nil {
		log.Errorf("Failed to resolve lockdown module: %v", err)
		return false
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		return false
	}
	return enabled
}
