package bot

import (
	"context"
	"fmt"
	"strings"

	"warden/application"
	"warden/bot/common"
	"warden/bot/features/lockdown"
	"warden/bot/features/modules"
	"warden/bot/features/rolemenus"
	"warden/bot/features/settings"
	"warden/domain/interfaces"
	"warden/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token string
}

// Bot manages the Discord bot and all feature modules
type Bot struct {
	// Core components
	config     Config
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	platform   interfaces.PlatformAdapter
	scheduler  *application.LockScheduler

	// Event publishing
	eventPublisher interfaces.EventPublisher

	// Feature modules
	modules   *modules.Feature
	roleMenus *rolemenus.Feature
	lockdown  *lockdown.Feature
	settings  *settings.Feature

	// Worker cleanup functions
	stopLockScheduler func()
}

// New creates a new bot instance with all features
func New(config Config, uowFactory application.UnitOfWorkFactory, eventPublisher interfaces.EventPublisher) (*Bot, error) {
	// Create Discord session
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildMessages

	// Create shared components
	platform := NewPlatformAdapter(dg)
	scheduler := application.NewLockScheduler(uowFactory, platform)

	// Create bot instance
	bot := &Bot{
		config:         config,
		session:        dg,
		uowFactory:     uowFactory,
		platform:       platform,
		scheduler:      scheduler,
		eventPublisher: eventPublisher,
	}

	// Create feature modules
	bot.modules = modules.NewFeature(dg, uowFactory)
	bot.roleMenus = rolemenus.NewFeature(dg, uowFactory, platform)
	bot.lockdown = lockdown.NewFeature(dg, uowFactory, scheduler)
	bot.settings = settings.NewFeature(dg, uowFactory)

	// Register handlers
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)
	dg.AddHandler(bot.handleGuildCreate)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Start the lock scheduler: reconciles persisted locks from before the
	// restart and arms auto-unlock timers
	bot.stopLockScheduler = scheduler.Start(context.Background())
	log.Info("Lock scheduler started")

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	if b.stopLockScheduler != nil {
		b.stopLockScheduler()
	}
	log.Info("Background workers stopped")

	return b.session.Close()
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// GetConfig returns the bot configuration
func (b *Bot) GetConfig() Config {
	return b.config
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.RecordInteraction(observability.InteractionTypeCommand)
	}

	switch i.ApplicationCommandData().Name {
	case "modules":
		b.modules.HandleCommand(s, i)
	case "rolemenu":
		b.roleMenus.HandleCommand(s, i)
	case "lockdown":
		b.lockdown.HandleCommand(s, i)
	case "settings":
		b.settings.HandleCommand(s, i)
	}
}

// handleInteractions routes component interactions to appropriate features
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.RecordInteraction(observability.InteractionTypeComponent)
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, rolemenus.SelectCustomID):
		b.roleMenus.HandleInteraction(s, i)
	}
}

// handleGuildCreate handles when the bot joins a new guild
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	ctx := context.Background()

	guildID, err := common.ParseSnowflake(g.ID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", g.ID, err)
		return
	}

	// Create guild-scoped unit of work
	uow := b.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		return
	}
	defer uow.Rollback()

	// Warm the config row so module resolution never races first use
	cfg, err := uow.GuildConfigRepository().GetOrCreateGuildConfig(ctx, guildID)
	if err != nil {
		log.Errorf("Failed to track new guild %s (%s): %v", g.Name, g.ID, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Failed to commit transaction: %v", err)
		return
	}

	log.Infof("Bot joined guild: %s (ID: %d, Prefix: %s)", g.Name, cfg.GuildID, cfg.CommandPrefix)
}
