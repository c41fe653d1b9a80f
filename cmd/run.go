package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"warden/bot"
	"warden/config"
	"warden/database"
	"warden/domain/interfaces"
	"warden/infrastructure"
	"warden/infrastructure/observability"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting warden bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize metrics before anything that records them
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Apply pending migrations
	log.Println("Running database migrations...")
	if err := database.MigrateUp(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize the event publisher; without NATS configured, events are dropped
	var eventPublisher interfaces.EventPublisher
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		log.Printf("Connecting to NATS at %s...", cfg.NATSServers)
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		natsPublisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
		if err := natsPublisher.EnsureDomainEventStream(); err != nil {
			return fmt.Errorf("failed to ensure domain event stream: %w", err)
		}
		eventPublisher = natsPublisher
		log.Println("NATS connection established successfully")
	} else {
		log.Println("NATS not configured, domain events will not be published")
		eventPublisher = infrastructure.NewNoopEventPublisher()
	}

	// Initialize unit of work factory
	uowFactory := infrastructure.NewUnitOfWorkFactoryWrapper(db, eventPublisher)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{Token: cfg.DiscordToken}, uowFactory, eventPublisher)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	// Close Discord bot connection (stops the lock scheduler)
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Close NATS connection
	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.Printf("Error shutting down metrics: %v", err)
	}

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
