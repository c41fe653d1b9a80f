package services

import (
	"context"
	"fmt"

	"warden/domain/entities"
	"warden/domain/events"
	"warden/domain/interfaces"
)

// moduleService implements the ModuleService interface
type moduleService struct {
	configRepo     interfaces.GuildConfigRepository
	eventPublisher interfaces.EventPublisher
}

// NewModuleService creates a new module service
func NewModuleService(configRepo interfaces.GuildConfigRepository, eventPublisher interfaces.EventPublisher) interfaces.ModuleService {
	return &moduleService{
		configRepo:     configRepo,
		eventPublisher: eventPublisher,
	}
}

// IsModuleEnabled resolves enablement for a module key: the guild's explicit
// flag wins, then the compiled-in default, then false.
func (s *moduleService) IsModuleEnabled(ctx context.Context, guildID int64, key entities.ModuleKey) (bool, error) {
	cfg, err := s.configRepo.GetOrCreateGuildConfig(ctx, guildID)
	if err != nil {
		return false, fmt.Errorf("failed to get guild config: %w", err)
	}
	return cfg.ModuleEnabled(key), nil
}

// SetModule toggles a module for a guild. The repository writes the canonical
// flag and the legacy mirror in one statement, so the two representations never
// disagree for any observer after the call returns.
func (s *moduleService) SetModule(ctx context.Context, guildID int64, key entities.ModuleKey, enabled bool) (*entities.GuildConfig, error) {
	if !entities.KnownModule(key) {
		return nil, fmt.Errorf("%w: %s", entities.ErrUnknownModule, key)
	}

	// Lazily create the config row so first-time toggles work
	if _, err := s.configRepo.GetOrCreateGuildConfig(ctx, guildID); err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}

	if err := s.configRepo.SetModule(ctx, guildID, key, enabled); err != nil {
		return nil, fmt.Errorf("failed to set module %s: %w", key, err)
	}

	cfg, err := s.configRepo.GetOrCreateGuildConfig(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload guild config: %w", err)
	}

	// Event delivery is best effort; the config write already stands
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(events.ModuleToggledEvent{
			GuildID: guildID,
			Module:  string(key),
			Enabled: enabled,
		})
	}

	return cfg, nil
}
