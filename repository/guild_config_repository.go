package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"warden/database"
	"warden/domain/entities"

	"github.com/jackc/pgx/v5"
)

// legacyColumns maps module keys to their deprecated boolean columns. Keys
// absent here have no mirror and live only in module_flags.
var legacyColumns = map[entities.ModuleKey]string{
	entities.ModuleAdministration: "administration_enabled",
	entities.ModuleModeration:     "moderation_enabled",
	entities.ModuleFun:            "fun_enabled",
	entities.ModuleVerification:   "verification_enabled",
	entities.ModuleWelcoming:      "welcoming_enabled",
	entities.ModuleEconomy:        "economy_enabled",
}

// GuildConfigRepository implements the GuildConfigRepository interface
type GuildConfigRepository struct {
	q Queryable
}

// NewGuildConfigRepository creates a new guild config repository
func NewGuildConfigRepository(db *database.DB) *GuildConfigRepository {
	return &GuildConfigRepository{q: db.Pool}
}

// NewGuildConfigRepositoryWithTx creates a new guild config repository with a transaction
func NewGuildConfigRepositoryWithTx(tx Queryable) *GuildConfigRepository {
	return &GuildConfigRepository{q: tx}
}

const guildConfigColumns = `
	guild_id, command_prefix, log_channel_id, mute_role_id, module_flags,
	administration_enabled, moderation_enabled, fun_enabled,
	verification_enabled, welcoming_enabled, economy_enabled,
	created_at, updated_at
`

func scanGuildConfig(row pgx.Row) (*entities.GuildConfig, error) {
	var cfg entities.GuildConfig
	var flagsJSON []byte
	err := row.Scan(
		&cfg.GuildID,
		&cfg.CommandPrefix,
		&cfg.LogChannelID,
		&cfg.MuteRoleID,
		&flagsJSON,
		&cfg.LegacyFlags.Administration,
		&cfg.LegacyFlags.Moderation,
		&cfg.LegacyFlags.Fun,
		&cfg.LegacyFlags.Verification,
		&cfg.LegacyFlags.Welcoming,
		&cfg.LegacyFlags.Economy,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	cfg.ModuleFlags = make(map[entities.ModuleKey]bool)
	if len(flagsJSON) > 0 {
		if err := json.Unmarshal(flagsJSON, &cfg.ModuleFlags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal module flags for guild %d: %w", cfg.GuildID, err)
		}
	}

	return &cfg, nil
}

// GetOrCreateGuildConfig retrieves the guild config or creates a default row if not found
func (r *GuildConfigRepository) GetOrCreateGuildConfig(ctx context.Context, guildID int64) (*entities.GuildConfig, error) {
	query := `
		SELECT ` + guildConfigColumns + `
		FROM guild_configs
		WHERE guild_id = $1
	`

	cfg, err := scanGuildConfig(r.q.QueryRow(ctx, query, guildID))
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get guild config for guild %d: %w", guildID, err)
	}

	// Not found: materialise the defaults. The legacy columns start mirroring
	// the compiled-in defaults while module_flags stays empty.
	defaults := entities.NewGuildConfig(guildID)
	insertQuery := `
		INSERT INTO guild_configs
		(guild_id, command_prefix, module_flags,
		 administration_enabled, moderation_enabled, fun_enabled,
		 verification_enabled, welcoming_enabled, economy_enabled)
		VALUES ($1, $2, '{}'::jsonb, $3, $4, $5, $6, $7, $8)
		RETURNING ` + guildConfigColumns + `
	`

	cfg, err = scanGuildConfig(r.q.QueryRow(ctx, insertQuery,
		guildID,
		defaults.CommandPrefix,
		defaults.LegacyFlags.Administration,
		defaults.LegacyFlags.Moderation,
		defaults.LegacyFlags.Fun,
		defaults.LegacyFlags.Verification,
		defaults.LegacyFlags.Welcoming,
		defaults.LegacyFlags.Economy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create guild config for guild %d: %w", guildID, err)
	}

	return cfg, nil
}

// SetModule writes the canonical flag and its legacy mirror in one statement,
// so no reader can ever observe the two views disagreeing.
func (r *GuildConfigRepository) SetModule(ctx context.Context, guildID int64, key entities.ModuleKey, enabled bool) error {
	flagJSON, err := json.Marshal(enabled)
	if err != nil {
		return fmt.Errorf("failed to marshal module flag: %w", err)
	}

	var query string
	if column, ok := legacyColumns[key]; ok {
		// column comes from the compiled-in mirror table, never from input
		query = fmt.Sprintf(`
			UPDATE guild_configs
			SET module_flags = jsonb_set(module_flags, $2::text[], $3::jsonb),
			    %s = $4,
			    updated_at = NOW()
			WHERE guild_id = $1
		`, column)
	} else {
		query = `
			UPDATE guild_configs
			SET module_flags = jsonb_set(module_flags, $2::text[], $3::jsonb),
			    updated_at = NOW()
			WHERE guild_id = $1
		`
	}

	args := []any{guildID, []string{string(key)}, flagJSON}
	if _, ok := legacyColumns[key]; ok {
		args = append(args, enabled)
	}

	result, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set module %s for guild %d: %w", key, guildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("guild config for guild %d not found", guildID)
	}

	return nil
}

// UpdateCommandPrefix updates the command prefix for a guild
func (r *GuildConfigRepository) UpdateCommandPrefix(ctx context.Context, guildID int64, prefix string) error {
	query := `
		UPDATE guild_configs
		SET command_prefix = $2, updated_at = NOW()
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query, guildID, prefix)
	if err != nil {
		return fmt.Errorf("failed to update command prefix for guild %d: %w", guildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("guild config for guild %d not found", guildID)
	}

	return nil
}

// UpdateLogChannel updates the log channel (nil disables)
func (r *GuildConfigRepository) UpdateLogChannel(ctx context.Context, guildID int64, channelID *int64) error {
	query := `
		UPDATE guild_configs
		SET log_channel_id = $2, updated_at = NOW()
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query, guildID, channelID)
	if err != nil {
		return fmt.Errorf("failed to update log channel for guild %d: %w", guildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("guild config for guild %d not found", guildID)
	}

	return nil
}

// UpdateMuteRole updates the mute role (nil disables)
func (r *GuildConfigRepository) UpdateMuteRole(ctx context.Context, guildID int64, roleID *int64) error {
	query := `
		UPDATE guild_configs
		SET mute_role_id = $2, updated_at = NOW()
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query, guildID, roleID)
	if err != nil {
		return fmt.Errorf("failed to update mute role for guild %d: %w", guildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("guild config for guild %d not found", guildID)
	}

	return nil
}
