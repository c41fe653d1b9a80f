package entities

import "time"

// ModuleKey identifies a toggleable feature module.
type ModuleKey string

const (
	ModuleAdministration ModuleKey = "administration"
	ModuleModeration     ModuleKey = "moderation"
	ModuleFun            ModuleKey = "fun"
	ModuleVerification   ModuleKey = "verification"
	ModuleWelcoming      ModuleKey = "welcoming"
	ModuleEconomy        ModuleKey = "economy"
	ModuleRoleMenus      ModuleKey = "rolemenus"
	ModuleLockdown       ModuleKey = "lockdown"
)

// moduleDefaults is the compiled-in enablement table consulted when a guild has
// no explicit flag for a module.
var moduleDefaults = map[ModuleKey]bool{
	ModuleAdministration: true,
	ModuleModeration:     true,
	ModuleFun:            true,
	ModuleVerification:   false,
	ModuleWelcoming:      false,
	ModuleEconomy:        false,
	ModuleRoleMenus:      true,
	ModuleLockdown:       true,
}

// legacyMirrors enumerates the module keys that still have a deprecated boolean
// column kept in sync for external consumers reading the old shape. Enumerated
// explicitly so an unknown mirror is a compile-time absence, not a runtime
// string lookup.
var legacyMirrors = map[ModuleKey]struct{}{
	ModuleAdministration: {},
	ModuleModeration:     {},
	ModuleFun:            {},
	ModuleVerification:   {},
	ModuleWelcoming:      {},
	ModuleEconomy:        {},
}

// KnownModule reports whether key names a module this build understands.
func KnownModule(key ModuleKey) bool {
	_, ok := moduleDefaults[key]
	return ok
}

// ModuleDefault returns the compiled-in default enablement for key.
func ModuleDefault(key ModuleKey) bool {
	return moduleDefaults[key]
}

// HasLegacyMirror reports whether key has a deprecated boolean column that must
// be written together with the canonical flag.
func HasLegacyMirror(key ModuleKey) bool {
	_, ok := legacyMirrors[key]
	return ok
}

// AllModuleKeys returns every module key this build understands.
func AllModuleKeys() []ModuleKey {
	keys := make([]ModuleKey, 0, len(moduleDefaults))
	for key := range moduleDefaults {
		keys = append(keys, key)
	}
	return keys
}

// LegacyFlags is the deprecated per-feature boolean view of module enablement.
// It exists only for consumers still reading the old columns; the jsonb module
// flag map is canonical.
type LegacyFlags struct {
	Administration bool `db:"administration_enabled"`
	Moderation     bool `db:"moderation_enabled"`
	Fun            bool `db:"fun_enabled"`
	Verification   bool `db:"verification_enabled"`
	Welcoming      bool `db:"welcoming_enabled"`
	Economy        bool `db:"economy_enabled"`
}

// Get returns the legacy flag value for key. The second return is false when
// key has no legacy mirror.
func (f *LegacyFlags) Get(key ModuleKey) (bool, bool) {
	switch key {
	case ModuleAdministration:
		return f.Administration, true
	case ModuleModeration:
		return f.Moderation, true
	case ModuleFun:
		return f.Fun, true
	case ModuleVerification:
		return f.Verification, true
	case ModuleWelcoming:
		return f.Welcoming, true
	case ModuleEconomy:
		return f.Economy, true
	}
	return false, false
}

// Set writes the legacy flag for key, if key has a mirror.
func (f *LegacyFlags) Set(key ModuleKey, enabled bool) {
	switch key {
	case ModuleAdministration:
		f.Administration = enabled
	case ModuleModeration:
		f.Moderation = enabled
	case ModuleFun:
		f.Fun = enabled
	case ModuleVerification:
		f.Verification = enabled
	case ModuleWelcoming:
		f.Welcoming = enabled
	case ModuleEconomy:
		f.Economy = enabled
	}
}

// GuildConfig is the per-guild configuration aggregate. One row per guild,
// created lazily on first write and never deleted by the bot.
type GuildConfig struct {
	GuildID       int64              `db:"guild_id"`
	CommandPrefix string             `db:"command_prefix"`
	LogChannelID  *int64             `db:"log_channel_id"`
	MuteRoleID    *int64             `db:"mute_role_id"`
	ModuleFlags   map[ModuleKey]bool `db:"module_flags"`
	LegacyFlags   LegacyFlags
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// NewGuildConfig returns the default configuration for a guild that has never
// been configured. ModuleFlags starts empty; enablement falls through to the
// compiled-in defaults until a module is explicitly toggled.
func NewGuildConfig(guildID int64) *GuildConfig {
	cfg := &GuildConfig{
		GuildID:       guildID,
		CommandPrefix: "!",
		ModuleFlags:   make(map[ModuleKey]bool),
	}
	for key := range legacyMirrors {
		cfg.LegacyFlags.Set(key, moduleDefaults[key])
	}
	return cfg
}

// ModuleEnabled resolves enablement for key: the explicit flag wins, then the
// compiled-in default, then false.
func (c *GuildConfig) ModuleEnabled(key ModuleKey) bool {
	if enabled, ok := c.ModuleFlags[key]; ok {
		return enabled
	}
	return moduleDefaults[key]
}

// HasLogChannel checks if a log channel is configured
func (c *GuildConfig) HasLogChannel() bool {
	return c.LogChannelID != nil && *c.LogChannelID > 0
}

// HasMuteRole checks if a mute role is configured
func (c *GuildConfig) HasMuteRole() bool {
	return c.MuteRoleID != nil && *c.MuteRoleID > 0
}
