package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGuildConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := NewGuildConfig(123)

	assert.Equal(t, int64(123), cfg.GuildID)
	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Empty(t, cfg.ModuleFlags)
	assert.False(t, cfg.HasLogChannel())
	assert.False(t, cfg.HasMuteRole())

	// The legacy booleans start mirroring the compiled-in defaults
	for key := range legacyMirrors {
		legacy, ok := cfg.LegacyFlags.Get(key)
		assert.True(t, ok, "module %s", key)
		assert.Equal(t, moduleDefaults[key], legacy, "module %s", key)
	}
}

func TestGuildConfig_ModuleEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   ModuleKey
		flags map[ModuleKey]bool
		want  bool
	}{
		{
			name:  "explicit enable wins over default-off",
			key:   ModuleEconomy,
			flags: map[ModuleKey]bool{ModuleEconomy: true},
			want:  true,
		},
		{
			name:  "explicit disable wins over default-on",
			key:   ModuleModeration,
			flags: map[ModuleKey]bool{ModuleModeration: false},
			want:  false,
		},
		{
			name: "unset falls through to default-on",
			key:  ModuleFun,
			want: true,
		},
		{
			name: "unset falls through to default-off",
			key:  ModuleVerification,
			want: false,
		},
		{
			name: "unknown key is disabled",
			key:  ModuleKey("telemetry"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewGuildConfig(123)
			for key, enabled := range tt.flags {
				cfg.ModuleFlags[key] = enabled
			}
			assert.Equal(t, tt.want, cfg.ModuleEnabled(tt.key))
		})
	}
}

func TestLegacyFlags_GetSetRoundTrip(t *testing.T) {
	t.Parallel()

	var flags LegacyFlags
	for key := range legacyMirrors {
		flags.Set(key, true)
		got, ok := flags.Get(key)
		assert.True(t, ok, "module %s", key)
		assert.True(t, got, "module %s", key)

		flags.Set(key, false)
		got, _ = flags.Get(key)
		assert.False(t, got, "module %s", key)
	}
}

func TestLegacyFlags_NoMirrorForNewModules(t *testing.T) {
	t.Parallel()

	var flags LegacyFlags
	for _, key := range []ModuleKey{ModuleRoleMenus, ModuleLockdown, ModuleKey("telemetry")} {
		_, ok := flags.Get(key)
		assert.False(t, ok, "module %s", key)
		assert.False(t, HasLegacyMirror(key), "module %s", key)
	}
}

func TestKnownModule(t *testing.T) {
	t.Parallel()

	for _, key := range AllModuleKeys() {
		assert.True(t, KnownModule(key), "module %s", key)
	}
	assert.False(t, KnownModule(ModuleKey("telemetry")))
	assert.False(t, KnownModule(ModuleKey("")))
}

func TestGuildConfig_HasLogChannel(t *testing.T) {
	t.Parallel()

	cfg := NewGuildConfig(123)
	assert.False(t, cfg.HasLogChannel())

	channelID := int64(456)
	cfg.LogChannelID = &channelID
	assert.True(t, cfg.HasLogChannel())

	zero := int64(0)
	cfg.LogChannelID = &zero
	assert.False(t, cfg.HasLogChannel())
}
