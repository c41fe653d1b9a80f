package services

import (
	"context"
	"errors"
	"testing"

	"warden/domain/entities"
	"warden/domain/events"
	"warden/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestModuleService_IsModuleEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		key       entities.ModuleKey
		setupMock func(*testhelpers.MockGuildConfigRepository)
		want      bool
		wantErr   bool
	}{
		{
			name: "explicit flag wins over default",
			key:  entities.ModuleEconomy,
			setupMock: func(mockRepo *testhelpers.MockGuildConfigRepository) {
				cfg := entities.NewGuildConfig(123)
				cfg.ModuleFlags[entities.ModuleEconomy] = true
				mockRepo.On("GetOrCreateGuildConfig", context.Background(), int64(123)).Return(cfg, nil)
			},
			want: true,
		},
		{
			name: "falls back to compiled-in default when unset",
			key:  entities.ModuleModeration,
			setupMock: func(mockRepo *testhelpers.MockGuildConfigRepository) {
				mockRepo.On("GetOrCreateGuildConfig", context.Background(), int64(123)).Return(entities.NewGuildConfig(123), nil)
			},
			want: true,
		},
		{
			name: "unknown key resolves to false",
			key:  entities.ModuleKey("telemetry"),
			setupMock: func(mockRepo *testhelpers.MockGuildConfigRepository) {
				mockRepo.On("GetOrCreateGuildConfig", context.Background(), int64(123)).Return(entities.NewGuildConfig(123), nil)
			},
			want: false,
		},
		{
			name: "repository error",
			key:  entities.ModuleFun,
			setupMock: func(mockRepo *testhelpers.MockGuildConfigRepository) {
				mockRepo.On("GetOrCreateGuildConfig", context.Background(), int64(123)).Return((*entities.GuildConfig)(nil), errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockRepo := new(testhelpers.MockGuildConfigRepository)
			tt.setupMock(mockRepo)

			service := NewModuleService(mockRepo, nil)
			got, err := service.IsModuleEnabled(context.Background(), 123, tt.key)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestModuleService_SetModule_UnknownKey(t *testing.T) {
	t.Parallel()

	mockRepo := new(testhelpers.MockGuildConfigRepository)
	service := NewModuleService(mockRepo, nil)

	cfg, err := service.SetModule(context.Background(), 123, entities.ModuleKey("telemetry"), true)

	assert.ErrorIs(t, err, entities.ErrUnknownModule)
	assert.Nil(t, cfg)
	// No partial write occurs for an unknown key
	mockRepo.AssertNotCalled(t, "SetModule", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "GetOrCreateGuildConfig", mock.Anything, mock.Anything)
}

func TestModuleService_SetModule_LegacyMirrorStaysInSync(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(testhelpers.MockGuildConfigRepository)
	mockPublisher := new(testhelpers.MockEventPublisher)

	fresh := entities.NewGuildConfig(123)
	updated := entities.NewGuildConfig(123)
	updated.ModuleFlags[entities.ModuleEconomy] = true
	updated.LegacyFlags.Set(entities.ModuleEconomy, true)

	mockRepo.On("GetOrCreateGuildConfig", ctx, int64(123)).Return(fresh, nil).Once()
	mockRepo.On("SetModule", ctx, int64(123), entities.ModuleEconomy, true).Return(nil).Once()
	mockRepo.On("GetOrCreateGuildConfig", ctx, int64(123)).Return(updated, nil).Once()
	mockPublisher.On("Publish", events.ModuleToggledEvent{GuildID: 123, Module: "economy", Enabled: true}).Return(nil)

	service := NewModuleService(mockRepo, mockPublisher)
	cfg, err := service.SetModule(ctx, 123, entities.ModuleEconomy, true)

	assert.NoError(t, err)
	assert.True(t, cfg.ModuleEnabled(entities.ModuleEconomy))
	legacy, hasMirror := cfg.LegacyFlags.Get(entities.ModuleEconomy)
	assert.True(t, hasMirror)
	assert.True(t, legacy)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestModuleService_SetModule_LazilyCreatesConfig(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(testhelpers.MockGuildConfigRepository)

	fresh := entities.NewGuildConfig(999)
	updated := entities.NewGuildConfig(999)
	updated.ModuleFlags[entities.ModuleEconomy] = true
	updated.LegacyFlags.Set(entities.ModuleEconomy, true)

	// First touch of a guild with no row: GetOrCreate materialises defaults
	mockRepo.On("GetOrCreateGuildConfig", ctx, int64(999)).Return(fresh, nil).Once()
	mockRepo.On("SetModule", ctx, int64(999), entities.ModuleEconomy, true).Return(nil).Once()
	mockRepo.On("GetOrCreateGuildConfig", ctx, int64(999)).Return(updated, nil).Once()

	service := NewModuleService(mockRepo, nil)
	cfg, err := service.SetModule(ctx, 999, entities.ModuleEconomy, true)

	assert.NoError(t, err)
	// Only economy differs from the compiled-in defaults
	for _, key := range entities.AllModuleKeys() {
		if key == entities.ModuleEconomy {
			assert.True(t, cfg.ModuleEnabled(key))
			continue
		}
		assert.Equal(t, entities.ModuleDefault(key), cfg.ModuleEnabled(key), "module %s", key)
	}
	mockRepo.AssertExpectations(t)
}

func TestModuleService_SetModule_RepositoryError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(testhelpers.MockGuildConfigRepository)
	mockRepo.On("GetOrCreateGuildConfig", ctx, int64(123)).Return(entities.NewGuildConfig(123), nil).Once()
	mockRepo.On("SetModule", ctx, int64(123), entities.ModuleFun, false).Return(errors.New("write failed")).Once()

	service := NewModuleService(mockRepo, nil)
	cfg, err := service.SetModule(ctx, 123, entities.ModuleFun, false)

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to set module fun")
	mockRepo.AssertExpectations(t)
}
