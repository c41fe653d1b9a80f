package testhelpers

import (
	"context"

	"warden/domain/entities"
	"warden/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockGuildConfigRepository is a mock implementation of GuildConfigRepository
type MockGuildConfigRepository struct {
	mock.Mock
}

func (m *MockGuildConfigRepository) GetOrCreateGuildConfig(ctx context.Context, guildID int64) (*entities.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigRepository) SetModule(ctx context.Context, guildID int64, key entities.ModuleKey, enabled bool) error {
	args := m.Called(ctx, guildID, key, enabled)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) UpdateCommandPrefix(ctx context.Context, guildID int64, prefix string) error {
	args := m.Called(ctx, guildID, prefix)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) UpdateLogChannel(ctx context.Context, guildID int64, channelID *int64) error {
	args := m.Called(ctx, guildID, channelID)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) UpdateMuteRole(ctx context.Context, guildID int64, roleID *int64) error {
	args := m.Called(ctx, guildID, roleID)
	return args.Error(0)
}

// MockRoleMenuRepository is a mock implementation of RoleMenuRepository
type MockRoleMenuRepository struct {
	mock.Mock
}

func (m *MockRoleMenuRepository) Create(ctx context.Context, menu *entities.RoleMenu) error {
	args := m.Called(ctx, menu)
	return args.Error(0)
}

func (m *MockRoleMenuRepository) GetByMessageID(ctx context.Context, messageID int64) (*entities.RoleMenu, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RoleMenu), args.Error(1)
}

func (m *MockRoleMenuRepository) List(ctx context.Context) ([]*entities.RoleMenu, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RoleMenu), args.Error(1)
}

func (m *MockRoleMenuRepository) UpdateDetails(ctx context.Context, menu *entities.RoleMenu) error {
	args := m.Called(ctx, menu)
	return args.Error(0)
}

func (m *MockRoleMenuRepository) UpdateActive(ctx context.Context, messageID int64, active bool) error {
	args := m.Called(ctx, messageID, active)
	return args.Error(0)
}

func (m *MockRoleMenuRepository) Delete(ctx context.Context, messageID int64) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

// MockChannelLockRepository is a mock implementation of ChannelLockRepository
type MockChannelLockRepository struct {
	mock.Mock
}

func (m *MockChannelLockRepository) Create(ctx context.Context, lock *entities.ChannelLock) error {
	args := m.Called(ctx, lock)
	return args.Error(0)
}

func (m *MockChannelLockRepository) GetByChannel(ctx context.Context, channelID int64) (*entities.ChannelLock, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ChannelLock), args.Error(1)
}

func (m *MockChannelLockRepository) List(ctx context.Context) ([]*entities.ChannelLock, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ChannelLock), args.Error(1)
}

func (m *MockChannelLockRepository) ListAllGuilds(ctx context.Context) ([]*entities.ChannelLock, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ChannelLock), args.Error(1)
}

func (m *MockChannelLockRepository) Delete(ctx context.Context, channelID int64) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
