package testhelpers

import (
	"context"

	"warden/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockPlatformAdapter is a mock implementation of PlatformAdapter
type MockPlatformAdapter struct {
	mock.Mock
}

func (m *MockPlatformAdapter) SendMenuMessage(ctx context.Context, channelID int64, view interfaces.MenuView) (int64, error) {
	args := m.Called(ctx, channelID, view)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlatformAdapter) EditMenuMessage(ctx context.Context, channelID, messageID int64, view interfaces.MenuView) error {
	args := m.Called(ctx, channelID, messageID, view)
	return args.Error(0)
}

func (m *MockPlatformAdapter) DeleteMessage(ctx context.Context, channelID, messageID int64) error {
	args := m.Called(ctx, channelID, messageID)
	return args.Error(0)
}

func (m *MockPlatformAdapter) AddMemberRole(ctx context.Context, guildID, userID, roleID int64) error {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Error(0)
}

func (m *MockPlatformAdapter) RemoveMemberRole(ctx context.Context, guildID, userID, roleID int64) error {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Error(0)
}

func (m *MockPlatformAdapter) GetMemberRoles(ctx context.Context, guildID, userID int64) ([]int64, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockPlatformAdapter) GetRole(ctx context.Context, guildID, roleID int64) (*interfaces.RoleInfo, error) {
	args := m.Called(ctx, guildID, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.RoleInfo), args.Error(1)
}

func (m *MockPlatformAdapter) HighestRolePosition(ctx context.Context, guildID int64) (int, error) {
	args := m.Called(ctx, guildID)
	return args.Int(0), args.Error(1)
}

func (m *MockPlatformAdapter) SetChannelDenyOverride(ctx context.Context, channelID, roleID int64, deny int64) error {
	args := m.Called(ctx, channelID, roleID, deny)
	return args.Error(0)
}

func (m *MockPlatformAdapter) ClearChannelOverride(ctx context.Context, channelID, roleID int64) error {
	args := m.Called(ctx, channelID, roleID)
	return args.Error(0)
}
