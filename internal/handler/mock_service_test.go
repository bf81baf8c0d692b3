package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/IdleRealm_Go/internal/activity"
	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/game"
)

// MockGameService mocks game.Service
type MockGameService struct {
	mock.Mock
}

var _ game.Service = (*MockGameService)(nil)

func (m *MockGameService) CreateCharacter(ctx context.Context, ownerID, name string) (domain.StatusSnapshot, error) {
	args := m.Called(ctx, ownerID, name)
	return args.Get(0).(domain.StatusSnapshot), args.Error(1)
}

func (m *MockGameService) Status(ctx context.Context, ownerID string) (domain.StatusSnapshot, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(domain.StatusSnapshot), args.Error(1)
}

func (m *MockGameService) Resume(ctx context.Context, ownerID string) (game.ResumeResult, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(game.ResumeResult), args.Error(1)
}

func (m *MockGameService) Disconnect(ctx context.Context, ownerID string) error {
	return m.Called(ctx, ownerID).Error(0)
}

func (m *MockGameService) StartActivity(ctx context.Context, ownerID string, req activity.StartRequest) (activity.Timing, error) {
	args := m.Called(ctx, ownerID, req)
	return args.Get(0).(activity.Timing), args.Error(1)
}

func (m *MockGameService) StopActivity(ctx context.Context, ownerID string) (domain.SessionSummary, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(domain.SessionSummary), args.Error(1)
}

func (m *MockGameService) StartCombat(ctx context.Context, ownerID string, tier int, monsterID string) (domain.CombatState, error) {
	args := m.Called(ctx, ownerID, tier, monsterID)
	return args.Get(0).(domain.CombatState), args.Error(1)
}

func (m *MockGameService) Flee(ctx context.Context, ownerID string) (domain.SessionSummary, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(domain.SessionSummary), args.Error(1)
}

func (m *MockGameService) StartDungeon(ctx context.Context, ownerID, dungeonID string, repeats int) (domain.DungeonRun, error) {
	args := m.Called(ctx, ownerID, dungeonID, repeats)
	return args.Get(0).(domain.DungeonRun), args.Error(1)
}

func (m *MockGameService) AbandonDungeon(ctx context.Context, ownerID string) (domain.SessionSummary, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(domain.SessionSummary), args.Error(1)
}

func (m *MockGameService) Equip(ctx context.Context, ownerID, itemID string) (game.EquipResult, error) {
	args := m.Called(ctx, ownerID, itemID)
	return args.Get(0).(game.EquipResult), args.Error(1)
}

func (m *MockGameService) Unequip(ctx context.Context, ownerID string, slot domain.Slot) (domain.ItemSnapshot, error) {
	args := m.Called(ctx, ownerID, slot)
	return args.Get(0).(domain.ItemSnapshot), args.Error(1)
}

func (m *MockGameService) CollectClaims(ctx context.Context, ownerID string) (game.CollectResult, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(game.CollectResult), args.Error(1)
}

func (m *MockGameService) SendItems(ctx context.Context, fromOwner, toOwner, itemID string, qty int64) error {
	return m.Called(ctx, fromOwner, toOwner, itemID, qty).Error(0)
}

func (m *MockGameService) ApplyPayment(ctx context.Context, ownerID string, amount int64, reference string) (game.PaymentResult, error) {
	args := m.Called(ctx, ownerID, amount, reference)
	return args.Get(0).(game.PaymentResult), args.Error(1)
}
