package mocks

import (
	"context"

	"drawit_backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockChallengeRepository struct {
	mock.Mock
}

func (m *MockChallengeRepository) GetChallengeByDate(ctx context.Context, date string) (*model.DailyChallenge, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyChallenge), args.Error(1)
}

func (m *MockChallengeRepository) GetLatestChallenge(ctx context.Context) (*model.DailyChallenge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyChallenge), args.Error(1)
}

func (m *MockChallengeRepository) ListChallenges(ctx context.Context) ([]*model.DailyChallenge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DailyChallenge), args.Error(1)
}

func (m *MockChallengeRepository) CreateChallenge(ctx context.Context, challenge *model.DailyChallenge) (*model.DailyChallenge, error) {
	args := m.Called(ctx, challenge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyChallenge), args.Error(1)
}

func (m *MockChallengeRepository) UpdateChallenge(ctx context.Context, date string, challenge *model.DailyChallenge) (*model.DailyChallenge, error) {
	args := m.Called(ctx, date, challenge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyChallenge), args.Error(1)
}

func (m *MockChallengeRepository) DeleteChallenge(ctx context.Context, date string) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

type MockChallengeGenerator struct {
	mock.Mock
}

func (m *MockChallengeGenerator) Generate(ctx context.Context, previousTitle string) (*model.GeneratedChallenge, error) {
	args := m.Called(ctx, previousTitle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GeneratedChallenge), args.Error(1)
}

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) GetChatSession(ctx context.Context, id uuid.UUID) (*model.ChatSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatSession), args.Error(1)
}

func (m *MockChatRepository) FindSessionForDrawing(ctx context.Context, userID, drawingID uuid.UUID, sinceDate string) (*model.ChatSession, error) {
	args := m.Called(ctx, userID, drawingID, sinceDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatSession), args.Error(1)
}

func (m *MockChatRepository) CreateChatSession(ctx context.Context, session *model.ChatSession) (*model.ChatSession, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatSession), args.Error(1)
}

func (m *MockChatRepository) ListChatMessages(ctx context.Context, sessionID uuid.UUID) ([]*model.ChatMessage, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) CreateChatMessage(ctx context.Context, message *model.ChatMessage) (*model.ChatMessage, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) DeleteChatSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	args := m.Called(ctx, userID, sessionID)
	return args.Error(0)
}

func (m *MockChatRepository) GetDrawing(ctx context.Context, id uuid.UUID) (*model.Drawing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Drawing), args.Error(1)
}

type MockCoachClient struct {
	mock.Mock
}

func (m *MockCoachClient) CoachReply(ctx context.Context, history []*model.ChatMessage, userText string) (string, error) {
	args := m.Called(ctx, history, userText)
	return args.String(0), args.Error(1)
}

type MockCoachStreamer struct {
	mock.Mock
}

func (m *MockCoachStreamer) StreamCoachReply(ctx context.Context, history []*model.ChatMessage, userText string, onDelta func(string) error) (string, error) {
	args := m.Called(ctx, history, userText, onDelta)
	return args.String(0), args.Error(1)
}

type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Status(counter string) model.QuotaStatus {
	args := m.Called(counter)
	return args.Get(0).(model.QuotaStatus)
}

func (m *MockLimiter) Increment(counter string) error {
	args := m.Called(counter)
	return args.Error(0)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (*model.Profile, error) {
	args := m.Called(ctx, userID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) UpdateStreak(ctx context.Context, userID uuid.UUID, current, longest int, lastUpdate string) error {
	args := m.Called(ctx, userID, current, longest, lastUpdate)
	return args.Error(0)
}
