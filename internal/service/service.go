package service

import (
	"context"
	"errors"

	"drawit_backend/internal/model"

	"github.com/google/uuid"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrSessionNotFound   = errors.New("chat session not found")
	ErrDrawingNotFound   = errors.New("drawing not found")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrBadgeNotFound     = errors.New("badge not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrQuotaExceeded     = errors.New("daily quota exceeded")
)

// DailyChallengeDrawingID is the fixed drawing id the mobile client uses
// for daily-challenge conversations; sessions for it are scoped to one
// calendar day.
var DailyChallengeDrawingID = uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")

type ChallengeServiceI interface {
	Today(ctx context.Context) (*model.DailyChallenge, error)
	ByDate(ctx context.Context, date string) (*model.DailyChallenge, error)
	List(ctx context.Context) ([]*model.DailyChallenge, error)
	Upcoming(ctx context.Context, days int) ([]*model.DailyChallenge, error)
	Regenerate(ctx context.Context) (*model.DailyChallenge, error)
}

type ChallengeRepository interface {
	GetChallengeByDate(ctx context.Context, date string) (*model.DailyChallenge, error)
	GetLatestChallenge(ctx context.Context) (*model.DailyChallenge, error)
	ListChallenges(ctx context.Context) ([]*model.DailyChallenge, error)
	CreateChallenge(ctx context.Context, challenge *model.DailyChallenge) (*model.DailyChallenge, error)
	UpdateChallenge(ctx context.Context, date string, challenge *model.DailyChallenge) (*model.DailyChallenge, error)
	DeleteChallenge(ctx context.Context, date string) error
}

type ChallengeGenerator interface {
	Generate(ctx context.Context, previousTitle string) (*model.GeneratedChallenge, error)
}

type ChatServiceI interface {
	FindOrCreateSession(ctx context.Context, userID uuid.UUID, drawingID *uuid.UUID, title string) (*model.ChatSession, error)
	Messages(ctx context.Context, userID, sessionID uuid.UUID) ([]*model.ChatMessage, error)
	SendMessage(ctx context.Context, userID, sessionID uuid.UUID, text string) (*model.ChatMessage, *model.ChatMessage, error)
	SendMessageStream(ctx context.Context, userID, sessionID uuid.UUID, text string, onDelta func(string) error) (*model.ChatMessage, *model.ChatMessage, error)
	DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error
	Session(ctx context.Context, userID, sessionID uuid.UUID) (*model.ChatSession, error)
}

type ChatRepository interface {
	GetChatSession(ctx context.Context, id uuid.UUID) (*model.ChatSession, error)
	FindSessionForDrawing(ctx context.Context, userID, drawingID uuid.UUID, sinceDate string) (*model.ChatSession, error)
	CreateChatSession(ctx context.Context, session *model.ChatSession) (*model.ChatSession, error)
	ListChatMessages(ctx context.Context, sessionID uuid.UUID) ([]*model.ChatMessage, error)
	CreateChatMessage(ctx context.Context, message *model.ChatMessage) (*model.ChatMessage, error)
	DeleteChatSession(ctx context.Context, userID, sessionID uuid.UUID) error
	GetDrawing(ctx context.Context, id uuid.UUID) (*model.Drawing, error)
}

// CoachClient produces AI feedback replies for chat turns.
type CoachClient interface {
	CoachReply(ctx context.Context, history []*model.ChatMessage, userText string) (string, error)
}

// CoachStreamer is the streaming variant used by the websocket chat.
type CoachStreamer interface {
	StreamCoachReply(ctx context.Context, history []*model.ChatMessage, userText string, onDelta func(string) error) (string, error)
}

// Limiter is the daily quota gate consulted before rate-limited actions.
type Limiter interface {
	Status(counter string) model.QuotaStatus
	Increment(counter string) error
}

type DrawingServiceI interface {
	List(ctx context.Context, userID uuid.UUID) ([]*model.Drawing, error)
	Create(ctx context.Context, d *model.Drawing) (*model.Drawing, error)
	Update(ctx context.Context, userID, id uuid.UUID, update *model.DrawingUpdate) (*model.Drawing, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	MostRecentImage(ctx context.Context, drawingID uuid.UUID) (string, error)
}

type DrawingRepository interface {
	ListDrawings(ctx context.Context, userID uuid.UUID) ([]*model.Drawing, error)
	GetDrawing(ctx context.Context, id uuid.UUID) (*model.Drawing, error)
	CreateDrawing(ctx context.Context, d *model.Drawing) (*model.Drawing, error)
	UpdateDrawing(ctx context.Context, id uuid.UUID, update *model.DrawingUpdate) (*model.Drawing, error)
	DeleteDrawing(ctx context.Context, userID, id uuid.UUID) error
	GetMostRecentImageForDrawing(ctx context.Context, drawingID uuid.UUID) (string, error)
}

type BadgeServiceI interface {
	List(ctx context.Context) ([]*model.Badge, error)
	UserBadges(ctx context.Context, userID uuid.UUID) ([]*model.UserBadge, error)
	Earn(ctx context.Context, userID, badgeID uuid.UUID) (*model.UserBadge, error)
	CheckAndAward(ctx context.Context, userID uuid.UUID) ([]*model.UserBadge, error)
}

type BadgeRepository interface {
	ListBadges(ctx context.Context) ([]*model.Badge, error)
	ListUserBadges(ctx context.Context, userID uuid.UUID) ([]*model.UserBadge, error)
	CreateUserBadge(ctx context.Context, userID, badgeID uuid.UUID) (*model.UserBadge, error)
	CountUserDrawings(ctx context.Context, userID uuid.UUID) (int, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
}

type ProfileServiceI interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, name, pictureURL *string) (*model.Profile, error)
	RecordActivity(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	IsStreakSafe(ctx context.Context, userID uuid.UUID) (bool, error)
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (*model.Profile, error)
	UpdateStreak(ctx context.Context, userID uuid.UUID, current, longest int, lastUpdate string) error
}
