package service

import (
	"context"
	"errors"
	"time"

	"drawit_backend/internal/model"
	"drawit_backend/internal/quota"
	"drawit_backend/internal/repository"
	"drawit_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatService struct {
	repo     ChatRepository
	coach    CoachClient
	streamer CoachStreamer
	limiter  Limiter

	now func() time.Time
}

func NewChatService(repo ChatRepository, coach CoachClient, streamer CoachStreamer, limiter Limiter) *ChatService {
	return &ChatService{
		repo:     repo,
		coach:    coach,
		streamer: streamer,
		limiter:  limiter,
		now:      time.Now,
	}
}

// FindOrCreateSession is idempotent: the same drawing on the same calendar
// day always resolves to the same session. Daily-challenge sessions are
// scoped to today so yesterday's conversation is never reused.
func (s *ChatService) FindOrCreateSession(ctx context.Context, userID uuid.UUID, drawingID *uuid.UUID, title string) (*model.ChatSession, error) {
	if drawingID != nil {
		_, err := s.repo.GetDrawing(ctx, *drawingID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			// Drawing rows can disappear underneath a stale client;
			// fall back to an unlinked session.
			logger.Logger().Warn("drawing not found, creating session without drawing reference",
				zap.String("drawing_id", drawingID.String()))
			drawingID = nil
		}
	}

	if drawingID != nil {
		sinceDate := ""
		if *drawingID == DailyChallengeDrawingID {
			sinceDate = s.now().Format("2006-01-02")
		}

		session, err := s.repo.FindSessionForDrawing(ctx, userID, *drawingID, sinceDate)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	return s.repo.CreateChatSession(ctx, &model.ChatSession{
		UserID:    userID,
		DrawingID: drawingID,
		Title:     title,
	})
}

func (s *ChatService) Session(ctx context.Context, userID, sessionID uuid.UUID) (*model.ChatSession, error) {
	session, err := s.repo.GetChatSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrPermissionDenied
	}
	return session, nil
}

func (s *ChatService) Messages(ctx context.Context, userID, sessionID uuid.UUID) ([]*model.ChatMessage, error) {
	if _, err := s.Session(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListChatMessages(ctx, sessionID)
}

// SendMessage runs one chat turn: quota gate, persist the user message,
// fetch the coach reply, persist it, then count the send against the
// daily limit. A failed reply still leaves the user message stored.
func (s *ChatService) SendMessage(ctx context.Context, userID, sessionID uuid.UUID, text string) (*model.ChatMessage, *model.ChatMessage, error) {
	if status := s.limiter.Status(quota.CounterMessage); !status.CanProceed {
		return nil, nil, ErrQuotaExceeded
	}

	if _, err := s.Session(ctx, userID, sessionID); err != nil {
		return nil, nil, err
	}

	history, err := s.repo.ListChatMessages(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	userMsg, err := s.repo.CreateChatMessage(ctx, &model.ChatMessage{
		ChatSessionID: sessionID,
		Text:          text,
		Sender:        model.SenderUser,
		MessageType:   model.MessageTypeText,
	})
	if err != nil {
		return nil, nil, err
	}

	reply, err := s.coach.CoachReply(ctx, history, text)
	if err != nil {
		return userMsg, nil, err
	}

	aiMsg, err := s.repo.CreateChatMessage(ctx, &model.ChatMessage{
		ChatSessionID: sessionID,
		Text:          reply,
		Sender:        model.SenderAI,
		MessageType:   model.MessageTypeFeedback,
	})
	if err != nil {
		return userMsg, nil, err
	}

	if err := s.limiter.Increment(quota.CounterMessage); err != nil {
		logger.Logger().Error("failed to increment message counter", zap.Error(err))
	}

	return userMsg, aiMsg, nil
}

// SendMessageStream is the websocket variant of SendMessage: the coach
// reply is streamed through onDelta and whatever arrived before a stream
// failure is still persisted.
func (s *ChatService) SendMessageStream(ctx context.Context, userID, sessionID uuid.UUID, text string, onDelta func(string) error) (*model.ChatMessage, *model.ChatMessage, error) {
	if status := s.limiter.Status(quota.CounterMessage); !status.CanProceed {
		return nil, nil, ErrQuotaExceeded
	}

	if _, err := s.Session(ctx, userID, sessionID); err != nil {
		return nil, nil, err
	}

	history, err := s.repo.ListChatMessages(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	userMsg, err := s.repo.CreateChatMessage(ctx, &model.ChatMessage{
		ChatSessionID: sessionID,
		Text:          text,
		Sender:        model.SenderUser,
		MessageType:   model.MessageTypeText,
	})
	if err != nil {
		return nil, nil, err
	}

	reply, streamErr := s.streamer.StreamCoachReply(ctx, history, text, onDelta)
	if reply == "" && streamErr != nil {
		return userMsg, nil, streamErr
	}

	aiMsg, err := s.repo.CreateChatMessage(ctx, &model.ChatMessage{
		ChatSessionID: sessionID,
		Text:          reply,
		Sender:        model.SenderAI,
		MessageType:   model.MessageTypeFeedback,
	})
	if err != nil {
		return userMsg, nil, err
	}

	if err := s.limiter.Increment(quota.CounterMessage); err != nil {
		logger.Logger().Error("failed to increment message counter", zap.Error(err))
	}

	return userMsg, aiMsg, streamErr
}

func (s *ChatService) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	err := s.repo.DeleteChatSession(ctx, userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrSessionNotFound
		case errors.Is(err, repository.ErrPermissionDenied):
			return ErrPermissionDenied
		}
		return err
	}
	return nil
}
