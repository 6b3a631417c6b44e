package service

import (
	"context"
	"errors"
	"time"

	"drawit_backend/internal/model"
	"drawit_backend/internal/repository"
	"drawit_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// Forced regeneration deletes today's row and confirms the delete is
	// visible before recreating; the backing store is eventually
	// consistent, so absence is polled with a short bounded retry rather
	// than a fixed sleep.
	deletePollAttempts = 5
	deletePollInterval = 100 * time.Millisecond
)

// ChallengeService guarantees exactly one challenge per calendar day,
// generating one on demand and handling concurrent-creation conflicts.
type ChallengeService struct {
	repo ChallengeRepository
	gen  ChallengeGenerator

	now          func() time.Time
	pollInterval time.Duration
}

func NewChallengeService(repo ChallengeRepository, gen ChallengeGenerator) *ChallengeService {
	return &ChallengeService{
		repo:         repo,
		gen:          gen,
		now:          time.Now,
		pollInterval: deletePollInterval,
	}
}

func (s *ChallengeService) today() string {
	return s.now().Format("2006-01-02")
}

// Today returns the challenge for the current calendar date, generating
// and persisting one when none exists yet.
func (s *ChallengeService) Today(ctx context.Context) (*model.DailyChallenge, error) {
	date := s.today()

	challenge, err := s.repo.GetChallengeByDate(ctx, date)
	if err == nil {
		return challenge, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	return s.generateFor(ctx, date), nil
}

func (s *ChallengeService) ByDate(ctx context.Context, date string) (*model.DailyChallenge, error) {
	challenge, err := s.repo.GetChallengeByDate(ctx, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return challenge, nil
}

func (s *ChallengeService) List(ctx context.Context) ([]*model.DailyChallenge, error) {
	return s.repo.ListChallenges(ctx)
}

// Upcoming returns challenges dated strictly after today and within the
// next `days` days.
func (s *ChallengeService) Upcoming(ctx context.Context, days int) ([]*model.DailyChallenge, error) {
	challenges, err := s.repo.ListChallenges(ctx)
	if err != nil {
		return nil, err
	}

	today := s.today()
	limit := s.now().AddDate(0, 0, days).Format("2006-01-02")

	var upcoming []*model.DailyChallenge
	for _, c := range challenges {
		if c.ChallengeDate > today && c.ChallengeDate <= limit {
			upcoming = append(upcoming, c)
		}
	}
	return upcoming, nil
}

// Regenerate replaces today's challenge: delete (a no-op when no row
// exists), confirm the delete has settled, then generate and persist a
// fresh one.
func (s *ChallengeService) Regenerate(ctx context.Context) (*model.DailyChallenge, error) {
	date := s.today()

	if err := s.repo.DeleteChallenge(ctx, date); err != nil {
		return nil, err
	}

	for i := 0; i < deletePollAttempts; i++ {
		_, err := s.repo.GetChallengeByDate(ctx, date)
		if errors.Is(err, repository.ErrNotFound) {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}

	return s.generateFor(ctx, date), nil
}

// generateFor runs the generation chain and persists the result. Any
// failure along the way degrades to the fixed fallback challenge; the
// fallback is returned to the caller but never persisted.
func (s *ChallengeService) generateFor(ctx context.Context, date string) *model.DailyChallenge {
	log := logger.Logger()

	previousTitle := ""
	if latest, err := s.repo.GetLatestChallenge(ctx); err == nil {
		previousTitle = latest.Title
	}

	generated, err := s.gen.Generate(ctx, previousTitle)
	if err != nil {
		log.Warn("challenge generation failed, serving fallback",
			zap.String("date", date), zap.Error(err))
		return fallbackChallenge(date, s.now())
	}

	challenge := &model.DailyChallenge{
		ChallengeDate: date,
		Title:         generated.Title,
		Prompt:        generated.FullPrompt(),
		Difficulty:    model.DifficultyMedium,
		ThumbnailURL:  &generated.ImageURL,
	}

	saved, err := s.repo.CreateChallenge(ctx, challenge)
	if err == nil {
		return saved
	}

	if errors.Is(err, repository.ErrChallengeExists) {
		// Another session created today's row first; last writer wins.
		updated, updateErr := s.repo.UpdateChallenge(ctx, date, challenge)
		if updateErr == nil {
			return updated
		}
		log.Error("failed to update challenge after insert conflict",
			zap.String("date", date), zap.Error(updateErr))
		return fallbackChallenge(date, s.now())
	}

	log.Error("failed to persist generated challenge",
		zap.String("date", date), zap.Error(err))
	return fallbackChallenge(date, s.now())
}

// fallbackChallenge is the designed degraded mode: a fixed prompt with no
// reference image, served when generation or persistence fails.
func fallbackChallenge(date string, now time.Time) *model.DailyChallenge {
	return &model.DailyChallenge{
		ID:            uuid.New(),
		ChallengeDate: date,
		Title:         "Daily Drawing Challenge",
		Prompt:        "Draw something that makes you happy today!",
		Difficulty:    model.DifficultyEasy,
		ThumbnailURL:  nil,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
