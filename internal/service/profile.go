package service

import (
	"context"
	"errors"
	"time"

	"drawit_backend/internal/model"
	"drawit_backend/internal/repository"

	"github.com/google/uuid"
)

type ProfileService struct {
	repo ProfileRepository

	now func() time.Time
}

func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, name, pictureURL *string) (*model.Profile, error) {
	fields := map[string]interface{}{}
	if name != nil {
		fields["name"] = *name
	}
	if pictureURL != nil {
		fields["profile_picture_url"] = *pictureURL
	}

	profile, err := s.repo.UpdateProfile(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// RecordActivity advances the daily streak: a second activity on the same
// day is a no-op, consecutive days extend the streak, a gap resets it to 1.
func (s *ProfileService) RecordActivity(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.now().Format("2006-01-02")
	yesterday := s.now().AddDate(0, 0, -1).Format("2006-01-02")

	if profile.LastStreakUpdate != nil && *profile.LastStreakUpdate == today {
		return profile, nil
	}

	current := 1
	if profile.LastStreakUpdate != nil && *profile.LastStreakUpdate == yesterday {
		current = profile.CurrentStreak + 1
	}

	longest := profile.LongestStreak
	if current > longest {
		longest = current
	}

	if err := s.repo.UpdateStreak(ctx, userID, current, longest, today); err != nil {
		return nil, err
	}

	profile.CurrentStreak = current
	profile.LongestStreak = longest
	profile.LastStreakUpdate = &today

	return profile, nil
}

// IsStreakSafe reports whether today's activity has already been recorded.
func (s *ProfileService) IsStreakSafe(ctx context.Context, userID uuid.UUID) (bool, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}

	today := s.now().Format("2006-01-02")
	return profile.LastStreakUpdate != nil && *profile.LastStreakUpdate == today, nil
}
