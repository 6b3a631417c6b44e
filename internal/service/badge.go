package service

import (
	"context"
	"errors"

	"drawit_backend/internal/model"
	"drawit_backend/internal/repository"
	"drawit_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requirementDrawings = "drawings"
	requirementStreak   = "streak"
)

type BadgeService struct {
	repo BadgeRepository
}

func NewBadgeService(repo BadgeRepository) *BadgeService {
	return &BadgeService{repo: repo}
}

func (s *BadgeService) List(ctx context.Context) ([]*model.Badge, error) {
	return s.repo.ListBadges(ctx)
}

func (s *BadgeService) UserBadges(ctx context.Context, userID uuid.UUID) ([]*model.UserBadge, error) {
	return s.repo.ListUserBadges(ctx, userID)
}

// Earn records a badge for the user. Earning a badge twice is not an
// error; the existing record stands.
func (s *BadgeService) Earn(ctx context.Context, userID, badgeID uuid.UUID) (*model.UserBadge, error) {
	earned, err := s.repo.CreateUserBadge(ctx, userID, badgeID)
	if err != nil {
		if errors.Is(err, repository.ErrBadgeAlreadyOwned) {
			return nil, nil
		}
		return nil, err
	}
	return earned, nil
}

// CheckAndAward grants every badge whose requirement the user now meets.
// Best effort per badge; one failed grant does not block the rest.
func (s *BadgeService) CheckAndAward(ctx context.Context, userID uuid.UUID) ([]*model.UserBadge, error) {
	badges, err := s.repo.ListBadges(ctx)
	if err != nil {
		return nil, err
	}

	drawingCount, err := s.repo.CountUserDrawings(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var awarded []*model.UserBadge
	for _, badge := range badges {
		met := false
		switch badge.RequirementType {
		case requirementDrawings:
			met = drawingCount >= badge.RequirementCount
		case requirementStreak:
			met = profile.CurrentStreak >= badge.RequirementCount
		}
		if !met {
			continue
		}

		earned, err := s.Earn(ctx, userID, badge.ID)
		if err != nil {
			logger.Logger().Error("failed to award badge",
				zap.String("badge_id", badge.ID.String()), zap.Error(err))
			continue
		}
		if earned != nil {
			awarded = append(awarded, earned)
		}
	}

	return awarded, nil
}
