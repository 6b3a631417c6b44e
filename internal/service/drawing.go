package service

import (
	"context"
	"errors"
	"fmt"

	"drawit_backend/internal/model"
	"drawit_backend/internal/repository"

	"github.com/google/uuid"
)

type DrawingService struct {
	repo DrawingRepository
}

func NewDrawingService(repo DrawingRepository) *DrawingService {
	return &DrawingService{repo: repo}
}

func (s *DrawingService) List(ctx context.Context, userID uuid.UUID) ([]*model.Drawing, error) {
	drawings, err := s.repo.ListDrawings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drawings: %w", err)
	}
	return drawings, nil
}

func (s *DrawingService) Create(ctx context.Context, d *model.Drawing) (*model.Drawing, error) {
	created, err := s.repo.CreateDrawing(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("failed to create drawing: %w", err)
	}
	return created, nil
}

func (s *DrawingService) Update(ctx context.Context, userID, id uuid.UUID, update *model.DrawingUpdate) (*model.Drawing, error) {
	existing, err := s.repo.GetDrawing(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDrawingNotFound
		}
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrPermissionDenied
	}

	updated, err := s.repo.UpdateDrawing(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDrawingNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *DrawingService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.repo.DeleteDrawing(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDrawingNotFound
		}
		return err
	}
	return nil
}

// MostRecentImage returns "" without error when the drawing has no image
// messages yet.
func (s *DrawingService) MostRecentImage(ctx context.Context, drawingID uuid.UUID) (string, error) {
	url, err := s.repo.GetMostRecentImageForDrawing(ctx, drawingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return url, nil
}
