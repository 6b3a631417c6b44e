package model

import (
	"time"

	"github.com/google/uuid"
)

type Drawing struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Title            string
	ImageURL         *string
	Prompt           *string
	AIFeedback       *string
	AIScore          *int
	IsDailyChallenge bool
	IsCompareFeature bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DrawingUpdate carries the mutable fields; nil means "leave unchanged".
type DrawingUpdate struct {
	Title      *string
	ImageURL   *string
	AIFeedback *string
	AIScore    *int
}
