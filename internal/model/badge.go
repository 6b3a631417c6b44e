package model

import (
	"time"

	"github.com/google/uuid"
)

type Badge struct {
	ID               uuid.UUID
	Name             string
	Description      string
	IconURL          string
	RequirementCount int
	RequirementType  string
	Color            string
	CreatedAt        time.Time
}

type UserBadge struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	BadgeID  uuid.UUID
	EarnedAt time.Time
}
