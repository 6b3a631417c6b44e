package model

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID                uuid.UUID
	Name              string
	Email             string
	ProfilePictureURL *string
	CurrentStreak     int
	LongestStreak     int
	TotalDrawings     int
	AverageScore      float64
	TotalMinutes      int
	Level             int
	ExperiencePoints  int
	ProStatus         bool
	// LastStreakUpdate is a YYYY-MM-DD calendar date, nil until the first
	// recorded activity.
	LastStreakUpdate *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
