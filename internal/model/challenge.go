package model

import (
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DailyChallenge is the single global drawing prompt for one calendar date.
// ChallengeDate is a plain YYYY-MM-DD string evaluated in the user's local
// calendar, unique across the table.
type DailyChallenge struct {
	ID            uuid.UUID
	ChallengeDate string
	Title         string
	Prompt        string
	Difficulty    Difficulty
	EstimatedTime *int
	ThumbnailURL  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GeneratedChallenge is the parsed output of one generation run, before it
// is persisted as a DailyChallenge row.
type GeneratedChallenge struct {
	Title       string
	Description string
	Tip         string
	Bonus       string
	ImagePrompt string
	ImageURL    string
}

// FullPrompt folds the tip and bonus lines into the stored prompt text the
// same way the mobile client renders them.
func (g *GeneratedChallenge) FullPrompt() string {
	prompt := g.Description
	if g.Tip != "" {
		prompt += "\n\nTip: " + g.Tip
	}
	if g.Bonus != "" {
		prompt += "\n\nBonus: " + g.Bonus
	}
	return prompt
}
