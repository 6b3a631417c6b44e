package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"drawit_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type profile struct {
	ID                uuid.UUID `db:"id"`
	Name              string    `db:"name"`
	Email             string    `db:"email"`
	ProfilePictureURL *string   `db:"profile_picture_url"`
	CurrentStreak     int       `db:"current_streak"`
	LongestStreak     int       `db:"longest_streak"`
	TotalDrawings     int       `db:"total_drawings"`
	AverageScore      float64   `db:"average_score"`
	TotalMinutes      int       `db:"total_minutes"`
	Level             int       `db:"level"`
	ExperiencePoints  int       `db:"experience_points"`
	ProStatus         bool      `db:"pro_status"`
	LastStreakUpdate  *string   `db:"last_streak_update"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

var profileColumns = []string{
	"id",
	"name",
	"email",
	"profile_picture_url",
	"current_streak",
	"longest_streak",
	"total_drawings",
	"average_score",
	"total_minutes",
	"level",
	"experience_points",
	"pro_status",
	"last_streak_update::text AS last_streak_update",
	"created_at",
	"updated_at",
}

func (p *profile) toModel() *model.Profile {
	return &model.Profile{
		ID:                p.ID,
		Name:              p.Name,
		Email:             p.Email,
		ProfilePictureURL: p.ProfilePictureURL,
		CurrentStreak:     p.CurrentStreak,
		LongestStreak:     p.LongestStreak,
		TotalDrawings:     p.TotalDrawings,
		AverageScore:      p.AverageScore,
		TotalMinutes:      p.TotalMinutes,
		Level:             p.Level,
		ExperiencePoints:  p.ExperiencePoints,
		ProStatus:         p.ProStatus,
		LastStreakUpdate:  p.LastStreakUpdate,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (r *Repository) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	query, args, err := squirrel.
		Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var p profile
	err = r.db.GetContext(ctx, &p, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return p.toModel(), nil
}

func (r *Repository) UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (*model.Profile, error) {
	fields["updated_at"] = squirrel.Expr("now()")

	query, args, err := squirrel.
		Update("profiles").
		SetMap(fields).
		Where(squirrel.Eq{"id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}

	return r.GetProfile(ctx, userID)
}

// UpdateStreak persists the streak fields computed by the service layer.
func (r *Repository) UpdateStreak(ctx context.Context, userID uuid.UUID, current, longest int, lastUpdate string) error {
	query, args, err := squirrel.
		Update("profiles").
		SetMap(map[string]interface{}{
			"current_streak":     current,
			"longest_streak":     longest,
			"last_streak_update": lastUpdate,
			"updated_at":         squirrel.Expr("now()"),
		}).
		Where(squirrel.Eq{"id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Repository) CountUserDrawings(ctx context.Context, userID uuid.UUID) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("drawings").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, err
	}

	return count, nil
}
