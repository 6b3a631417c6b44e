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

type dailyChallenge struct {
	ID            uuid.UUID  `db:"id"`
	ChallengeDate string     `db:"challenge_date"`
	Title         string     `db:"title"`
	Prompt        string     `db:"prompt"`
	Difficulty    string     `db:"difficulty"`
	EstimatedTime *int       `db:"estimated_time"`
	ThumbnailURL  *string    `db:"thumbnail_url"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

var challengeColumns = []string{
	"id",
	"challenge_date::text AS challenge_date",
	"title",
	"prompt",
	"difficulty",
	"estimated_time",
	"thumbnail_url",
	"created_at",
	"updated_at",
}

func (c *dailyChallenge) toModel() *model.DailyChallenge {
	return &model.DailyChallenge{
		ID:            c.ID,
		ChallengeDate: c.ChallengeDate,
		Title:         c.Title,
		Prompt:        c.Prompt,
		Difficulty:    model.Difficulty(c.Difficulty),
		EstimatedTime: c.EstimatedTime,
		ThumbnailURL:  c.ThumbnailURL,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (r *Repository) GetChallengeByDate(ctx context.Context, date string) (*model.DailyChallenge, error) {
	query, args, err := squirrel.
		Select(challengeColumns...).
		From("daily_challenges").
		Where(squirrel.Eq{"challenge_date": date}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var challenge dailyChallenge
	err = r.db.GetContext(ctx, &challenge, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return challenge.toModel(), nil
}

func (r *Repository) GetLatestChallenge(ctx context.Context) (*model.DailyChallenge, error) {
	query, args, err := squirrel.
		Select(challengeColumns...).
		From("daily_challenges").
		OrderBy("challenge_date DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var challenge dailyChallenge
	err = r.db.GetContext(ctx, &challenge, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return challenge.toModel(), nil
}

func (r *Repository) ListChallenges(ctx context.Context) ([]*model.DailyChallenge, error) {
	query, args, err := squirrel.
		Select(challengeColumns...).
		From("daily_challenges").
		OrderBy("challenge_date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var challenges []dailyChallenge
	err = r.db.SelectContext(ctx, &challenges, query, args...)
	if err != nil {
		return nil, err
	}

	out := make([]*model.DailyChallenge, len(challenges))
	for i := range challenges {
		out[i] = challenges[i].toModel()
	}
	return out, nil
}

func (r *Repository) CreateChallenge(ctx context.Context, challenge *model.DailyChallenge) (*model.DailyChallenge, error) {
	if challenge.ID == uuid.Nil {
		challenge.ID = uuid.New()
	}

	query, args, err := squirrel.
		Insert("daily_challenges").
		SetMap(map[string]interface{}{
			"id":             challenge.ID,
			"challenge_date": challenge.ChallengeDate,
			"title":          challenge.Title,
			"prompt":         challenge.Prompt,
			"difficulty":     string(challenge.Difficulty),
			"estimated_time": challenge.EstimatedTime,
			"thumbnail_url":  challenge.ThumbnailURL,
		}).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&challenge.CreatedAt, &challenge.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrChallengeExists
		}
		return nil, err
	}

	return challenge, nil
}

// UpdateChallenge rewrites the content fields of the row keyed by date.
// Used when a concurrent session created the row first (last-writer-wins).
func (r *Repository) UpdateChallenge(ctx context.Context, date string, challenge *model.DailyChallenge) (*model.DailyChallenge, error) {
	query, args, err := squirrel.
		Update("daily_challenges").
		SetMap(map[string]interface{}{
			"title":         challenge.Title,
			"prompt":        challenge.Prompt,
			"difficulty":    string(challenge.Difficulty),
			"thumbnail_url": challenge.ThumbnailURL,
			"updated_at":    squirrel.Expr("now()"),
		}).
		Where(squirrel.Eq{"challenge_date": date}).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	updated := *challenge
	updated.ChallengeDate = date
	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&updated.ID, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &updated, nil
}

// DeleteChallenge removes the row for date. Deleting an absent row is not
// an error; forced regeneration relies on that.
func (r *Repository) DeleteChallenge(ctx context.Context, date string) error {
	query, args, err := squirrel.
		Delete("daily_challenges").
		Where(squirrel.Eq{"challenge_date": date}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
