package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"drawit_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type drawing struct {
	ID               uuid.UUID `db:"id"`
	UserID           uuid.UUID `db:"user_id"`
	Title            string    `db:"title"`
	ImageURL         *string   `db:"image_url"`
	Prompt           *string   `db:"prompt"`
	AIFeedback       *string   `db:"ai_feedback"`
	AIScore          *int      `db:"ai_score"`
	IsDailyChallenge bool      `db:"is_daily_challenge"`
	IsCompareFeature bool      `db:"is_compare_feature"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (d *drawing) toModel() *model.Drawing {
	return &model.Drawing{
		ID:               d.ID,
		UserID:           d.UserID,
		Title:            d.Title,
		ImageURL:         d.ImageURL,
		Prompt:           d.Prompt,
		AIFeedback:       d.AIFeedback,
		AIScore:          d.AIScore,
		IsDailyChallenge: d.IsDailyChallenge,
		IsCompareFeature: d.IsCompareFeature,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (r *Repository) ListDrawings(ctx context.Context, userID uuid.UUID) ([]*model.Drawing, error) {
	query, args, err := squirrel.
		Select("*").
		From("drawings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var drawings []drawing
	err = r.db.SelectContext(ctx, &drawings, query, args...)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Drawing, len(drawings))
	for i := range drawings {
		out[i] = drawings[i].toModel()
	}
	return out, nil
}

func (r *Repository) GetDrawing(ctx context.Context, id uuid.UUID) (*model.Drawing, error) {
	query, args, err := squirrel.
		Select("*").
		From("drawings").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var d drawing
	err = r.db.GetContext(ctx, &d, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return d.toModel(), nil
}

func (r *Repository) CreateDrawing(ctx context.Context, d *model.Drawing) (*model.Drawing, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}

	query, args, err := squirrel.
		Insert("drawings").
		SetMap(map[string]interface{}{
			"id":                 d.ID,
			"user_id":            d.UserID,
			"title":              d.Title,
			"image_url":          d.ImageURL,
			"prompt":             d.Prompt,
			"ai_feedback":        d.AIFeedback,
			"ai_score":           d.AIScore,
			"is_daily_challenge": d.IsDailyChallenge,
			"is_compare_feature": d.IsCompareFeature,
		}).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (r *Repository) UpdateDrawing(ctx context.Context, id uuid.UUID, update *model.DrawingUpdate) (*model.Drawing, error) {
	fields := map[string]interface{}{
		"updated_at": squirrel.Expr("now()"),
	}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.ImageURL != nil {
		fields["image_url"] = *update.ImageURL
	}
	if update.AIFeedback != nil {
		fields["ai_feedback"] = *update.AIFeedback
	}
	if update.AIScore != nil {
		fields["ai_score"] = *update.AIScore
	}

	query, args, err := squirrel.
		Update("drawings").
		SetMap(fields).
		Where(squirrel.Eq{"id": id}).
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

	return r.GetDrawing(ctx, id)
}

// DeleteDrawing removes the drawing and every chat session and message
// hanging off it in one transaction.
func (r *Repository) DeleteDrawing(ctx context.Context, userID, id uuid.UUID) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		msgQuery, msgArgs, err := squirrel.
			Delete("chat_messages").
			Where(squirrel.Expr(
				"chat_session_id IN (SELECT id FROM chat_sessions WHERE drawing_id = ?)", id)).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, msgQuery, msgArgs...); err != nil {
			return err
		}

		sessQuery, sessArgs, err := squirrel.
			Delete("chat_sessions").
			Where(squirrel.Eq{"drawing_id": id}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, sessQuery, sessArgs...); err != nil {
			return err
		}

		query, args, err := squirrel.
			Delete("drawings").
			Where(squirrel.Eq{"id": id, "user_id": userID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, query, args...)
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
	})
}

// GetMostRecentImageForDrawing walks the latest session of a drawing for
// its newest image message. Returns ErrNotFound when there is none.
func (r *Repository) GetMostRecentImageForDrawing(ctx context.Context, drawingID uuid.UUID) (string, error) {
	query, args, err := squirrel.
		Select("m.image_url").
		From("chat_messages m").
		Join("chat_sessions s ON s.id = m.chat_session_id").
		Where(squirrel.And{
			squirrel.Eq{"s.drawing_id": drawingID},
			squirrel.Eq{"m.message_type": string(model.MessageTypeImage)},
			squirrel.NotEq{"m.image_url": nil},
		}).
		OrderBy("m.created_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", err
	}

	var imageURL string
	err = r.db.GetContext(ctx, &imageURL, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	return imageURL, nil
}
