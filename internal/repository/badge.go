package repository

import (
	"context"
	"time"

	"drawit_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type badge struct {
	ID               uuid.UUID `db:"id"`
	Name             string    `db:"name"`
	Description      string    `db:"description"`
	IconURL          string    `db:"icon_url"`
	RequirementCount int       `db:"requirement_count"`
	RequirementType  string    `db:"requirement_type"`
	Color            string    `db:"color"`
	CreatedAt        time.Time `db:"created_at"`
}

type userBadge struct {
	ID       uuid.UUID `db:"id"`
	UserID   uuid.UUID `db:"user_id"`
	BadgeID  uuid.UUID `db:"badge_id"`
	EarnedAt time.Time `db:"earned_at"`
}

func (r *Repository) ListBadges(ctx context.Context) ([]*model.Badge, error) {
	query, args, err := squirrel.
		Select("*").
		From("badges").
		OrderBy("requirement_count ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var badges []badge
	err = r.db.SelectContext(ctx, &badges, query, args...)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Badge, len(badges))
	for i, b := range badges {
		out[i] = &model.Badge{
			ID:               b.ID,
			Name:             b.Name,
			Description:      b.Description,
			IconURL:          b.IconURL,
			RequirementCount: b.RequirementCount,
			RequirementType:  b.RequirementType,
			Color:            b.Color,
			CreatedAt:        b.CreatedAt,
		}
	}
	return out, nil
}

func (r *Repository) ListUserBadges(ctx context.Context, userID uuid.UUID) ([]*model.UserBadge, error) {
	query, args, err := squirrel.
		Select("*").
		From("user_badges").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var badges []userBadge
	err = r.db.SelectContext(ctx, &badges, query, args...)
	if err != nil {
		return nil, err
	}

	out := make([]*model.UserBadge, len(badges))
	for i, b := range badges {
		out[i] = &model.UserBadge{
			ID:       b.ID,
			UserID:   b.UserID,
			BadgeID:  b.BadgeID,
			EarnedAt: b.EarnedAt,
		}
	}
	return out, nil
}

// CreateUserBadge records an earned badge. A second earn of the same badge
// hits the (user_id, badge_id) unique key and maps to ErrBadgeAlreadyOwned.
func (r *Repository) CreateUserBadge(ctx context.Context, userID, badgeID uuid.UUID) (*model.UserBadge, error) {
	ub := &model.UserBadge{
		ID:      uuid.New(),
		UserID:  userID,
		BadgeID: badgeID,
	}

	query, args, err := squirrel.
		Insert("user_badges").
		SetMap(map[string]interface{}{
			"id":       ub.ID,
			"user_id":  userID,
			"badge_id": badgeID,
		}).
		Suffix("RETURNING earned_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&ub.EarnedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrBadgeAlreadyOwned
		}
		return nil, err
	}

	return ub, nil
}
