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

type chatSession struct {
	ID        uuid.UUID  `db:"id"`
	UserID    uuid.UUID  `db:"user_id"`
	DrawingID *uuid.UUID `db:"drawing_id"`
	Title     string     `db:"title"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

type chatMessage struct {
	ID            uuid.UUID `db:"id"`
	ChatSessionID uuid.UUID `db:"chat_session_id"`
	Text          string    `db:"text"`
	Sender        string    `db:"sender"`
	MessageType   string    `db:"message_type"`
	ImageURL      *string   `db:"image_url"`
	CreatedAt     time.Time `db:"created_at"`
}

func (s *chatSession) toModel() *model.ChatSession {
	return &model.ChatSession{
		ID:        s.ID,
		UserID:    s.UserID,
		DrawingID: s.DrawingID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (m *chatMessage) toModel() *model.ChatMessage {
	return &model.ChatMessage{
		ID:            m.ID,
		ChatSessionID: m.ChatSessionID,
		Text:          m.Text,
		Sender:        model.Sender(m.Sender),
		MessageType:   model.MessageType(m.MessageType),
		ImageURL:      m.ImageURL,
		CreatedAt:     m.CreatedAt,
	}
}

func (r *Repository) GetChatSession(ctx context.Context, id uuid.UUID) (*model.ChatSession, error) {
	query, args, err := squirrel.
		Select("*").
		From("chat_sessions").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var session chatSession
	err = r.db.GetContext(ctx, &session, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return session.toModel(), nil
}

// FindSessionForDrawing returns the most recently updated session a user
// has for a drawing. When sinceDate is non-empty only sessions created on
// that calendar date are considered (the daily-challenge case).
func (r *Repository) FindSessionForDrawing(ctx context.Context, userID, drawingID uuid.UUID, sinceDate string) (*model.ChatSession, error) {
	builder := squirrel.
		Select("*").
		From("chat_sessions").
		Where(squirrel.Eq{"user_id": userID, "drawing_id": drawingID})

	if sinceDate != "" {
		builder = builder.Where(squirrel.Expr("created_at::date = ?::date", sinceDate))
	}

	query, args, err := builder.
		OrderBy("updated_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var session chatSession
	err = r.db.GetContext(ctx, &session, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return session.toModel(), nil
}

func (r *Repository) CreateChatSession(ctx context.Context, session *model.ChatSession) (*model.ChatSession, error) {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.Title == "" {
		session.Title = "New Conversation"
	}

	query, args, err := squirrel.
		Insert("chat_sessions").
		SetMap(map[string]interface{}{
			"id":         session.ID,
			"user_id":    session.UserID,
			"drawing_id": session.DrawingID,
			"title":      session.Title,
		}).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (r *Repository) ListChatMessages(ctx context.Context, sessionID uuid.UUID) ([]*model.ChatMessage, error) {
	query, args, err := squirrel.
		Select("*").
		From("chat_messages").
		Where(squirrel.Eq{"chat_session_id": sessionID}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var messages []chatMessage
	err = r.db.SelectContext(ctx, &messages, query, args...)
	if err != nil {
		return nil, err
	}

	out := make([]*model.ChatMessage, len(messages))
	for i := range messages {
		out[i] = messages[i].toModel()
	}
	return out, nil
}

func (r *Repository) CreateChatMessage(ctx context.Context, message *model.ChatMessage) (*model.ChatMessage, error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}

	query, args, err := squirrel.
		Insert("chat_messages").
		SetMap(map[string]interface{}{
			"id":              message.ID,
			"chat_session_id": message.ChatSessionID,
			"text":            message.Text,
			"sender":          string(message.Sender),
			"message_type":    string(message.MessageType),
			"image_url":       message.ImageURL,
		}).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&message.CreatedAt)
	if err != nil {
		return nil, err
	}

	touchQuery, touchArgs, err := squirrel.
		Update("chat_sessions").
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": message.ChatSessionID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	if _, err = r.db.ExecContext(ctx, touchQuery, touchArgs...); err != nil {
		return nil, err
	}

	return message, nil
}

// DeleteChatSession removes a session and its messages. Ownership is
// enforced here so a caller can never delete another user's session.
func (r *Repository) DeleteChatSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	session, err := r.GetChatSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return ErrPermissionDenied
	}

	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		msgQuery, msgArgs, err := squirrel.
			Delete("chat_messages").
			Where(squirrel.Eq{"chat_session_id": sessionID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, msgQuery, msgArgs...); err != nil {
			return err
		}

		query, args, err := squirrel.
			Delete("chat_sessions").
			Where(squirrel.Eq{"id": sessionID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
}
