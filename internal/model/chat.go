package model

import (
	"time"

	"github.com/google/uuid"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeImage    MessageType = "image"
	MessageTypeFeedback MessageType = "feedback"
)

type ChatSession struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	DrawingID *uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ChatMessage struct {
	ID            uuid.UUID
	ChatSessionID uuid.UUID
	Text          string
	Sender        Sender
	MessageType   MessageType
	ImageURL      *string
	CreatedAt     time.Time
}
