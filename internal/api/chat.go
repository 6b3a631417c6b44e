package api

import (
	"errors"
	"net/http"
	"time"

	"drawit_backend/internal/model"
	"drawit_backend/internal/service"
	"drawit_backend/pkg/auth"
	"drawit_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/goccy/go-json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type chatRoutes struct {
	cs service.ChatServiceI
	a  *auth.TokenAuth
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewChatRoutes(handler *gin.RouterGroup, cs service.ChatServiceI, a *auth.TokenAuth) {
	r := &chatRoutes{cs: cs, a: a}

	h := handler.Group("/chat")
	h.Use(a.AuthMiddleware())
	{
		h.POST("/sessions", r.FindOrCreateSession)
		h.GET("/sessions/:session_id", r.GetSession)
		h.DELETE("/sessions/:session_id", r.DeleteSession)
		h.GET("/sessions/:session_id/messages", r.GetMessages)
		h.POST("/sessions/:session_id/messages", r.SendMessage)
	}

	ws := handler.Group("/ws/chat")
	ws.Use(a.AuthMiddleware())
	ws.GET("/:session_id", r.handleWebSocket)
}

type CreateSessionRequest struct {
	DrawingID *string `json:"drawing_id"`
	Title     string  `json:"title"`
}

type SessionResponse struct {
	ID        string  `json:"id"`
	DrawingID *string `json:"drawing_id,omitempty"`
	Title     string  `json:"title"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func toSessionResponse(s *model.ChatSession) SessionResponse {
	resp := SessionResponse{
		ID:        s.ID.String(),
		Title:     s.Title,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
	if s.DrawingID != nil {
		id := s.DrawingID.String()
		resp.DrawingID = &id
	}
	return resp
}

type MessageResponse struct {
	ID          string  `json:"id"`
	Text        string  `json:"text"`
	Sender      string  `json:"sender"`
	MessageType string  `json:"message_type"`
	ImageURL    *string `json:"image_url,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func toMessageResponse(m *model.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:          m.ID.String(),
		Text:        m.Text,
		Sender:      string(m.Sender),
		MessageType: string(m.MessageType),
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}

func (r *chatRoutes) FindOrCreateSession(c *gin.Context) {
	log := logger.Logger()

	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var drawingID *uuid.UUID
	if req.DrawingID != nil {
		parsed, err := uuid.Parse(*req.DrawingID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid drawing_id"})
			return
		}
		drawingID = &parsed
	}

	session, err := r.cs.FindOrCreateSession(c.Request.Context(), user.ID, drawingID, req.Title)
	if err != nil {
		log.Error("failed to find or create chat session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(session))
}

func (r *chatRoutes) GetSession(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_id"})
		return
	}

	session, err := r.cs.Session(c.Request.Context(), user.ID, sessionID)
	if err != nil {
		r.writeChatError(c, err, "failed to get session")
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(session))
}

func (r *chatRoutes) DeleteSession(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_id"})
		return
	}

	if err := r.cs.DeleteSession(c.Request.Context(), user.ID, sessionID); err != nil {
		r.writeChatError(c, err, "failed to delete session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (r *chatRoutes) GetMessages(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_id"})
		return
	}

	messages, err := r.cs.Messages(c.Request.Context(), user.ID, sessionID)
	if err != nil {
		r.writeChatError(c, err, "failed to get messages")
		return
	}

	out := make([]MessageResponse, len(messages))
	for i, msg := range messages {
		out[i] = toMessageResponse(msg)
	}
	c.JSON(http.StatusOK, out)
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (r *chatRoutes) SendMessage(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_id"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	userMsg, aiMsg, err := r.cs.SendMessage(c.Request.Context(), user.ID, sessionID, req.Text)
	if err != nil {
		r.writeChatError(c, err, "failed to send message")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_message": toMessageResponse(userMsg),
		"ai_message":   toMessageResponse(aiMsg),
	})
}

func (r *chatRoutes) writeChatError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrQuotaExceeded):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "daily message limit reached"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	default:
		logger.Logger().Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// wsFrame is one websocket message in either direction. The client sends
// {"text": ...}; the server answers with a stream of type=delta frames,
// then one type=done carrying both persisted messages, or type=error.
type wsFrame struct {
	Type        string           `json:"type"`
	Text        string           `json:"text,omitempty"`
	Delta       string           `json:"delta,omitempty"`
	Error       string           `json:"error,omitempty"`
	UserMessage *MessageResponse `json:"user_message,omitempty"`
	AIMessage   *MessageResponse `json:"ai_message,omitempty"`
}

func (r *chatRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Logger()

	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_id"})
		return
	}

	if _, err := r.cs.Session(c.Request.Context(), user.ID, sessionID); err != nil {
		r.writeChatError(c, err, "failed to open chat stream")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("websocket read failed", zap.Error(err))
			}
			return
		}

		var frame wsFrame
		if err := json.Unmarshal(raw, &frame); err != nil || frame.Text == "" {
			r.writeFrame(conn, wsFrame{Type: "error", Error: "expected {\"text\": ...}"})
			continue
		}

		onDelta := func(delta string) error {
			return r.writeFrame(conn, wsFrame{Type: "delta", Delta: delta})
		}

		userMsg, aiMsg, err := r.cs.SendMessageStream(c.Request.Context(), user.ID, sessionID, frame.Text, onDelta)
		if err != nil {
			log.Error("chat stream turn failed", zap.Error(err),
				zap.String("session_id", sessionID.String()))
			msg := "failed to send message"
			if errors.Is(err, service.ErrQuotaExceeded) {
				msg = "daily message limit reached"
			}
			r.writeFrame(conn, wsFrame{Type: "error", Error: msg})
			continue
		}

		done := wsFrame{Type: "done"}
		if userMsg != nil {
			um := toMessageResponse(userMsg)
			done.UserMessage = &um
		}
		if aiMsg != nil {
			am := toMessageResponse(aiMsg)
			done.AIMessage = &am
		}
		if err := r.writeFrame(conn, done); err != nil {
			return
		}
	}
}

func (r *chatRoutes) writeFrame(conn *websocket.Conn, frame wsFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
