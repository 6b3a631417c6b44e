package api

import (
	"net/http"

	"drawit_backend/internal/ai"
	"drawit_backend/pkg/auth"
	"drawit_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
)

type aiRoutes struct {
	client *ai.Client
	a      *auth.TokenAuth
}

func NewAIRoutes(handler *gin.RouterGroup, client *ai.Client, a *auth.TokenAuth) {
	r := &aiRoutes{client: client, a: a}
	h := handler.Group("/ai")
	h.Use(a.AuthMiddleware())
	{
		h.POST("", r.Proxy)
	}
}

const (
	defaultChatModel   = openai.GPT4o
	defaultChatTokens  = 1000
	defaultChatTemp    = 0.7
	defaultImageModel  = openai.CreateImageModelDallE3
	defaultImageSize   = openai.CreateImageSize1024x1024
	defaultImageNumber = 1
)

type aiRequest struct {
	Type        string                         `json:"type"`
	Model       string                         `json:"model"`
	Messages    []openai.ChatCompletionMessage `json:"messages"`
	MaxTokens   int                            `json:"max_tokens"`
	Temperature float32                        `json:"temperature"`
	Prompt      string                         `json:"prompt"`
	Size        string                         `json:"size"`
	N           int                            `json:"n"`
}

// Proxy forwards chat and image requests to the hosted AI service so the
// API key never ships with the client.
func (r *aiRoutes) Proxy(c *gin.Context) {
	log := logger.Logger()

	var req aiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	switch req.Type {
	case "chat":
		if len(req.Messages) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "messages are required for chat requests"})
			return
		}
		if req.Model == "" {
			req.Model = defaultChatModel
		}
		if req.MaxTokens == 0 {
			req.MaxTokens = defaultChatTokens
		}
		if req.Temperature == 0 {
			req.Temperature = defaultChatTemp
		}

		resp, err := r.client.CreateChatCompletion(c.Request.Context(), openai.ChatCompletionRequest{
			Model:       req.Model,
			Messages:    req.Messages,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		})
		if err != nil {
			log.Error("chat completion proxy failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})

	case "image":
		if req.Prompt == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required for image requests"})
			return
		}
		if req.Model == "" {
			req.Model = defaultImageModel
		}
		if req.Size == "" {
			req.Size = defaultImageSize
		}
		if req.N == 0 {
			req.N = defaultImageNumber
		}

		resp, err := r.client.CreateImage(c.Request.Context(), openai.ImageRequest{
			Model:  req.Model,
			Prompt: req.Prompt,
			Size:   req.Size,
			N:      req.N,
		})
		if err != nil {
			log.Error("image generation proxy failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": `Invalid request type. Use "chat" or "image".`})
	}
}
