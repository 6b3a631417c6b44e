package ai

import (
	"context"
	"errors"
	"io"
	"strings"

	"drawit_backend/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

const (
	coachInstruction = "You are a friendly, encouraging art coach for the Draw It! app. " +
		"Give specific, actionable feedback on drawings and answer questions about " +
		"drawing technique. Keep replies short and positive, and always suggest one " +
		"concrete next step the artist can try."

	coachHistoryLimit = 10
	coachMaxTokens    = 500
	coachTemperature  = 0.7
)

type Config struct {
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl"`
}

// completionAPI is the slice of the OpenAI client the service layer uses;
// *openai.Client satisfies it.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionStream, error)
	CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error)
}

// Client wraps the hosted chat-completion and image-generation endpoints.
type Client struct {
	api completionAPI
}

func NewClient(cfg Config) *Client {
	oCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oCfg.BaseURL = cfg.BaseURL
	}
	return &Client{api: openai.NewClientWithConfig(oCfg)}
}

// CreateChatCompletion forwards a raw completion request, used by the AI
// proxy route.
func (c *Client) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return c.api.CreateChatCompletion(ctx, req)
}

// CreateImage forwards a raw image request, used by the AI proxy route.
func (c *Client) CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error) {
	return c.api.CreateImage(ctx, req)
}

func coachMessages(history []*model.ChatMessage, userText string) []openai.ChatCompletionMessage {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: coachInstruction},
	}

	if len(history) > coachHistoryLimit {
		history = history[len(history)-coachHistoryLimit:]
	}
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Sender == model.SenderAI {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Text})
	}

	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})
}

// CoachReply produces one complete drawing-coach reply for a chat turn.
func (c *Client) CoachReply(ctx context.Context, history []*model.ChatMessage, userText string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       openai.GPT4o,
		Messages:    coachMessages(history, userText),
		MaxTokens:   coachMaxTokens,
		Temperature: coachTemperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// StreamCoachReply streams the coach reply, invoking onDelta for each
// content fragment. The assembled reply is returned even when the stream
// fails midway so the caller can persist what arrived.
func (c *Client) StreamCoachReply(ctx context.Context, history []*model.ChatMessage, userText string, onDelta func(string) error) (string, error) {
	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       openai.GPT4o,
		Messages:    coachMessages(history, userText),
		MaxTokens:   coachMaxTokens,
		Temperature: coachTemperature,
		Stream:      true,
	})
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return full.String(), recvErr
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if err := onDelta(delta); err != nil {
			return full.String(), err
		}
	}

	return full.String(), nil
}
