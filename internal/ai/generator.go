package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"drawit_backend/internal/model"
	"drawit_backend/pkg/logger"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var (
	ErrMalformedGeneration = errors.New("challenge response missing IMAGE_PROMPT marker")
	ErrImageGeneration     = errors.New("no image url in generation response")
	ErrEmptyGeneration     = errors.New("empty challenge response")
)

const (
	// SentinelMarker splits the human-readable challenge text from the
	// reference-image prompt in the model output.
	SentinelMarker = "IMAGE_PROMPT:"

	challengeModel       = openai.GPT4o
	imageModel           = openai.CreateImageModelDallE3
	challengeMaxTokens   = 300
	metaPromptMaxTokens  = 300
	challengeTemperature = 0.8
	metaTemperature      = 0.7

	DefaultChallengeTitle  = "Daily Drawing Challenge"
	DefaultChallengePrompt = "Draw something creative today!"

	imageStyleSuffix = ", simple artistic reference, clean composition, suitable for drawing practice"
)

const initialChallengeInstruction = "You are a creative art educator who designs fun, engaging daily " +
	"drawing challenges for artists of all ages and skill levels. Generate a unique, specific drawing " +
	"challenge that is family-friendly and achievable in 15-30 minutes. Make it creative and varied - " +
	"it could be about nature, objects, people, fantasy, patterns, or anything interesting. IMPORTANT: " +
	"Avoid generating copyrighted characters from movies/TV/games/comics, brand logos, trademarks, or " +
	"celebrity likenesses. If a user requests copyrighted content, suggest a similar generic " +
	"alternative. Focus on original, creative subjects like animals, landscapes, objects, and fantasy " +
	"creatures. Format as: **Today's Challenge:** [5-10 word prompt], **Description:** [1-2 sentences], " +
	"**Tip:** [helpful technique], **Bonus:** [creative twist]. End with 'IMAGE_PROMPT:' followed by a " +
	"concise description for generating a reference image."

const varietyInstruction = "You are an expert at creating variety in educational content. Given a " +
	"previous drawing challenge, create a system prompt for generating tomorrow's challenge that will " +
	"be DIFFERENT and COMPLEMENTARY. Consider what topic, style, or theme would provide good variety. " +
	"IMPORTANT: Ensure the generated prompt instructs to avoid copyrighted characters from " +
	"movies/TV/games/comics, brand logos, trademarks, or celebrity likenesses. The prompt should focus " +
	"on original, creative subjects like animals, landscapes, objects, and fantasy creatures."

var (
	titleRe       = regexp.MustCompile(`\*\*Today's Challenge:\*\*\s*(.+)`)
	descriptionRe = regexp.MustCompile(`\*\*Description:\*\*\s*(.+)`)
	tipRe         = regexp.MustCompile(`\*\*Tip:\*\*\s*(.+)`)
	bonusRe       = regexp.MustCompile(`\*\*Bonus:\*\*\s*(.+)`)
)

// Generator runs the three-call generation chain: optional variety
// meta-prompt, challenge text, reference image. It performs no retries; a
// single failed call aborts the whole run.
type Generator struct {
	api completionAPI
}

func NewGenerator(client *Client) *Generator {
	return &Generator{api: client.api}
}

// Generate produces a complete challenge. previousTitle, when non-empty,
// feeds the variety step so consecutive days do not repeat a theme.
func (g *Generator) Generate(ctx context.Context, previousTitle string) (*model.GeneratedChallenge, error) {
	instruction := g.systemInstruction(ctx, previousTitle)

	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: challengeModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: "Generate today's drawing challenge."},
		},
		MaxTokens:   challengeMaxTokens,
		Temperature: challengeTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("challenge completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, ErrEmptyGeneration
	}

	generated, err := ParseChallengeResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	imageResp, err := g.api.CreateImage(ctx, openai.ImageRequest{
		Model:  imageModel,
		Prompt: generated.ImagePrompt + imageStyleSuffix,
		Size:   openai.CreateImageSize1024x1024,
		N:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("reference image generation failed: %w", err)
	}
	if len(imageResp.Data) == 0 || imageResp.Data[0].URL == "" {
		return nil, ErrImageGeneration
	}
	generated.ImageURL = imageResp.Data[0].URL

	return generated, nil
}

// systemInstruction asks the model for a variant instruction that avoids
// repeating the previous day's theme. Any failure in this optional step
// falls back to the fixed instruction.
func (g *Generator) systemInstruction(ctx context.Context, previousTitle string) string {
	if previousTitle == "" {
		return initialChallengeInstruction
	}

	userPrompt := fmt.Sprintf("The previous challenge was: %q. Create a system prompt (200 words max) "+
		"for an AI that will generate tomorrow's drawing challenge. The prompt should guide the AI to "+
		"create something different from the previous challenge to ensure variety. The format should "+
		"remain: **Today's Challenge:** [prompt], **Description:** [text], **Tip:** [text], "+
		"**Bonus:** [text], IMAGE_PROMPT: [description].", previousTitle)

	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: challengeModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: varietyInstruction},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   metaPromptMaxTokens,
		Temperature: metaTemperature,
	})
	if err != nil {
		logger.Logger().Warn("variety meta-prompt failed, using static instruction", zap.Error(err))
		return initialChallengeInstruction
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return initialChallengeInstruction
	}

	return resp.Choices[0].Message.Content
}

// ParseChallengeResponse splits the raw completion on the sentinel marker
// and extracts the labeled fields. Missing fields fall back to defaults;
// only a missing marker fails the parse.
func ParseChallengeResponse(raw string) (*model.GeneratedChallenge, error) {
	markerIdx := strings.Index(raw, SentinelMarker)
	if markerIdx == -1 {
		return nil, ErrMalformedGeneration
	}

	challengeText := strings.TrimSpace(raw[:markerIdx])
	imagePrompt := strings.TrimSpace(raw[markerIdx+len(SentinelMarker):])

	generated := &model.GeneratedChallenge{
		Title:       DefaultChallengeTitle,
		Description: DefaultChallengePrompt,
		ImagePrompt: imagePrompt,
	}

	if m := titleRe.FindStringSubmatch(challengeText); m != nil {
		generated.Title = strings.TrimSpace(m[1])
	}
	if m := descriptionRe.FindStringSubmatch(challengeText); m != nil {
		generated.Description = strings.TrimSpace(m[1])
	}
	if m := tipRe.FindStringSubmatch(challengeText); m != nil {
		generated.Tip = strings.TrimSpace(m[1])
	}
	if m := bonusRe.FindStringSubmatch(challengeText); m != nil {
		generated.Bonus = strings.TrimSpace(m[1])
	}

	return generated, nil
}
