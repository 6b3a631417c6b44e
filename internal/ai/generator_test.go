package ai

import (
	"context"
	"testing"

	"drawit_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	openai "github.com/sashabaranov/go-openai"
)

type mockCompletionAPI struct {
	mock.Mock
}

func (m *mockCompletionAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func (m *mockCompletionAPI) CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionStream, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.ChatCompletionStream), args.Error(1)
}

func (m *mockCompletionAPI) CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ImageResponse), args.Error(1)
}

func chatResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestParseChallengeResponse(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		expectedError error
		check         func(*testing.T, *model.GeneratedChallenge)
	}{
		{
			name: "All fields present",
			raw: "**Today's Challenge:** Draw a sleeping cat\n" +
				"**Description:** Capture a curled-up cat mid-nap.\n" +
				"**Tip:** Start with two overlapping ovals.\n" +
				"**Bonus:** Add a patch of sunlight.\n" +
				"IMAGE_PROMPT: a sleeping cat curled on a windowsill",
			check: func(t *testing.T, f *model.GeneratedChallenge) {
				assert.Equal(t, "Draw a sleeping cat", f.Title)
				assert.Equal(t, "Capture a curled-up cat mid-nap.", f.Description)
				assert.Equal(t, "Start with two overlapping ovals.", f.Tip)
				assert.Equal(t, "Add a patch of sunlight.", f.Bonus)
				assert.Equal(t, "a sleeping cat curled on a windowsill", f.ImagePrompt)
			},
		},
		{
			name: "Optional tip and bonus left empty",
			raw: "**Today's Challenge:** Draw a cat\n" +
				"**Description:** Any cat will do.\n" +
				"IMAGE_PROMPT: a simple cat",
			check: func(t *testing.T, f *model.GeneratedChallenge) {
				assert.Equal(t, "Draw a cat", f.Title)
				assert.Equal(t, "", f.Tip)
				assert.Equal(t, "", f.Bonus)
			},
		},
		{
			name: "Missing title and description fall back to defaults",
			raw:  "Some unstructured text.\nIMAGE_PROMPT: abstract shapes",
			check: func(t *testing.T, f *model.GeneratedChallenge) {
				assert.Equal(t, DefaultChallengeTitle, f.Title)
				assert.Equal(t, DefaultChallengePrompt, f.Description)
				assert.Equal(t, "abstract shapes", f.ImagePrompt)
			},
		},
		{
			name:          "Missing sentinel marker fails the parse",
			raw:           "**Today's Challenge:** Draw a cat\n**Description:** No marker here.",
			expectedError: ErrMalformedGeneration,
		},
		{
			name:          "Empty input fails the parse",
			raw:           "",
			expectedError: ErrMalformedGeneration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generated, err := ParseChallengeResponse(tt.raw)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, generated)

			if tt.check != nil {
				tt.check(t, generated)
			}
		})
	}
}

func TestGenerator_Generate(t *testing.T) {
	challengeText := "**Today's Challenge:** Draw a paper boat\n" +
		"**Description:** A boat drifting down a rain gutter.\n" +
		"IMAGE_PROMPT: a paper boat on rainwater"

	tests := []struct {
		name          string
		previousTitle string
		mockSetup     func(api *mockCompletionAPI)
		expectedError bool
		checkResult   func(*testing.T, string, string)
	}{
		{
			name:          "First run skips the variety step",
			previousTitle: "",
			mockSetup: func(api *mockCompletionAPI) {
				api.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
					return req.Messages[0].Content == initialChallengeInstruction
				})).Return(chatResponse(challengeText), nil).Once()

				api.On("CreateImage", mock.Anything, mock.MatchedBy(func(req openai.ImageRequest) bool {
					return req.Prompt == "a paper boat on rainwater"+imageStyleSuffix && req.N == 1
				})).Return(openai.ImageResponse{
					Data: []openai.ImageResponseDataInner{{URL: "https://img.example.com/boat.png"}},
				}, nil).Once()
			},
			checkResult: func(t *testing.T, title, imageURL string) {
				assert.Equal(t, "Draw a paper boat", title)
				assert.Equal(t, "https://img.example.com/boat.png", imageURL)
			},
		},
		{
			name:          "Previous title triggers the variety step",
			previousTitle: "Draw a paper boat",
			mockSetup: func(api *mockCompletionAPI) {
				api.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
					return req.Messages[0].Content == varietyInstruction
				})).Return(chatResponse("Custom variety instruction"), nil).Once()

				api.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
					return req.Messages[0].Content == "Custom variety instruction"
				})).Return(chatResponse(challengeText), nil).Once()

				api.On("CreateImage", mock.Anything, mock.Anything).
					Return(openai.ImageResponse{
						Data: []openai.ImageResponseDataInner{{URL: "https://img.example.com/boat.png"}},
					}, nil).Once()
			},
			checkResult: func(t *testing.T, title, imageURL string) {
				assert.Equal(t, "Draw a paper boat", title)
			},
		},
		{
			name:          "Variety step failure falls back to the static instruction",
			previousTitle: "Draw a paper boat",
			mockSetup: func(api *mockCompletionAPI) {
				api.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
					return req.Messages[0].Content == varietyInstruction
				})).Return(openai.ChatCompletionResponse{}, assert.AnError).Once()

				api.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
					return req.Messages[0].Content == initialChallengeInstruction
				})).Return(chatResponse(challengeText), nil).Once()

				api.On("CreateImage", mock.Anything, mock.Anything).
					Return(openai.ImageResponse{
						Data: []openai.ImageResponseDataInner{{URL: "https://img.example.com/boat.png"}},
					}, nil).Once()
			},
			checkResult: func(t *testing.T, title, imageURL string) {
				assert.Equal(t, "Draw a paper boat", title)
			},
		},
		{
			name:          "Challenge completion failure aborts the run",
			previousTitle: "",
			mockSetup: func(api *mockCompletionAPI) {
				api.On("CreateChatCompletion", mock.Anything, mock.Anything).
					Return(openai.ChatCompletionResponse{}, assert.AnError).Once()
			},
			expectedError: true,
		},
		{
			name:          "Image failure aborts the run",
			previousTitle: "",
			mockSetup: func(api *mockCompletionAPI) {
				api.On("CreateChatCompletion", mock.Anything, mock.Anything).
					Return(chatResponse(challengeText), nil).Once()
				api.On("CreateImage", mock.Anything, mock.Anything).
					Return(openai.ImageResponse{}, assert.AnError).Once()
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockCompletionAPI{}
			tt.mockSetup(api)

			generator := &Generator{api: api}

			generated, err := generator.Generate(context.Background(), tt.previousTitle)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, generated)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, generated)
				if tt.checkResult != nil {
					tt.checkResult(t, generated.Title, generated.ImageURL)
				}
			}

			api.AssertExpectations(t)
		})
	}
}
