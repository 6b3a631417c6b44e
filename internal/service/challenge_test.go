package service

import (
	"context"
	"testing"
	"time"

	"drawit_backend/internal/model"
	"drawit_backend/internal/repository"
	"drawit_backend/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
}

func TestChallengeService_Today(t *testing.T) {
	const today = "2025-06-15"

	thumbnail := "https://img.example.com/ref.png"
	existing := &model.DailyChallenge{
		ChallengeDate: today,
		Title:         "Draw a Lighthouse",
		Prompt:        "Draw a lighthouse at dusk",
		Difficulty:    model.DifficultyMedium,
	}

	tests := []struct {
		name            string
		mockSetup       func(repo *mocks.MockChallengeRepository, gen *mocks.MockChallengeGenerator)
		expectedError   error
		checkAdditional func(*testing.T, *model.DailyChallenge)
	}{
		{
			name: "Existing challenge returned as-is",
			mockSetup: func(repo *mocks.MockChallengeRepository, gen *mocks.MockChallengeGenerator) {
				repo.On("GetChallengeByDate", mock.Anything, today).
					Return(existing, nil)
			},
			checkAdditional: func(t *testing.T, c *model.DailyChallenge) {
				assert.Equal(t, "Draw a Lighthouse", c.Title)
			},
		},
		{
			name: "No challenge yet, generated and persisted",
			mockSetup: func(repo *mocks.MockChallengeRepository, gen *mocks.MockChallengeGenerator) {
				repo.On("GetChallengeByDate", mock.Anything, today).
					Return(nil, repository.ErrNotFound)
				repo.On("GetLatestChallenge", mock.Anything).
					Return(&model.DailyChallenge{Title: "Draw a Lighthouse"}, nil)

				gen.On("Generate", mock.Anything, "Draw a Lighthouse").
					Return(&model.GeneratedChallenge{
						Title:       "Draw a Dancing Fox",
						Description: "Sketch a fox mid-leap",
						Tip:         "Start with simple shapes",
						ImageURL:    thumbnail,
					}, nil)

				repo.On("CreateChallenge", mock.Anything, mock.MatchedBy(func(c *model.DailyChallenge) bool {
					return c.ChallengeDate == today &&
						c.Title == "Draw a Dancing Fox" &&
						c.Difficulty == model.DifficultyMedium &&
						c.ThumbnailURL != nil && *c.ThumbnailURL == thumbnail
				})).Return(&model.DailyChallenge{
					ChallengeDate: today,
					Title:         "Draw a Dancing Fox",
					Difficulty:    model.DifficultyMedium,
					ThumbnailURL:  &thumbnail,
				}, nil)
			},
			checkAdditional: func(t *testing.T, c *model.DailyChallenge) {
				assert.Equal(t, "Draw a Dancing Fox", c.Title)
				assert.NotNil(t, c.ThumbnailURL)
			},
		},
		{
			name: "Insert conflict falls through to update",
			mockSetup: func(repo *mocks.MockChallengeRepository, gen *mocks.MockChallengeGenerator) {
				repo.On("GetChallengeByDate", mock.Anything, today).
					Return(nil, repository.ErrNotFound)
				repo.On("GetLatestChallenge", mock.Anything).
					Return(nil, repository.ErrNotFound)

				gen.On("Generate", mock.Anything, "").
					Return(&model.GeneratedChallenge{
						Title:       "Draw a Rainy Street",
						Description: "Capture reflections on wet pavement",
						ImageURL:    thumbnail,
					}, nil)

				repo.On("CreateChallenge", mock.Anything, mock.Anything).
					Return(nil, repository.ErrChallengeExists)
				repo.On("UpdateChallenge", mock.Anything, today, mock.MatchedBy(func(c *model.DailyChallenge) bool {
					return c.Title == "Draw a Rainy Street"
				})).Return(&model.DailyChallenge{
					ChallengeDate: today,
					Title:         "Draw a Rainy Street",
				}, nil)
			},
			checkAdditional: func(t *testing.T, c *model.DailyChallenge) {
				assert.Equal(t, "Draw a Rainy Street", c.Title)
			},
		},
		{
			name: "Generation failure serves fallback without persisting",
			mockSetup: func(repo *mocks.MockChallengeRepository, gen *mocks.MockChallengeGenerator) {
				repo.On("GetChallengeByDate", mock.Anything, today).
					Return(nil, repository.ErrNotFound)
				repo.On("GetLatestChallenge", mock.Anything).
					Return(nil, repository.ErrNotFound)

				gen.On("Generate", mock.Anything, "").
					Return(nil, assert.AnError)
			},
			checkAdditional: func(t *testing.T, c *model.DailyChallenge) {
				assert.Equal(t, "Daily Drawing Challenge", c.Title)
				assert.Equal(t, "Draw something that makes you happy today!", c.Prompt)
				assert.Equal(t, model.DifficultyEasy, c.Difficulty)
				assert.Nil(t, c.ThumbnailURL)
				assert.Equal(t, today, c.ChallengeDate)
			},
		},
		{
			name: "Persistence failure serves fallback",
			mockSetup: func(repo *mocks.MockChallengeRepository, gen *mocks.MockChallengeGenerator) {
				repo.On("GetChallengeByDate", mock.Anything, today).
					Return(nil, repository.ErrNotFound)
				repo.On("GetLatestChallenge", mock.Anything).
					Return(nil, repository.ErrNotFound)

				gen.On("Generate", mock.Anything, "").
					Return(&model.GeneratedChallenge{Title: "Draw a Cloud"}, nil)

				repo.On("CreateChallenge", mock.Anything, mock.Anything).
					Return(nil, assert.AnError)
			},
			checkAdditional: func(t *testing.T, c *model.DailyChallenge) {
				assert.Equal(t, "Daily Drawing Challenge", c.Title)
			},
		},
		{
			name: "Repository read error is returned",
			mockSetup: func(repo *mocks.MockChallengeRepository, gen *mocks.MockChallengeGenerator) {
				repo.On("GetChallengeByDate", mock.Anything, today).
					Return(nil, assert.AnError)
			},
			expectedError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockChallengeRepository{}
			mockGen := &mocks.MockChallengeGenerator{}
			tt.mockSetup(mockRepo, mockGen)

			service := NewChallengeService(mockRepo, mockGen)
			service.now = fixedNow

			challenge, err := service.Today(context.Background())

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, challenge)

			if tt.checkAdditional != nil {
				tt.checkAdditional(t, challenge)
			}

			mockRepo.AssertExpectations(t)
			mockGen.AssertExpectations(t)
		})
	}
}

func TestChallengeService_Regenerate(t *testing.T) {
	const today = "2025-06-15"

	tests := []struct {
		name          string
		mockSetup     func(repo *mocks.MockChallengeRepository, gen *mocks.MockChallengeGenerator)
		expectedError error
		expectedTitle string
	}{
		{
			name: "Delete settles immediately, new challenge persisted",
			mockSetup: func(repo *mocks.MockChallengeRepository, gen *mocks.MockChallengeGenerator) {
				repo.On("DeleteChallenge", mock.Anything, today).Return(nil)
				repo.On("GetChallengeByDate", mock.Anything, today).
					Return(nil, repository.ErrNotFound)
				repo.On("GetLatestChallenge", mock.Anything).
					Return(nil, repository.ErrNotFound)

				gen.On("Generate", mock.Anything, "").
					Return(&model.GeneratedChallenge{Title: "Draw a Mountain"}, nil)

				repo.On("CreateChallenge", mock.Anything, mock.Anything).
					Return(&model.DailyChallenge{ChallengeDate: today, Title: "Draw a Mountain"}, nil)
			},
			expectedTitle: "Draw a Mountain",
		},
		{
			name: "No existing row, delete is a no-op",
			mockSetup: func(repo *mocks.MockChallengeRepository, gen *mocks.MockChallengeGenerator) {
				repo.On("DeleteChallenge", mock.Anything, today).Return(nil)
				repo.On("GetChallengeByDate", mock.Anything, today).
					Return(nil, repository.ErrNotFound)
				repo.On("GetLatestChallenge", mock.Anything).
					Return(nil, repository.ErrNotFound)

				gen.On("Generate", mock.Anything, "").
					Return(&model.GeneratedChallenge{Title: "Draw a River"}, nil)

				repo.On("CreateChallenge", mock.Anything, mock.Anything).
					Return(&model.DailyChallenge{ChallengeDate: today, Title: "Draw a River"}, nil)
			},
			expectedTitle: "Draw a River",
		},
		{
			name: "Delete failure aborts regeneration",
			mockSetup: func(repo *mocks.MockChallengeRepository, gen *mocks.MockChallengeGenerator) {
				repo.On("DeleteChallenge", mock.Anything, today).Return(assert.AnError)
			},
			expectedError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockChallengeRepository{}
			mockGen := &mocks.MockChallengeGenerator{}
			tt.mockSetup(mockRepo, mockGen)

			service := NewChallengeService(mockRepo, mockGen)
			service.now = fixedNow
			service.pollInterval = time.Millisecond

			challenge, err := service.Regenerate(context.Background())

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedTitle, challenge.Title)

			mockRepo.AssertExpectations(t)
			mockGen.AssertExpectations(t)
		})
	}
}

func TestChallengeService_Upcoming(t *testing.T) {
	mockRepo := &mocks.MockChallengeRepository{}
	mockGen := &mocks.MockChallengeGenerator{}

	mockRepo.On("ListChallenges", mock.Anything).Return([]*model.DailyChallenge{
		{ChallengeDate: "2025-06-14", Title: "Yesterday"},
		{ChallengeDate: "2025-06-15", Title: "Today"},
		{ChallengeDate: "2025-06-16", Title: "Tomorrow"},
		{ChallengeDate: "2025-06-22", Title: "In a week"},
		{ChallengeDate: "2025-06-23", Title: "Too far"},
	}, nil)

	service := NewChallengeService(mockRepo, mockGen)
	service.now = fixedNow

	upcoming, err := service.Upcoming(context.Background(), 7)

	assert.NoError(t, err)
	assert.Len(t, upcoming, 2)
	assert.Equal(t, "Tomorrow", upcoming[0].Title)
	assert.Equal(t, "In a week", upcoming[1].Title)

	mockRepo.AssertExpectations(t)
}
