package service

import (
	"context"
	"testing"
	"time"

	"drawit_backend/internal/model"
	"drawit_backend/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProfileService_RecordActivity(t *testing.T) {
	userID := uuid.New()
	today := "2025-06-15"
	yesterday := "2025-06-14"
	lastWeek := "2025-06-08"

	tests := []struct {
		name            string
		profile         *model.Profile
		mockSetup       func(repo *mocks.MockProfileRepository, profile *model.Profile)
		expectedCurrent int
		expectedLongest int
	}{
		{
			name: "First ever activity starts the streak",
			profile: &model.Profile{
				ID:               userID,
				CurrentStreak:    0,
				LongestStreak:    0,
				LastStreakUpdate: nil,
			},
			mockSetup: func(repo *mocks.MockProfileRepository, profile *model.Profile) {
				repo.On("GetProfile", mock.Anything, userID).Return(profile, nil)
				repo.On("UpdateStreak", mock.Anything, userID, 1, 1, today).Return(nil)
			},
			expectedCurrent: 1,
			expectedLongest: 1,
		},
		{
			name: "Second activity on the same day is a no-op",
			profile: &model.Profile{
				ID:               userID,
				CurrentStreak:    3,
				LongestStreak:    5,
				LastStreakUpdate: &today,
			},
			mockSetup: func(repo *mocks.MockProfileRepository, profile *model.Profile) {
				repo.On("GetProfile", mock.Anything, userID).Return(profile, nil)
			},
			expectedCurrent: 3,
			expectedLongest: 5,
		},
		{
			name: "Consecutive day extends the streak",
			profile: &model.Profile{
				ID:               userID,
				CurrentStreak:    3,
				LongestStreak:    5,
				LastStreakUpdate: &yesterday,
			},
			mockSetup: func(repo *mocks.MockProfileRepository, profile *model.Profile) {
				repo.On("GetProfile", mock.Anything, userID).Return(profile, nil)
				repo.On("UpdateStreak", mock.Anything, userID, 4, 5, today).Return(nil)
			},
			expectedCurrent: 4,
			expectedLongest: 5,
		},
		{
			name: "Extension past the longest updates the record",
			profile: &model.Profile{
				ID:               userID,
				CurrentStreak:    5,
				LongestStreak:    5,
				LastStreakUpdate: &yesterday,
			},
			mockSetup: func(repo *mocks.MockProfileRepository, profile *model.Profile) {
				repo.On("GetProfile", mock.Anything, userID).Return(profile, nil)
				repo.On("UpdateStreak", mock.Anything, userID, 6, 6, today).Return(nil)
			},
			expectedCurrent: 6,
			expectedLongest: 6,
		},
		{
			name: "Gap resets the streak to one",
			profile: &model.Profile{
				ID:               userID,
				CurrentStreak:    7,
				LongestStreak:    9,
				LastStreakUpdate: &lastWeek,
			},
			mockSetup: func(repo *mocks.MockProfileRepository, profile *model.Profile) {
				repo.On("GetProfile", mock.Anything, userID).Return(profile, nil)
				repo.On("UpdateStreak", mock.Anything, userID, 1, 9, today).Return(nil)
			},
			expectedCurrent: 1,
			expectedLongest: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockProfileRepository{}
			tt.mockSetup(mockRepo, tt.profile)

			service := NewProfileService(mockRepo)
			service.now = func() time.Time {
				return time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
			}

			profile, err := service.RecordActivity(context.Background(), userID)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedCurrent, profile.CurrentStreak)
			assert.Equal(t, tt.expectedLongest, profile.LongestStreak)
			assert.NotNil(t, profile.LastStreakUpdate)
			assert.Equal(t, today, *profile.LastStreakUpdate)

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestProfileService_IsStreakSafe(t *testing.T) {
	userID := uuid.New()
	today := "2025-06-15"
	yesterday := "2025-06-14"

	tests := []struct {
		name     string
		last     *string
		expected bool
	}{
		{name: "Recorded today", last: &today, expected: true},
		{name: "Recorded yesterday", last: &yesterday, expected: false},
		{name: "Never recorded", last: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockProfileRepository{}
			mockRepo.On("GetProfile", mock.Anything, userID).
				Return(&model.Profile{ID: userID, LastStreakUpdate: tt.last}, nil)

			service := NewProfileService(mockRepo)
			service.now = func() time.Time {
				return time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
			}

			safe, err := service.IsStreakSafe(context.Background(), userID)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, safe)
		})
	}
}
