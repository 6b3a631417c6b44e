package api

import (
	"errors"
	"net/http"

	"drawit_backend/internal/model"
	"drawit_backend/internal/service"
	"drawit_backend/pkg/auth"
	"drawit_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type profileRoutes struct {
	ps service.ProfileServiceI
	a  *auth.TokenAuth
}

func NewProfileRoutes(handler *gin.RouterGroup, ps service.ProfileServiceI, a *auth.TokenAuth) {
	r := &profileRoutes{ps: ps, a: a}
	h := handler.Group("/profile")
	h.Use(a.AuthMiddleware())
	{
		h.GET("", r.GetProfile)
		h.PATCH("", r.UpdateProfile)
		h.GET("/streak-safe", r.GetStreakSafe)
	}
}

type ProfileResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
	CurrentStreak     int     `json:"current_streak"`
	LongestStreak     int     `json:"longest_streak"`
	TotalDrawings     int     `json:"total_drawings"`
	AverageScore      float64 `json:"average_score"`
	TotalMinutes      int     `json:"total_minutes"`
	Level             int     `json:"level"`
	ExperiencePoints  int     `json:"experience_points"`
	ProStatus         bool    `json:"pro_status"`
	LastStreakUpdate  *string `json:"last_streak_update,omitempty"`
}

func toProfileResponse(p *model.Profile) ProfileResponse {
	return ProfileResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		Email:             p.Email,
		ProfilePictureURL: p.ProfilePictureURL,
		CurrentStreak:     p.CurrentStreak,
		LongestStreak:     p.LongestStreak,
		TotalDrawings:     p.TotalDrawings,
		AverageScore:      p.AverageScore,
		TotalMinutes:      p.TotalMinutes,
		Level:             p.Level,
		ExperiencePoints:  p.ExperiencePoints,
		ProStatus:         p.ProStatus,
		LastStreakUpdate:  p.LastStreakUpdate,
	}
}

func (r *profileRoutes) GetProfile(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	profile, err := r.ps.Get(c.Request.Context(), user.ID)
	if err != nil {
		r.writeProfileError(c, err, "failed to get profile")
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}

type UpdateProfileRequest struct {
	Name              *string `json:"name"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

func (r *profileRoutes) UpdateProfile(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name == nil && req.ProfilePictureURL == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	profile, err := r.ps.Update(c.Request.Context(), user.ID, req.Name, req.ProfilePictureURL)
	if err != nil {
		r.writeProfileError(c, err, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}

func (r *profileRoutes) GetStreakSafe(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	safe, err := r.ps.IsStreakSafe(c.Request.Context(), user.ID)
	if err != nil {
		r.writeProfileError(c, err, "failed to check streak")
		return
	}

	c.JSON(http.StatusOK, gin.H{"streak_safe": safe})
}

func (r *profileRoutes) writeProfileError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	logger.Logger().Error(fallback, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}
