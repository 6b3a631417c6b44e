package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"drawit_backend/internal/model"
	"drawit_backend/internal/quota"
	"drawit_backend/internal/service"
	"drawit_backend/pkg/auth"
	"drawit_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type challengeRoutes struct {
	cs      service.ChallengeServiceI
	limiter service.Limiter
	store   quota.Store
	a       *auth.TokenAuth
}

func NewChallengeRoutes(handler *gin.RouterGroup, cs service.ChallengeServiceI, limiter service.Limiter, store quota.Store, a *auth.TokenAuth) {
	r := &challengeRoutes{cs: cs, limiter: limiter, store: store, a: a}
	h := handler.Group("/dailychallenge")
	h.Use(a.AuthMiddleware())
	{
		h.GET("", r.GetTodaysChallenge)
		h.GET("/all", r.ListChallenges)
		h.GET("/upcoming", r.GetUpcomingChallenges)
		h.GET("/date/:date", r.GetChallengeByDate)
		h.POST("/refresh", r.RefreshChallenge)
		h.GET("/refresh-needed", r.ConsumeRefreshFlag)
	}
}

type ChallengeResponse struct {
	ID            string  `json:"id"`
	ChallengeDate string  `json:"challenge_date"`
	Title         string  `json:"title"`
	Prompt        string  `json:"prompt"`
	Difficulty    string  `json:"difficulty"`
	EstimatedTime *int    `json:"estimated_time,omitempty"`
	ThumbnailURL  *string `json:"thumbnail_url,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func toChallengeResponse(c *model.DailyChallenge) ChallengeResponse {
	return ChallengeResponse{
		ID:            c.ID.String(),
		ChallengeDate: c.ChallengeDate,
		Title:         c.Title,
		Prompt:        c.Prompt,
		Difficulty:    string(c.Difficulty),
		EstimatedTime: c.EstimatedTime,
		ThumbnailURL:  c.ThumbnailURL,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     c.UpdatedAt.Format(time.RFC3339),
	}
}

func (r *challengeRoutes) GetTodaysChallenge(c *gin.Context) {
	log := logger.Logger()

	challenge, err := r.cs.Today(c.Request.Context())
	if err != nil {
		log.Error("failed to get today's challenge", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get today's challenge"})
		return
	}

	c.JSON(http.StatusOK, toChallengeResponse(challenge))
}

func (r *challengeRoutes) ListChallenges(c *gin.Context) {
	log := logger.Logger()

	challenges, err := r.cs.List(c.Request.Context())
	if err != nil {
		log.Error("failed to list challenges", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list challenges"})
		return
	}

	out := make([]ChallengeResponse, len(challenges))
	for i, challenge := range challenges {
		out[i] = toChallengeResponse(challenge)
	}
	c.JSON(http.StatusOK, out)
}

func (r *challengeRoutes) GetUpcomingChallenges(c *gin.Context) {
	log := logger.Logger()

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days parameter"})
			return
		}
		days = parsed
	}

	challenges, err := r.cs.Upcoming(c.Request.Context(), days)
	if err != nil {
		log.Error("failed to get upcoming challenges", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get upcoming challenges"})
		return
	}

	out := make([]ChallengeResponse, len(challenges))
	for i, challenge := range challenges {
		out[i] = toChallengeResponse(challenge)
	}
	c.JSON(http.StatusOK, out)
}

func (r *challengeRoutes) GetChallengeByDate(c *gin.Context) {
	log := logger.Logger()

	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	challenge, err := r.cs.ByDate(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no challenge for date"})
			return
		}
		log.Error("failed to get challenge by date", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get challenge"})
		return
	}

	c.JSON(http.StatusOK, toChallengeResponse(challenge))
}

// RefreshChallenge forces regeneration of today's challenge, bounded to
// one per day by the challenge-refresh counter.
func (r *challengeRoutes) RefreshChallenge(c *gin.Context) {
	log := logger.Logger()

	if status := r.limiter.Status(quota.CounterChallengeRefresh); !status.CanProceed {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "daily challenge refresh limit reached",
			"limit": status.Limit,
		})
		return
	}

	challenge, err := r.cs.Regenerate(c.Request.Context())
	if err != nil {
		log.Error("failed to regenerate challenge", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to regenerate challenge"})
		return
	}

	if err := r.limiter.Increment(quota.CounterChallengeRefresh); err != nil {
		log.Error("failed to increment refresh counter", zap.Error(err))
	}
	if err := quota.SetRefreshFlag(r.store); err != nil {
		log.Error("failed to set refresh flag", zap.Error(err))
	}

	c.JSON(http.StatusOK, toChallengeResponse(challenge))
}

// ConsumeRefreshFlag tells the home feed whether the challenge was
// refreshed from another screen since the last fetch. Reading clears it.
func (r *challengeRoutes) ConsumeRefreshFlag(c *gin.Context) {
	refreshed, err := quota.ConsumeRefreshFlag(r.store)
	if err != nil {
		logger.Logger().Error("failed to consume refresh flag", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read refresh flag"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"refresh_needed": refreshed})
}
