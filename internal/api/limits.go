package api

import (
	"net/http"

	"drawit_backend/internal/quota"
	"drawit_backend/internal/service"
	"drawit_backend/pkg/auth"

	"github.com/gin-gonic/gin"
)

type limitRoutes struct {
	limiter service.Limiter
	a       *auth.TokenAuth
}

func NewLimitRoutes(handler *gin.RouterGroup, limiter service.Limiter, a *auth.TokenAuth) {
	r := &limitRoutes{limiter: limiter, a: a}
	h := handler.Group("/limits")
	h.Use(a.AuthMiddleware())
	{
		h.GET("", r.GetLimits)
	}
}

// GetLimits reports both daily counters so the client can disable the
// send button and the refresh action before hitting the server.
func (r *limitRoutes) GetLimits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"messages":          r.limiter.Status(quota.CounterMessage),
		"challenge_refresh": r.limiter.Status(quota.CounterChallengeRefresh),
	})
}
