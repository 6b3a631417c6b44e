package api

import (
	"net/http"
	"time"

	"drawit_backend/internal/model"
	"drawit_backend/internal/service"
	"drawit_backend/pkg/auth"
	"drawit_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type badgeRoutes struct {
	bs service.BadgeServiceI
	a  *auth.TokenAuth
}

func NewBadgeRoutes(handler *gin.RouterGroup, bs service.BadgeServiceI, a *auth.TokenAuth) {
	r := &badgeRoutes{bs: bs, a: a}
	h := handler.Group("/badges")
	h.Use(a.AuthMiddleware())
	{
		h.GET("", r.ListBadges)
		h.GET("/mine", r.ListUserBadges)
	}
}

type BadgeResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	IconURL          string `json:"icon_url"`
	RequirementCount int    `json:"requirement_count"`
	RequirementType  string `json:"requirement_type"`
	Color            string `json:"color"`
}

func toBadgeResponse(b *model.Badge) BadgeResponse {
	return BadgeResponse{
		ID:               b.ID.String(),
		Name:             b.Name,
		Description:      b.Description,
		IconURL:          b.IconURL,
		RequirementCount: b.RequirementCount,
		RequirementType:  b.RequirementType,
		Color:            b.Color,
	}
}

type UserBadgeResponse struct {
	BadgeID  string `json:"badge_id"`
	EarnedAt string `json:"earned_at"`
}

func (r *badgeRoutes) ListBadges(c *gin.Context) {
	badges, err := r.bs.List(c.Request.Context())
	if err != nil {
		logger.Logger().Error("failed to list badges", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list badges"})
		return
	}

	out := make([]BadgeResponse, len(badges))
	for i, b := range badges {
		out[i] = toBadgeResponse(b)
	}
	c.JSON(http.StatusOK, out)
}

func (r *badgeRoutes) ListUserBadges(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	userBadges, err := r.bs.UserBadges(c.Request.Context(), user.ID)
	if err != nil {
		logger.Logger().Error("failed to list user badges", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list user badges"})
		return
	}

	out := make([]UserBadgeResponse, len(userBadges))
	for i, ub := range userBadges {
		out[i] = UserBadgeResponse{
			BadgeID:  ub.BadgeID.String(),
			EarnedAt: ub.EarnedAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, out)
}
