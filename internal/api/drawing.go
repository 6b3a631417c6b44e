package api

import (
	"errors"
	"net/http"
	"time"

	"drawit_backend/internal/model"
	"drawit_backend/internal/service"
	"drawit_backend/pkg/auth"
	"drawit_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type drawingRoutes struct {
	ds service.DrawingServiceI
	ps service.ProfileServiceI
	bs service.BadgeServiceI
	a  *auth.TokenAuth
}

func NewDrawingRoutes(handler *gin.RouterGroup, ds service.DrawingServiceI, ps service.ProfileServiceI, bs service.BadgeServiceI, a *auth.TokenAuth) {
	r := &drawingRoutes{ds: ds, ps: ps, bs: bs, a: a}
	h := handler.Group("/drawings")
	h.Use(a.AuthMiddleware())
	{
		h.GET("", r.ListDrawings)
		h.POST("", r.CreateDrawing)
		h.PATCH("/:id", r.UpdateDrawing)
		h.DELETE("/:id", r.DeleteDrawing)
		h.GET("/:id/recent-image", r.GetRecentImage)
	}
}

type DrawingResponse struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	ImageURL         *string `json:"image_url,omitempty"`
	Prompt           *string `json:"prompt,omitempty"`
	AIFeedback       *string `json:"ai_feedback,omitempty"`
	AIScore          *int    `json:"ai_score,omitempty"`
	IsDailyChallenge bool    `json:"is_daily_challenge"`
	IsCompareFeature bool    `json:"is_compare_feature"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func toDrawingResponse(d *model.Drawing) DrawingResponse {
	return DrawingResponse{
		ID:               d.ID.String(),
		Title:            d.Title,
		ImageURL:         d.ImageURL,
		Prompt:           d.Prompt,
		AIFeedback:       d.AIFeedback,
		AIScore:          d.AIScore,
		IsDailyChallenge: d.IsDailyChallenge,
		IsCompareFeature: d.IsCompareFeature,
		CreatedAt:        d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        d.UpdatedAt.Format(time.RFC3339),
	}
}

func (r *drawingRoutes) ListDrawings(c *gin.Context) {
	log := logger.Logger()

	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	drawings, err := r.ds.List(c.Request.Context(), user.ID)
	if err != nil {
		log.Error("failed to list drawings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list drawings"})
		return
	}

	out := make([]DrawingResponse, len(drawings))
	for i, d := range drawings {
		out[i] = toDrawingResponse(d)
	}
	c.JSON(http.StatusOK, out)
}

type CreateDrawingRequest struct {
	Title            string  `json:"title" binding:"required"`
	ImageURL         *string `json:"image_url"`
	Prompt           *string `json:"prompt"`
	AIFeedback       *string `json:"ai_feedback"`
	AIScore          *int    `json:"ai_score"`
	IsDailyChallenge bool    `json:"is_daily_challenge"`
	IsCompareFeature bool    `json:"is_compare_feature"`
}

func (r *drawingRoutes) CreateDrawing(c *gin.Context) {
	log := logger.Logger()

	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	var req CreateDrawingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	drawing, err := r.ds.Create(c.Request.Context(), &model.Drawing{
		UserID:           user.ID,
		Title:            req.Title,
		ImageURL:         req.ImageURL,
		Prompt:           req.Prompt,
		AIFeedback:       req.AIFeedback,
		AIScore:          req.AIScore,
		IsDailyChallenge: req.IsDailyChallenge,
		IsCompareFeature: req.IsCompareFeature,
	})
	if err != nil {
		log.Error("failed to create drawing", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create drawing"})
		return
	}

	// Saving a drawing counts as today's activity for the streak and can
	// unlock badges; neither failure blocks the save.
	if _, err := r.ps.RecordActivity(c.Request.Context(), user.ID); err != nil {
		log.Error("failed to record streak activity", zap.Error(err))
	}
	awarded, err := r.bs.CheckAndAward(c.Request.Context(), user.ID)
	if err != nil {
		log.Error("failed to check badges", zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{
		"drawing":       toDrawingResponse(drawing),
		"badges_earned": len(awarded),
	})
}

type UpdateDrawingRequest struct {
	Title      *string `json:"title"`
	ImageURL   *string `json:"image_url"`
	AIFeedback *string `json:"ai_feedback"`
	AIScore    *int    `json:"ai_score"`
}

func (r *drawingRoutes) UpdateDrawing(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid drawing id"})
		return
	}

	var req UpdateDrawingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	drawing, err := r.ds.Update(c.Request.Context(), user.ID, id, &model.DrawingUpdate{
		Title:      req.Title,
		ImageURL:   req.ImageURL,
		AIFeedback: req.AIFeedback,
		AIScore:    req.AIScore,
	})
	if err != nil {
		r.writeDrawingError(c, err, "failed to update drawing")
		return
	}

	c.JSON(http.StatusOK, toDrawingResponse(drawing))
}

func (r *drawingRoutes) DeleteDrawing(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid drawing id"})
		return
	}

	if err := r.ds.Delete(c.Request.Context(), user.ID, id); err != nil {
		r.writeDrawingError(c, err, "failed to delete drawing")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (r *drawingRoutes) GetRecentImage(c *gin.Context) {
	log := logger.Logger()

	if _, ok := auth.CurrentUser(c); !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid drawing id"})
		return
	}

	url, err := r.ds.MostRecentImage(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to get recent image", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get recent image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

func (r *drawingRoutes) writeDrawingError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrDrawingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "drawing not found"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	default:
		logger.Logger().Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
