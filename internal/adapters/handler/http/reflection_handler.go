package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumenjournal/lumen-progress-engine/internal/adapters/handler/http/middleware"
	"github.com/lumenjournal/lumen-progress-engine/internal/core/services"
)

type ReflectionHandler struct {
	svc    *services.ReflectionService
	logger *zap.Logger
}

func NewReflectionHandler(svc *services.ReflectionService, logger *zap.Logger) *ReflectionHandler {
	return &ReflectionHandler{
		svc:    svc,
		logger: logger,
	}
}

type createReflectionRequest struct {
	Text    string `json:"text" binding:"required"`
	ThemeID string `json:"theme_id"`
	Mood    string `json:"mood"`
}

func (h *ReflectionHandler) RegisterRoutes(router *gin.RouterGroup) {
	reflections := router.Group("/reflections")
	{
		reflections.POST("", h.Create)
		reflections.GET("", h.List)
		reflections.GET("/:id", h.Get)
		reflections.DELETE("/:id", h.Delete)
	}
}

func (h *ReflectionHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	var req createReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.svc.Create(c.Request.Context(), services.CreateReflectionInput{
		UserID:  userID,
		Text:    req.Text,
		ThemeID: req.ThemeID,
		Mood:    req.Mood,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *ReflectionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)

	if t := c.Query("to"); t != "" {
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			to = parsed
		}
	}
	if f := c.Query("from"); f != "" {
		if parsed, err := time.Parse(time.RFC3339, f); err == nil {
			from = parsed
		}
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID, from, to)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *ReflectionHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	reflection, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, reflection)
}

func (h *ReflectionHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
