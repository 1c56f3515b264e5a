package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumenjournal/lumen-progress-engine/internal/adapters/handler/http/middleware"
	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
	"github.com/lumenjournal/lumen-progress-engine/internal/core/services"
)

type ProgressHandler struct {
	svc    *services.ProgressService
	logger *zap.Logger
}

func NewProgressHandler(svc *services.ProgressService, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		svc:    svc,
		logger: logger,
	}
}

func (h *ProgressHandler) RegisterRoutes(router *gin.RouterGroup) {
	progress := router.Group("/progress")
	{
		progress.GET("", h.Snapshot)
		progress.GET("/history", h.History)
	}
}

func (h *ProgressHandler) Snapshot(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	snapshot, err := h.svc.Snapshot(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *ProgressHandler) History(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	timeframe, err := domain.ParseTimeframe(c.DefaultQuery("timeframe", string(domain.TimeframeDaily)))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	series, err := h.svc.History(c.Request.Context(), userID, timeframe)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, series)
}
