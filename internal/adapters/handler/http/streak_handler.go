package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumenjournal/lumen-progress-engine/internal/adapters/handler/http/middleware"
	"github.com/lumenjournal/lumen-progress-engine/internal/core/services"
)

type StreakHandler struct {
	svc    *services.StreakService
	logger *zap.Logger
}

func NewStreakHandler(svc *services.StreakService, logger *zap.Logger) *StreakHandler {
	return &StreakHandler{
		svc:    svc,
		logger: logger,
	}
}

func (h *StreakHandler) RegisterRoutes(router *gin.RouterGroup) {
	streak := router.Group("/streak")
	{
		streak.GET("", h.Status)
		streak.GET("/calendar", h.Calendar)
		streak.GET("/danger", h.Danger)
		streak.GET("/milestones", h.Milestones)
		streak.POST("/milestones/:threshold/celebrate", h.Celebrate)
		streak.POST("/shields/purchase", h.PurchaseShield)
	}
}

func (h *StreakHandler) Status(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	status, err := h.svc.Status(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *StreakHandler) Calendar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	month := c.DefaultQuery("month", time.Now().UTC().Format("2006-01"))

	days, err := h.svc.Calendar(c.Request.Context(), userID, month)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"month": month, "days": days})
}

// Danger is the lightweight poll endpoint clients hit to decide whether to
// nudge the user before local midnight.
func (h *StreakHandler) Danger(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	status, err := h.svc.Status(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"danger":         status.Danger,
		"today_active":   status.TodayActive,
		"current_streak": status.CurrentStreak,
	})
}

func (h *StreakHandler) Milestones(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	milestones, err := h.svc.Milestones(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, milestones)
}

func (h *StreakHandler) Celebrate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	threshold, err := strconv.Atoi(c.Param("threshold"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a number of days"})
		return
	}

	reward, err := h.svc.Celebrate(c.Request.Context(), userID, threshold)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, reward)
}

func (h *StreakHandler) PurchaseShield(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	state, err := h.svc.PurchaseShield(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, state)
}
