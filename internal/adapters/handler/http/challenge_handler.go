package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumenjournal/lumen-progress-engine/internal/adapters/handler/http/middleware"
	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
	"github.com/lumenjournal/lumen-progress-engine/internal/core/services"
)

type ChallengeHandler struct {
	svc     *services.ChallengeService
	balance *services.BalanceService
	logger  *zap.Logger
}

func NewChallengeHandler(svc *services.ChallengeService, balance *services.BalanceService, logger *zap.Logger) *ChallengeHandler {
	return &ChallengeHandler{
		svc:     svc,
		balance: balance,
		logger:  logger,
	}
}

func (h *ChallengeHandler) RegisterRoutes(router *gin.RouterGroup) {
	challenges := router.Group("/challenges")
	{
		challenges.GET("", h.List)
		challenges.POST("/:id/complete", h.Complete)
		challenges.POST("/:id/dismiss", h.Dismiss)
	}

	router.GET("/balance", h.Balance)
}

func (h *ChallengeHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	views, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *ChallengeHandler) Complete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	result, err := h.svc.Complete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ChallengeHandler) Dismiss(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	if err := h.svc.Dismiss(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ChallengeHandler) Balance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	scale := domain.ScaleRelative
	if c.Query("scale") == string(domain.ScaleFixed) {
		scale = domain.ScaleFixed
	}

	balance, err := h.balance.Get(c.Request.Context(), userID, scale)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scale": scale, "balance": balance})
}
