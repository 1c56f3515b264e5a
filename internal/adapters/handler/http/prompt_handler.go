package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/services"
)

type PromptHandler struct {
	svc    *services.PromptService
	logger *zap.Logger
}

func NewPromptHandler(svc *services.PromptService, logger *zap.Logger) *PromptHandler {
	return &PromptHandler{
		svc:    svc,
		logger: logger,
	}
}

type reorderPromptsRequest struct {
	Order []string `json:"order" binding:"required,min=1"`
}

func (h *PromptHandler) RegisterRoutes(router *gin.RouterGroup) {
	prompts := router.Group("/prompts")
	{
		prompts.GET("", h.List)
		prompts.POST("/:id/enable", h.Enable)
		prompts.POST("/:id/disable", h.Disable)
		prompts.PUT("/order", h.Reorder)
	}
}

func (h *PromptHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Config(c.Request.Context()))
}

func (h *PromptHandler) Enable(c *gin.Context) {
	if err := h.svc.Enable(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.Config(c.Request.Context()))
}

func (h *PromptHandler) Disable(c *gin.Context) {
	if err := h.svc.Disable(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.Config(c.Request.Context()))
}

func (h *PromptHandler) Reorder(c *gin.Context) {
	var req reorderPromptsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.svc.Reorder(c.Request.Context(), req.Order); err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.Config(c.Request.Context()))
}
