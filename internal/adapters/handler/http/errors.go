package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

// handleError maps domain sentinel errors to HTTP responses. Anything
// unmapped is an internal error: logged in full, returned opaque.
func handleError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrReflectionNotFound),
		errors.Is(err, domain.ErrChallengeNotFound),
		errors.Is(err, domain.ErrPromptNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrChallengeDismissed):
		c.JSON(http.StatusConflict, gin.H{"error": "challenge has been dismissed"})

	case errors.Is(err, domain.ErrChallengeAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "challenge already completed"})

	case errors.Is(err, domain.ErrMilestoneCelebrated):
		c.JSON(http.StatusConflict, gin.H{"error": "milestone already celebrated"})

	case errors.Is(err, domain.ErrMilestoneNotReached):
		c.JSON(http.StatusConflict, gin.H{"error": "streak has not reached this milestone"})

	case errors.Is(err, domain.ErrShieldLimitExceeded),
		errors.Is(err, domain.ErrInvalidShieldPayment):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrLastEnabledPrompt),
		errors.Is(err, domain.ErrBadPromptOrder),
		errors.Is(err, domain.ErrInvalidTimeframe),
		errors.Is(err, domain.ErrInvalidMonth),
		errors.Is(err, domain.ErrMilestoneUnknown),
		errors.Is(err, domain.ErrReflectionTextEmpty),
		errors.Is(err, domain.ErrReflectionTextTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
