package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lumenjournal/lumen-progress-engine/internal/adapters/handler/http/middleware"
	"github.com/lumenjournal/lumen-progress-engine/internal/adapters/repository"
	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
	"github.com/lumenjournal/lumen-progress-engine/internal/core/services"
)

// identityAs stands in for the JWT middleware in handler tests.
func identityAs(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	}
}

func setupChallengeRouter(t *testing.T, userID string) (*gin.Engine, *repository.InMemoryChallengeRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewInMemoryChallengeRepository()
	balance := services.NewBalanceService(repo, nil, zap.NewNop())
	svc := services.NewChallengeService(repo, balance, zap.NewNop())
	handler := NewChallengeHandler(svc, balance, zap.NewNop())

	router := gin.New()
	group := router.Group("")
	group.Use(identityAs(userID))
	handler.RegisterRoutes(group)

	return router, repo
}

func seedPending(t *testing.T, repo *repository.InMemoryChallengeRepository, userID string, points int) *domain.Challenge {
	t.Helper()

	c, err := domain.NewChallenge(userID, "r1", "Take a walk", "Ten minutes outside.", domain.CategoryPhysicalHealth, points)
	require.NoError(t, err)
	require.NoError(t, repo.CreateBatch(context.Background(), []*domain.Challenge{c}))
	return c
}

func TestChallengeHandler_Complete(t *testing.T) {
	t.Run("Success: Returns the award result", func(t *testing.T) {
		router, repo := setupChallengeRouter(t, "u1")
		c := seedPending(t, repo, "u1", 30)

		req, _ := http.NewRequest(http.MethodPost, "/challenges/"+c.ID+"/complete", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var result services.CompleteResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 30, result.TotalPoints)
		assert.False(t, result.NoOp)
	})

	t.Run("Success: A retry reads as a no-op with 200", func(t *testing.T) {
		router, repo := setupChallengeRouter(t, "u1")
		c := seedPending(t, repo, "u1", 30)

		req, _ := http.NewRequest(http.MethodPost, "/challenges/"+c.ID+"/complete", nil)
		first := httptest.NewRecorder()
		router.ServeHTTP(first, req)
		require.Equal(t, http.StatusOK, first.Code)

		retry, _ := http.NewRequest(http.MethodPost, "/challenges/"+c.ID+"/complete", nil)
		second := httptest.NewRecorder()
		router.ServeHTTP(second, retry)

		require.Equal(t, http.StatusOK, second.Code)

		var result services.CompleteResult
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &result))
		assert.True(t, result.NoOp)
	})

	t.Run("Fail: 404 for someone else's challenge", func(t *testing.T) {
		router, repo := setupChallengeRouter(t, "intruder")
		c := seedPending(t, repo, "u1", 30)

		req, _ := http.NewRequest(http.MethodPost, "/challenges/"+c.ID+"/complete", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: 409 when completing a dismissed challenge", func(t *testing.T) {
		router, repo := setupChallengeRouter(t, "u1")
		c := seedPending(t, repo, "u1", 30)

		dismiss, _ := http.NewRequest(http.MethodPost, "/challenges/"+c.ID+"/dismiss", nil)
		dw := httptest.NewRecorder()
		router.ServeHTTP(dw, dismiss)
		require.Equal(t, http.StatusNoContent, dw.Code)

		req, _ := http.NewRequest(http.MethodPost, "/challenges/"+c.ID+"/complete", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestChallengeHandler_List(t *testing.T) {
	router, repo := setupChallengeRouter(t, "u1")
	seedPending(t, repo, "u1", 30)
	seedPending(t, repo, "u2", 30)

	req, _ := http.NewRequest(http.MethodGet, "/challenges", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var views []services.ChallengeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, domain.ChallengePending, views[0].State)
}

func TestChallengeHandler_Balance(t *testing.T) {
	router, repo := setupChallengeRouter(t, "u1")
	c := seedPending(t, repo, "u1", 30)

	complete, _ := http.NewRequest(http.MethodPost, "/challenges/"+c.ID+"/complete", nil)
	cw := httptest.NewRecorder()
	router.ServeHTTP(cw, complete)
	require.Equal(t, http.StatusOK, cw.Code)

	t.Run("Success: Relative scale by default", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/balance", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"scale":"relative"`)
		assert.Contains(t, w.Body.String(), domain.CategoryPhysicalHealth)
	})

	t.Run("Success: Fixed scale on request", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/balance?scale=fixed", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"scale":"fixed"`)
	})
}
