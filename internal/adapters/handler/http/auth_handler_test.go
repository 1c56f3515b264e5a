package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lumenjournal/lumen-progress-engine/internal/adapters/repository"
	"github.com/lumenjournal/lumen-progress-engine/internal/core/services"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	users := repository.NewInMemoryUserRepository()
	authService := services.NewAuthService(users)
	tokenService := services.NewTokenService("test-secret", "lumen-test", time.Hour, users)
	handler := NewAuthHandler(authService, tokenService, zap.NewNop())

	router := gin.New()
	handler.RegisterRoutes(router.Group(""))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("Success: Returns 201 with a usable token", func(t *testing.T) {
		router := setupAuthRouter()

		w := postJSON(t, router, "/auth/register", map[string]string{
			"email":    "alice@example.com",
			"password": "long-enough",
			"timezone": "Europe/Rome",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp authResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "alice@example.com", resp.Email)
		assert.Equal(t, "Europe/Rome", resp.Timezone)
		assert.NotEmpty(t, resp.ID)
		assert.NotEmpty(t, resp.Token)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("Fail: 400 for a short password", func(t *testing.T) {
		router := setupAuthRouter()

		w := postJSON(t, router, "/auth/register", map[string]string{
			"email":    "alice@example.com",
			"password": "short",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 400 for an invalid timezone", func(t *testing.T) {
		router := setupAuthRouter()

		w := postJSON(t, router, "/auth/register", map[string]string{
			"email":    "alice@example.com",
			"password": "long-enough",
			"timezone": "Nowhere/Town",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 409 for a duplicate email", func(t *testing.T) {
		router := setupAuthRouter()
		payload := map[string]string{"email": "alice@example.com", "password": "long-enough"}

		first := postJSON(t, router, "/auth/register", payload)
		require.Equal(t, http.StatusCreated, first.Code)

		second := postJSON(t, router, "/auth/register", payload)
		assert.Equal(t, http.StatusConflict, second.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	router := setupAuthRouter()

	created := postJSON(t, router, "/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "long-enough",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	t.Run("Success: Returns 200 with a token", func(t *testing.T) {
		w := postJSON(t, router, "/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "long-enough",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp authResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("Fail: 401 for wrong password", func(t *testing.T) {
		w := postJSON(t, router, "/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong-password",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Fail: 401 for unknown email", func(t *testing.T) {
		w := postJSON(t, router, "/auth/login", map[string]string{
			"email":    "ghost@example.com",
			"password": "long-enough",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
