package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/flavorfind/backend/internal/middleware"
	"github.com/pageza/flavorfind/backend/internal/mocks"
	"github.com/pageza/flavorfind/backend/internal/service"
	"github.com/pageza/flavorfind/backend/internal/storage"
	"github.com/pageza/flavorfind/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router   *gin.Engine
	sessions *service.SessionService
	client   *mocks.MockRecipeClient
	tracker  *service.SearchTracker
}

func setupTestEnv(t *testing.T, store storage.Storage, limiter middleware.Limiter) *testEnv {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStorage()
	}

	env := &testEnv{
		sessions: service.NewSessionService("test-secret", store),
		client:   &mocks.MockRecipeClient{},
		tracker:  service.NewSearchTracker(),
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(zap.NewNop()))
	RegisterRoutes(router, Dependencies{
		Sessions:      env.sessions,
		Recipes:       env.client,
		Tracker:       env.tracker,
		SearchLimiter: limiter,
	})
	env.router = router
	return env
}

// newSession issues a session through the API and returns its token
func (e *testEnv) newSession(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/session", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp types.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.SessionID)
	return resp.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func sampleRecipe(id int) types.Recipe {
	minutes := 25
	return types.Recipe{
		ID:             id,
		Title:          "Recipe",
		Image:          "https://img.spoonacular.com/recipes/1-312x231.jpg",
		ReadyInMinutes: &minutes,
		Vegetarian:     true,
	}
}

type failingStorage struct{}

func (failingStorage) Get(_ context.Context, key string) (string, bool, error) {
	return "", false, fmt.Errorf("backend down reading %s", key)
}
func (failingStorage) Set(context.Context, string, string) error { return errors.New("backend down") }
func (failingStorage) Remove(context.Context, string) error      { return errors.New("backend down") }

func TestHealthCheck(t *testing.T) {
	router := gin.New()
	router.GET("/healthz", HealthCheck(nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	router = gin.New()
	router.GET("/healthz", HealthCheck(func(context.Context) error { return errors.New("redis unreachable") }))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis unreachable")
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	env := setupTestEnv(t, nil, nil)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/key"},
		{http.MethodPut, "/api/v1/key"},
		{http.MethodDelete, "/api/v1/key"},
		{http.MethodPost, "/api/v1/recipes/search"},
		{http.MethodGet, "/api/v1/recipes/search/state"},
		{http.MethodGet, "/api/v1/favorites"},
		{http.MethodPost, "/api/v1/favorites/toggle"},
	}
	for _, p := range paths {
		w := env.do(t, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", p.method, p.path)

		w = env.do(t, p.method, p.path, "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", p.method, p.path)
	}
}

func TestSessionCreationIsRateLimited(t *testing.T) {
	router := gin.New()
	RegisterRoutes(router, Dependencies{
		Sessions:       service.NewSessionService("test-secret", storage.NewMemoryStorage()),
		Recipes:        &mocks.MockRecipeClient{},
		Tracker:        service.NewSearchTracker(),
		SessionLimiter: middleware.NewLocalLimiter(middleware.RateLimitConfig{Window: time.Hour, Limit: 2}),
	})

	create := func() int {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/session", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, create())
	assert.Equal(t, http.StatusCreated, create())
	assert.Equal(t, http.StatusTooManyRequests, create())
}
