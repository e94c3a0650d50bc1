package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/flavorfind/backend/internal/api"
	"github.com/pageza/flavorfind/backend/internal/database"
	"github.com/pageza/flavorfind/backend/internal/router"
	"github.com/pageza/flavorfind/backend/internal/service"
	"github.com/pageza/flavorfind/backend/internal/storage"
	"github.com/pageza/flavorfind/backend/internal/types"
)

const searchResponse = `{
  "results": [
    {"id": 715538, "title": "Bruschetta Style Pork & Pasta", "image": "https://img.spoonacular.com/recipes/715538-312x231.jpg",
     "readyInMinutes": 35, "servings": 5, "vegetarian": false, "vegan": false, "glutenFree": false, "dairyFree": false,
     "extendedIngredients": [{"id": 1, "name": "pasta", "original": "1 lb pasta", "amount": 1, "unit": "lb", "meta": [], "measures": {"us": {"amount": 1, "unitShort": "lb", "unitLong": "pound"}, "metric": {"amount": 453.6, "unitShort": "g", "unitLong": "grams"}}}],
     "analyzedInstructions": [{"name": "", "steps": [{"number": 1, "step": "Boil the pasta."}]}]},
    {"id": 0, "title": "broken"}
  ],
  "offset": 0, "number": 12, "totalResults": 2
}`

type app struct {
	router *gin.Engine
	calls  atomic.Int32
}

func setupApp(t *testing.T) *app {
	gin.SetMode(gin.TestMode)
	a := &app{}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.calls.Add(1)
		if r.URL.Query().Get("apiKey") != "abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":"failure","code":401,"message":"You are not authorized."}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchResponse))
	}))
	t.Cleanup(upstream.Close)

	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "flavorfind.db"))
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	t.Cleanup(func() { _ = database.Close(db) })

	sessions := service.NewSessionService("integration-secret", storage.NewSQLStorage(db))
	client := service.NewSpoonacularClient(upstream.URL, upstream.Client(), 0, zap.NewNop())

	a.router = router.SetupRouter(zap.NewNop(), []string{"http://localhost:5173"}, api.Dependencies{
		Sessions: sessions,
		Recipes:  client,
		Tracker:  service.NewSearchTracker(),
	})
	return a
}

func (a *app) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestSearchAndFavoriteFlow(t *testing.T) {
	a := setupApp(t)

	w := a.request(t, http.MethodPost, "/api/v1/session", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var session types.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	token := session.Token

	// no key yet: rejected without reaching the API
	w = a.request(t, http.MethodPost, "/api/v1/recipes/search", token, types.SearchFilters{Ingredients: "pasta"})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, int32(0), a.calls.Load())

	// a wrong key surfaces the API's own message
	w = a.request(t, http.MethodPut, "/api/v1/key", token, types.SaveKeyRequest{APIKey: "wrong"})
	require.Equal(t, http.StatusNoContent, w.Code)
	w = a.request(t, http.MethodPost, "/api/v1/recipes/search", token, types.SearchFilters{Ingredients: "pasta"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "You are not authorized.")

	w = a.request(t, http.MethodPut, "/api/v1/key", token, types.SaveKeyRequest{APIKey: "abc123"})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = a.request(t, http.MethodPost, "/api/v1/recipes/search", token, types.SearchFilters{Ingredients: "pasta", Diet: "any"})
	require.Equal(t, http.StatusOK, w.Code)
	var outcome types.SearchOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, types.SearchHasResults, outcome.State)
	// the entry without an id is dropped
	require.Len(t, outcome.Results, 1)
	recipe := outcome.Results[0]
	assert.Equal(t, 715538, recipe.ID)
	assert.Equal(t, []string{"1 lb pasta"}, recipe.IngredientLines())

	w = a.request(t, http.MethodPost, "/api/v1/favorites/toggle", token, recipe)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":715538,"favorite":true}`, w.Body.String())

	// favorites come back whole from storage without another API call
	calls := a.calls.Load()
	w = a.request(t, http.MethodGet, "/api/v1/favorites", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var favorites types.FavoritesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &favorites))
	require.Equal(t, 1, favorites.Count)
	assert.Equal(t, recipe, favorites.Favorites[0])
	assert.Equal(t, calls, a.calls.Load())

	w = a.request(t, http.MethodPost, "/api/v1/favorites/toggle", token, recipe)
	assert.JSONEq(t, `{"id":715538,"favorite":false}`, w.Body.String())
}
