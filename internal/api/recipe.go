package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/flavorfind/backend/internal/middleware"
	"github.com/pageza/flavorfind/backend/internal/service"
	"github.com/pageza/flavorfind/backend/internal/types"
)

// maxByIngredientsResults caps the number query parameter
const maxByIngredientsResults = 100

type RecipeHandler struct {
	sessions service.ISessionService
	client   service.IRecipeClient
	tracker  *service.SearchTracker
	limiter  middleware.Limiter
}

func NewRecipeHandler(sessions service.ISessionService, client service.IRecipeClient, tracker *service.SearchTracker, limiter middleware.Limiter) *RecipeHandler {
	if tracker == nil {
		tracker = service.NewSearchTracker()
	}
	return &RecipeHandler{
		sessions: sessions,
		client:   client,
		tracker:  tracker,
		limiter:  limiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")

	// Every call below except the state lookup spends the upstream key's quota
	limited := recipes.Group("")
	if h.limiter != nil {
		limited.Use(middleware.RateLimitMiddleware(h.limiter))
	}

	limited.POST("/search", h.Search)
	recipes.GET("/search/state", h.SearchState)
	limited.GET("/by-ingredients", h.SearchByIngredients)
	limited.GET("/:id", h.GetRecipe)
}

// Search runs a filtered search and records it in the session's tracker.
func (h *RecipeHandler) Search(c *gin.Context) {
	var filters types.SearchFilters
	if err := c.ShouldBindJSON(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	filters = filters.Normalize()
	if err := filters.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID, _ := middleware.SessionID(c)
	session := sessionID.String()

	h.tracker.Begin(session, filters.Ingredients)
	results, err := h.client.Search(c.Request.Context(), h.sessions.Keys(sessionID), filters)
	h.tracker.Finish(session, filters.Ingredients, results, err)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewSearchOutcome(filters.Ingredients, results))
}

// SearchState reports the phase and last outcome of the session's searches.
func (h *RecipeHandler) SearchState(c *gin.Context) {
	sessionID, _ := middleware.SessionID(c)
	c.JSON(http.StatusOK, h.tracker.State(sessionID.String()))
}

func (h *RecipeHandler) SearchByIngredients(c *gin.Context) {
	ingredients := strings.TrimSpace(c.Query("ingredients"))
	if ingredients == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients are required"})
		return
	}

	number := 0
	if raw := c.Query("number"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxByIngredientsResults {
			c.JSON(http.StatusBadRequest, gin.H{"error": "number must be between 1 and 100"})
			return
		}
		number = n
	}

	sessionID, _ := middleware.SessionID(c)
	results, err := h.client.SearchByIngredients(c.Request.Context(), h.sessions.Keys(sessionID), ingredients, number)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewSearchOutcome(ingredients, results))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe ID"})
		return
	}

	sessionID, _ := middleware.SessionID(c)
	recipe, err := h.client.RecipeDetails(c.Request.Context(), h.sessions.Keys(sessionID), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}
