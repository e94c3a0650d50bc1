package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/flavorfind/backend/internal/middleware"
	"github.com/pageza/flavorfind/backend/internal/service"
	"github.com/pageza/flavorfind/backend/internal/types"
)

type FavoriteHandler struct {
	sessions service.ISessionService
}

func NewFavoriteHandler(sessions service.ISessionService) *FavoriteHandler {
	return &FavoriteHandler{sessions: sessions}
}

func (h *FavoriteHandler) RegisterRoutes(router *gin.RouterGroup) {
	favorites := router.Group("/favorites")
	{
		favorites.GET("", h.ListFavorites)
		favorites.GET("/:id", h.GetFavoriteStatus)
		favorites.POST("/toggle", h.ToggleFavorite)
	}
}

func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	sessionID, _ := middleware.SessionID(c)
	recipes, err := h.sessions.Favorites(sessionID).GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.FavoritesResponse{
		Favorites: recipes,
		Count:     len(recipes),
	})
}

func (h *FavoriteHandler) GetFavoriteStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe ID"})
		return
	}

	sessionID, _ := middleware.SessionID(c)
	favorite, err := h.sessions.Favorites(sessionID).IsFavorite(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.FavoriteStatusResponse{ID: id, Favorite: favorite})
}

// ToggleFavorite adds the posted recipe or removes the stored one with the
// same id. The full record is stored so favorites render without the API.
func (h *FavoriteHandler) ToggleFavorite(c *gin.Context) {
	var recipe types.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := recipe.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID, _ := middleware.SessionID(c)
	favorite, err := h.sessions.Favorites(sessionID).Toggle(c.Request.Context(), recipe)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.FavoriteStatusResponse{ID: recipe.ID, Favorite: favorite})
}
