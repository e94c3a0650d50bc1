package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/flavorfind/backend/internal/middleware"
	"github.com/pageza/flavorfind/backend/internal/service"
	"github.com/pageza/flavorfind/backend/internal/types"
)

type KeyHandler struct {
	sessions service.ISessionService
}

func NewKeyHandler(sessions service.ISessionService) *KeyHandler {
	return &KeyHandler{sessions: sessions}
}

func (h *KeyHandler) RegisterRoutes(router *gin.RouterGroup) {
	key := router.Group("/key")
	{
		key.GET("", h.GetKeyStatus)
		key.PUT("", h.SaveKey)
		key.DELETE("", h.RemoveKey)
	}
}

func (h *KeyHandler) GetKeyStatus(c *gin.Context) {
	sessionID, _ := middleware.SessionID(c)
	key, ok, err := h.sessions.Keys(sessionID).Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := types.KeyStatusResponse{HasKey: ok}
	if ok {
		resp.MaskedKey = service.MaskKey(key)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *KeyHandler) SaveKey(c *gin.Context) {
	var req types.SaveKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.APIKey) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid API key"})
		return
	}

	sessionID, _ := middleware.SessionID(c)
	if err := h.sessions.Keys(sessionID).Save(c.Request.Context(), req.APIKey); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *KeyHandler) RemoveKey(c *gin.Context) {
	sessionID, _ := middleware.SessionID(c)
	if err := h.sessions.Keys(sessionID).Remove(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
