package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/flavorfind/backend/internal/middleware"
	"github.com/pageza/flavorfind/backend/internal/service"
	"github.com/pageza/flavorfind/backend/internal/types"
)

type SessionHandler struct {
	sessions service.ISessionService
	limiter  middleware.Limiter
}

func NewSessionHandler(sessions service.ISessionService, limiter middleware.Limiter) *SessionHandler {
	return &SessionHandler{sessions: sessions, limiter: limiter}
}

func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	if h.limiter != nil {
		router.POST("/session", middleware.ClientRateLimitMiddleware(h.limiter), h.CreateSession)
		return
	}
	router.POST("/session", h.CreateSession)
}

// CreateSession issues a new session. The browser keeps the token and sends
// it as a Bearer token on every other call.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	token, sessionID, err := h.sessions.Issue()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.SessionResponse{
		Token:     token,
		SessionID: sessionID.String(),
	})
}
