package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanbat-ai/hanbatbot/internal/domain"
	"github.com/hanbat-ai/hanbatbot/internal/service"
)

// Handler handles chat API requests
type Handler struct {
	chatService *service.ChatService
	engine      *service.Engine
}

// NewHandler creates a new chat handler
func NewHandler(chatService *service.ChatService, engine *service.Engine) *Handler {
	return &Handler{chatService: chatService, engine: engine}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/status", h.Status)
	r.GET("/sessions", h.ListSessions)
	r.POST("/sessions", h.CreateSession)
	r.GET("/sessions/:session_id", h.GetSession)
	r.DELETE("/sessions/:session_id", h.DeleteSession)
	r.POST("/chat", h.Chat)
}

// Status reports RAG readiness so the UI can disable input in degraded mode
func (h *Handler) Status(c *gin.Context) {
	status, warnings := h.engine.Status(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status":   status.String(),
		"ready":    status == service.StatusReady,
		"warnings": warnings,
	})
}

// ListSessions returns all sessions, most recently updated first
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.chatService.Sessions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

type createSessionRequest struct {
	Reset bool `json:"reset,omitempty"`
}

// CreateSession starts a new conversation and returns its greeting
func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	// Body is optional; an empty body means a first-load session
	_ = c.ShouldBindJSON(&req)

	result, err := h.chatService.CreateSession(c.Request.Context(), req.Reset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSession returns a session with its full ordered history
func (h *Handler) GetSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	session, messages, err := h.chatService.History(sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session, "messages": messages})
}

// DeleteSession removes a session and returns the fresh replacement session
func (h *Handler) DeleteSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	result, err := h.chatService.DeleteSession(c.Request.Context(), sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Chat handles one question/answer turn
func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.chatService.Ask(c.Request.Context(), &req)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
