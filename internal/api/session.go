package api

import (
	"net/http"

	"ai-agent-platform/backend/internal/models"
	"ai-agent-platform/backend/internal/service"
	apperrors "ai-agent-platform/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	service *service.SessionService
}

func NewSessionHandler(service *service.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// RegisterRoutesV1 registers session and message routes on the v1 group.
func (h *SessionHandler) RegisterRoutesV1(v1 *gin.RouterGroup) {
	v1.POST("/agents/:id/sessions", h.CreateSession)
	v1.GET("/agents/:id/sessions", h.ListSessions)

	sessions := v1.Group("/sessions")
	{
		sessions.POST("/:id/messages", h.SendMessage)
		sessions.GET("/:id/messages", h.GetMessages)
		sessions.POST("/:id/summary", h.Summarize)
	}
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	agentID, ok := parseID(c, "id")
	if !ok {
		return
	}
	session, err := h.service.CreateSession(agentID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	agentID, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	result, err := h.service.ListSessions(agentID, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SessionHandler) SendMessage(c *gin.Context) {
	sessionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.UserMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewBadRequestError("VALIDATION_ERROR", err.Error()))
		return
	}

	_, assistantMsg, err := h.service.SendMessage(c.Request.Context(), sessionID, req.Content)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.AgentReply{
		Message:   assistantMsg.Content,
		SessionID: sessionID,
	})
}

func (h *SessionHandler) GetMessages(c *gin.Context) {
	sessionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	messages, err := h.service.SessionMessages(sessionID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *SessionHandler) Summarize(c *gin.Context) {
	sessionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	summary, err := h.service.Summarize(c.Request.Context(), sessionID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary":    summary,
		"session_id": sessionID,
	})
}
