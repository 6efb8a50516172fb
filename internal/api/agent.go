package api

import (
	"net/http"
	"strconv"

	"ai-agent-platform/backend/internal/models"
	"ai-agent-platform/backend/internal/service"
	apperrors "ai-agent-platform/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

type AgentHandler struct {
	service *service.AgentService
}

func NewAgentHandler(service *service.AgentService) *AgentHandler {
	return &AgentHandler{service: service}
}

// RegisterRoutesV1 registers the agent CRUD routes on the v1 group.
func (h *AgentHandler) RegisterRoutesV1(v1 *gin.RouterGroup) {
	agents := v1.Group("/agents")
	{
		agents.POST("", h.CreateAgent)
		agents.GET("", h.ListAgents)
		agents.GET("/:id", h.GetAgent)
		agents.PUT("/:id", h.UpdateAgent)
		agents.DELETE("/:id", h.DeleteAgent)
	}
}

func (h *AgentHandler) CreateAgent(c *gin.Context) {
	var req models.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewBadRequestError("VALIDATION_ERROR", err.Error()))
		return
	}

	agent, err := h.service.CreateAgent(&req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, agent)
}

// ListAgents returns a page of agents; ?active=true narrows the result to
// active agents only (unpaginated, matching the original contract).
func (h *AgentHandler) ListAgents(c *gin.Context) {
	if c.Query("active") == "true" {
		agents, err := h.service.ListActiveAgents()
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, agents)
		return
	}

	page, pageSize := parsePagination(c)
	result, err := h.service.ListAgents(page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AgentHandler) GetAgent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	agent, err := h.service.GetAgent(id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, agent)
}

func (h *AgentHandler) UpdateAgent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewBadRequestError("VALIDATION_ERROR", err.Error()))
		return
	}

	agent, err := h.service.UpdateAgent(id, &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, agent)
}

func (h *AgentHandler) DeleteAgent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteAgent(id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseID reads a uint path parameter, pushing a validation error when the
// value is not a positive integer.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.Error(apperrors.NewBadRequestError("VALIDATION_ERROR",
			"Invalid "+name+" path parameter: "+raw))
		return 0, false
	}
	return uint(id), true
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(service.DefaultPageSize)))
	return page, pageSize
}
