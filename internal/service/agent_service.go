package service

import (
	"errors"
	"fmt"

	"ai-agent-platform/backend/internal/models"
	"ai-agent-platform/backend/internal/repository"
	apperrors "ai-agent-platform/backend/pkg/errors"
	"ai-agent-platform/backend/pkg/logger"

	"gorm.io/gorm"
)

// Pagination bounds for list operations.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page wraps one page of a list result.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// ClampPage normalizes 1-based page/pageSize values and returns the
// offset/limit to query with.
func ClampPage(page, pageSize int) (int, int, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize, (page - 1) * pageSize, pageSize
}

// AgentService manages agent records.
type AgentService struct {
	repo repository.AgentRepository
	log  *logger.Logger
}

func NewAgentService(repo repository.AgentRepository, log *logger.Logger) *AgentService {
	return &AgentService{repo: repo, log: log}
}

func (s *AgentService) CreateAgent(req *models.CreateAgentRequest) (*models.Agent, error) {
	agent := &models.Agent{
		Name:          req.Name,
		Description:   req.Description,
		AgentType:     req.AgentType,
		IsActive:      true,
		Configuration: req.Configuration,
		Capabilities:  req.Capabilities,
	}
	if req.IsActive != nil {
		agent.IsActive = *req.IsActive
	}

	if err := s.repo.Create(agent); err != nil {
		s.log.LogError(err, "failed to create agent", "name", req.Name)
		return nil, apperrors.NewInternalServerError("AGENT_CREATION_ERROR",
			fmt.Sprintf("Failed to create agent: %s", err))
	}
	return agent, nil
}

func (s *AgentService) GetAgent(id uint) (*models.Agent, error) {
	agent, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("AGENT_NOT_FOUND",
				fmt.Sprintf("Agent %d not found", id))
		}
		return nil, apperrors.NewInternalServerError("DATABASE_ERROR", err.Error())
	}
	return agent, nil
}

func (s *AgentService) ListAgents(page, pageSize int) (*Page[models.Agent], error) {
	page, pageSize, offset, limit := ClampPage(page, pageSize)
	agents, total, err := s.repo.List(offset, limit)
	if err != nil {
		return nil, apperrors.NewInternalServerError("DATABASE_ERROR", err.Error())
	}
	return &Page[models.Agent]{Items: agents, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *AgentService) ListActiveAgents() ([]models.Agent, error) {
	agents, err := s.repo.ListActive()
	if err != nil {
		return nil, apperrors.NewInternalServerError("DATABASE_ERROR", err.Error())
	}
	return agents, nil
}

// UpdateAgent applies the non-nil fields of req to an existing agent.
func (s *AgentService) UpdateAgent(id uint, req *models.UpdateAgentRequest) (*models.Agent, error) {
	agent, err := s.GetAgent(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		agent.Name = *req.Name
	}
	if req.Description != nil {
		agent.Description = *req.Description
	}
	if req.AgentType != nil {
		agent.AgentType = *req.AgentType
	}
	if req.IsActive != nil {
		agent.IsActive = *req.IsActive
	}
	if req.Configuration != nil {
		agent.Configuration = req.Configuration
	}
	if req.Capabilities != nil {
		agent.Capabilities = req.Capabilities
	}

	if err := s.repo.Save(agent); err != nil {
		s.log.LogError(err, "failed to update agent", "agent_id", id)
		return nil, apperrors.NewInternalServerError("AGENT_UPDATE_ERROR",
			fmt.Sprintf("Failed to update agent: %s", err))
	}
	return agent, nil
}

func (s *AgentService) DeleteAgent(id uint) error {
	deleted, err := s.repo.Delete(id)
	if err != nil {
		s.log.LogError(err, "failed to delete agent", "agent_id", id)
		return apperrors.NewInternalServerError("AGENT_DELETION_ERROR",
			fmt.Sprintf("Failed to delete agent: %s", err))
	}
	if !deleted {
		return apperrors.NewNotFoundError("AGENT_NOT_FOUND",
			fmt.Sprintf("Agent %d not found", id))
	}
	return nil
}
