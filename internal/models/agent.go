package models

import (
	"time"
)

// AgentConfiguration holds the model parameters an agent is invoked with.
// All fields are optional; unset fields fall back to platform defaults.
type AgentConfiguration struct {
	Model         string   `json:"model,omitempty"`
	SystemPrompt  string   `json:"system_prompt,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
	MaxTokens     *int64   `json:"max_tokens,omitempty"`
	KnowledgeBase string   `json:"knowledge_base,omitempty"`
}

// Capabilities maps a capability name to whether the agent supports it,
// e.g. {"text_generation": true, "conversation": true}. The set of names is
// maintained by documentation, not code.
type Capabilities map[string]bool

// Agent is a configured AI persona with model parameters and capability flags.
type Agent struct {
	ID            uint                `json:"id" gorm:"primaryKey"`
	Name          string              `json:"name" gorm:"size:255;not null;index"`
	Description   string              `json:"description"`
	AgentType     string              `json:"agent_type" gorm:"size:100;not null"`
	IsActive      bool                `json:"is_active"`
	Configuration *AgentConfiguration `json:"configuration,omitempty" gorm:"serializer:json"`
	Capabilities  Capabilities        `json:"capabilities,omitempty" gorm:"serializer:json"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (Agent) TableName() string {
	return "agents"
}

type CreateAgentRequest struct {
	Name          string              `json:"name" binding:"required,max=255"`
	Description   string              `json:"description"`
	AgentType     string              `json:"agent_type" binding:"required,max=100"`
	IsActive      *bool               `json:"is_active"`
	Configuration *AgentConfiguration `json:"configuration"`
	Capabilities  Capabilities        `json:"capabilities"`
}

// UpdateAgentRequest carries a partial update; nil fields are left unchanged.
type UpdateAgentRequest struct {
	Name          *string             `json:"name" binding:"omitempty,min=1,max=255"`
	Description   *string             `json:"description"`
	AgentType     *string             `json:"agent_type" binding:"omitempty,min=1,max=100"`
	IsActive      *bool               `json:"is_active"`
	Configuration *AgentConfiguration `json:"configuration"`
	Capabilities  Capabilities        `json:"capabilities"`
}
