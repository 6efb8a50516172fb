package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-agent-platform/backend/internal/ai"
	"ai-agent-platform/backend/internal/models"
	"ai-agent-platform/backend/internal/repository"
	apperrors "ai-agent-platform/backend/pkg/errors"
	"ai-agent-platform/backend/pkg/logger"
	"ai-agent-platform/backend/pkg/metrics"

	"gorm.io/gorm"
)

// SessionService manages chat sessions and message turns.
type SessionService struct {
	agents   repository.AgentRepository
	sessions repository.SessionRepository
	messages repository.MessageRepository
	ai       ai.Client
	log      *logger.Logger
}

func NewSessionService(
	agents repository.AgentRepository,
	sessions repository.SessionRepository,
	messages repository.MessageRepository,
	aiClient ai.Client,
	log *logger.Logger,
) *SessionService {
	return &SessionService{
		agents:   agents,
		sessions: sessions,
		messages: messages,
		ai:       aiClient,
		log:      log,
	}
}

// CreateSession starts a new session for an existing agent.
func (s *SessionService) CreateSession(agentID uint) (*models.ChatSession, error) {
	if _, err := s.agents.GetByID(agentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("AGENT_NOT_FOUND",
				fmt.Sprintf("Agent %d not found", agentID))
		}
		return nil, apperrors.NewInternalServerError("DATABASE_ERROR", err.Error())
	}

	session := &models.ChatSession{AgentID: agentID, Status: models.SessionStatusActive}
	if err := s.sessions.Create(session); err != nil {
		s.log.LogError(err, "failed to create session", "agent_id", agentID)
		return nil, apperrors.NewInternalServerError("SESSION_CREATION_ERROR",
			fmt.Sprintf("Failed to create session: %s", err))
	}
	return session, nil
}

func (s *SessionService) ListSessions(agentID uint, page, pageSize int) (*Page[models.ChatSession], error) {
	if _, err := s.agents.GetByID(agentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("AGENT_NOT_FOUND",
				fmt.Sprintf("Agent %d not found", agentID))
		}
		return nil, apperrors.NewInternalServerError("DATABASE_ERROR", err.Error())
	}

	page, pageSize, offset, limit := ClampPage(page, pageSize)
	sessions, total, err := s.sessions.ListByAgent(agentID, offset, limit)
	if err != nil {
		return nil, apperrors.NewInternalServerError("DATABASE_ERROR", err.Error())
	}
	return &Page[models.ChatSession]{Items: sessions, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *SessionService) GetSession(id uint) (*models.ChatSession, error) {
	session, err := s.sessions.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("SESSION_NOT_FOUND",
				fmt.Sprintf("Session %d not found", id))
		}
		return nil, apperrors.NewInternalServerError("DATABASE_ERROR", err.Error())
	}
	return session, nil
}

// SessionMessages returns the full history of a session oldest-first, each
// message carrying its audio metadata when one exists.
func (s *SessionService) SessionMessages(sessionID uint) ([]models.Message, error) {
	if _, err := s.GetSession(sessionID); err != nil {
		return nil, err
	}
	messages, err := s.messages.ListBySession(sessionID)
	if err != nil {
		return nil, apperrors.NewInternalServerError("DATABASE_ERROR", err.Error())
	}
	return messages, nil
}

// AddMessage appends one turn to a session.
func (s *SessionService) AddMessage(sessionID uint, sender, content string) (*models.Message, error) {
	if sender != models.SenderUser && sender != models.SenderAssistant {
		return nil, apperrors.NewBadRequestError("INVALID_SENDER",
			fmt.Sprintf("Invalid sender %q, must be %q or %q", sender, models.SenderUser, models.SenderAssistant))
	}

	message := &models.Message{SessionID: sessionID, Sender: sender, Content: content}
	if err := s.messages.Create(message); err != nil {
		s.log.LogError(err, "failed to create message", "session_id", sessionID, "sender", sender)
		return nil, apperrors.NewInternalServerError("MESSAGE_CREATION_ERROR",
			fmt.Sprintf("Failed to create message: %s", err))
	}
	metrics.MessagesCreated.WithLabelValues(sender).Inc()
	return message, nil
}

// SendMessage persists content as a user message, asks the agent's model for
// a reply, and persists that reply as an assistant message. The user message
// stays durable when completion fails; there is no compensating delete.
func (s *SessionService) SendMessage(ctx context.Context, sessionID uint, content string) (*models.Message, *models.Message, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, nil, err
	}
	agent, err := s.agents.GetByID(session.AgentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NewNotFoundError("AGENT_NOT_FOUND",
				fmt.Sprintf("Agent %d not found", session.AgentID))
		}
		return nil, nil, apperrors.NewInternalServerError("DATABASE_ERROR", err.Error())
	}

	userMsg, err := s.AddMessage(sessionID, models.SenderUser, content)
	if err != nil {
		return nil, nil, err
	}

	reply, err := s.generateReply(ctx, sessionID, agent)
	if err != nil {
		return nil, nil, err
	}

	assistantMsg, err := s.AddMessage(sessionID, models.SenderAssistant, reply)
	if err != nil {
		return nil, nil, err
	}

	return userMsg, assistantMsg, nil
}

// generateReply builds the completion context from the stored history
// (which already includes the newest user message) and invokes the model.
func (s *SessionService) generateReply(ctx context.Context, sessionID uint, agent *models.Agent) (string, error) {
	history, err := s.messages.ListBySession(sessionID)
	if err != nil {
		return "", apperrors.NewInternalServerError("DATABASE_ERROR", err.Error())
	}

	conversation := buildConversation(agent, history)

	reply, err := s.ai.Complete(ctx, conversation, completionOptions(agent))
	if err != nil {
		s.log.LogError(err, "chat completion failed", "session_id", sessionID, "agent_id", agent.ID)
		return "", apperrors.NewBadGatewayError("CHAT_COMPLETION_ERROR",
			fmt.Sprintf("Error generating response: %s", err))
	}
	return reply, nil
}

// Summarize asks the agent's model for a summary of the whole session.
func (s *SessionService) Summarize(ctx context.Context, sessionID uint) (string, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return "", err
	}
	agent, err := s.agents.GetByID(session.AgentID)
	if err != nil {
		return "", apperrors.NewInternalServerError("DATABASE_ERROR", err.Error())
	}
	history, err := s.messages.ListBySession(sessionID)
	if err != nil {
		return "", apperrors.NewInternalServerError("DATABASE_ERROR", err.Error())
	}

	var transcript strings.Builder
	for _, msg := range history {
		fmt.Fprintf(&transcript, "%s: %s\n", msg.Sender, msg.Content)
	}

	prompt := "Summarize the following conversation between a user and an AI assistant:\n\n" +
		transcript.String() + "\nSummary:"

	temperature := 0.5
	maxTokens := int64(300)
	opts := completionOptions(agent)
	opts.Temperature = &temperature
	opts.MaxTokens = &maxTokens

	summary, err := s.ai.Complete(ctx, []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: "You are a helpful assistant that summarizes conversations."},
		{Role: ai.RoleUser, Content: prompt},
	}, opts)
	if err != nil {
		s.log.LogError(err, "session summary failed", "session_id", sessionID)
		return "", apperrors.NewBadGatewayError("CHAT_COMPLETION_ERROR",
			fmt.Sprintf("Failed to summarize session: %s", err))
	}
	return summary, nil
}

// buildConversation maps stored history into completion context: optional
// knowledge-base preamble, optional system prompt, then every turn
// oldest-first with non-user senders mapped to the assistant role.
func buildConversation(agent *models.Agent, history []models.Message) []ai.ChatMessage {
	conversation := make([]ai.ChatMessage, 0, len(history)+2)

	if agent.Configuration != nil && agent.Configuration.KnowledgeBase != "" {
		conversation = append(conversation, ai.ChatMessage{
			Role:    ai.RoleSystem,
			Content: "This is important knowledge base context: " + agent.Configuration.KnowledgeBase,
		})
	}
	if agent.Configuration != nil && agent.Configuration.SystemPrompt != "" {
		conversation = append(conversation, ai.ChatMessage{
			Role:    ai.RoleSystem,
			Content: agent.Configuration.SystemPrompt,
		})
	}

	for _, msg := range history {
		role := ai.RoleAssistant
		if msg.Sender == models.SenderUser {
			role = ai.RoleUser
		}
		conversation = append(conversation, ai.ChatMessage{Role: role, Content: msg.Content})
	}
	return conversation
}

func completionOptions(agent *models.Agent) ai.CompletionOptions {
	opts := ai.CompletionOptions{}
	if agent.Configuration != nil {
		opts.Model = agent.Configuration.Model
		opts.Temperature = agent.Configuration.Temperature
		opts.MaxTokens = agent.Configuration.MaxTokens
	}
	return opts
}
