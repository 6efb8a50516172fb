package models

import (
	"time"
)

// Session status tags. Nothing mutates status after creation today; the tag
// exists so closed sessions can be marked without a schema change.
const (
	SessionStatusActive = "active"
	SessionStatusClosed = "closed"
)

// Message sender roles.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// ChatSession is a conversation thread belonging to one agent.
type ChatSession struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AgentID   uint      `json:"agent_id" gorm:"not null;index"`
	Status    string    `json:"status" gorm:"size:50;default:active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []Message `json:"-" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

// Message is one turn within a session. Rows are append-only; ordering by
// creation time is the only invariant the store guarantees.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID uint      `json:"session_id" gorm:"not null;index"`
	Sender    string    `json:"sender" gorm:"size:10;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	AudioMetadata *AudioMetadata `json:"audio_metadata,omitempty" gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE"`
}

func (Message) TableName() string {
	return "messages"
}

type UserMessageRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

// AgentReply is the response payload for a text message turn.
type AgentReply struct {
	Message   string `json:"message"`
	SessionID uint   `json:"session_id"`
}
