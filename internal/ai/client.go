// Package ai wraps the external speech and completion provider behind a
// small interface so services can be tested against fakes.
package ai

import (
	"context"
	"io"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of completion context.
type ChatMessage struct {
	Role    Role
	Content string
}

// CompletionOptions carries per-agent overrides for a completion call.
// Zero/nil fields fall back to the client defaults.
type CompletionOptions struct {
	Model       string
	Temperature *float64
	MaxTokens   *int64
}

// Client is the provider surface consumed by the services. All three calls
// block until the provider answers; there are no retries, and the only
// timeout is whatever the underlying HTTP client applies.
type Client interface {
	// Transcribe converts spoken audio to text.
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)

	// Complete generates a reply for the given conversation.
	Complete(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (string, error)

	// Synthesize renders text as mp3 audio in the given voice.
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}
