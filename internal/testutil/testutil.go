// Package testutil provides shared helpers for package tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"ai-agent-platform/backend/internal/ai"
	"ai-agent-platform/backend/internal/models"
	"ai-agent-platform/backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB opens an isolated in-memory sqlite database with the full
// schema migrated. Shared cache keeps the database alive across the pooled
// connections gorm opens.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_") + "_" + uuid.New().String()[:8]
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Agent{},
		&models.ChatSession{},
		&models.Message{},
		&models.AudioMetadata{},
	))
	return db
}

// NewTestLogger returns a logger that discards output.
func NewTestLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", JSON: true, Output: io.Discard})
}

// FakeAIClient implements ai.Client with overridable behavior. The zero
// value echoes canned responses.
type FakeAIClient struct {
	TranscribeFunc func(ctx context.Context, audio io.Reader, filename string) (string, error)
	CompleteFunc   func(ctx context.Context, messages []ai.ChatMessage, opts ai.CompletionOptions) (string, error)
	SynthesizeFunc func(ctx context.Context, text, voice string) ([]byte, error)

	CompleteCalls [][]ai.ChatMessage
}

func (f *FakeAIClient) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if f.TranscribeFunc != nil {
		return f.TranscribeFunc(ctx, audio, filename)
	}
	return "fake transcript", nil
}

func (f *FakeAIClient) Complete(ctx context.Context, messages []ai.ChatMessage, opts ai.CompletionOptions) (string, error) {
	f.CompleteCalls = append(f.CompleteCalls, messages)
	if f.CompleteFunc != nil {
		return f.CompleteFunc(ctx, messages, opts)
	}
	return "fake reply", nil
}

func (f *FakeAIClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if f.SynthesizeFunc != nil {
		return f.SynthesizeFunc(ctx, text, voice)
	}
	return []byte("fake-mp3-bytes"), nil
}
