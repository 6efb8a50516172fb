package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-agent-platform/backend/internal/ai"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClient(t *testing.T, handler http.Handler) *ai.OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return ai.NewOpenAIClient(
		ai.Defaults{Model: "gpt-3.5-turbo", Temperature: 0.7, MaxTokens: 1000},
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL+"/v1"),
		option.WithMaxRetries(0),
	)
}

func TestCompleteSendsConfiguredParameters(t *testing.T) {
	var gotBody map[string]any
	client := newMockClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "hi there"}, "finish_reason": "stop"}]
		}`))
	}))

	temp := 0.2
	maxTokens := int64(50)
	reply, err := client.Complete(context.Background(), []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: "You are terse."},
		{Role: ai.RoleUser, Content: "hello"},
	}, ai.CompletionOptions{Model: "gpt-4o", Temperature: &temp, MaxTokens: &maxTokens})
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)

	assert.Equal(t, "gpt-4o", gotBody["model"])
	assert.InDelta(t, 0.2, gotBody["temperature"].(float64), 1e-9)
	assert.EqualValues(t, 50, gotBody["max_tokens"])

	messages := gotBody["messages"].([]any)
	require.Len(t, messages, 2)
	first := messages[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "You are terse.", first["content"])
}

func TestCompleteFallsBackToDefaults(t *testing.T) {
	var gotBody map[string]any
	client := newMockClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-2",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "ok"}, "finish_reason": "stop"}]
		}`))
	}))

	_, err := client.Complete(context.Background(), []ai.ChatMessage{
		{Role: ai.RoleUser, Content: "hello"},
	}, ai.CompletionOptions{})
	require.NoError(t, err)

	assert.Equal(t, "gpt-3.5-turbo", gotBody["model"])
	assert.InDelta(t, 0.7, gotBody["temperature"].(float64), 1e-9)
	assert.EqualValues(t, 1000, gotBody["max_tokens"])
}

func TestCompleteEmptyChoices(t *testing.T) {
	client := newMockClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-3", "object": "chat.completion", "choices": []}`))
	}))

	_, err := client.Complete(context.Background(), []ai.ChatMessage{
		{Role: ai.RoleUser, Content: "hello"},
	}, ai.CompletionOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response generated")
}

func TestCompleteRejectsUnknownRole(t *testing.T) {
	client := newMockClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the server")
	}))

	_, err := client.Complete(context.Background(), []ai.ChatMessage{
		{Role: "moderator", Content: "hello"},
	}, ai.CompletionOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

func TestTranscribeUploadsMultipartAudio(t *testing.T) {
	client := newMockClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "question.wav", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "  what time is it  "}`))
	}))

	text, err := client.Transcribe(context.Background(), strings.NewReader("fake wav bytes"), "question.wav")
	require.NoError(t, err)
	assert.Equal(t, "what time is it", text) // whitespace trimmed
}

func TestTranscribeUpstreamError(t *testing.T) {
	client := newMockClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "whisper unavailable", "type": "server_error"}}`))
	}))

	_, err := client.Transcribe(context.Background(), strings.NewReader("x"), "a.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcription request failed")
}

func TestSynthesizeReturnsAudioBytes(t *testing.T) {
	client := newMockClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/audio/speech", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tts-1", body["model"])
		assert.Equal(t, "alloy", body["voice"])
		assert.Equal(t, "hi there", body["input"])

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))

	audio, err := client.Synthesize(context.Background(), "hi there", "alloy")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), audio)
}
