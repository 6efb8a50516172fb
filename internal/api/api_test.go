package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-agent-platform/backend/internal/api"
	"ai-agent-platform/backend/internal/models"
	"ai-agent-platform/backend/internal/repository"
	"ai-agent-platform/backend/internal/service"
	"ai-agent-platform/backend/internal/storage"
	"ai-agent-platform/backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ai-agent-platform/backend/pkg/errors"
)

type apiFixture struct {
	engine   *gin.Engine
	fake     *testutil.FakeAIClient
	agents   *service.AgentService
	sessions *service.SessionService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger()
	fake := &testutil.FakeAIClient{}

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	agentRepo := repository.NewGormAgentRepository(db)
	agentSvc := service.NewAgentService(agentRepo, log)
	sessionSvc := service.NewSessionService(
		agentRepo,
		repository.NewGormSessionRepository(db),
		repository.NewGormMessageRepository(db),
		fake,
		log,
	)
	voiceSvc := service.NewVoiceService(
		sessionSvc,
		repository.NewGormAudioMetadataRepository(db),
		store,
		fake,
		"",
		log,
	)

	engine := gin.New()
	engine.Use(apperrors.ErrorHandler())

	v1 := engine.Group("/api/v1")
	api.NewAgentHandler(agentSvc).RegisterRoutesV1(v1)
	api.NewSessionHandler(sessionSvc).RegisterRoutesV1(v1)
	api.NewVoiceHandler(voiceSvc, 1<<20).RegisterRoutesV1(v1)

	return &apiFixture{engine: engine, fake: fake, agents: agentSvc, sessions: sessionSvc}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestAgentCRUDOverHTTP(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/agents", gin.H{
		"name":       "Bot",
		"agent_type": "chatbot",
		"configuration": gin.H{
			"model":       "gpt-3.5-turbo",
			"temperature": 0.7,
			"max_tokens":  1000,
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeJSON[models.Agent](t, w)
	require.NotZero(t, created.ID)
	assert.True(t, created.IsActive)

	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/agents/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeJSON[models.Agent](t, w)
	assert.Equal(t, "Bot", got.Name)
	require.NotNil(t, got.Configuration)
	assert.Equal(t, "gpt-3.5-turbo", got.Configuration.Model)

	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/agents/%d", created.ID), gin.H{
		"description": "now with a description",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeJSON[models.Agent](t, w)
	assert.Equal(t, "now with a description", updated.Description)
	assert.Equal(t, "Bot", updated.Name)

	w = f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/agents/%d", created.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/agents/%d", created.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	envelope := decodeJSON[errorEnvelope](t, w)
	assert.Equal(t, "AGENT_NOT_FOUND", envelope.Error.Code)
	assert.NotEmpty(t, envelope.Error.Message)
}

func TestCreateAgentValidation(t *testing.T) {
	f := newAPIFixture(t)

	// name and agent_type are required
	w := f.do(t, http.MethodPost, "/api/v1/agents", gin.H{"description": "nameless"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeJSON[errorEnvelope](t, w)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestListAgentsActiveFilter(t *testing.T) {
	f := newAPIFixture(t)

	inactive := false
	_, err := f.agents.CreateAgent(&models.CreateAgentRequest{Name: "on", AgentType: "chatbot"})
	require.NoError(t, err)
	_, err = f.agents.CreateAgent(&models.CreateAgentRequest{Name: "off", AgentType: "chatbot", IsActive: &inactive})
	require.NoError(t, err)

	w := f.do(t, http.MethodGet, "/api/v1/agents?active=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	active := decodeJSON[[]models.Agent](t, w)
	require.Len(t, active, 1)
	assert.Equal(t, "on", active[0].Name)

	w = f.do(t, http.MethodGet, "/api/v1/agents?page=1&page_size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeJSON[service.Page[models.Agent]](t, w)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Items, 2)
}

func TestInvalidIDParameter(t *testing.T) {
	f := newAPIFixture(t)

	for _, path := range []string{"/api/v1/agents/abc", "/api/v1/agents/0"} {
		w := f.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, path)
		envelope := decodeJSON[errorEnvelope](t, w)
		assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
	}
}

func TestSendMessageOverHTTP(t *testing.T) {
	f := newAPIFixture(t)

	agent, err := f.agents.CreateAgent(&models.CreateAgentRequest{Name: "Bot", AgentType: "chatbot"})
	require.NoError(t, err)

	w := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/agents/%d/sessions", agent.ID), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	session := decodeJSON[models.ChatSession](t, w)

	w = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/sessions/%d/messages", session.ID), gin.H{
		"content": "hello",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reply := decodeJSON[models.AgentReply](t, w)
	assert.Equal(t, "fake reply", reply.Message)
	assert.Equal(t, session.ID, reply.SessionID)

	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/sessions/%d/messages", session.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	messages := decodeJSON[[]models.Message](t, w)
	require.Len(t, messages, 2)
	assert.Equal(t, models.SenderUser, messages[0].Sender)
	assert.Equal(t, models.SenderAssistant, messages[1].Sender)
}

func TestSendMessageToMissingSession(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/sessions/999/messages", gin.H{"content": "hello"})
	require.Equal(t, http.StatusNotFound, w.Code)
	envelope := decodeJSON[errorEnvelope](t, w)
	assert.Equal(t, "SESSION_NOT_FOUND", envelope.Error.Code)
}

func TestVoiceUploadOverHTTP(t *testing.T) {
	f := newAPIFixture(t)

	agent, err := f.agents.CreateAgent(&models.CreateAgentRequest{Name: "Bot", AgentType: "chatbot"})
	require.NoError(t, err)
	session, err := f.sessions.CreateSession(agent.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio_file", "question.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake wav bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%d/voice", session.ID), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeJSON[models.VoiceResponse](t, w)
	assert.Equal(t, "fake reply", resp.Message)
	assert.Equal(t, "fake transcript", resp.Transcription)
	assert.Equal(t, session.ID, resp.SessionID)
	require.Contains(t, resp.AudioURL, "/api/v1/audio/")

	// The returned URL must serve the synthesized bytes.
	getReq := httptest.NewRequest(http.MethodGet, resp.AudioURL, nil)
	getW := httptest.NewRecorder()
	f.engine.ServeHTTP(getW, getReq)
	require.Equal(t, http.StatusOK, getW.Code)
	assert.Equal(t, []byte("fake-mp3-bytes"), getW.Body.Bytes())
}

func TestVoiceUploadMissingFileField(t *testing.T) {
	f := newAPIFixture(t)

	agent, err := f.agents.CreateAgent(&models.CreateAgentRequest{Name: "Bot", AgentType: "chatbot"})
	require.NoError(t, err)
	session, err := f.sessions.CreateSession(agent.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%d/voice", session.ID), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeJSON[errorEnvelope](t, w)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestGetAudioFileNotFound(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/audio/missing.mp3", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	envelope := decodeJSON[errorEnvelope](t, w)
	assert.Equal(t, "AUDIO_FILE_NOT_FOUND", envelope.Error.Code)
}

func TestSummarizeOverHTTP(t *testing.T) {
	f := newAPIFixture(t)

	agent, err := f.agents.CreateAgent(&models.CreateAgentRequest{Name: "Bot", AgentType: "chatbot"})
	require.NoError(t, err)
	session, err := f.sessions.CreateSession(agent.ID)
	require.NoError(t, err)
	_, err = f.sessions.AddMessage(session.ID, models.SenderUser, "hello")
	require.NoError(t, err)

	w := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/sessions/%d/summary", session.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Summary   string `json:"summary"`
		SessionID uint   `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "fake reply", resp.Summary)
	assert.Equal(t, session.ID, resp.SessionID)
}
