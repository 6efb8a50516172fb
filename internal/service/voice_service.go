package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"ai-agent-platform/backend/internal/ai"
	"ai-agent-platform/backend/internal/models"
	"ai-agent-platform/backend/internal/repository"
	"ai-agent-platform/backend/internal/storage"
	apperrors "ai-agent-platform/backend/pkg/errors"
	"ai-agent-platform/backend/pkg/logger"
	"ai-agent-platform/backend/pkg/metrics"
)

// DefaultTTSVoice is used when no voice is configured.
const DefaultTTSVoice = "alloy"

// VoiceUpload describes the audio blob received from the client.
type VoiceUpload struct {
	Data             []byte
	OriginalFilename string
	ContentType      string
}

// VoiceResult is what a completed pipeline run produces.
type VoiceResult struct {
	UserMessage      *models.Message
	AssistantMessage *models.Message
	Transcription    string
	OutputFilename   string
}

// VoiceService sequences one voice turn: store the upload, transcribe it,
// generate a reply from session history, synthesize the reply, and persist
// the audio metadata.
//
// Each stage commits its own persistence step. A failure fails the whole
// request but does not undo earlier commits: a completion failure leaves the
// user message in place, and a synthesis failure leaves both messages in
// place with no AudioMetadata row. Re-invoking after a partial failure can
// therefore duplicate messages. This mirrors the documented contract; do not
// quietly wrap the pipeline in a transaction.
type VoiceService struct {
	sessions  *SessionService
	audioMeta repository.AudioMetadataRepository
	store     *storage.Store
	ai        ai.Client
	ttsVoice  string
	log       *logger.Logger
}

func NewVoiceService(
	sessions *SessionService,
	audioMeta repository.AudioMetadataRepository,
	store *storage.Store,
	aiClient ai.Client,
	ttsVoice string,
	log *logger.Logger,
) *VoiceService {
	if ttsVoice == "" {
		ttsVoice = DefaultTTSVoice
	}
	return &VoiceService{
		sessions:  sessions,
		audioMeta: audioMeta,
		store:     store,
		ai:        aiClient,
		ttsVoice:  ttsVoice,
		log:       log,
	}
}

// ProcessVoiceMessage runs the full pipeline for one uploaded audio blob.
func (s *VoiceService) ProcessVoiceMessage(ctx context.Context, sessionID uint, upload VoiceUpload) (*VoiceResult, error) {
	if upload.OriginalFilename == "" {
		metrics.VoiceRequestsTotal.WithLabelValues("validation").Inc()
		return nil, apperrors.NewBadRequestError("UNSUPPORTED_AUDIO_FORMAT", "No file provided")
	}
	ext := strings.ToLower(filepath.Ext(upload.OriginalFilename))
	if !storage.IsSupportedFormat(ext) {
		metrics.VoiceRequestsTotal.WithLabelValues("validation").Inc()
		return nil, apperrors.NewBadRequestError("UNSUPPORTED_AUDIO_FORMAT",
			fmt.Sprintf("Unsupported audio format %q, expected one of .wav, .mp3, .m4a, .webm", ext))
	}

	if _, err := s.sessions.GetSession(sessionID); err != nil {
		metrics.VoiceRequestsTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	inputName, err := s.store.Save(upload.Data, "", ext)
	if err != nil {
		metrics.VoiceRequestsTotal.WithLabelValues("storage").Inc()
		s.log.LogError(err, "failed to store input audio", "session_id", sessionID)
		return nil, apperrors.NewInternalServerError("AUDIO_STORAGE_ERROR",
			fmt.Sprintf("Failed to store uploaded audio: %s", err))
	}

	transcript, err := s.transcribe(ctx, upload.Data, inputName)
	if err != nil {
		metrics.VoiceRequestsTotal.WithLabelValues("transcription").Inc()
		return nil, err
	}

	// Persists the user transcript, generates the reply from session
	// history, and persists the assistant message.
	userMsg, assistantMsg, err := s.sessions.SendMessage(ctx, sessionID, transcript)
	if err != nil {
		metrics.VoiceRequestsTotal.WithLabelValues("completion").Inc()
		return nil, err
	}

	outputName, err := s.synthesize(ctx, sessionID, assistantMsg.Content)
	if err != nil {
		metrics.VoiceRequestsTotal.WithLabelValues("synthesis").Inc()
		return nil, err
	}

	meta := &models.AudioMetadata{
		MessageID:         assistantMsg.ID,
		InputAudioPath:    filepath.Join(s.store.Dir(), inputName),
		OutputAudioPath:   filepath.Join(s.store.Dir(), outputName),
		InputAudioFormat:  strings.TrimPrefix(ext, "."),
		OutputAudioFormat: "mp3",
		TranscriptionText: transcript,
		TTSVoice:          s.ttsVoice,
		AdditionalMetadata: map[string]any{
			"original_filename": upload.OriginalFilename,
			"file_size":         len(upload.Data),
			"content_type":      upload.ContentType,
			"file_extension":    ext,
		},
	}
	if err := s.audioMeta.Create(meta); err != nil {
		metrics.VoiceRequestsTotal.WithLabelValues("metadata").Inc()
		s.log.LogError(err, "failed to store audio metadata", "message_id", assistantMsg.ID)
		return nil, apperrors.NewInternalServerError("AUDIO_METADATA_ERROR",
			fmt.Sprintf("Failed to store audio metadata: %s", err))
	}

	metrics.VoiceRequestsTotal.WithLabelValues("success").Inc()
	return &VoiceResult{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		Transcription:    transcript,
		OutputFilename:   outputName,
	}, nil
}

func (s *VoiceService) transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	start := time.Now()
	transcript, err := s.ai.Transcribe(ctx, bytes.NewReader(audio), filename)
	metrics.ObserveVoiceStage("transcription", start)
	if err != nil {
		s.log.LogError(err, "speech-to-text failed", "file", filename)
		return "", apperrors.NewBadGatewayError("SPEECH_TO_TEXT_ERROR",
			fmt.Sprintf("Speech-to-text conversion failed: %s", err))
	}
	return transcript, nil
}

func (s *VoiceService) synthesize(ctx context.Context, sessionID uint, text string) (string, error) {
	start := time.Now()
	audio, err := s.ai.Synthesize(ctx, text, s.ttsVoice)
	metrics.ObserveVoiceStage("synthesis", start)
	if err != nil {
		s.log.LogError(err, "text-to-speech failed", "session_id", sessionID)
		return "", apperrors.NewBadGatewayError("TEXT_TO_SPEECH_ERROR",
			fmt.Sprintf("Text-to-speech conversion failed: %s", err))
	}

	outputName, err := s.store.Save(audio, fmt.Sprintf("response_%d", sessionID), ".mp3")
	if err != nil {
		s.log.LogError(err, "failed to store output audio", "session_id", sessionID)
		return "", apperrors.NewInternalServerError("AUDIO_STORAGE_ERROR",
			fmt.Sprintf("Failed to store synthesized audio: %s", err))
	}
	return outputName, nil
}

// AudioFilePath resolves a stored audio filename to its on-disk path.
func (s *VoiceService) AudioFilePath(name string) (string, error) {
	path, err := s.store.Path(name)
	if err != nil {
		return "", apperrors.NewNotFoundError("AUDIO_FILE_NOT_FOUND",
			fmt.Sprintf("Audio file %q not found", name))
	}
	return path, nil
}
