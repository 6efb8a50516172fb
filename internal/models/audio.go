package models

import (
	"time"
)

// AudioMetadata records the file and transcription details of one voice
// turn. It is written once, after synthesis succeeds, and never updated.
// Exactly one row exists per voice-driven assistant message.
type AudioMetadata struct {
	ID                  uint           `json:"id" gorm:"primaryKey"`
	MessageID           uint           `json:"message_id" gorm:"not null;uniqueIndex"`
	InputAudioPath      string         `json:"input_audio_path,omitempty" gorm:"size:500"`
	OutputAudioPath     string         `json:"output_audio_path,omitempty" gorm:"size:500"`
	InputAudioFormat    string         `json:"input_audio_format,omitempty" gorm:"size:10"`
	OutputAudioFormat   string         `json:"output_audio_format,omitempty" gorm:"size:10"`
	InputAudioDuration  *int           `json:"input_audio_duration,omitempty"`
	OutputAudioDuration *int           `json:"output_audio_duration,omitempty"`
	TranscriptionText   string         `json:"transcription_text,omitempty" gorm:"type:text"`
	TTSVoice            string         `json:"tts_voice,omitempty" gorm:"size:50"`
	AdditionalMetadata  map[string]any `json:"additional_metadata,omitempty" gorm:"serializer:json"`
	CreatedAt           time.Time      `json:"created_at"`
}

func (AudioMetadata) TableName() string {
	return "audio_metadata"
}

// VoiceResponse is the payload returned by the voice endpoint.
type VoiceResponse struct {
	Message       string `json:"message"`
	SessionID     uint   `json:"session_id"`
	AudioURL      string `json:"audio_url"`
	Transcription string `json:"transcription"`
}
