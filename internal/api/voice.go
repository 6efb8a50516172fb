package api

import (
	"io"
	"net/http"

	"ai-agent-platform/backend/internal/models"
	"ai-agent-platform/backend/internal/service"
	apperrors "ai-agent-platform/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

type VoiceHandler struct {
	service       *service.VoiceService
	maxUploadSize int64
}

func NewVoiceHandler(service *service.VoiceService, maxUploadSize int64) *VoiceHandler {
	return &VoiceHandler{service: service, maxUploadSize: maxUploadSize}
}

// RegisterRoutesV1 registers the voice pipeline and audio retrieval routes.
func (h *VoiceHandler) RegisterRoutesV1(v1 *gin.RouterGroup) {
	v1.POST("/sessions/:id/voice", h.ProcessVoiceMessage)
	v1.GET("/audio/:filename", h.GetAudioFile)
}

// ProcessVoiceMessage accepts a multipart upload (field "audio_file") and
// runs the voice pipeline for the session.
func (h *VoiceHandler) ProcessVoiceMessage(c *gin.Context) {
	sessionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("audio_file")
	if err != nil {
		c.Error(apperrors.NewBadRequestError("VALIDATION_ERROR",
			"Missing multipart field audio_file"))
		return
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		c.Error(apperrors.NewBadRequestError("AUDIO_TOO_LARGE",
			"Uploaded audio exceeds the maximum allowed size"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperrors.NewBadRequestError("VALIDATION_ERROR",
			"Unable to read uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Error(apperrors.NewInternalServerError("AUDIO_STORAGE_ERROR",
			"Failed to read uploaded audio"))
		return
	}

	result, err := h.service.ProcessVoiceMessage(c.Request.Context(), sessionID, service.VoiceUpload{
		Data:             data,
		OriginalFilename: fileHeader.Filename,
		ContentType:      fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.VoiceResponse{
		Message:       result.AssistantMessage.Content,
		SessionID:     sessionID,
		AudioURL:      "/api/v1/audio/" + result.OutputFilename,
		Transcription: result.Transcription,
	})
}

// GetAudioFile streams stored audio bytes.
func (h *VoiceHandler) GetAudioFile(c *gin.Context) {
	name := c.Param("filename")
	path, err := h.service.AudioFilePath(name)
	if err != nil {
		c.Error(err)
		return
	}
	c.File(path)
}
