package errors_test

import (
	"errors"
	"net/http"
	"testing"

	apperrors "ai-agent-platform/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorPassesAppErrorThrough(t *testing.T) {
	orig := apperrors.NewNotFoundError("AGENT_NOT_FOUND", "Agent 7 not found")
	assert.Same(t, orig, apperrors.FromError(orig))
}

func TestFromErrorWrapsPlainError(t *testing.T) {
	appErr := apperrors.FromError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
	assert.Contains(t, appErr.Message, "boom")

	assert.Nil(t, apperrors.FromError(nil))
}

func TestStatusAndCodeAccessors(t *testing.T) {
	err := apperrors.NewBadGatewayError("SPEECH_TO_TEXT_ERROR", "upstream down")
	assert.Equal(t, http.StatusBadGateway, apperrors.GetStatusCode(err))
	assert.Equal(t, "SPEECH_TO_TEXT_ERROR", apperrors.GetErrorCode(err))

	plain := errors.New("nope")
	assert.Equal(t, http.StatusInternalServerError, apperrors.GetStatusCode(plain))
	assert.Equal(t, "UNKNOWN_ERROR", apperrors.GetErrorCode(plain))
}

func TestIsMatchesByCode(t *testing.T) {
	target := apperrors.NewNotFoundError("SESSION_NOT_FOUND", "")
	err := apperrors.NewNotFoundError("SESSION_NOT_FOUND", "Session 3 not found")
	assert.True(t, apperrors.Is(err, target))
	assert.False(t, apperrors.Is(errors.New("other"), target))
}

func TestWithDetails(t *testing.T) {
	err := apperrors.NewBadRequestError("VALIDATION_ERROR", "bad input").
		WithDetails(map[string]string{"field": "name"})
	assert.Equal(t, map[string]string{"field": "name"}, err.Details)
}
