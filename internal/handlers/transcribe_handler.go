package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/services"
)

const defaultAudioMimeType = "audio/wav"

type TranscribeHandler struct {
	transcriptionService services.TranscriptionService
}

func NewTranscribeHandler(transcriptionService services.TranscriptionService) *TranscribeHandler {
	return &TranscribeHandler{transcriptionService: transcriptionService}
}

// HandleTranscribe handles POST /transcribe with the raw recording as body.
func (h *TranscribeHandler) HandleTranscribe(c *fiber.Ctx) error {
	mimeType := c.Get(fiber.HeaderContentType)
	if mimeType == "" || mimeType == fiber.MIMEOctetStream {
		mimeType = defaultAudioMimeType
	}

	// the body buffer is reused once the handler returns
	audio := append([]byte(nil), c.Body()...)
	result := h.transcriptionService.Transcribe(c.UserContext(), audio, mimeType)

	return c.Status(transcriptionStatusCode(result.Status)).JSON(result)
}

func transcriptionStatusCode(status models.TranscriptionStatus) int {
	switch status {
	case models.TranscriptionOK:
		return fiber.StatusOK
	case models.TranscriptionNoSpeech:
		return fiber.StatusUnprocessableEntity
	case models.TranscriptionMalformed:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusServiceUnavailable
	}
}
