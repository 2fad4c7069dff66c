package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"alfredoptarigan/resume-ranker/internal/models"
)

const (
	transcriptionLanguage        = "English (India)"
	transcriptionMaxAlternatives = 5
)

type TranscriptionService interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) models.TranscriptionResult
}

type transcriptionService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
}

// NewTranscriptionService accepts a nil GeminiService; every call then reports the
// backend as unavailable.
func NewTranscriptionService(gemini GeminiService) TranscriptionService {
	return &transcriptionService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
	}
}

type transcriptionPayload struct {
	Alternatives []string `json:"alternatives"`
}

// Transcribe implements TranscriptionService.
func (t *transcriptionService) Transcribe(ctx context.Context, audio []byte, mimeType string) models.TranscriptionResult {
	if t.gemini == nil {
		return models.TranscriptionResult{
			Status:  models.TranscriptionUnavailable,
			Message: "transcription backend is not configured",
		}
	}
	if len(audio) == 0 {
		return models.TranscriptionResult{
			Status:  models.TranscriptionNoSpeech,
			Message: "empty recording",
		}
	}

	prompt := t.promptBuilder.BuildTranscriptionPrompt(transcriptionLanguage, transcriptionMaxAlternatives)
	response, err := t.gemini.TranscribeAudio(ctx, prompt, audio, mimeType)
	if err != nil {
		log.Printf("❌ Transcription failed: %v\n", err)
		return models.TranscriptionResult{
			Status:  models.TranscriptionUnavailable,
			Message: err.Error(),
		}
	}

	if strings.TrimSpace(response) == "" {
		return models.TranscriptionResult{
			Status:  models.TranscriptionMalformed,
			Message: "empty response from transcription backend",
		}
	}

	var payload transcriptionPayload
	if err := json.Unmarshal([]byte(extractJSON(response)), &payload); err != nil {
		return models.TranscriptionResult{
			Status:  models.TranscriptionMalformed,
			Message: "failed to parse transcription response: " + err.Error(),
		}
	}

	var alternatives []string
	for _, alt := range payload.Alternatives {
		if alt = strings.TrimSpace(alt); alt != "" {
			alternatives = append(alternatives, alt)
		}
	}
	if len(alternatives) == 0 {
		return models.TranscriptionResult{
			Status:  models.TranscriptionNoSpeech,
			Message: "no speech detected",
		}
	}

	return models.TranscriptionResult{
		Status:       models.TranscriptionOK,
		Alternatives: alternatives,
	}
}

// extractJSON strips markdown fences and anything around the outermost JSON object.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}
	return strings.TrimSpace(text)
}
