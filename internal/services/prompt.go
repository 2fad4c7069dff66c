package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildTranscriptionPrompt asks for every plausible reading of a spoken job description.
func (pb *PromptBuilder) BuildTranscriptionPrompt(language string, maxAlternatives int) string {
	return fmt.Sprintf(`You are a speech recognition engine. Transcribe the attached recording.
The speaker is dictating a job description in %s.

Return up to %d alternative transcriptions, most likely first, in the following JSON format:
{
  "alternatives": ["<transcript>", "..."]
}

If the recording contains no intelligible speech, return {"alternatives": []}.
Do not add commentary, markdown or any field other than "alternatives".`, language, maxAlternatives)
}
