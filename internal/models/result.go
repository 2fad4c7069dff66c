package models

// RankRequest allows an empty description; it scores every resume 0 with a warning.
type RankRequest struct {
	JobDescription string `form:"job_description" validate:"max=100000"`
}

type RankingResponse struct {
	RankingRun
	ArchiveKey string `json:"archive_key,omitempty"`
}

type SearchRequest struct {
	Query string `query:"q" validate:"required"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=50"`
}

type CandidateMatch struct {
	RunID    string  `json:"run_id"`
	Filename string  `json:"filename"`
	Name     string  `json:"name,omitempty"`
	Email    string  `json:"email,omitempty"`
	Score    float32 `json:"score"`
	Excerpt  string  `json:"excerpt"`
}

type SearchResponse struct {
	Query   string           `json:"query"`
	Results []CandidateMatch `json:"results"`
}

type TranscriptionStatus string

const (
	TranscriptionOK          TranscriptionStatus = "ok"
	TranscriptionNoSpeech    TranscriptionStatus = "no_speech"
	TranscriptionUnavailable TranscriptionStatus = "unavailable"
	TranscriptionMalformed   TranscriptionStatus = "malformed"
)

// TranscriptionResult keeps the failure kinds apart so callers can tell an empty
// recording from a broken backend.
type TranscriptionResult struct {
	Status       TranscriptionStatus `json:"status"`
	Alternatives []string            `json:"alternatives,omitempty"`
	Message      string              `json:"message,omitempty"`
}

func (r TranscriptionResult) OK() bool {
	return r.Status == TranscriptionOK
}
