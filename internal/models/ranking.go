package models

import (
	"time"

	"github.com/google/uuid"
)

type EntryStatus string

const (
	StatusRanked EntryStatus = "ranked"
	StatusFailed EntryStatus = "failed"
)

// CandidateProfile holds what was pulled out of one resume.
type CandidateProfile struct {
	Name          *string  `gorm:"type:text" json:"name"`
	Email         *string  `gorm:"type:text" json:"email"`
	MissingSkills []string `gorm:"type:text;serializer:json" json:"missing_skills"`
}

type RankingEntry struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"-"`
	RunID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"-"`
	Rank       int         `gorm:"not null" json:"rank"`
	Filename   string      `gorm:"type:text" json:"filename"`
	Similarity float64     `gorm:"type:double precision" json:"similarity"`
	Status     EntryStatus `gorm:"type:text;not null;default:'ranked'" json:"status"`
	Error      string      `gorm:"type:text" json:"error,omitempty"`
	Text       string      `gorm:"-" json:"-"`

	CandidateProfile `gorm:"embedded"`
}

func (RankingEntry) TableName() string {
	return "ranking_entries"
}

// Failed reports whether the document could not be processed.
func (e RankingEntry) Failed() bool {
	return e.Status == StatusFailed
}

// RankingRun is the outcome of one ranking request. Scores are only comparable
// between entries of the same run.
type RankingRun struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobDescription string         `gorm:"type:text" json:"job_description"`
	Warnings       []string       `gorm:"type:text;serializer:json" json:"warnings,omitempty"`
	Entries        []RankingEntry `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"results"`
	CreatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (RankingRun) TableName() string {
	return "ranking_runs"
}

// RankedEntries returns the entries that received a score.
func (r *RankingRun) RankedEntries() []RankingEntry {
	var ranked []RankingEntry
	for _, e := range r.Entries {
		if !e.Failed() {
			ranked = append(ranked, e)
		}
	}
	return ranked
}
