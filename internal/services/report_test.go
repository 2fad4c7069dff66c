package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-ranker/internal/models"
)

func strPtr(s string) *string {
	return &s
}

func sampleEntries() []models.RankingEntry {
	return []models.RankingEntry{
		{
			Rank:       1,
			Filename:   "jane.pdf",
			Similarity: 87.5,
			Status:     models.StatusRanked,
			CandidateProfile: models.CandidateProfile{
				Name:          strPtr("Jane Doe"),
				Email:         strPtr("jane@example.com"),
				MissingSkills: []string{"Go", "SQL"},
			},
		},
		{
			Rank:       2,
			Filename:   "anon.txt",
			Similarity: 0,
			Status:     models.StatusRanked,
			CandidateProfile: models.CandidateProfile{
				MissingSkills: []string{},
			},
		},
		{
			Rank:     3,
			Filename: "broken.pdf",
			Status:   models.StatusFailed,
			Error:    "could not extract text from broken.pdf:\n bad header",
		},
	}
}

func TestBuildCSV(t *testing.T) {
	report, err := BuildCSV(sampleEntries())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(report, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Rank,Name,Email,Similarity,Missing Skills", lines[0])
	assert.Equal(t, `1,Jane Doe,jane@example.com,87.5,"Go, SQL"`, lines[1])
	assert.Equal(t, "2,N/A,N/A,0,N/A", lines[2])
	assert.Equal(t, "3,N/A,N/A,N/A,could not process: could not extract text from broken.pdf: bad header", lines[3])
}

func TestBuildCSV_HeaderOnly(t *testing.T) {
	report, err := BuildCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "Rank,Name,Email,Similarity,Missing Skills\n", report)
}

func TestParseCSV_RoundTrip(t *testing.T) {
	report, err := BuildCSV(sampleEntries())
	require.NoError(t, err)

	rows, err := ParseCSV(strings.NewReader(report))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "Jane Doe", *rows[0].Name)
	assert.Equal(t, "jane@example.com", *rows[0].Email)
	assert.Equal(t, 87.5, *rows[0].Similarity)
	assert.Equal(t, []string{"Go", "SQL"}, rows[0].MissingSkills)

	assert.Nil(t, rows[1].Name)
	assert.Nil(t, rows[1].Email)
	assert.Equal(t, 0.0, *rows[1].Similarity)
	assert.Empty(t, rows[1].MissingSkills)
	assert.False(t, rows[1].Failed)

	assert.True(t, rows[2].Failed)
	assert.Nil(t, rows[2].Similarity)
	assert.Equal(t, "could not extract text from broken.pdf: bad header", rows[2].FailureReason)
}

func TestParseCSV_RejectsUnknownHeader(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("Name,Score\nJane,1\n"))
	assert.Error(t, err)
}

func TestParseCSV_SkillNamedLikeFailure(t *testing.T) {
	entries := []models.RankingEntry{
		{
			Similarity: 42,
			Status:     models.StatusRanked,
			CandidateProfile: models.CandidateProfile{
				MissingSkills: []string{"could not process: anything", "Go"},
			},
		},
		{
			Similarity: 10,
			Status:     models.StatusRanked,
			CandidateProfile: models.CandidateProfile{
				MissingSkills: []string{"could not process"},
			},
		},
	}

	report, err := BuildCSV(entries)
	require.NoError(t, err)
	rows, err := ParseCSV(strings.NewReader(report))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.False(t, rows[0].Failed)
	assert.Equal(t, 42.0, *rows[0].Similarity)
	assert.Equal(t, []string{"could not process: anything", "Go"}, rows[0].MissingSkills)

	assert.False(t, rows[1].Failed)
	assert.Equal(t, []string{"could not process"}, rows[1].MissingSkills)
}
