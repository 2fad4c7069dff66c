package repositories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-ranker/internal/models"
)

func TestMemoryRankingRepository(t *testing.T) {
	repo := NewMemoryRankingRepository()
	run := &models.RankingRun{
		ID:             uuid.New(),
		JobDescription: "Go, SQL",
		Entries: []models.RankingEntry{
			{Rank: 1, Filename: "a.pdf", Similarity: 70},
			{Rank: 2, Filename: "b.pdf", Similarity: 30},
		},
	}

	require.NoError(t, repo.Create(run))
	run.Entries[0].Filename = "changed.pdf"

	found, err := repo.FindByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go, SQL", found.JobDescription)
	require.Len(t, found.Entries, 2)
	assert.Equal(t, "a.pdf", found.Entries[0].Filename)

	found.Entries[1].Filename = "mutated.pdf"
	again, err := repo.FindByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "b.pdf", again.Entries[1].Filename)

	require.NoError(t, repo.Delete(run.ID))
	_, err = repo.FindByID(run.ID)
	assert.ErrorIs(t, err, ErrRankingNotFound)
}

func TestMemoryRankingRepository_DeleteUnknown(t *testing.T) {
	repo := NewMemoryRankingRepository()

	assert.ErrorIs(t, repo.Delete(uuid.New()), ErrRankingNotFound)
}

func TestMemoryRankingRepository_EntriesAreDetached(t *testing.T) {
	repo := NewMemoryRankingRepository()
	name := "Jane Doe"
	run := &models.RankingRun{
		ID: uuid.New(),
		Entries: []models.RankingEntry{{
			Rank:     1,
			Filename: "jane.pdf",
			CandidateProfile: models.CandidateProfile{
				Name:          &name,
				MissingSkills: []string{"Go", "SQL"},
			},
		}},
	}
	require.NoError(t, repo.Create(run))

	name = "Changed"
	run.Entries[0].MissingSkills[0] = "Changed"

	found, err := repo.FindByID(run.ID)
	require.NoError(t, err)
	entry := found.Entries[0]
	assert.Equal(t, "Jane Doe", *entry.Name)
	assert.Nil(t, entry.Email)
	assert.Equal(t, []string{"Go", "SQL"}, entry.MissingSkills)

	*entry.Name = "Mutated"
	entry.MissingSkills[1] = "Mutated"

	again, err := repo.FindByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", *again.Entries[0].Name)
	assert.Equal(t, []string{"Go", "SQL"}, again.Entries[0].MissingSkills)
}
