package repositories

import (
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/resume-ranker/internal/models"
)

type memoryRankingRepository struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]models.RankingRun
}

// NewMemoryRankingRepository keeps runs in process memory. Runs are lost on restart.
func NewMemoryRankingRepository() RankingRepository {
	return &memoryRankingRepository{runs: make(map[uuid.UUID]models.RankingRun)}
}

func (m *memoryRankingRepository) Create(run *models.RankingRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = copyRun(*run)
	return nil
}

func (m *memoryRankingRepository) FindByID(id uuid.UUID) (*models.RankingRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, ErrRankingNotFound
	}
	run = copyRun(run)
	return &run, nil
}

func (m *memoryRankingRepository) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[id]; !ok {
		return ErrRankingNotFound
	}
	delete(m.runs, id)
	return nil
}

// copyRun detaches the stored run from the caller's slices and pointers.
func copyRun(run models.RankingRun) models.RankingRun {
	run.Warnings = append([]string(nil), run.Warnings...)
	run.Entries = append([]models.RankingEntry(nil), run.Entries...)
	for i := range run.Entries {
		profile := &run.Entries[i].CandidateProfile
		profile.Name = copyString(profile.Name)
		profile.Email = copyString(profile.Email)
		if profile.MissingSkills != nil {
			profile.MissingSkills = append([]string{}, profile.MissingSkills...)
		}
	}
	return run
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
