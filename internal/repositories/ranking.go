package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-ranker/internal/models"
)

var ErrRankingNotFound = errors.New("ranking not found")

type RankingRepository interface {
	Create(run *models.RankingRun) error
	FindByID(id uuid.UUID) (*models.RankingRun, error)
	Delete(id uuid.UUID) error
}

type rankingRepository struct {
	db *gorm.DB
}

func NewRankingRepository(db *gorm.DB) RankingRepository {
	return &rankingRepository{db: db}
}

// Create implements RankingRepository. The run and its entries are written in one
// transaction.
func (r *rankingRepository) Create(run *models.RankingRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create ranking: %w", err)
	}
	return nil
}

// FindByID implements RankingRepository.
func (r *rankingRepository) FindByID(id uuid.UUID) (*models.RankingRun, error) {
	var run models.RankingRun
	err := r.db.
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"rank" ASC`)
		}).
		Where("id = ?", id).
		First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRankingNotFound
		}
		return nil, fmt.Errorf("failed to find ranking: %w", err)
	}
	return &run, nil
}

// Delete implements RankingRepository.
func (r *rankingRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", id).Delete(&models.RankingEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete ranking entries: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&models.RankingRun{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete ranking: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrRankingNotFound
		}
		return nil
	})
}
