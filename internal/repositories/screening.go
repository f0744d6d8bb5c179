package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resume-screener/internal/models"
)

type ScreeningRepository interface {
	Create(screening *models.Screening) error
	FindByID(id uuid.UUID) (*models.Screening, error)
	SaveResults(id uuid.UUID, results []models.CandidateResult) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindResult(screeningID uuid.UUID, candidateID string) (*models.CandidateResult, error)
}

type screeningRepository struct {
	db *gorm.DB
}

func NewScreeningRepository(db *gorm.DB) ScreeningRepository {
	return &screeningRepository{db: db}
}

func (r *screeningRepository) Create(screening *models.Screening) error {
	if err := r.db.Create(screening).Error; err != nil {
		return fmt.Errorf("failed to create screening: %w", err)
	}
	return nil
}

func (r *screeningRepository) FindByID(id uuid.UUID) (*models.Screening, error) {
	var screening models.Screening
	err := r.db.
		Preload("Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("candidate_results.rank ASC")
		}).
		Where("id = ?", id).
		First(&screening).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("screening not found")
		}
		return nil, fmt.Errorf("failed to find screening: %w", err)
	}
	return &screening, nil
}

func (r *screeningRepository) SaveResults(id uuid.UUID, results []models.CandidateResult) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if len(results) > 0 {
			if err := tx.Create(&results).Error; err != nil {
				return err
			}
		}

		result := tx.Model(&models.Screening{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     models.StatusCompleted,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("screening not found")
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	return nil
}

func (r *screeningRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.Screening{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("screening not found")
	}

	return nil
}

func (r *screeningRepository) FindResult(screeningID uuid.UUID, candidateID string) (*models.CandidateResult, error) {
	var result models.CandidateResult
	err := r.db.
		Where("screening_id = ? AND candidate_id = ?", screeningID, candidateID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("candidate result not found")
		}
		return nil, fmt.Errorf("failed to find candidate result: %w", err)
	}
	return &result, nil
}
