package repository

import (
	"github.com/yukikurage/okr-tracker/internal/models"
	"gorm.io/gorm"
)

// GormKeyResultRepository is a GORM implementation of KeyResultRepository
type GormKeyResultRepository struct {
	db *gorm.DB
}

// NewKeyResultRepository creates a new KeyResultRepository
func NewKeyResultRepository(db *gorm.DB) KeyResultRepository {
	return &GormKeyResultRepository{db: db}
}

// Create creates a key result and, when given, its initial update
func (r *GormKeyResultRepository) Create(keyResult *models.KeyResult, initial *models.KeyResultUpdate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if initial != nil {
			keyResult.CurrentValue = initial.Value
		}

		if err := tx.Create(keyResult).Error; err != nil {
			return err
		}

		if initial == nil {
			return nil
		}

		initial.KeyResultID = keyResult.ID
		return tx.Create(initial).Error
	})
}

// FindByID finds a key result by ID
func (r *GormKeyResultRepository) FindByID(id uint64) (*models.KeyResult, error) {
	var keyResult models.KeyResult
	if err := r.db.First(&keyResult, id).Error; err != nil {
		return nil, err
	}
	return &keyResult, nil
}

// ListByObjective returns the key results of one objective
func (r *GormKeyResultRepository) ListByObjective(objectiveID uint64) ([]models.KeyResult, error) {
	var keyResults []models.KeyResult
	if err := r.db.Where("objective_id = ?", objectiveID).
		Order("id ASC").
		Find(&keyResults).Error; err != nil {
		return nil, err
	}
	return keyResults, nil
}

// ListByObjectives returns key results grouped by objective ID
func (r *GormKeyResultRepository) ListByObjectives(objectiveIDs []uint64) (map[uint64][]models.KeyResult, error) {
	grouped := make(map[uint64][]models.KeyResult, len(objectiveIDs))
	if len(objectiveIDs) == 0 {
		return grouped, nil
	}

	var keyResults []models.KeyResult
	if err := r.db.Where("objective_id IN ?", objectiveIDs).
		Order("objective_id ASC, id ASC").
		Find(&keyResults).Error; err != nil {
		return nil, err
	}

	for _, kr := range keyResults {
		grouped[kr.ObjectiveID] = append(grouped[kr.ObjectiveID], kr)
	}
	return grouped, nil
}

// Update saves title, description, target value and unit
func (r *GormKeyResultRepository) Update(keyResult *models.KeyResult) error {
	return r.db.Model(&models.KeyResult{}).
		Where("id = ?", keyResult.ID).
		Updates(map[string]interface{}{
			"title":        keyResult.Title,
			"description":  keyResult.Description,
			"target_value": keyResult.TargetValue,
			"unit":         keyResult.Unit,
		}).Error
}

// Delete removes the key result together with its updates
func (r *GormKeyResultRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key_result_id = ?", id).Delete(&models.KeyResultUpdate{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.KeyResult{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

// RecordUpdate appends an update and sets the key result's current value to
// the update's value in the same transaction
func (r *GormKeyResultRepository) RecordUpdate(update *models.KeyResultUpdate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(update).Error; err != nil {
			return err
		}

		result := tx.Model(&models.KeyResult{}).
			Where("id = ?", update.KeyResultID).
			Update("current_value", update.Value)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

// ListUpdates returns the update history ordered by timestamp
func (r *GormKeyResultRepository) ListUpdates(keyResultID uint64) ([]models.KeyResultUpdate, error) {
	var updates []models.KeyResultUpdate
	if err := r.db.Where("key_result_id = ?", keyResultID).
		Order("timestamp ASC, id ASC").
		Find(&updates).Error; err != nil {
		return nil, err
	}
	return updates, nil
}
