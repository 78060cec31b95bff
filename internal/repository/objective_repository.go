package repository

import (
	"github.com/yukikurage/okr-tracker/internal/database"
	"github.com/yukikurage/okr-tracker/internal/models"
	"github.com/yukikurage/okr-tracker/internal/utils"
	"gorm.io/gorm"
)

// GormObjectiveRepository is a GORM implementation of ObjectiveRepository
type GormObjectiveRepository struct {
	db *gorm.DB
}

// NewObjectiveRepository creates a new ObjectiveRepository
func NewObjectiveRepository(db *gorm.DB) ObjectiveRepository {
	return &GormObjectiveRepository{db: db}
}

// Create creates a new objective
func (r *GormObjectiveRepository) Create(objective *models.Objective) error {
	return r.db.Create(objective).Error
}

// FindByID finds an objective by ID
func (r *GormObjectiveRepository) FindByID(id uint64) (*models.Objective, error) {
	var objective models.Objective
	if err := r.db.First(&objective, id).Error; err != nil {
		return nil, err
	}
	return &objective, nil
}

// ListByOwner returns every objective owned by the user, ordered by end date
func (r *GormObjectiveRepository) ListByOwner(userID uint64) ([]models.Objective, error) {
	var objectives []models.Objective
	if err := r.db.Where("user_id = ?", userID).
		Order("end_date ASC, id ASC").
		Find(&objectives).Error; err != nil {
		return nil, err
	}
	return objectives, nil
}

// ListPageByOwner returns one page of the user's objectives and the total count
func (r *GormObjectiveRepository) ListPageByOwner(userID uint64, params utils.PaginationParams) ([]models.Objective, int64, error) {
	var total int64
	if err := r.db.Model(&models.Objective{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var objectives []models.Objective
	if err := r.db.Where("user_id = ?", userID).
		Order("end_date ASC, id ASC").
		Scopes(database.Paginate(params)).
		Find(&objectives).Error; err != nil {
		return nil, 0, err
	}

	return objectives, total, nil
}

// Update saves title, description and dates
func (r *GormObjectiveRepository) Update(objective *models.Objective) error {
	return r.db.Model(&models.Objective{}).
		Where("id = ?", objective.ID).
		Updates(map[string]interface{}{
			"title":       objective.Title,
			"description": objective.Description,
			"start_date":  objective.StartDate,
			"end_date":    objective.EndDate,
		}).Error
}

// SetComplete sets the completion flag
func (r *GormObjectiveRepository) SetComplete(id uint64, complete bool) error {
	return r.db.Model(&models.Objective{}).Where("id = ?", id).Update("is_complete", complete).Error
}

// Delete removes the objective together with its key results and their
// updates in a single transaction
func (r *GormObjectiveRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		keyResultIDs := tx.Model(&models.KeyResult{}).Select("id").Where("objective_id = ?", id)

		if err := tx.Where("key_result_id IN (?)", keyResultIDs).Delete(&models.KeyResultUpdate{}).Error; err != nil {
			return err
		}

		if err := tx.Where("objective_id = ?", id).Delete(&models.KeyResult{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Objective{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
