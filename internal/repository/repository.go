package repository

import (
	"github.com/yukikurage/okr-tracker/internal/models"
	"github.com/yukikurage/okr-tracker/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// UpdatePassword replaces the stored password hash
	UpdatePassword(id uint64, passwordHash string) error
}

// ObjectiveRepository defines the interface for objective data access
type ObjectiveRepository interface {
	// Create creates a new objective
	Create(objective *models.Objective) error

	// FindByID finds an objective by ID
	FindByID(id uint64) (*models.Objective, error)

	// ListByOwner returns every objective owned by the user, ordered by end date
	ListByOwner(userID uint64) ([]models.Objective, error)

	// ListPageByOwner returns one page of the user's objectives and the total count
	ListPageByOwner(userID uint64, params utils.PaginationParams) ([]models.Objective, int64, error)

	// Update saves title, description and dates
	Update(objective *models.Objective) error

	// SetComplete sets the completion flag
	SetComplete(id uint64, complete bool) error

	// Delete removes the objective together with its key results and their updates
	Delete(id uint64) error
}

// KeyResultRepository defines the interface for key result data access
type KeyResultRepository interface {
	// Create creates a key result. A non-nil initial update is recorded in the
	// same transaction.
	Create(keyResult *models.KeyResult, initial *models.KeyResultUpdate) error

	// FindByID finds a key result by ID
	FindByID(id uint64) (*models.KeyResult, error)

	// ListByObjective returns the key results of one objective
	ListByObjective(objectiveID uint64) ([]models.KeyResult, error)

	// ListByObjectives returns key results grouped by objective ID
	ListByObjectives(objectiveIDs []uint64) (map[uint64][]models.KeyResult, error)

	// Update saves title, description, target value and unit. CurrentValue is never written.
	Update(keyResult *models.KeyResult) error

	// Delete removes the key result together with its updates
	Delete(id uint64) error

	// RecordUpdate appends an update and sets the key result's current value
	RecordUpdate(update *models.KeyResultUpdate) error

	// ListUpdates returns the update history ordered by timestamp
	ListUpdates(keyResultID uint64) ([]models.KeyResultUpdate, error)
}
