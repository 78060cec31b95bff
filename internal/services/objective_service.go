package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/okr-tracker/internal/models"
	"github.com/yukikurage/okr-tracker/internal/okr"
	"github.com/yukikurage/okr-tracker/internal/repository"
	"github.com/yukikurage/okr-tracker/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrObjectiveNotFound = errors.New("objective not found")
	ErrTitleRequired     = errors.New("title is required")
	ErrDatesRequired     = errors.New("start date and end date are required")
	ErrInvalidDateRange  = errors.New("end date must not be before start date")
)

// ObjectiveService handles objective business logic
type ObjectiveService struct {
	objectiveRepo repository.ObjectiveRepository
	keyResultRepo repository.KeyResultRepository
}

// NewObjectiveService creates a new ObjectiveService
func NewObjectiveService(objectiveRepo repository.ObjectiveRepository, keyResultRepo repository.KeyResultRepository) *ObjectiveService {
	return &ObjectiveService{
		objectiveRepo: objectiveRepo,
		keyResultRepo: keyResultRepo,
	}
}

// ObjectiveInput represents the editable fields of an objective
type ObjectiveInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

// KeyResultProgress pairs a key result with its progress percentage
type KeyResultProgress struct {
	models.KeyResult
	Progress float64 `json:"progress"`
}

// ObjectiveDetail is an objective with its key results and their progress
type ObjectiveDetail struct {
	Objective  *models.Objective   `json:"objective"`
	KeyResults []KeyResultProgress `json:"key_results"`
	Progress   float64             `json:"progress"`
}

func (in ObjectiveInput) validate() (ObjectiveInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, ErrTitleRequired
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return in, ErrDatesRequired
	}
	if in.EndDate.Before(in.StartDate) {
		return in, ErrInvalidDateRange
	}
	return in, nil
}

// List returns one page of the actor's objectives with their progress
func (s *ObjectiveService) List(actor uint64, params utils.PaginationParams) ([]okr.ObjectiveSummary, int64, error) {
	objectives, total, err := s.objectiveRepo.ListPageByOwner(actor, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list objectives: %w", err)
	}

	snapshots, err := s.snapshots(objectives)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]okr.ObjectiveSummary, 0, len(snapshots))
	for _, snapshot := range snapshots {
		if err := okr.AuthorizeObjective(actor, snapshot.Objective).Err(); err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, okr.ObjectiveSummary{
			Objective: snapshot.Objective,
			Progress:  snapshot.Progress(),
		})
	}

	return summaries, total, nil
}

// Snapshots returns every objective of the actor together with its key results
func (s *ObjectiveService) Snapshots(actor uint64) ([]okr.ObjectiveSnapshot, error) {
	objectives, err := s.objectiveRepo.ListByOwner(actor)
	if err != nil {
		return nil, fmt.Errorf("failed to list objectives: %w", err)
	}
	return s.snapshots(objectives)
}

func (s *ObjectiveService) snapshots(objectives []models.Objective) ([]okr.ObjectiveSnapshot, error) {
	ids := make([]uint64, len(objectives))
	for i, objective := range objectives {
		ids[i] = objective.ID
	}

	grouped, err := s.keyResultRepo.ListByObjectives(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list key results: %w", err)
	}

	snapshots := make([]okr.ObjectiveSnapshot, len(objectives))
	for i, objective := range objectives {
		snapshots[i] = okr.ObjectiveSnapshot{
			Objective:  objective,
			KeyResults: grouped[objective.ID],
		}
	}
	return snapshots, nil
}

// Get returns the objective if it exists and the actor owns it
func (s *ObjectiveService) Get(actor, id uint64) (*models.Objective, error) {
	objective, err := s.objectiveRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrObjectiveNotFound
		}
		return nil, fmt.Errorf("failed to find objective: %w", err)
	}

	if err := okr.AuthorizeObjective(actor, *objective).Err(); err != nil {
		return nil, err
	}

	return objective, nil
}

// Detail returns the objective with its key results and progress
func (s *ObjectiveService) Detail(actor, id uint64) (*ObjectiveDetail, error) {
	objective, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	keyResults, err := s.keyResultRepo.ListByObjective(objective.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list key results: %w", err)
	}

	detail := &ObjectiveDetail{
		Objective:  objective,
		KeyResults: make([]KeyResultProgress, len(keyResults)),
		Progress:   okr.ObjectiveProgressOf(keyResults),
	}
	for i, kr := range keyResults {
		detail.KeyResults[i] = KeyResultProgress{
			KeyResult: kr,
			Progress:  okr.KeyResultProgress(kr.TargetValue, kr.CurrentValue),
		}
	}

	return detail, nil
}

// Create creates an objective owned by the actor
func (s *ObjectiveService) Create(actor uint64, input ObjectiveInput) (*models.Objective, error) {
	input, err := input.validate()
	if err != nil {
		return nil, err
	}

	objective := &models.Objective{
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		UserID:      actor,
	}

	if err := s.objectiveRepo.Create(objective); err != nil {
		return nil, fmt.Errorf("failed to create objective: %w", err)
	}

	return objective, nil
}

// Update changes the title, description and dates of an objective
func (s *ObjectiveService) Update(actor, id uint64, input ObjectiveInput) (*models.Objective, error) {
	objective, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	input, err = input.validate()
	if err != nil {
		return nil, err
	}

	objective.Title = input.Title
	objective.Description = input.Description
	objective.StartDate = input.StartDate
	objective.EndDate = input.EndDate

	if err := s.objectiveRepo.Update(objective); err != nil {
		return nil, fmt.Errorf("failed to update objective: %w", err)
	}

	return objective, nil
}

// SetComplete marks the objective complete or incomplete
func (s *ObjectiveService) SetComplete(actor, id uint64, complete bool) (*models.Objective, error) {
	objective, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.objectiveRepo.SetComplete(objective.ID, complete); err != nil {
		return nil, fmt.Errorf("failed to update objective: %w", err)
	}

	objective.IsComplete = complete
	return objective, nil
}

// Delete removes the objective, its key results and all of their updates
func (s *ObjectiveService) Delete(actor, id uint64) error {
	objective, err := s.Get(actor, id)
	if err != nil {
		return err
	}

	if err := s.objectiveRepo.Delete(objective.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrObjectiveNotFound
		}
		return fmt.Errorf("failed to delete objective: %w", err)
	}

	return nil
}
