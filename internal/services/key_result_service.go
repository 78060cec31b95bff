package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yukikurage/okr-tracker/internal/models"
	"github.com/yukikurage/okr-tracker/internal/okr"
	"github.com/yukikurage/okr-tracker/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrKeyResultNotFound = errors.New("key result not found")
	ErrTargetRequired    = errors.New("target value is required")
	ErrUnitRequired      = errors.New("unit is required")
	ErrValueNotFinite    = errors.New("values must be finite numbers")
)

func isFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// initialUpdateComment is recorded when a key result starts at a non-zero value
const initialUpdateComment = "Initial value"

// KeyResultService handles key result business logic
type KeyResultService struct {
	keyResultRepo repository.KeyResultRepository
	objectives    *ObjectiveService
}

// NewKeyResultService creates a new KeyResultService
func NewKeyResultService(keyResultRepo repository.KeyResultRepository, objectives *ObjectiveService) *KeyResultService {
	return &KeyResultService{
		keyResultRepo: keyResultRepo,
		objectives:    objectives,
	}
}

// KeyResultInput represents the editable fields of a key result.
// InitialValue is only read on creation.
type KeyResultInput struct {
	Title        string
	Description  string
	TargetValue  float64
	InitialValue float64
	Unit         string
}

// ProgressInput represents a progress update for a key result
type ProgressInput struct {
	Value     float64
	Comment   string
	Timestamp time.Time
}

// OwnedKeyResult is a key result together with its parent objective
type OwnedKeyResult struct {
	KeyResult *models.KeyResult
	Objective *models.Objective
}

// Progress returns the key result's progress percentage
func (o OwnedKeyResult) Progress() float64 {
	return okr.KeyResultProgress(o.KeyResult.TargetValue, o.KeyResult.CurrentValue)
}

func (in KeyResultInput) validate() (KeyResultInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Unit = strings.TrimSpace(in.Unit)
	if in.Title == "" {
		return in, ErrTitleRequired
	}
	if !isFinite(in.TargetValue, in.InitialValue) {
		return in, ErrValueNotFinite
	}
	if in.TargetValue == 0 {
		return in, ErrTargetRequired
	}
	if in.Unit == "" {
		return in, ErrUnitRequired
	}
	return in, nil
}

// Get returns the key result and its objective if the actor owns the objective
func (s *KeyResultService) Get(actor, id uint64) (*OwnedKeyResult, error) {
	keyResult, err := s.keyResultRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyResultNotFound
		}
		return nil, fmt.Errorf("failed to find key result: %w", err)
	}

	objective, err := s.objectives.objectiveRepo.FindByID(keyResult.ObjectiveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyResultNotFound
		}
		return nil, fmt.Errorf("failed to find objective: %w", err)
	}

	if err := okr.AuthorizeKeyResult(actor, *keyResult, *objective).Err(); err != nil {
		return nil, err
	}

	return &OwnedKeyResult{KeyResult: keyResult, Objective: objective}, nil
}

// Create adds a key result to one of the actor's objectives. A non-zero
// initial value is recorded as the first update.
func (s *KeyResultService) Create(actor, objectiveID uint64, input KeyResultInput) (*OwnedKeyResult, error) {
	objective, err := s.objectives.Get(actor, objectiveID)
	if err != nil {
		return nil, err
	}

	input, err = input.validate()
	if err != nil {
		return nil, err
	}

	keyResult := &models.KeyResult{
		Title:       input.Title,
		Description: input.Description,
		TargetValue: input.TargetValue,
		Unit:        input.Unit,
		ObjectiveID: objective.ID,
	}

	var initial *models.KeyResultUpdate
	if input.InitialValue != 0 {
		initial = &models.KeyResultUpdate{
			Value:   input.InitialValue,
			Comment: initialUpdateComment,
		}
	}

	if err := s.keyResultRepo.Create(keyResult, initial); err != nil {
		return nil, fmt.Errorf("failed to create key result: %w", err)
	}

	return &OwnedKeyResult{KeyResult: keyResult, Objective: objective}, nil
}

// Update changes title, description, target and unit. The current value is
// left untouched.
func (s *KeyResultService) Update(actor, id uint64, input KeyResultInput) (*OwnedKeyResult, error) {
	owned, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	input, err = input.validate()
	if err != nil {
		return nil, err
	}

	owned.KeyResult.Title = input.Title
	owned.KeyResult.Description = input.Description
	owned.KeyResult.TargetValue = input.TargetValue
	owned.KeyResult.Unit = input.Unit

	if err := s.keyResultRepo.Update(owned.KeyResult); err != nil {
		return nil, fmt.Errorf("failed to update key result: %w", err)
	}

	return owned, nil
}

// Delete removes the key result and its update history. The parent
// objective is returned so callers can redirect to it.
func (s *KeyResultService) Delete(actor, id uint64) (*models.Objective, error) {
	owned, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.keyResultRepo.Delete(owned.KeyResult.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyResultNotFound
		}
		return nil, fmt.Errorf("failed to delete key result: %w", err)
	}

	return owned.Objective, nil
}

// RecordUpdate logs a progress update and moves the key result's current
// value to it.
func (s *KeyResultService) RecordUpdate(actor, id uint64, input ProgressInput) (*OwnedKeyResult, error) {
	owned, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	if !isFinite(input.Value) {
		return nil, ErrValueNotFinite
	}

	update := &models.KeyResultUpdate{
		Value:       input.Value,
		Comment:     strings.TrimSpace(input.Comment),
		Timestamp:   input.Timestamp,
		KeyResultID: owned.KeyResult.ID,
	}

	if err := s.keyResultRepo.RecordUpdate(update); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyResultNotFound
		}
		return nil, fmt.Errorf("failed to record update: %w", err)
	}

	owned.KeyResult.CurrentValue = update.Value
	return owned, nil
}

// History returns the key result's updates, oldest first
func (s *KeyResultService) History(actor, id uint64) ([]models.KeyResultUpdate, error) {
	owned, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	updates, err := s.keyResultRepo.ListUpdates(owned.KeyResult.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}

	return updates, nil
}
