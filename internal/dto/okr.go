package dto

import (
	"time"

	"github.com/yukikurage/okr-tracker/internal/models"
	"github.com/yukikurage/okr-tracker/internal/okr"
	"github.com/yukikurage/okr-tracker/internal/services"
	"github.com/yukikurage/okr-tracker/internal/view"
)

// ObjectiveDTO represents an objective with its progress in API responses
type ObjectiveDTO struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	IsComplete  bool    `json:"is_complete"`
	Progress    float64 `json:"progress"`
}

// KeyResultDTO represents a key result in API responses
type KeyResultDTO struct {
	ID           uint64  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	TargetValue  float64 `json:"target_value"`
	CurrentValue float64 `json:"current_value"`
	Unit         string  `json:"unit"`
	Progress     float64 `json:"progress"`
}

// KeyResultUpdateDTO represents one entry of a key result's history
type KeyResultUpdateDTO struct {
	ID        uint64    `json:"id"`
	Value     float64   `json:"value"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

// ObjectiveDetailDTO represents an objective with its key results
type ObjectiveDetailDTO struct {
	ObjectiveDTO
	KeyResults []KeyResultDTO `json:"key_results"`
}

// DashboardDTO represents the dashboard rollup
type DashboardDTO struct {
	OverallProgress float64        `json:"overall_progress"`
	CompletedCount  int            `json:"completed_count"`
	TotalCount      int            `json:"total_count"`
	Objectives      []ObjectiveDTO `json:"objectives"`
	Upcoming        []ObjectiveDTO `json:"upcoming"`
}

// CompleteObjectiveRequest is the body of the toggle-complete endpoint
type CompleteObjectiveRequest struct {
	IsComplete *bool `json:"is_complete" binding:"required"`
}

// CompleteObjectiveResponse answers the toggle-complete endpoint
type CompleteObjectiveResponse struct {
	Success    bool `json:"success"`
	IsComplete bool `json:"is_complete"`
}

// ToObjectiveDTO converts an objective and its progress to DTO
func ToObjectiveDTO(objective models.Objective, progress float64) ObjectiveDTO {
	return ObjectiveDTO{
		ID:          objective.ID,
		Title:       objective.Title,
		Description: objective.Description,
		StartDate:   view.FormatDate(objective.StartDate),
		EndDate:     view.FormatDate(objective.EndDate),
		IsComplete:  objective.IsComplete,
		Progress:    progress,
	}
}

// ToObjectiveSummaryDTOs converts objective summaries to DTOs
func ToObjectiveSummaryDTOs(summaries []okr.ObjectiveSummary) []ObjectiveDTO {
	dtos := make([]ObjectiveDTO, len(summaries))
	for i, summary := range summaries {
		dtos[i] = ToObjectiveDTO(summary.Objective, summary.Progress)
	}
	return dtos
}

// ToKeyResultDTO converts a key result and its progress to DTO
func ToKeyResultDTO(kr models.KeyResult, progress float64) KeyResultDTO {
	return KeyResultDTO{
		ID:           kr.ID,
		Title:        kr.Title,
		Description:  kr.Description,
		TargetValue:  kr.TargetValue,
		CurrentValue: kr.CurrentValue,
		Unit:         kr.Unit,
		Progress:     progress,
	}
}

// ToObjectiveDetailDTO converts an objective detail to DTO
func ToObjectiveDetailDTO(detail services.ObjectiveDetail) ObjectiveDetailDTO {
	keyResults := make([]KeyResultDTO, len(detail.KeyResults))
	for i, kr := range detail.KeyResults {
		keyResults[i] = ToKeyResultDTO(kr.KeyResult, kr.Progress)
	}

	return ObjectiveDetailDTO{
		ObjectiveDTO: ToObjectiveDTO(*detail.Objective, detail.Progress),
		KeyResults:   keyResults,
	}
}

// ToKeyResultUpdateDTOs converts a key result history to DTOs
func ToKeyResultUpdateDTOs(updates []models.KeyResultUpdate) []KeyResultUpdateDTO {
	dtos := make([]KeyResultUpdateDTO, len(updates))
	for i, update := range updates {
		dtos[i] = KeyResultUpdateDTO{
			ID:        update.ID,
			Value:     update.Value,
			Comment:   update.Comment,
			Timestamp: update.Timestamp,
		}
	}
	return dtos
}

// ToDashboardDTO converts the dashboard rollup to DTO
func ToDashboardDTO(dashboard okr.Dashboard) DashboardDTO {
	return DashboardDTO{
		OverallProgress: dashboard.OverallProgress,
		CompletedCount:  dashboard.CompletedCount,
		TotalCount:      dashboard.TotalCount,
		Objectives:      ToObjectiveSummaryDTOs(dashboard.Objectives),
		Upcoming:        ToObjectiveSummaryDTOs(dashboard.Upcoming),
	}
}
