package models

import "time"

// KeyResult is a measurable target attached to an Objective.
// CurrentValue mirrors the value of the most recent KeyResultUpdate.
type KeyResult struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Title        string    `gorm:"type:varchar(120);not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	TargetValue  float64   `gorm:"not null" json:"target_value"`
	CurrentValue float64   `gorm:"not null;default:0" json:"current_value"`
	Unit         string    `gorm:"type:varchar(32)" json:"unit"`
	ObjectiveID  uint64    `gorm:"not null;index" json:"objective_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
