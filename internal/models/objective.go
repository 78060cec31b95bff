package models

import "time"

// Objective is a time-boxed qualitative goal owned by exactly one user.
// UserID is set at creation and never changed afterwards.
type Objective struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(120);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null;index" json:"end_date"`
	IsComplete  bool      `gorm:"not null;default:false" json:"is_complete"`
	UserID      uint64    `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
