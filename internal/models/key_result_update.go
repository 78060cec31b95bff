package models

import (
	"time"

	"gorm.io/gorm"
)

// KeyResultUpdate is an append-only progress log entry.
type KeyResultUpdate struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Value       float64   `gorm:"not null" json:"value"`
	Comment     string    `gorm:"type:text" json:"comment"`
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp"`
	KeyResultID uint64    `gorm:"not null;index" json:"key_result_id"`
}

// BeforeCreate defaults the timestamp to the creation time.
func (u *KeyResultUpdate) BeforeCreate(tx *gorm.DB) error {
	if u.Timestamp.IsZero() {
		u.Timestamp = time.Now().UTC()
	}
	return nil
}
