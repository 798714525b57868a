package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShareVisit — журнал посещений публичного отчёта. Только добавление,
// записи никогда не читаются по отдельности — только считаются.
type ShareVisit struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID string    `gorm:"type:uuid;index;not null" json:"property_id"`
	VisitedAt  time.Time `gorm:"not null;index" json:"visited_at"`
}

func (v *ShareVisit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
