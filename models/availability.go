package models

import (
	"time"

	"gorm.io/gorm"
)

// AvailabilityWindow represents a recurring weekly open-hours interval for
// one day of the week. Times are "HH:MM" 24-hour strings; the stored string
// form is the canonical one and is compared directly, never reformatted.
// A provider has at most one window per day of week; the availability
// editor replaces the whole week on save.
type AvailabilityWindow struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ProviderID uint           `gorm:"not null;index" json:"provider_id"` // foreign key to users table
	Provider   User           `gorm:"foreignKey:ProviderID" json:"-"`
	DayOfWeek  int            `gorm:"not null;check:day_of_week >= 0 AND day_of_week <= 6" json:"day_of_week"` // 0 = Sunday
	StartTime  string         `gorm:"not null" json:"start_time"` // "HH:MM"
	EndTime    string         `gorm:"not null" json:"end_time"`   // "HH:MM", start < end
	IsActive   bool           `gorm:"not null" json:"is_active"`
	Location   *string        `json:"location,omitempty"` // optional per-day location override
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the AvailabilityWindow model
func (AvailabilityWindow) TableName() string {
	return "availability_windows"
}
