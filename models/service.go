package models

import (
	"time"

	"gorm.io/gorm"
)

// Service represents a priced, timed offering a provider can be booked for
type Service struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ProviderID      uint           `gorm:"not null;index" json:"provider_id"` // foreign key to users table
	Provider        User           `gorm:"foreignKey:ProviderID" json:"-"`
	Title           string         `gorm:"not null" json:"title"`
	Description     *string        `gorm:"type:text" json:"description,omitempty"`
	Price           float64        `gorm:"not null;check:price >= 0" json:"price"`
	DurationMinutes int            `gorm:"not null;check:duration_minutes > 0" json:"duration_minutes"`
	IsVisible       bool           `gorm:"not null" json:"is_visible"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}
