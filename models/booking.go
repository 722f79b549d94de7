package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking represents one concrete appointment request between a requester
// and a provider. Requester, provider and service are foreign keys only;
// display names are derived at read time via Preload, never denormalized
// onto the record. The requested date and time are stored in their
// canonical string forms ("YYYY-MM-DD" / "HH:MM") and compared as strings.
type Booking struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Reference     string         `gorm:"uniqueIndex;not null" json:"reference"` // public UUID, safe to share with clients
	RequesterID   uint           `gorm:"not null;index" json:"requester_id"`    // foreign key to users table
	Requester     User           `gorm:"foreignKey:RequesterID" json:"requester"`
	ProviderID    uint           `gorm:"not null;index" json:"provider_id"` // foreign key to users table
	Provider      User           `gorm:"foreignKey:ProviderID" json:"provider"`
	ServiceID     uint           `gorm:"not null;index" json:"service_id"` // foreign key to services table
	Service       Service        `gorm:"foreignKey:ServiceID" json:"service"`
	RequestedDate string         `gorm:"not null;index" json:"requested_date"` // "YYYY-MM-DD"
	RequestedTime string         `gorm:"not null" json:"requested_time"`       // "HH:MM"
	Note          *string        `gorm:"size:500" json:"note,omitempty"`
	Status        string         `gorm:"not null;default:'pending'" json:"status"` // pending, confirmed, completed, cancelled
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// BeforeCreate assigns the public reference before the row is inserted
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Reference == "" {
		b.Reference = uuid.NewString()
	}
	return nil
}
