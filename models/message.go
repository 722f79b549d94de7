package models

import (
	"time"

	"gorm.io/gorm"
)

// Message represents a message in a booking conversation between the
// requester and the provider
type Message struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BookingID uint           `gorm:"not null;index" json:"booking_id"` // foreign key to bookings table
	Booking   Booking        `gorm:"foreignKey:BookingID" json:"-"`    // don't include full booking in JSON
	SenderID  uint           `gorm:"not null;index" json:"sender_id"`  // foreign key to users table
	Sender    User           `gorm:"foreignKey:SenderID" json:"sender"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
