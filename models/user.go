package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Artists and salons are providers; clients request bookings.
const (
	RoleClient = "client"
	RoleArtist = "artist"
	RoleSalon  = "salon"
)

// User represents an account in the system (client, artist, or salon)
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Auth0ID         string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name            string         `gorm:"not null" json:"name"`
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`
	Role            string         `gorm:"not null;default:'client'" json:"role"` // "client", "artist" or "salon"
	Bio             *string        `gorm:"type:text" json:"bio,omitempty"`
	Location        *string        `json:"location,omitempty"`
	AcceptsBookings bool           `gorm:"not null" json:"accepts_bookings"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsProvider reports whether the user offers bookable services
func (u *User) IsProvider() bool {
	return u.Role == RoleArtist || u.Role == RoleSalon
}
