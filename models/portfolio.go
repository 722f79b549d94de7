package models

import (
	"time"

	"gorm.io/gorm"
)

// PortfolioImage represents one photo in a provider's portfolio. The file
// itself lives in S3; ImageURL is computed per request as a presigned URL.
type PortfolioImage struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ProviderID uint           `gorm:"not null;index" json:"provider_id"` // foreign key to users table
	Provider   User           `gorm:"foreignKey:ProviderID" json:"-"`
	S3Key      string         `gorm:"not null" json:"s3_key"`
	Caption    *string        `json:"caption,omitempty"`
	ImageURL   *string        `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the PortfolioImage model
func (PortfolioImage) TableName() string {
	return "portfolio_images"
}
