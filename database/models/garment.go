package models

import (
	"time"

	"gorm.io/gorm"
)

// Garment 服装资产记录，业务主键为 GarmentID
type Garment struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	GarmentID string `gorm:"uniqueIndex:idx_garment_business_id,where:deleted_at IS NULL;not null" json:"garmentId"`
	Name      string `gorm:"not null" json:"name"`

	PreviewURL string `gorm:"not null" json:"previewUrl"`
	PreviewKey string `gorm:"not null" json:"previewKey"`
	ModelURL   string `gorm:"not null" json:"modelUrl"`
	ModelKey   string `gorm:"not null" json:"modelKey"`

	CreatedBy uint `gorm:"index;not null" json:"createdBy"`
	Owner     User `gorm:"foreignKey:CreatedBy" json:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
