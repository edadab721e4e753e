package models

import (
	"time"

	"gorm.io/gorm"
)

// ImageScan 身体扫描图像记录
type ImageScan struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	GarmentID string `gorm:"uniqueIndex:idx_scan_business_id,where:deleted_at IS NULL;not null" json:"garmentId"`
	Category  string `gorm:"not null" json:"category"`

	ImageURL string `gorm:"not null" json:"imageUrl"`
	ImageKey string `gorm:"not null" json:"imageKey"`

	CreatedBy uint `gorm:"index;not null" json:"createdBy"`
	Owner     User `gorm:"foreignKey:CreatedBy" json:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
