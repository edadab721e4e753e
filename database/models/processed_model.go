package models

import (
	"time"

	"gorm.io/gorm"
)

// ProcessedModel 处理完成的 3D 模型记录
// 与 Garment 字段形状一致，但属于独立集合
type ProcessedModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	GarmentID string `gorm:"uniqueIndex:idx_model_business_id,where:deleted_at IS NULL;not null" json:"garmentId"`

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
