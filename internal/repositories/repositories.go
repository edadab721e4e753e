package repositories

import (
	"github.com/anoixa/tryon-server/database/models"
	"github.com/anoixa/tryon-server/database/repo/accounts"
	"github.com/anoixa/tryon-server/database/repo/assets"
	"gorm.io/gorm"
)

// Repositories 集中管理所有数据库仓库
type Repositories struct {
	Accounts *accounts.Repository
	Devices  *accounts.DeviceRepository
	Garments *assets.Repository[models.Garment]
	Scans    *assets.Repository[models.ImageScan]
	Models3D *assets.Repository[models.ProcessedModel]
}

// NewRepositories 创建所有仓库实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Accounts: accounts.NewRepository(db),
		Devices:  accounts.NewDeviceRepository(db),
		Garments: assets.NewRepository[models.Garment](db),
		Scans:    assets.NewRepository[models.ImageScan](db),
		Models3D: assets.NewRepository[models.ProcessedModel](db),
	}
}
