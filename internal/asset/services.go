package asset

import (
	"time"

	"github.com/anoixa/tryon-server/cache/types"
	"github.com/anoixa/tryon-server/database/models"
	"github.com/anoixa/tryon-server/internal/repositories"
	"github.com/anoixa/tryon-server/storage"
	"golang.org/x/sync/semaphore"
)

// Services 三种资产类型的服务集合
// 同一泛型流程按类型实例化三次，共享上传并发限制
type Services struct {
	Garments *Service[models.Garment]
	Scans    *Service[models.ImageScan]
	Models3D *Service[models.ProcessedModel]
}

// NewServices 创建资产服务集合
func NewServices(
	repos *repositories.Repositories,
	store storage.Provider,
	cacheProvider types.Cache,
	cacheTTL time.Duration,
	maxConcurrentUploads int64,
) *Services {
	if maxConcurrentUploads <= 0 {
		maxConcurrentUploads = 100
	}
	sem := semaphore.NewWeighted(maxConcurrentUploads)

	return &Services{
		Garments: NewService(GarmentDefinition(), repos.Garments, store, cacheProvider, cacheTTL, sem),
		Scans:    NewService(ScanDefinition(), repos.Scans, store, cacheProvider, cacheTTL, sem),
		Models3D: NewService(ProcessedModelDefinition(), repos.Models3D, store, cacheProvider, cacheTTL, sem),
	}
}
