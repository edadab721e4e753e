// Package asset 实现资产上传-落库协议：对象先上传到存储，
// 元数据记录随后插入，任一下游步骤失败时补偿删除已上传对象
package asset

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/anoixa/tryon-server/cache/types"
	"github.com/anoixa/tryon-server/database/repo/assets"
	"github.com/anoixa/tryon-server/storage"
	"github.com/anoixa/tryon-server/utils"
	"golang.org/x/sync/semaphore"
)

// Service 单一资产类型的服务，创建/查询/删除共用一套流程
type Service[T any] struct {
	def   Definition[T]
	repo  *assets.Repository[T]
	store storage.Provider
	cache types.Cache
	ttl   time.Duration

	// sem 限制全局并发上传数，多个资产服务共享同一实例
	sem *semaphore.Weighted
}

// NewService 创建资产服务
// cacheProvider 可为 nil，此时不做读缓存
func NewService[T any](
	def Definition[T],
	repo *assets.Repository[T],
	store storage.Provider,
	cacheProvider types.Cache,
	cacheTTL time.Duration,
	sem *semaphore.Weighted,
) *Service[T] {
	return &Service[T]{
		def:   def,
		repo:  repo,
		store: store,
		cache: cacheProvider,
		ttl:   cacheTTL,
		sem:   sem,
	}
}

// Kind 返回资产类型名
func (s *Service[T]) Kind() string {
	return s.def.Kind
}

// latestCacheKey 属主最近记录的缓存键
func (s *Service[T]) latestCacheKey(ownerID uint) string {
	return s.def.CacheKeys.Build("latest", strconv.FormatUint(uint64(ownerID), 10))
}

// idCacheKey 属主指定业务标识符记录的缓存键
func (s *Service[T]) idCacheKey(ownerID uint, businessID string) string {
	return s.def.CacheKeys.Build("id", strconv.FormatUint(uint64(ownerID), 10), businessID)
}

// invalidateCache 使属主相关的缓存失效
func (s *Service[T]) invalidateCache(ownerID uint, businessID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(s.latestCacheKey(ownerID)); err != nil {
		log.Printf("[%s] Failed to invalidate latest cache for owner %d: %v", s.def.Kind, ownerID, err)
	}
	if businessID != "" {
		if err := s.cache.Delete(s.idCacheKey(ownerID, businessID)); err != nil {
			log.Printf("[%s] Failed to invalidate id cache for owner %d: %v", s.def.Kind, ownerID, err)
		}
	}
}

// compensate 补偿删除已上传的对象
// 尽力而为：失败只记录日志，不向上传播
func (s *Service[T]) compensate(ctx context.Context, refs []storage.ObjectRef) {
	for _, ref := range refs {
		if ref.Key == "" {
			continue
		}
		if err := s.store.DeleteWithContext(ctx, ref.Key); err != nil {
			log.Printf("[%s] Failed to clean up orphaned object '%s': %v", s.def.Kind, utils.SanitizeLogMessage(ref.Key), err)
		}
	}
}

// cleanupObjects 删除记录引用的全部对象，尽力而为
func (s *Service[T]) cleanupObjects(ctx context.Context, record *T) {
	for _, key := range s.def.ObjectKeys(record) {
		if key == "" {
			continue
		}
		if err := s.store.DeleteWithContext(ctx, key); err != nil {
			log.Printf("[%s] Failed to delete object '%s' from storage: %v", s.def.Kind, utils.SanitizeLogMessage(key), err)
		}
	}
}
