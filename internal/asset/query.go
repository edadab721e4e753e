package asset

import (
	"context"
	"fmt"
	"log"

	"github.com/anoixa/tryon-server/cache/types"
	"github.com/anoixa/tryon-server/utils"
)

// GetByBusinessID 查询属主名下指定业务标识符的记录
// 不存在或属于他人时返回 ErrNotFound
func (s *Service[T]) GetByBusinessID(ctx context.Context, ownerID uint, businessID string) (*T, error) {
	if businessID == "" {
		return nil, &ValidationError{Field: "garmentId", Reason: "is required"}
	}

	cacheKey := s.idCacheKey(ownerID, businessID)
	if cached := s.readCache(cacheKey); cached != nil {
		return cached, nil
	}

	record, err := s.repo.FindByBusinessIDAndOwner(ctx, businessID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s record: %w", s.def.Kind, err)
	}
	if record == nil {
		return nil, ErrNotFound
	}

	s.writeCache(cacheKey, record)
	return record, nil
}

// GetLatest 查询属主最近创建的记录
func (s *Service[T]) GetLatest(ctx context.Context, ownerID uint) (*T, error) {
	cacheKey := s.latestCacheKey(ownerID)
	if cached := s.readCache(cacheKey); cached != nil {
		return cached, nil
	}

	record, err := s.repo.FindLatestByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest %s record: %w", s.def.Kind, err)
	}
	if record == nil {
		return nil, ErrNotFound
	}

	s.writeCache(cacheKey, record)
	return record, nil
}

// List 列出属主的全部记录，按创建时间倒序
func (s *Service[T]) List(ctx context.Context, ownerID uint) ([]*T, error) {
	records, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", s.def.Kind, err)
	}
	return records, nil
}

// readCache 读缓存，未命中或出错返回 nil
func (s *Service[T]) readCache(key string) *T {
	if s.cache == nil {
		return nil
	}
	var record T
	err := s.cache.Get(key, &record)
	if err != nil {
		if !types.IsCacheMiss(err) {
			log.Printf("[%s] Cache read error for key '%s': %v", s.def.Kind, utils.SanitizeLogMessage(key), err)
		}
		return nil
	}
	return &record
}

// writeCache 写缓存，失败只记录日志
func (s *Service[T]) writeCache(key string, record *T) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(key, record, s.ttl); err != nil {
		log.Printf("[%s] Cache write error for key '%s': %v", s.def.Kind, utils.SanitizeLogMessage(key), err)
	}
}
