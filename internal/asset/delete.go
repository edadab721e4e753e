package asset

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// DeleteByBusinessID 删除属主名下指定业务标识符的记录
// 先尽力删除存储对象，再删除元数据记录，返回被删除的记录
func (s *Service[T]) DeleteByBusinessID(ctx context.Context, ownerID uint, businessID string) (*T, error) {
	if businessID == "" {
		return nil, &ValidationError{Field: "garmentId", Reason: "is required"}
	}

	record, err := s.repo.FindByBusinessIDAndOwner(ctx, businessID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s record: %w", s.def.Kind, err)
	}
	if record == nil {
		return nil, ErrNotFound
	}

	return s.deleteRecord(ctx, ownerID, record)
}

// DeleteLatest 删除属主最近创建的记录
func (s *Service[T]) DeleteLatest(ctx context.Context, ownerID uint) (*T, error) {
	record, err := s.repo.FindLatestByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest %s record: %w", s.def.Kind, err)
	}
	if record == nil {
		return nil, ErrNotFound
	}

	return s.deleteRecord(ctx, ownerID, record)
}

// deleteRecord 删除单条记录及其存储对象
// 存储删除失败不阻断记录删除，孤儿对象只记录日志
func (s *Service[T]) deleteRecord(ctx context.Context, ownerID uint, record *T) (*T, error) {
	s.cleanupObjects(ctx, record)

	if err := s.repo.DeleteByID(ctx, s.def.RecordID(record)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete %s record: %w", s.def.Kind, err)
	}

	s.invalidateCache(ownerID, s.def.BusinessID(record))
	return record, nil
}
