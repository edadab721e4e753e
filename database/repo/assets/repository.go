// Package assets 提供按资产类型实例化的通用元数据仓库
package assets

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrDuplicateKey 业务标识符唯一约束冲突
var ErrDuplicateKey = errors.New("duplicate business identifier")

// Repository 资产记录通用仓库
// 三种资产类型共享同一套查询谓词：业务标识符唯一，记录按属主隔离
type Repository[T any] struct {
	db *gorm.DB
}

// NewRepository 创建新的资产仓库
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// DB 返回底层数据库连接
func (r *Repository[T]) DB() *gorm.DB {
	return r.db
}

// Insert 插入记录，唯一约束由数据库保证
// garment_id 冲突返回 ErrDuplicateKey
func (r *Repository[T]) Insert(ctx context.Context, entity *T) error {
	err := r.db.WithContext(ctx).Create(entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert asset record: %w", err)
	}
	return nil
}

// FindByBusinessIDAndOwner 按业务标识符和属主查找
// 未找到时返回 (nil, nil)
func (r *Repository[T]) FindByBusinessIDAndOwner(ctx context.Context, businessID string, ownerID uint) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).
		Where("garment_id = ? AND created_by = ?", businessID, ownerID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// FindLatestByOwner 查找属主最近创建的记录
func (r *Repository[T]) FindLatestByOwner(ctx context.Context, ownerID uint) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Order("created_at desc").
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// ListByOwner 列出属主的全部记录，按创建时间倒序
func (r *Repository[T]) ListByOwner(ctx context.Context, ownerID uint) ([]*T, error) {
	var entities []*T
	err := r.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Order("created_at desc").
		Find(&entities).Error
	return entities, err
}

// ExistsByBusinessID 检查业务标识符是否已被占用
func (r *Repository[T]) ExistsByBusinessID(ctx context.Context, businessID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).
		Where("garment_id = ?", businessID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteByID 按主键删除记录
func (r *Repository[T]) DeleteByID(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
