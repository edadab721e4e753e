package storage

import (
	"context"
	"io"
)

// ObjectRef 对象存储引用，(url, key) 成对出现
type ObjectRef struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Complete 检查引用是否完整
func (r ObjectRef) Complete() bool {
	return r.URL != "" && r.Key != ""
}

// Provider 存储提供者接口 - 依赖倒置的核心抽象
// 定义了存储层的基本操作，所有存储实现必须遵循此接口
type Provider interface {
	// PutWithContext 上传对象，返回完整的对象引用
	PutWithContext(ctx context.Context, key string, file io.Reader, size int64, contentType string) (ObjectRef, error)

	// GetWithContext 读取对象内容
	GetWithContext(ctx context.Context, key string) (io.ReadCloser, error)

	// DeleteWithContext 删除对象，删除不存在的对象不视为错误
	DeleteWithContext(ctx context.Context, key string) error

	// Exists 检查对象是否存在
	Exists(ctx context.Context, key string) (bool, error)

	// Health 检查存储健康状态
	Health(ctx context.Context) error

	// Name 返回存储名称
	Name() string
}
