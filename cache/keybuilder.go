package cache

import (
	"strings"
)

// KeyBuilder 缓存键构建器
type KeyBuilder struct {
	prefix string
	sep    string
}

// NewKeyBuilder 创建新的键构建器
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{
		prefix: prefix,
		sep:    ":",
	}
}

// Build 构建缓存键
func (kb *KeyBuilder) Build(parts ...string) string {
	if len(parts) == 0 {
		return kb.prefix
	}
	return kb.prefix + kb.sep + strings.Join(parts, kb.sep)
}

// 预定义的 KeyBuilder 实例
var (
	// Garment 服装记录缓存
	Garment = NewKeyBuilder("garment")

	// Scan 扫描记录缓存
	Scan = NewKeyBuilder("scan")

	// Model3D 处理后模型记录缓存
	Model3D = NewKeyBuilder("model3d")
)
