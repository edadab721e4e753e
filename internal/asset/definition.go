package asset

import (
	"mime/multipart"

	"github.com/anoixa/tryon-server/cache"
	"github.com/anoixa/tryon-server/storage"
	"github.com/anoixa/tryon-server/utils/validator"
)

// FileField 一个上传字段的名称与校验规则
type FileField struct {
	Name     string
	Required bool
	Rule     validator.FileRule
}

// CreateInput 创建资产的输入
type CreateInput struct {
	// BusinessID 客户端指定的业务标识符，可为空
	BusinessID string

	// Fields 普通表单字段
	Fields map[string]string

	// Files 上传文件，按字段名索引
	Files map[string]*multipart.FileHeader
}

// Field 读取表单字段值
func (in CreateInput) Field(name string) string {
	if in.Fields == nil {
		return ""
	}
	return in.Fields[name]
}

// Definition 描述一种资产类型的装配规则
// 三种资产类型共用同一套创建/查询/删除流程，差异全部收敛到此结构
type Definition[T any] struct {
	// Kind 资产类型名，用于日志与缓存键
	Kind string

	// IDPrefix 生成业务标识符时使用的前缀
	IDPrefix string

	// AllowGeneratedID 未提供标识符时是否允许自动分配
	// 为 false 时标识符必须由客户端提供
	AllowGeneratedID bool

	// Files 上传字段定义
	Files []FileField

	// RequiredFields 必填的普通表单字段
	RequiredFields []string

	// New 由输入和上传结果装配记录
	New func(businessID string, input CreateInput, refs map[string]storage.ObjectRef, ownerID uint) *T

	// RecordID 返回记录主键
	RecordID func(*T) uint

	// BusinessID 返回记录的业务标识符
	BusinessID func(*T) string

	// ObjectKeys 返回记录引用的全部对象键，用于补偿与清理
	ObjectKeys func(*T) []string

	// CacheKeys 该类型的缓存键构建器
	CacheKeys *cache.KeyBuilder
}
