package asset

import (
	"errors"
	"fmt"
)

// ErrNotFound 资产记录不存在
var ErrNotFound = errors.New("asset not found")

// ErrDuplicateID 业务标识符已被占用
var ErrDuplicateID = errors.New("duplicate asset identifier")

// ErrAllocationExhausted 标识符分配重试次数耗尽
var ErrAllocationExhausted = errors.New("identifier allocation attempts exhausted")

// ValidationError 请求前置校验失败，此时尚未产生任何副作用
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid field '%s': %s", e.Field, e.Reason)
}

// UploadError 对象上传阶段失败
type UploadError struct {
	Field string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload '%s': %v", e.Field, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
