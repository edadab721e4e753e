// Package validator 提供上传文件的类型与大小校验
package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// FileRule 单个上传字段的校验规则
// MimeTypes 为精确匹配集合，MimePrefixes 为前缀匹配(如 "image/")，
// Extensions 为后备的扩展名白名单，三者任一命中即通过类型校验
type FileRule struct {
	MaxSizeBytes int64
	MimeTypes    []string
	MimePrefixes []string
	Extensions   []string
}

// Validate 校验上传文件头
func (r FileRule) Validate(header *multipart.FileHeader) error {
	if header == nil {
		return fmt.Errorf("file is required")
	}

	if r.MaxSizeBytes > 0 && header.Size > r.MaxSizeBytes {
		return fmt.Errorf("file '%s' exceeds size limit of %d bytes", header.Filename, r.MaxSizeBytes)
	}

	if len(r.MimeTypes) == 0 && len(r.MimePrefixes) == 0 && len(r.Extensions) == 0 {
		return nil
	}

	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	// 去除可能的参数部分，如 "text/plain; charset=utf-8"
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	for _, mt := range r.MimeTypes {
		if contentType == mt {
			return nil
		}
	}
	for _, prefix := range r.MimePrefixes {
		if strings.HasPrefix(contentType, prefix) {
			return nil
		}
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	for _, allowed := range r.Extensions {
		if ext == allowed {
			return nil
		}
	}

	return fmt.Errorf("file '%s' has unsupported type '%s'", header.Filename, contentType)
}
