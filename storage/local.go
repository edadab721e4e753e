package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LocalStorage 本地文件存储实现
// 对象 URL 由服务端的 /files/:key 路由回源本地文件
type LocalStorage struct {
	absBasePath string
	baseURL     string
}

// NewLocalStorage 创建本地存储提供者
// baseURL 用于拼接可访问的对象 URL
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory '%s': %w", absPath, err)
	}

	testFile := filepath.Join(absPath, ".write_test_"+strconv.FormatInt(time.Now().UnixNano(), 10))
	f, err := os.Create(testFile)
	if err != nil {
		return nil, fmt.Errorf("local storage directory '%s' is not writable: %w", absPath, err)
	}
	_ = f.Close()
	_ = os.Remove(testFile)

	return &LocalStorage{
		absBasePath: absPath + string(os.PathSeparator),
		baseURL:     strings.TrimRight(baseURL, "/"),
	}, nil
}

// PutWithContext 保存对象到本地存储
func (s *LocalStorage) PutWithContext(ctx context.Context, key string, file io.Reader, size int64, contentType string) (ObjectRef, error) {
	if !IsValidObjectKey(key) {
		return ObjectRef{}, fmt.Errorf("invalid object key: %s", key)
	}

	dstPath := filepath.Join(s.absBasePath, key)

	// 防止目录遍历攻击
	if !strings.HasPrefix(dstPath, s.absBasePath) {
		return ObjectRef{}, fmt.Errorf("invalid object key, potential directory traversal: %s", key)
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return ObjectRef{}, fmt.Errorf("failed to create directory for '%s': %w", key, err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return ObjectRef{}, fmt.Errorf("failed to create destination file '%s': %w", dstPath, err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return ObjectRef{}, fmt.Errorf("failed to copy file content to '%s': %w", dstPath, err)
	}

	return ObjectRef{
		URL: s.baseURL + "/files/" + key,
		Key: key,
	}, nil
}

// GetWithContext 从本地存储读取对象
func (s *LocalStorage) GetWithContext(ctx context.Context, key string) (io.ReadCloser, error) {
	if !IsValidObjectKey(key) {
		return nil, fmt.Errorf("invalid object key: %s", key)
	}

	fullPath := filepath.Join(s.absBasePath, key)

	// 防止目录遍历攻击
	if !strings.HasPrefix(fullPath, s.absBasePath) {
		return nil, fmt.Errorf("invalid object key, potential directory traversal: %s", key)
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object not found: %s", key)
		}
		return nil, fmt.Errorf("failed to open object '%s': %w", key, err)
	}

	return file, nil
}

// OpenFile 零拷贝传输
func (s *LocalStorage) OpenFile(ctx context.Context, key string) (*os.File, error) {
	if !IsValidObjectKey(key) {
		return nil, fmt.Errorf("invalid object key: %s", key)
	}

	fullPath := filepath.Join(s.absBasePath, key)
	if !strings.HasPrefix(fullPath, s.absBasePath) {
		return nil, fmt.Errorf("invalid object key: %s", key)
	}

	return os.Open(fullPath)
}

// DeleteWithContext 从本地存储删除对象
// 对象不存在不视为错误
func (s *LocalStorage) DeleteWithContext(ctx context.Context, key string) error {
	if !IsValidObjectKey(key) {
		return fmt.Errorf("invalid object key: %s", key)
	}

	fullPath := filepath.Join(s.absBasePath, key)
	if !strings.HasPrefix(fullPath, s.absBasePath) {
		return fmt.Errorf("invalid object key: %s", key)
	}

	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete local object '%s': %w", fullPath, err)
	}

	return nil
}

// Exists 检查对象是否存在
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	if !IsValidObjectKey(key) {
		return false, fmt.Errorf("invalid object key: %s", key)
	}

	fullPath := filepath.Join(s.absBasePath, key)
	if !strings.HasPrefix(fullPath, s.absBasePath) {
		return false, fmt.Errorf("invalid object key: %s", key)
	}

	_, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Health 检查存储健康状态
func (s *LocalStorage) Health(ctx context.Context) error {
	_, err := os.ReadDir(s.absBasePath)
	return err
}

// Name 返回存储名称
func (s *LocalStorage) Name() string {
	return "local"
}

// BasePath 返回存储的基础路径
func (s *LocalStorage) BasePath() string {
	return s.absBasePath
}

// IsValidObjectKey 校验对象键是否合法
func IsValidObjectKey(key string) bool {
	if key == "" {
		return false
	}

	// 不允许绝对路径
	if filepath.IsAbs(key) {
		return false
	}

	// 防止目录遍历
	if strings.Contains(key, "..") {
		return false
	}

	// 只允许安全字符
	for _, r := range key {
		if (r < 'a' || r > 'z') &&
			(r < 'A' || r > 'Z') &&
			(r < '0' || r > '9') &&
			r != '-' && r != '_' && r != '.' && r != '/' {
			return false
		}
	}

	return true
}
