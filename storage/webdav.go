package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/studio-b12/gowebdav"

	"github.com/anoixa/tryon-server/config"
)

// WebDAVStorage WebDAV 存储实现
type WebDAVStorage struct {
	client    *gowebdav.Client
	baseURL   string
	publicURL string
	rootPath  string
	username  string
	password  string
}

// NewWebDAVStorage 创建 WebDAV 存储提供者
func NewWebDAVStorage(cfg *config.Config) (*WebDAVStorage, error) {
	if cfg.WebDAVURL == "" {
		return nil, fmt.Errorf("webdav URL is required")
	}

	rootPath := strings.Trim(cfg.WebDAVRootPath, "/")
	if rootPath != "" {
		rootPath = "/" + rootPath
	}

	client := gowebdav.NewClient(cfg.WebDAVURL, cfg.WebDAVUsername, cfg.WebDAVPassword)

	// 验证连接
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := testWebDAVConnection(ctx, client, rootPath); err != nil {
		return nil, fmt.Errorf("webdav connection test failed: %w", err)
	}

	publicURL := strings.TrimRight(cfg.WebDAVPublicURL, "/")
	baseURL := strings.TrimRight(cfg.WebDAVURL, "/")
	if publicURL == "" {
		publicURL = baseURL + rootPath
	}

	return &WebDAVStorage{
		client:    client,
		baseURL:   baseURL,
		publicURL: publicURL,
		rootPath:  rootPath,
		username:  cfg.WebDAVUsername,
		password:  cfg.WebDAVPassword,
	}, nil
}

// testWebDAVConnection 测试 WebDAV 连接
func testWebDAVConnection(ctx context.Context, client *gowebdav.Client, rootPath string) error {
	done := make(chan error, 1)
	go func() {
		// 尝试读取根目录验证连接
		_, err := client.ReadDir(rootPath)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// fullPath 生成完整的 WebDAV 路径
func (s *WebDAVStorage) fullPath(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.rootPath != "" {
		return s.rootPath + "/" + key
	}
	return "/" + key
}

// ensureParentDir 递归创建父目录
func (s *WebDAVStorage) ensureParentDir(ctx context.Context, fullPath string) error {
	parentDir := path.Dir(fullPath)
	if parentDir == "/" || parentDir == "." {
		return nil
	}

	parts := strings.Split(strings.Trim(parentDir, "/"), "/")
	currentPath := ""

	for _, part := range parts {
		if part == "" {
			continue
		}
		currentPath = currentPath + "/" + part

		done := make(chan error, 1)
		go func(p string) {
			done <- s.client.Mkdir(p, os.FileMode(0755))
		}(currentPath)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-done:
			if err != nil && !isCollectionExistsError(err) {
				return fmt.Errorf("failed to create directory %s: %w", currentPath, err)
			}
		}
	}

	return nil
}

// isCollectionExistsError 判断是否为目录已存在的错误
func isCollectionExistsError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// 常见 WebDAV 服务器的 "目录已存在" 错误信息
	containsAny := []string{
		"already exists",
		"conflict",
		"Conflict",
		"409",
		"Method Not Allowed",
		"405",
	}
	for _, s := range containsAny {
		if strings.Contains(errStr, s) {
			return true
		}
	}
	return false
}

// PutWithContext 保存对象到 WebDAV
func (s *WebDAVStorage) PutWithContext(ctx context.Context, key string, file io.Reader, size int64, contentType string) (ObjectRef, error) {
	select {
	case <-ctx.Done():
		return ObjectRef{}, ctx.Err()
	default:
	}

	fullPath := s.fullPath(key)

	if err := s.ensureParentDir(ctx, fullPath); err != nil {
		return ObjectRef{}, fmt.Errorf("failed to ensure parent directory for %s: %w", key, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.client.WriteStream(fullPath, file, 0644)
	}()

	select {
	case <-ctx.Done():
		return ObjectRef{}, ctx.Err()
	case err := <-done:
		if err != nil {
			return ObjectRef{}, fmt.Errorf("failed to write object %s: %w", key, err)
		}
	}

	return ObjectRef{
		URL: s.publicURL + "/" + strings.TrimLeft(key, "/"),
		Key: key,
	}, nil
}

// GetWithContext 从 WebDAV 读取对象
func (s *WebDAVStorage) GetWithContext(ctx context.Context, key string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	fullPath := s.fullPath(key)

	type result struct {
		rc  io.ReadCloser
		err error
	}

	done := make(chan result, 1)
	go func() {
		rc, err := s.client.ReadStream(fullPath)
		done <- result{rc: rc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("failed to read object %s: %w", key, res.err)
		}
		return res.rc, nil
	}
}

// DeleteWithContext 从 WebDAV 删除对象
func (s *WebDAVStorage) DeleteWithContext(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	fullPath := s.fullPath(key)

	done := make(chan error, 1)
	go func() {
		done <- s.client.Remove(fullPath)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil && gowebdav.IsErrNotFound(err) {
			return nil
		}
		return err
	}
}

// Exists 检查对象是否存在
func (s *WebDAVStorage) Exists(ctx context.Context, key string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	fullPath := s.fullPath(key)

	type result struct {
		exists bool
		err    error
	}

	done := make(chan result, 1)
	go func() {
		_, err := s.client.Stat(fullPath)
		if err == nil {
			done <- result{exists: true}
			return
		}
		if gowebdav.IsErrNotFound(err) {
			done <- result{exists: false}
			return
		}
		done <- result{exists: false, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-done:
		return res.exists, res.err
	}
}

// Health 检查存储健康状态
func (s *WebDAVStorage) Health(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if s.client == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.client.ReadDir(s.rootPath)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Name 返回存储名称
func (s *WebDAVStorage) Name() string {
	if s.baseURL == "" {
		return "webdav"
	}
	return fmt.Sprintf("webdav:%s%s", s.baseURL, s.rootPath)
}
