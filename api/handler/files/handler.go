// Package files 本地存储对象回源接口
package files

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/anoixa/tryon-server/api/common"
	"github.com/anoixa/tryon-server/storage"
	"github.com/gin-gonic/gin"
)

// Handler 文件回源处理器
type Handler struct {
	storageFactory *storage.Factory
}

// NewHandler 创建文件回源处理器
func NewHandler(storageFactory *storage.Factory) *Handler {
	return &Handler{storageFactory: storageFactory}
}

// Get 按对象键流式返回对象内容
// GET /files/:key
func (h *Handler) Get(c *gin.Context) {
	key := c.Param("key")
	if !storage.IsValidObjectKey(key) {
		common.RespondError(c, http.StatusBadRequest, "Invalid object key")
		return
	}

	provider := h.storageFactory.GetDefault()

	reader, err := provider.GetWithContext(c.Request.Context(), key)
	if err != nil {
		common.RespondError(c, http.StatusNotFound, "File not found")
		return
	}
	defer func() { _ = reader.Close() }()

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, reader); err != nil {
		// 响应已开始，无法再返回错误状态
		_ = c.Error(err)
	}
}
