// Package garments 服装资产接口处理器
package garments

import (
	"mime/multipart"
	"net/http"

	"github.com/anoixa/tryon-server/api/common"
	"github.com/anoixa/tryon-server/api/middleware"
	"github.com/anoixa/tryon-server/database/models"
	"github.com/anoixa/tryon-server/internal/asset"
	"github.com/gin-gonic/gin"
)

// Handler 服装处理器
type Handler struct {
	service *asset.Service[models.Garment]
}

// NewHandler 创建服装处理器
func NewHandler(service *asset.Service[models.Garment]) *Handler {
	return &Handler{service: service}
}

// Upload 上传服装预览图与模型文件并创建记录
// POST /api/v1/garments
func (h *Handler) Upload(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	input := asset.CreateInput{
		BusinessID: c.PostForm("garmentId"),
		Fields: map[string]string{
			"name": c.PostForm("name"),
		},
		Files: map[string]*multipart.FileHeader{},
	}
	if file, err := c.FormFile("preview"); err == nil {
		input.Files["preview"] = file
	}
	if file, err := c.FormFile("model"); err == nil {
		input.Files["model"] = file
	}

	record, err := h.service.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondSuccess(c, record)
}

// List 列出当前用户的全部服装
// GET /api/v1/garments
func (h *Handler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	records, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondSuccess(c, records)
}

// GetLatest 查询当前用户最近上传的服装
// GET /api/v1/garments/latest
func (h *Handler) GetLatest(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	record, err := h.service.GetLatest(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondSuccess(c, record)
}

// Get 按业务标识符查询服装
// GET /api/v1/garments/:garmentId
func (h *Handler) Get(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	record, err := h.service.GetByBusinessID(c.Request.Context(), userID, c.Param("garmentId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondSuccess(c, record)
}

// Delete 按业务标识符删除服装及其存储对象
// DELETE /api/v1/garments/:garmentId
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	record, err := h.service.DeleteByBusinessID(c.Request.Context(), userID, c.Param("garmentId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondSuccessMessage(c, "Garment deleted successfully", gin.H{
		"garmentId": record.GarmentID,
		"createdAt": record.CreatedAt,
	})
}

// DeleteLatest 删除当前用户最近上传的服装
// DELETE /api/v1/garments/latest
func (h *Handler) DeleteLatest(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	record, err := h.service.DeleteLatest(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondSuccessMessage(c, "Last garment deleted successfully", gin.H{
		"garmentId": record.GarmentID,
		"createdAt": record.CreatedAt,
	})
}

// respondServiceError 服装接口的错误文案
func respondServiceError(c *gin.Context, err error) {
	common.RespondAssetError(c, err, "Garment ID already exists", "Garment not found")
}
