// Package models3d 处理完成 3D 模型接口处理器
package models3d

import (
	"mime/multipart"
	"net/http"

	"github.com/anoixa/tryon-server/api/common"
	"github.com/anoixa/tryon-server/api/middleware"
	"github.com/anoixa/tryon-server/database/models"
	"github.com/anoixa/tryon-server/internal/asset"
	"github.com/gin-gonic/gin"
)

// Handler 3D 模型处理器
type Handler struct {
	service *asset.Service[models.ProcessedModel]
}

// NewHandler 创建 3D 模型处理器
func NewHandler(service *asset.Service[models.ProcessedModel]) *Handler {
	return &Handler{service: service}
}

// Upload 上传模型与预览图并创建记录
// POST /api/v1/3d-models
func (h *Handler) Upload(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	input := asset.CreateInput{
		BusinessID: c.PostForm("garmentId"),
		Fields: map[string]string{
			"garmentId": c.PostForm("garmentId"),
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

// GetLatest 查询当前用户最近处理完成的模型
// GET /api/v1/3d-models
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

// Get 按业务标识符查询模型
// GET /api/v1/3d-models/:garmentId
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

// Delete 按业务标识符删除模型及其存储对象
// DELETE /api/v1/3d-models/:garmentId
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

	common.RespondSuccessMessage(c, "3D model deleted successfully", gin.H{
		"id":        record.ID,
		"garmentId": record.GarmentID,
		"createdAt": record.CreatedAt,
	})
}

// DeleteLatest 删除当前用户最近处理完成的模型
// DELETE /api/v1/3d-models
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

	common.RespondSuccessMessage(c, "Last 3D model deleted successfully", gin.H{
		"id":        record.ID,
		"garmentId": record.GarmentID,
		"createdAt": record.CreatedAt,
	})
}

// respondServiceError 3D 模型接口的错误文案
func respondServiceError(c *gin.Context, err error) {
	common.RespondAssetError(c, err, "A 3D model already exists for this garment ID", "No 3D model found")
}
