// Package scans 身体扫描图像接口处理器
package scans

import (
	"mime/multipart"
	"net/http"

	"github.com/anoixa/tryon-server/api/common"
	"github.com/anoixa/tryon-server/api/middleware"
	"github.com/anoixa/tryon-server/database/models"
	"github.com/anoixa/tryon-server/internal/asset"
	"github.com/gin-gonic/gin"
)

// Handler 扫描处理器
type Handler struct {
	service *asset.Service[models.ImageScan]
}

// NewHandler 创建扫描处理器
func NewHandler(service *asset.Service[models.ImageScan]) *Handler {
	return &Handler{service: service}
}

// Upload 上传扫描图像并创建记录
// POST /api/v1/scans
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
			"category":  c.PostForm("category"),
		},
		Files: map[string]*multipart.FileHeader{},
	}
	if file, err := c.FormFile("image"); err == nil {
		input.Files["image"] = file
	}

	record, err := h.service.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondSuccess(c, record)
}

// GetLatest 查询当前用户最近上传的扫描
// GET /api/v1/scans
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

// Get 按业务标识符查询扫描
// GET /api/v1/scans/:garmentId
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

// Delete 按业务标识符删除扫描及其存储对象
// DELETE /api/v1/scans/:garmentId
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

	common.RespondSuccessMessage(c, "Scan deleted successfully", gin.H{
		"id":        record.ID,
		"garmentId": record.GarmentID,
		"category":  record.Category,
		"createdAt": record.CreatedAt,
	})
}

// DeleteLatest 删除当前用户最近上传的扫描
// DELETE /api/v1/scans
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

	common.RespondSuccessMessage(c, "Last scan deleted successfully", gin.H{
		"id":        record.ID,
		"garmentId": record.GarmentID,
		"category":  record.Category,
		"createdAt": record.CreatedAt,
	})
}

// respondServiceError 扫描接口的错误文案
func respondServiceError(c *gin.Context, err error) {
	common.RespondAssetError(c, err, "A scan already exists for this garment ID", "No scans found")
}
