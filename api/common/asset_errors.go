package common

import (
	"errors"
	"net/http"

	"github.com/anoixa/tryon-server/internal/asset"
	"github.com/gin-gonic/gin"
)

// RespondAssetError 资产服务错误到 HTTP 状态的映射
// 三类资产接口共用同一套映射，duplicateMsg/notFoundMsg 由调用方提供文案
func RespondAssetError(c *gin.Context, err error, duplicateMsg, notFoundMsg string) {
	var validationErr *asset.ValidationError
	if errors.As(err, &validationErr) {
		RespondError(c, http.StatusBadRequest, validationErr.Error())
		return
	}

	if errors.Is(err, asset.ErrDuplicateID) {
		RespondError(c, http.StatusBadRequest, duplicateMsg)
		return
	}

	if errors.Is(err, asset.ErrNotFound) {
		RespondError(c, http.StatusNotFound, notFoundMsg)
		return
	}

	if errors.Is(err, asset.ErrAllocationExhausted) {
		RespondError(c, http.StatusInternalServerError, "Failed to allocate garment ID, please try again")
		return
	}

	var uploadErr *asset.UploadError
	if errors.As(err, &uploadErr) {
		RespondError(c, http.StatusInternalServerError, uploadErr.Error())
		return
	}

	RespondError(c, http.StatusInternalServerError, "Server error")
}
