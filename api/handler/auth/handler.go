// Package auth 认证接口处理器
package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/anoixa/tryon-server/api/common"
	"github.com/anoixa/tryon-server/api/middleware"
	"github.com/anoixa/tryon-server/config"
	"github.com/anoixa/tryon-server/database/repo/accounts"
	authsvc "github.com/anoixa/tryon-server/internal/auth"
	"github.com/anoixa/tryon-server/utils"
	"github.com/gin-gonic/gin"
)

// Handler 认证处理器
type Handler struct {
	loginService *authsvc.LoginService
}

// NewHandler 创建认证处理器
func NewHandler(loginService *authsvc.LoginService) *Handler {
	return &Handler{
		loginService: loginService,
	}
}

type registerRequestBody struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type userAuthRequestBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken       string `json:"access_token"`
	AccessTokenExpiry int64  `json:"access_token_expiry"`
}

// RegisterHandlerFunc user registration
func (h *Handler) RegisterHandlerFunc(context *gin.Context) {
	var req registerRequestBody
	if err := context.ShouldBindJSON(&req); err != nil {
		common.RespondError(context, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.loginService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrUserExists) {
			common.RespondError(context, http.StatusConflict, "Username or email already exists")
			return
		}
		common.RespondError(context, http.StatusInternalServerError, "Internal server error")
		return
	}

	common.RespondSuccessMessage(context, "Registration successful", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// LoginHandlerFunc user login
func (h *Handler) LoginHandlerFunc(context *gin.Context) {
	var req userAuthRequestBody
	if err := context.ShouldBindJSON(&req); err != nil {
		common.RespondError(context, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.loginService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			common.RespondError(context, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Printf("Login error for user %s: %v", utils.SanitizeLogUsername(req.Username), err)
		common.RespondError(context, http.StatusInternalServerError, "Internal server error")
		return
	}

	// 刷新令牌走 HttpOnly Cookie
	refreshTokenMaxAge := int(time.Until(result.RefreshTokenExpiry).Seconds())
	setAuthCookies(context, result.RefreshToken, result.DeviceID, refreshTokenMaxAge)

	common.RespondSuccessMessage(context, "Login successful", loginResponse{
		AccessToken:       "Bearer " + result.AccessToken,
		AccessTokenExpiry: result.AccessTokenExpiry.Unix(),
	})
}

// RefreshTokenHandlerFunc Refresh token authentication
func (h *Handler) RefreshTokenHandlerFunc(context *gin.Context) {
	refreshToken, err := context.Cookie("refresh_token")
	if err != nil {
		common.RespondError(context, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	deviceID, err := context.Cookie("device_id")
	if err != nil {
		common.RespondError(context, http.StatusUnauthorized, "Device ID not found")
		return
	}

	result, err := h.loginService.RefreshToken(refreshToken, deviceID)
	if err != nil {
		common.RespondError(context, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	newRefreshTokenMaxAge := int(time.Until(result.RefreshTokenExpiry).Seconds())
	setAuthCookies(context, result.RefreshToken, deviceID, newRefreshTokenMaxAge)

	common.RespondSuccessMessage(context, "Refresh token successful", loginResponse{
		AccessToken:       "Bearer " + result.AccessToken,
		AccessTokenExpiry: result.AccessTokenExpiry.Unix(),
	})
}

// LogoutHandlerFunc user logout
func (h *Handler) LogoutHandlerFunc(context *gin.Context) {
	deviceID, err := context.Cookie("device_id")
	if err != nil {
		common.RespondSuccessMessage(context, "Already logged out or session invalid", nil)
		return
	}

	_ = h.loginService.Logout(deviceID)

	clearAuthCookies(context)

	common.RespondSuccessMessage(context, "Logout successful", nil)
}

// VerifyHandlerFunc 校验访问令牌，需要经过鉴权中间件
func (h *Handler) VerifyHandlerFunc(context *gin.Context) {
	userID, ok := middleware.CurrentUserID(context)
	if !ok {
		common.RespondError(context, http.StatusUnauthorized, "Not authenticated")
		return
	}

	common.RespondSuccess(context, gin.H{
		"user_id":  userID,
		"username": context.GetString(middleware.ContextUsernameKey),
	})
}

// setAuthCookies 设置 refresh_token 和 device_id 的 cookie
func setAuthCookies(c *gin.Context, refreshToken, deviceID string, maxAge int) {
	path := "/api/auth/"
	secure := config.IsProduction()

	refreshTokenCookie := http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		MaxAge:   maxAge,
		Path:     path,
		Domain:   "",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	deviceIDCookie := http.Cookie{
		Name:     "device_id",
		Value:    deviceID,
		MaxAge:   maxAge,
		Path:     path,
		Domain:   "",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	http.SetCookie(c.Writer, &refreshTokenCookie)
	http.SetCookie(c.Writer, &deviceIDCookie)
}

// clearAuthCookies 清除认证相关的 cookie
func clearAuthCookies(c *gin.Context) {
	cfg := config.Get()

	path := "/api/auth/"
	domain := cfg.ServerDomain

	// MaxAge 为 -1 让浏览器删除 Cookie
	c.SetCookie("refresh_token", "", -1, path, domain, false, true)
	c.SetCookie("device_id", "", -1, path, domain, false, true)
}
