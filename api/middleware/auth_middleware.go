package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anoixa/tryon-server/api/common"
	"github.com/anoixa/tryon-server/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
)

// JWTAuth JWT 鉴权中间件，校验通过后把用户信息注入上下文
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "No Authorization request header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 {
			common.RespondErrorAbort(c, http.StatusBadRequest, "Authorization field format error")
			return
		}

		if parts[0] != "Bearer" {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "Unsupported authentication scheme")
			return
		}

		if err := handleJwtAuth(c, jwtService, parts[1]); err != nil {
			common.RespondErrorAbort(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Next()
	}
}

func handleJwtAuth(c *gin.Context, jwtService *auth.JWTService, token string) error {
	if jwtService == nil {
		return errors.New("JWT service not initialized")
	}

	claims, err := jwtService.ParseToken(token)
	if err != nil {
		return errors.New("invalid or expired token")
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != "access" {
		return errors.New("token is not an access token")
	}

	userIDValue, ok := claims["user_id"]
	if !ok {
		return errors.New("user_id not found in token claims")
	}
	userID, ok := userIDValue.(float64)
	if !ok {
		return errors.New("user_id in token is not a valid number")
	}

	usernameValue, ok := claims["username"]
	if !ok {
		return errors.New("username not found in token claims")
	}
	username, ok := usernameValue.(string)
	if !ok {
		return errors.New("username in token is not a valid string")
	}

	c.Set(ContextUserIDKey, uint(userID))
	c.Set(ContextUsernameKey, username)

	return nil
}

// CurrentUserID 从上下文读取已鉴权用户 ID
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok
}
