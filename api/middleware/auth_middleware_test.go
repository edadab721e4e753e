package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anoixa/tryon-server/config"
	"github.com/anoixa/tryon-server/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-at-least-32-chars-long"

func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(&config.Config{
		JWTSecret:           testJWTSecret,
		JWTExpiresIn:        "15m",
		JWTRefreshExpiresIn: "720h",
	})
	require.NoError(t, err)
	return svc
}

func setupProtectedRouter(t *testing.T, svc *auth.JWTService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", JWTAuth(svc), func(c *gin.Context) {
		userID, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":  userID,
			"username": c.GetString(ContextUsernameKey),
		})
	})
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestJWTAuth_ValidToken 有效访问令牌放行并注入用户信息
func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService(t)
	router := setupProtectedRouter(t, svc)

	token, _, err := svc.GenerateAccessToken("alice", 42)
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
}

// TestJWTAuth_MissingHeader 缺失 Authorization 头返回 401
func TestJWTAuth_MissingHeader(t *testing.T) {
	router := setupProtectedRouter(t, newTestJWTService(t))

	w := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestJWTAuth_MalformedHeader 头格式错误
func TestJWTAuth_MalformedHeader(t *testing.T) {
	router := setupProtectedRouter(t, newTestJWTService(t))

	// 无空格分隔
	w := doRequest(router, "not-a-bearer-token")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 不支持的认证方案
	w = doRequest(router, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestJWTAuth_InvalidToken 非法令牌返回 401
func TestJWTAuth_InvalidToken(t *testing.T) {
	router := setupProtectedRouter(t, newTestJWTService(t))

	w := doRequest(router, "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestJWTAuth_RejectsNonAccessToken 非访问类型的令牌被拒绝
func TestJWTAuth_RejectsNonAccessToken(t *testing.T) {
	router := setupProtectedRouter(t, newTestJWTService(t))

	// 用相同密钥签发 refresh 类型的令牌
	claims := jwt.MapClaims{
		"username": "alice",
		"user_id":  42,
		"type":     "refresh",
		"exp":      time.Now().Add(time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
