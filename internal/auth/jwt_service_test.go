package auth

import (
	"testing"
	"time"

	"github.com/anoixa/tryon-server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(&config.Config{
		JWTSecret:           testSecret,
		JWTExpiresIn:        "15m",
		JWTRefreshExpiresIn: "720h",
	})
	require.NoError(t, err)
	return svc
}

// TestNewJWTService_RejectsShortSecret 拒绝过短的密钥
func TestNewJWTService_RejectsShortSecret(t *testing.T) {
	_, err := NewJWTService(&config.Config{
		JWTSecret:           "too-short",
		JWTExpiresIn:        "15m",
		JWTRefreshExpiresIn: "720h",
	})
	assert.Error(t, err)
}

// TestNewJWTService_RejectsInvalidTTL 拒绝非法的过期时间
func TestNewJWTService_RejectsInvalidTTL(t *testing.T) {
	_, err := NewJWTService(&config.Config{
		JWTSecret:           testSecret,
		JWTExpiresIn:        "not-a-duration",
		JWTRefreshExpiresIn: "720h",
	})
	assert.Error(t, err)
}

// TestGenerateTokens_Roundtrip 生成令牌并解析声明
func TestGenerateTokens_Roundtrip(t *testing.T) {
	svc := newTestJWTService(t)

	pair, err := svc.GenerateTokens("alice", 42)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.AccessTokenExpiry.After(time.Now()))
	assert.True(t, pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry))

	claims, err := svc.ExtractClaims(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "access", claims.Type)
	assert.Greater(t, claims.Exp, claims.Iat)

	isAccess, err := svc.IsAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, isAccess)
}

// TestParseToken_WrongSecret 密钥不匹配时解析失败
func TestParseToken_WrongSecret(t *testing.T) {
	svc := newTestJWTService(t)
	pair, err := svc.GenerateTokens("alice", 42)
	require.NoError(t, err)

	other := newTestJWTService(t)
	other.SetConfig(TokenConfig{
		Secret:           []byte("another-secret-key-with-32-chars!!"),
		ExpiresIn:        15 * time.Minute,
		RefreshExpiresIn: 720 * time.Hour,
	})

	assert.Error(t, other.ValidateToken(pair.AccessToken))
}

// TestParseToken_Expired 过期令牌解析失败
func TestParseToken_Expired(t *testing.T) {
	svc := newTestJWTService(t)
	svc.SetConfig(TokenConfig{
		Secret:           []byte(testSecret),
		ExpiresIn:        -time.Minute,
		RefreshExpiresIn: 720 * time.Hour,
	})

	token, _, err := svc.GenerateAccessToken("alice", 42)
	require.NoError(t, err)

	assert.Error(t, svc.ValidateToken(token))
}

// TestParseToken_Garbage 非法令牌解析失败
func TestParseToken_Garbage(t *testing.T) {
	svc := newTestJWTService(t)
	assert.Error(t, svc.ValidateToken("not.a.jwt"))
	assert.Error(t, svc.ValidateToken(""))
}

// TestGenerateRefreshToken_Unique 刷新令牌互不相同
func TestGenerateRefreshToken_Unique(t *testing.T) {
	svc := newTestJWTService(t)

	token1, _, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	token2, _, err := svc.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, token1, token2)
}
