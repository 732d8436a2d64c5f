package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kevinpauljacob/cal/internal/api/config"

	"github.com/golang-jwt/jwt/v5"
)

const defaultExpiration = 24 * time.Hour

// GenerateToken 为登录账号签发 JWT
func GenerateToken(handle string) (string, error) {
	cfg := config.Cfg.JWT
	if cfg.Secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	expiration := cfg.Expiration
	if expiration <= 0 {
		expiration = defaultExpiration
	}

	now := time.Now()
	claims := &HandleClaims{
		Handle: handle,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   handle,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken 验证 Token 字符串并解析出 Claims
func ValidateToken(tokenString string) (*HandleClaims, error) {
	claims := &HandleClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Cfg.JWT.Secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	if !token.Valid || claims.Handle == "" {
		return nil, errors.New("token is invalid or expired")
	}

	return claims, nil
}

// ExtractSignature 从 Token 字符串中提取签名
func ExtractSignature(tokenString string) (string, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return "", errors.New("malformed token")
	}
	return parts[2], nil
}
