package security

import (
	"github.com/golang-jwt/jwt/v5"
)

// HandleClaims Token 中携带登录账号
type HandleClaims struct {
	Handle string `json:"handle"`
	jwt.RegisteredClaims
}
