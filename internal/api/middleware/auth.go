package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/kevinpauljacob/cal/internal/pkg/consts"
	"github.com/kevinpauljacob/cal/internal/pkg/response"
	"github.com/kevinpauljacob/cal/internal/pkg/security"

	"github.com/gin-gonic/gin"
)

const codeUnauthorized = "UNAUTHORIZED"

// RevokedFunc 判断 token 是否已登出
type RevokedFunc func(ctx context.Context, token string) (bool, error)

// AuthMiddleware 负责验证 JWT 并将登录账号注入 Context
func AuthMiddleware(revoked RevokedFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, http.StatusUnauthorized, codeUnauthorized, "missing or malformed token")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ValidateToken(tokenString)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, codeUnauthorized, "token is invalid or expired")
			c.Abort()
			return
		}

		if revoked != nil {
			isRevoked, err := revoked(c.Request.Context(), tokenString)
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			if isRevoked {
				response.Fail(c, http.StatusUnauthorized, codeUnauthorized, "token is invalid or expired")
				c.Abort()
				return
			}
		}

		c.Set(consts.HandleKey, claims.Handle)
		c.Set(consts.TokenKey, tokenString)

		newCtx := context.WithValue(c.Request.Context(), consts.HandleKey, claims.Handle)
		c.Request = c.Request.WithContext(newCtx)

		c.Next()
	}
}
