package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gin-gorm-product-api/internal/core/auth"
	"gin-gorm-product-api/internal/transport/http/ez"
	resp "gin-gorm-product-api/internal/transport/http/response"
)

type Authenticator interface {
	Authenticate(raw string) (*auth.Claims, error)
}

// AuthJWT 缺失/非法/过期 token 一律 401，文案相同
func AuthJWT(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "unauthorized"))
			return
		}
		claims, err := a.Authenticate(strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "unauthorized"))
			return
		}
		c.Set(ez.KeyClaims, claims)
		c.Set(ez.KeyUserID, claims.UserID())
		c.Next()
	}
}

// ClaimsFrom 取 AuthJWT 写入的 claims
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ez.KeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
