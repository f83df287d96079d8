package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxClaimsKey = "auth_claims"

// AbortUnauthorized writes the error shape the review frontend expects.
func AbortUnauthorized(c *gin.Context, msg, code string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":  msg,
		"code":   code,
		"status": http.StatusUnauthorized,
	})
	c.Abort()
}

func AuthMiddleware(tokens TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			AbortUnauthorized(c, "not authenticated", "UNAUTHORIZED")
			return
		}

		raw := strings.TrimSpace(h[len("Bearer "):])
		claims, err := tokens.Parse(raw)
		if err != nil {
			AbortUnauthorized(c, "invalid authentication", "INVALID_AUTH")
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

func MustGetClaims(c *gin.Context) *Claims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
