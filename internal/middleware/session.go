package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/mauth/internal/pkg/jwt"
	"github.com/xxxsen/mauth/internal/pkg/response"
)

const (
	ContextUserIDKey = "user_id"
	SessionCookie    = "token"
)

// SessionAuth resolves the caller's identity from the session cookie. A
// missing cookie is rejected the same way as an invalid one.
func SessionAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			response.Error(c, "Not Authorized. Login Again")
			c.Abort()
			return
		}
		claims, err := jwt.ParseToken(token, secret)
		if err != nil {
			response.Error(c, "Not Authorized. Login Again")
			c.Abort()
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}
