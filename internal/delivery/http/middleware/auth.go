package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ModerationAuth gates the moderation endpoints behind a shared bearer
// secret. There are no user accounts; this is a single server-held
// credential checked in constant time.
type ModerationAuth struct {
	token string
}

func NewModerationAuth(token string) *ModerationAuth {
	return &ModerationAuth{token: token}
}

// Require rejects requests whose Authorization header does not carry the
// moderation secret.
func (m *ModerationAuth) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		credential, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(credential), []byte(m.token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}
		c.Next()
	}
}
