package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// ReportTokenRequired gates the report trigger behind "Bearer <secret>".
// secret may be stored as a bcrypt hash. An empty secret rejects every call.
func ReportTokenRequired(secret string) gin.HandlerFunc {
	hashed := strings.HasPrefix(secret, "$2")
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok || secret == "" || !tokenMatches(secret, token, hashed) {
			c.String(http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

func tokenMatches(secret, token string, hashed bool) bool {
	if hashed {
		return bcrypt.CompareHashAndPassword([]byte(secret), []byte(token)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(token)) == 1
}
