package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/harukit/journeys-backend-go/pkg/response"
)

// ContextUserKey is the gin context key holding the authenticated user ID
const ContextUserKey = "user_id"

// Auth middleware validates a Bearer token and stores the subject as the
// authenticated user ID
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			response.Unauthorized(c, "Missing bearer token")
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, prefix), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			response.Unauthorized(c, "Invalid token")
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			response.Unauthorized(c, "Token has no subject")
			return
		}

		c.Set(ContextUserKey, sub)
		c.Next()
	}
}
