package middleware

import (
	"net/http"
	"strings"

	"trainbuddy/internal/domain"
	"trainbuddy/internal/services"

	"github.com/gin-gonic/gin"
)

const phoneNumberKey = "phone_number"

// RequireAuth validates the bearer token and stores the caller's phone
// number in the request context.
func RequireAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortWithCode(c, domain.CodeUnauthorized, "Authorization token is required.", http.StatusUnauthorized)
			return
		}

		claims, err := tokens.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortWithCode(c, domain.CodeUnauthorized, "Invalid or expired token.", http.StatusUnauthorized)
			return
		}

		c.Set(phoneNumberKey, claims.PhoneNumber)
		c.Next()
	}
}

// GetPhoneNumber returns the authenticated caller's phone number, empty when
// the auth middleware did not run.
func GetPhoneNumber(c *gin.Context) string {
	if v, ok := c.Get(phoneNumberKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func abortWithCode(c *gin.Context, code, message string, status int) {
	c.AbortWithStatusJSON(status, gin.H{
		"success":   false,
		"errorCode": code,
		"message":   message,
	})
}
