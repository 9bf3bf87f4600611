package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Entitlements decides whether a caller may use premium matching features.
// The default grants everyone; a real billing-backed policy plugs in here
// without touching the matching logic.
type Entitlements interface {
	IsEntitled(phoneNumber string) bool
}

// AllowAll grants every caller.
type AllowAll struct{}

func (AllowAll) IsEntitled(string) bool { return true }

// RequirePremium gates a route group on the entitlement policy.
func RequirePremium(policy Entitlements) gin.HandlerFunc {
	if policy == nil {
		policy = AllowAll{}
	}
	return func(c *gin.Context) {
		if !policy.IsEntitled(GetPhoneNumber(c)) {
			abortWithCode(c, "PREMIUM_REQUIRED", "This feature requires a premium subscription.", http.StatusForbidden)
			return
		}
		c.Next()
	}
}
