package middleware

import (
	"strings"

	"aiqr-api/apperror"
	"aiqr-api/token"

	"github.com/gin-gonic/gin"
)

// Verifier checks a bearer token against one role's secret
type Verifier interface {
	Verify(raw string, expected token.Role) (*token.Claims, error)
}

// ClaimsHandlerFunc is a handler that receives the verified caller explicitly
type ClaimsHandlerFunc func(c *gin.Context, claims *token.Claims)

// BearerToken extracts the token from "Authorization: Bearer <token>"
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(raw)
}

// Authorized verifies the bearer token for role and hands the claims to next.
// Verification failures abort with InvalidAuthorization.
func Authorized(v Verifier, role token.Role, next ClaimsHandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := v.Verify(BearerToken(c), role)
		if err != nil {
			c.Error(apperror.From(err))
			c.Abort()
			return
		}
		next(c, claims)
	}
}
