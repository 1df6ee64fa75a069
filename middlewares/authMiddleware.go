package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/simpleym/yard_backend/identity"
	"github.com/simpleym/yard_backend/utils"
)

// TokenVerifier is the slice of the identity provider the middleware needs.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (*identity.Token, error)
}

// AuthMiddleware rejects requests without a verifiable bearer token and
// stashes the caller's identity in the request context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Request.Header.Get("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authorization header is missing"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		decoded, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authentication token"})
			c.Abort()
			return
		}

		ctx := utils.SetUserIdInContext(c.Request.Context(), decoded.UID)
		ctx = utils.SetUserEmailInContext(ctx, decoded.Email)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
