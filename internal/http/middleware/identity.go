package middleware

import (
	"net/http"
	"strings"

	"transaction_api/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// TokenParser turns a bearer token into the caller identity.
type TokenParser interface {
	Parse(token string) (*domain.Identity, error)
}

// Identity resolves the caller from the Authorization header and stores it
// in the request context. Requests without a header continue anonymously;
// a malformed or invalid token is rejected.
func Identity(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		id, err := parser.Parse(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user_id", id.UserID)
		c.Request = c.Request.WithContext(domain.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// RequestID propagates X-Request-ID, generating one when absent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(RequestIDHeader, rid)
		c.Request = c.Request.WithContext(domain.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}

// callerKey identifies the caller for rate limiting: the user when known,
// the client IP otherwise.
func callerKey(c *gin.Context) string {
	if id := domain.IdentityFromContext(c.Request.Context()); id != nil {
		return "user:" + id.UserID
	}
	return "ip:" + c.ClientIP()
}
