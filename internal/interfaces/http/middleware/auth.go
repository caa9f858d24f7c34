// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-bff/internal/domain/session"
	"github.com/your-org/storefront-bff/internal/pkg/auth"
)

const (
	sessionKey   = "session"
	sessionIDKey = "session_id"
	accountIDKey = "account_id"

	// LoginPath is where the front-end is sent when the session has expired
	LoginPath = "/login"
)

// SessionAuth resolves the session token to an open session
func SessionAuth(jwtManager *auth.JWTManager, sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c, "Authorization header required")
			return
		}

		// Extract token from header
		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			abortUnauthenticated(c, "Invalid authorization header format")
			return
		}

		claims, err := jwtManager.ValidateSessionToken(tokenString)
		if err != nil {
			abortUnauthenticated(c, "Invalid or expired token")
			return
		}

		sess, err := sessions.Get(claims.SessionID)
		if err != nil {
			abortUnauthenticated(c, "Session not found")
			return
		}

		// Store session information in context
		c.Set(sessionKey, sess)
		c.Set(sessionIDKey, sess.ID)
		c.Set(accountIDKey, claims.AccountID)

		c.Next()
	}
}

// RequireRemoteCredentials rejects sessions whose remote token was revoked
func RequireRemoteCredentials() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok || !sess.Authenticated() {
			abortUnauthenticated(c, "Session expired, please sign in again")
			return
		}
		c.Next()
	}
}

// AbortSessionExpired answers with the redirect-to-login signal
func AbortSessionExpired(c *gin.Context) {
	abortUnauthenticated(c, "Session expired, please sign in again")
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":    message,
		"redirect": LoginPath,
	})
	c.Abort()
}

// GetSession extracts the session from gin context
func GetSession(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok
}
