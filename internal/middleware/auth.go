// Package middleware provides the HTTP middleware chain: session guard,
// request logging, and metrics.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"artistplan/internal/auth"
)

// userKey is the gin context key for the authenticated user ID.
const userKey = "auth.userID"

// emailKey is the gin context key for the authenticated user's email.
const emailKey = "auth.email"

// UserID extracts the authenticated user ID from the request context.
// Returns empty string if the request is unauthenticated.
func UserID(c *gin.Context) string {
	id, _ := c.Get(userKey)
	s, _ := id.(string)
	return s
}

// Email extracts the authenticated user's email from the request context.
func Email(c *gin.Context) string {
	v, _ := c.Get(emailKey)
	s, _ := v.(string)
	return s
}

// RequireAuth returns a middleware that validates Bearer tokens and requires
// authentication. It extracts the token from the Authorization header,
// validates it, re-resolves the user (a token for a deleted account is
// rejected), and adds the user ID and email to the request context.
func RequireAuth(jwtManager *auth.JWTManager, users auth.UserStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, auth.ErrMissingToken)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, auth.ErrInvalidToken)
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			unauthorized(c, auth.ErrInvalidToken)
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			unauthorized(c, errors.New("the user belonging to this token no longer exists"))
			return
		}

		c.Set(userKey, user.ID)
		c.Set(emailKey, user.Email)
		c.Next()
	}
}

func unauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "unauthorized",
		"message": err.Error(),
	})
}
