package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dimitrije/clubctf-api/internal/models"
	"github.com/dimitrije/clubctf-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
)

// Auth validates the bearer token and stashes the asserted identity on the
// context. The engine never authenticates; it trusts the token issuer.
func Auth(jwtService *services.JWTService) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Unauthorized("invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateAccessToken(parts[1])
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)

		c.Next()
	}
}

// EnsureUser upserts the identity row asserted by the token so membership
// and submission foreign keys always resolve. Must run after Auth.
func EnsureUser(userService *services.UserService) drift.HandlerFunc {
	return func(c *drift.Context) {
		userID := GetUserID(c)
		if userID == uuid.Nil {
			c.Unauthorized("not authenticated")
			return
		}

		email := GetUserEmail(c)
		name := email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}

		if _, err := userService.Ensure(context.Background(), userID, email, name); err != nil {
			if errors.Is(err, services.ErrEmailConflict) {
				_ = c.JSON(http.StatusConflict, map[string]string{"error": "email is registered to a different account"})
				return
			}
			c.InternalServerError("failed to provision user")
			return
		}

		c.Next()
	}
}

// RequireOfficer gates administrative routes (challenge management, freeze
// toggling). Must run after Auth.
func RequireOfficer() drift.HandlerFunc {
	return func(c *drift.Context) {
		if GetUserRole(c) != models.RoleOfficer {
			c.Forbidden("officer access required")
			return
		}
		c.Next()
	}
}

func GetUserID(c *drift.Context) uuid.UUID {
	if id, ok := c.Get(UserIDKey); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid
		}
	}
	return uuid.Nil
}

func GetUserEmail(c *drift.Context) string {
	if email, ok := c.Get(UserEmailKey); ok {
		if e, ok := email.(string); ok {
			return e
		}
	}
	return ""
}

func GetUserRole(c *drift.Context) string {
	if role, ok := c.Get(UserRoleKey); ok {
		if r, ok := role.(string); ok {
			return r
		}
	}
	return ""
}
