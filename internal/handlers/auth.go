package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dimitrije/clubctf-api/internal/services"
	"github.com/dimitrije/clubctf-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type AuthHandler struct {
	jwtService  *services.JWTService
	userService UserServiceInterface
}

func NewAuthHandler(jwtService *services.JWTService, userService UserServiceInterface) *AuthHandler {
	return &AuthHandler{jwtService: jwtService, userService: userService}
}

// Refresh exchanges a valid refresh token for a fresh pair. Email and role
// are re-read from the user row, so a promotion or demotion takes effect at
// the next refresh instead of waiting out the old access token.
func (h *AuthHandler) Refresh(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil || req.RefreshToken == "" {
		c.BadRequest("refresh_token is required")
		return
	}

	userID, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.Unauthorized("invalid or expired refresh token")
		return
	}

	user, err := h.userService.GetByID(context.Background(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.Unauthorized("unknown user")
			return
		}
		c.InternalServerError("failed to refresh tokens")
		return
	}

	pair, err := h.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		c.InternalServerError("failed to issue tokens")
		return
	}

	_ = c.JSON(http.StatusOK, dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}
