package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dimitrije/clubctf-api/internal/middleware"
	"github.com/dimitrije/clubctf-api/internal/services"
	"github.com/dimitrije/clubctf-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type InviteHandler struct {
	inviteService InviteServiceInterface
	teamService   TeamServiceInterface
	baseURL       string
}

func NewInviteHandler(inviteService InviteServiceInterface, teamService TeamServiceInterface, baseURL string) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		teamService:   teamService,
		baseURL:       baseURL,
	}
}

func (h *InviteHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	team, err := h.teamService.GetUserTeam(context.Background(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotOnTeam) {
			c.NotFound("you are not on a team")
			return
		}
		c.InternalServerError("failed to resolve team")
		return
	}

	token, err := h.inviteService.GetTeamToken(context.Background(), userID, team.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotMember):
			c.Forbidden("you are not a member of this team")
		case errors.Is(err, services.ErrInvalidInvite):
			c.NotFound("no active invite token")
		default:
			c.InternalServerError("failed to load invite")
		}
		return
	}

	_ = c.JSON(http.StatusOK, dto.InviteTokenResponse{
		Code:      token.Code,
		Link:      h.baseURL + "/join/" + token.Code,
		ExpiresAt: token.ExpiresAt,
		MaxUses:   token.MaxUses,
		UseCount:  token.UseCount,
		CreatedAt: token.CreatedAt,
	})
}

func (h *InviteHandler) Regenerate(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.RegenerateInviteRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	var expiresIn *time.Duration
	if req.ExpiresIn != "" {
		d, err := time.ParseDuration(req.ExpiresIn)
		if err != nil || d <= 0 {
			c.BadRequest("expires_in must be a positive duration")
			return
		}
		expiresIn = &d
	}
	if req.MaxUses != nil && *req.MaxUses < 1 {
		c.BadRequest("max_uses must be at least 1")
		return
	}

	team, err := h.teamService.GetUserTeam(context.Background(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotOnTeam) {
			c.NotFound("you are not on a team")
			return
		}
		c.InternalServerError("failed to resolve team")
		return
	}

	token, err := h.inviteService.Regenerate(context.Background(), userID, team.ID, expiresIn, req.MaxUses)
	if err != nil {
		if errors.Is(err, services.ErrNotCaptain) {
			c.Forbidden("only the captain can regenerate the invite")
			return
		}
		c.InternalServerError("failed to regenerate invite")
		return
	}

	_ = c.JSON(http.StatusCreated, dto.InviteTokenResponse{
		Code:      token.Code,
		Link:      h.baseURL + "/join/" + token.Code,
		ExpiresAt: token.ExpiresAt,
		MaxUses:   token.MaxUses,
		UseCount:  token.UseCount,
		CreatedAt: token.CreatedAt,
	})
}

func (h *InviteHandler) Redeem(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	code := c.Param("code")
	if code == "" {
		c.BadRequest("invite code is required")
		return
	}

	team, err := h.inviteService.Redeem(context.Background(), code, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInvite):
			c.NotFound("invite code not recognized")
		case errors.Is(err, services.ErrInviteExpired):
			_ = c.JSON(http.StatusGone, map[string]string{"error": "invite code has expired"})
		case errors.Is(err, services.ErrInviteExhausted):
			_ = c.JSON(http.StatusGone, map[string]string{"error": "invite code has no uses left"})
		case errors.Is(err, services.ErrTeamFull):
			_ = c.JSON(http.StatusConflict, map[string]string{"error": "team is full"})
		case errors.Is(err, services.ErrAlreadyOnTeam):
			_ = c.JSON(http.StatusConflict, map[string]string{"error": "you are already on a team"})
		default:
			c.InternalServerError("failed to join team")
		}
		return
	}

	_ = c.JSON(http.StatusOK, dto.TeamResponse{
		ID:        team.ID,
		Name:      team.Name,
		CaptainID: team.CaptainID,
		CreatedAt: team.CreatedAt,
	})
}
