package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dimitrije/clubctf-api/internal/middleware"
	"github.com/dimitrije/clubctf-api/internal/services"
	"github.com/dimitrije/clubctf-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const maxTeamNameLength = 100

type TeamHandler struct {
	teamService TeamServiceInterface
}

func NewTeamHandler(teamService TeamServiceInterface) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func (h *TeamHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}
	if len(req.Name) > maxTeamNameLength {
		c.BadRequest("name is too long")
		return
	}

	team, err := h.teamService.Create(context.Background(), req.Name, userID)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyOnTeam) {
			_ = c.JSON(http.StatusConflict, map[string]string{"error": "you are already on a team"})
			return
		}
		c.InternalServerError("failed to create team")
		return
	}

	_ = c.JSON(http.StatusCreated, dto.TeamResponse{
		ID:        team.ID,
		Name:      team.Name,
		CaptainID: team.CaptainID,
		CreatedAt: team.CreatedAt,
	})
}

func (h *TeamHandler) GetMyTeam(c *drift.Context) {
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

	members, err := h.teamService.GetMembers(context.Background(), team.ID)
	if err != nil {
		c.InternalServerError("failed to get members")
		return
	}

	response := dto.TeamWithMembersResponse{
		Team: dto.TeamResponse{
			ID:        team.ID,
			Name:      team.Name,
			CaptainID: team.CaptainID,
			CreatedAt: team.CreatedAt,
		},
		Members: make([]dto.TeamMemberResponse, len(members)),
	}
	for i, m := range members {
		response.Members[i] = dto.TeamMemberResponse{
			UserID:    m.UserID,
			Name:      m.User.Name,
			Email:     m.User.Email,
			IsCaptain: m.UserID == team.CaptainID,
			JoinedAt:  m.CreatedAt,
		}
	}

	_ = c.JSON(http.StatusOK, response)
}

func (h *TeamHandler) Leave(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.teamService.Leave(context.Background(), userID); err != nil {
		if errors.Is(err, services.ErrNotOnTeam) {
			c.NotFound("you are not on a team")
			return
		}
		c.InternalServerError("failed to leave team")
		return
	}

	_ = c.JSON(http.StatusOK, map[string]string{"message": "left team"})
}

func (h *TeamHandler) TransferCaptain(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.TransferCaptainRequest
	if err := c.BindJSON(&req); err != nil || req.TargetUserID == uuid.Nil {
		c.BadRequest("target_user_id is required")
		return
	}

	if err := h.teamService.TransferCaptain(context.Background(), userID, req.TargetUserID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotOnTeam):
			c.NotFound("you are not on a team")
		case errors.Is(err, services.ErrNotCaptain):
			c.Forbidden("only the captain can transfer captaincy")
		case errors.Is(err, services.ErrNotMember):
			c.NotFound("target user is not on your team")
		default:
			c.InternalServerError("failed to transfer captaincy")
		}
		return
	}

	_ = c.JSON(http.StatusOK, map[string]string{"message": "captaincy transferred"})
}

func (h *TeamHandler) RemoveMember(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	if err := h.teamService.RemoveMember(context.Background(), userID, targetID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotOnTeam):
			c.NotFound("you are not on a team")
		case errors.Is(err, services.ErrNotCaptain):
			c.Forbidden("only the captain can remove members")
		case errors.Is(err, services.ErrCannotRemoveSelf):
			c.BadRequest("captain cannot remove themselves; transfer captaincy or leave")
		case errors.Is(err, services.ErrCompetitionLocked):
			_ = c.JSON(http.StatusConflict, map[string]string{"error": "rosters are locked during the competition"})
		case errors.Is(err, services.ErrNotMember):
			c.NotFound("member not found")
		default:
			c.InternalServerError("failed to remove member")
		}
		return
	}

	_ = c.JSON(http.StatusOK, map[string]string{"message": "member removed"})
}
