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

type SubmissionHandler struct {
	submissionService SubmissionServiceInterface
}

func NewSubmissionHandler(submissionService SubmissionServiceInterface) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

func (h *SubmissionHandler) Submit(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid challenge id")
		return
	}

	var req dto.SubmitFlagRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Flag == "" {
		c.BadRequest("flag is required")
		return
	}

	result, err := h.submissionService.Submit(context.Background(), userID, req.TeamID, challengeID, req.Flag)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotOnTeam):
			c.NotFound("you are not on this team")
		case errors.Is(err, services.ErrChallengeNotFound):
			c.NotFound("challenge not found")
		case errors.Is(err, services.ErrChallengeInactive):
			_ = c.JSON(http.StatusGone, map[string]string{"error": "challenge is no longer active"})
		default:
			c.InternalServerError("failed to process submission")
		}
		return
	}

	_ = c.JSON(http.StatusOK, dto.SubmitFlagResponse{
		IsCorrect:     result.IsCorrect,
		PointsAwarded: result.PointsAwarded,
		AlreadySolved: result.AlreadySolved,
	})
}

// TeamSubmissions is the officer audit view of a team's full attempt log,
// submitted flags included.
func (h *SubmissionHandler) TeamSubmissions(c *drift.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	submissions, err := h.submissionService.TeamSubmissions(context.Background(), teamID)
	if err != nil {
		c.InternalServerError("failed to get submissions")
		return
	}

	response := make([]dto.SubmissionLogEntry, len(submissions))
	for i, s := range submissions {
		response[i] = dto.SubmissionLogEntry{
			ID:            s.ID,
			ChallengeID:   s.ChallengeID,
			SubmittedBy:   s.SubmittedBy,
			SubmittedFlag: s.SubmittedFlag,
			IsCorrect:     s.IsCorrect,
			PointsAwarded: s.PointsAwarded,
			SubmittedAt:   s.SubmittedAt,
		}
	}

	_ = c.JSON(http.StatusOK, response)
}
