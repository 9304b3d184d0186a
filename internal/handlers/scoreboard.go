package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dimitrije/clubctf-api/internal/models"
	"github.com/dimitrije/clubctf-api/internal/services"
	"github.com/dimitrije/clubctf-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ScoreboardHandler struct {
	leaderboardService LeaderboardServiceInterface
}

func NewScoreboardHandler(leaderboardService LeaderboardServiceInterface) *ScoreboardHandler {
	return &ScoreboardHandler{leaderboardService: leaderboardService}
}

func parseAsOf(c *drift.Context) (*time.Time, bool) {
	raw := c.QueryParam("as_of")
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// Get serves the public standings. The cached view answers the common case;
// an explicit as_of always recomputes.
func (h *ScoreboardHandler) Get(c *drift.Context) {
	asOf, ok := parseAsOf(c)
	if !ok {
		c.BadRequest("as_of must be an RFC3339 timestamp")
		return
	}

	state, err := h.leaderboardService.FreezeState(context.Background())
	if err != nil {
		c.InternalServerError("failed to read scoreboard state")
		return
	}

	var entries []dto.ScoreboardEntry
	computedAt := time.Now()

	if asOf == nil {
		if cached, at, ok := h.leaderboardService.Cached(); ok {
			entries = toScoreboardEntries(cached)
			computedAt = at
		}
	}
	if entries == nil {
		fresh, err := h.leaderboardService.Standings(context.Background(), asOf)
		if err != nil {
			c.InternalServerError("failed to compute standings")
			return
		}
		entries = toScoreboardEntries(fresh)
	}

	_ = c.JSON(http.StatusOK, dto.ScoreboardResponse{
		Entries:    entries,
		ComputedAt: computedAt,
		IsFrozen:   state.IsFrozen,
		FrozenAt:   state.FrozenAt,
	})
}

func (h *ScoreboardHandler) TeamDetail(c *drift.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	asOf, ok := parseAsOf(c)
	if !ok {
		c.BadRequest("as_of must be an RFC3339 timestamp")
		return
	}

	detail, err := h.leaderboardService.TeamDetail(context.Background(), teamID, asOf)
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			c.NotFound("team not found")
			return
		}
		c.InternalServerError("failed to get team detail")
		return
	}

	_ = c.JSON(http.StatusOK, detail)
}

// ToggleFreeze is officer-only at the routing layer.
func (h *ScoreboardHandler) ToggleFreeze(c *drift.Context) {
	var req dto.ToggleFreezeRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	state, err := h.leaderboardService.ToggleFreeze(context.Background(), req.IsFrozen)
	if err != nil {
		c.InternalServerError("failed to toggle freeze")
		return
	}

	_ = c.JSON(http.StatusOK, dto.FreezeStateResponse{
		IsFrozen: state.IsFrozen,
		FrozenAt: state.FrozenAt,
	})
}

func toScoreboardEntries(entries []models.LeaderboardEntry) []dto.ScoreboardEntry {
	out := make([]dto.ScoreboardEntry, len(entries))
	for i, e := range entries {
		out[i] = dto.ScoreboardEntry{
			Rank:              e.Rank,
			TeamID:            e.TeamID,
			TeamName:          e.TeamName,
			TotalPoints:       e.TotalPoints,
			EasySolves:        e.EasySolves,
			MediumSolves:      e.MediumSolves,
			HardSolves:        e.HardSolves,
			IncorrectAttempts: e.IncorrectAttempts,
			LastSolveAt:       e.LastSolveAt,
		}
	}
	return out
}
