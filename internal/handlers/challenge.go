package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dimitrije/clubctf-api/internal/services"
	"github.com/dimitrije/clubctf-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ChallengeHandler struct {
	challengeService ChallengeServiceInterface
}

func NewChallengeHandler(challengeService ChallengeServiceInterface) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

// List serves the restricted catalog projection: active challenges, no flags.
func (h *ChallengeHandler) List(c *drift.Context) {
	challenges, err := h.challengeService.ListPublic(context.Background())
	if err != nil {
		c.InternalServerError("failed to list challenges")
		return
	}

	response := make([]dto.ChallengeResponse, len(challenges))
	for i, ch := range challenges {
		response[i] = dto.ChallengeResponse{
			ID:         ch.ID,
			Name:       ch.Name,
			Category:   ch.Category,
			Difficulty: ch.Difficulty,
			Points:     ch.Points,
			IsActive:   ch.IsActive,
			CreatedAt:  ch.CreatedAt,
		}
	}

	_ = c.JSON(http.StatusOK, response)
}

func (h *ChallengeHandler) Create(c *drift.Context) {
	var req dto.CreateChallengeRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Name == "" || req.Category == "" || req.Flag == "" {
		c.BadRequest("name, category and flag are required")
		return
	}

	challenge, err := h.challengeService.Create(context.Background(), req.Name, req.Category, req.Difficulty, req.Points, req.Flag)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDifficulty) {
			c.BadRequest("difficulty must be easy, medium or hard")
			return
		}
		c.BadRequest("invalid challenge")
		return
	}

	_ = c.JSON(http.StatusCreated, dto.ChallengeResponse{
		ID:         challenge.ID,
		Name:       challenge.Name,
		Category:   challenge.Category,
		Difficulty: challenge.Difficulty,
		Points:     challenge.Points,
		IsActive:   challenge.IsActive,
		CreatedAt:  challenge.CreatedAt,
	})
}

func (h *ChallengeHandler) SetActive(c *drift.Context) {
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid challenge id")
		return
	}

	var req dto.SetChallengeActiveRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if err := h.challengeService.SetActive(context.Background(), challengeID, req.IsActive); err != nil {
		if errors.Is(err, services.ErrChallengeNotFound) {
			c.NotFound("challenge not found")
			return
		}
		c.InternalServerError("failed to update challenge")
		return
	}

	_ = c.JSON(http.StatusOK, map[string]string{"message": "challenge updated"})
}
