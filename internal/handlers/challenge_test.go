package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/clubctf-api/internal/middleware"
	"github.com/dimitrije/clubctf-api/internal/models"
	"github.com/dimitrije/clubctf-api/internal/services"
	"github.com/dimitrije/clubctf-api/pkg/dto"
	"github.com/dimitrije/clubctf-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupChallengeTest(t *testing.T) (*testutil.MockChallengeService, *ChallengeHandler, *services.JWTService) {
	t.Helper()
	mockChallengeService := new(testutil.MockChallengeService)
	handler := NewChallengeHandler(mockChallengeService)
	jwtSvc := services.NewJWTService("test-secret-key", 15*time.Minute, 24*time.Hour)
	return mockChallengeService, handler, jwtSvc
}

func TestChallengeHandler_List_Success(t *testing.T) {
	mockChallengeService, handler, _ := setupChallengeTest(t)

	challenges := []models.Challenge{
		{ID: uuid.New(), Name: "babyrev", Category: "rev", Difficulty: models.DifficultyEasy, Points: 100, IsActive: true},
		{ID: uuid.New(), Name: "heapfeng", Category: "pwn", Difficulty: models.DifficultyHard, Points: 500, IsActive: true},
	}

	mockChallengeService.On("ListPublic", mock.Anything).Return(challenges, nil)

	app := drift.New()
	app.Get("/challenges", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/challenges", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []dto.ChallengeResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Len(t, response, 2)
	assert.Equal(t, "babyrev", response[0].Name)
	assert.NotContains(t, rec.Body.String(), "flag")

	mockChallengeService.AssertExpectations(t)
}

func TestChallengeHandler_Create_Success(t *testing.T) {
	mockChallengeService, handler, jwtSvc := setupChallengeTest(t)

	officerID := uuid.New()
	challenge := &models.Challenge{
		ID:         uuid.New(),
		Name:       "babyrev",
		Category:   "rev",
		Difficulty: models.DifficultyEasy,
		Points:     100,
		Flag:       "flag{secret}",
		IsActive:   true,
	}

	mockChallengeService.On("Create", mock.Anything, "babyrev", "rev", models.DifficultyEasy, 100, "flag{secret}").Return(challenge, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	admin := app.Group("/admin")
	admin.Use(middleware.RequireOfficer())
	admin.Post("/challenges", handler.Create)

	body := dto.CreateChallengeRequest{Name: "babyrev", Category: "rev", Difficulty: "easy", Points: 100, Flag: "flag{secret}"}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, officerID, "officer@example.com", models.RoleOfficer)
	req := httptest.NewRequest(http.MethodPost, "/admin/challenges", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response dto.ChallengeResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, challenge.ID, response.ID)
	assert.NotContains(t, rec.Body.String(), "flag{secret}")

	mockChallengeService.AssertExpectations(t)
}

func TestChallengeHandler_Create_InvalidDifficulty(t *testing.T) {
	mockChallengeService, handler, jwtSvc := setupChallengeTest(t)

	officerID := uuid.New()

	mockChallengeService.On("Create", mock.Anything, "babyrev", "rev", "brutal", 100, "flag{secret}").Return(nil, services.ErrInvalidDifficulty)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	admin := app.Group("/admin")
	admin.Use(middleware.RequireOfficer())
	admin.Post("/challenges", handler.Create)

	body := dto.CreateChallengeRequest{Name: "babyrev", Category: "rev", Difficulty: "brutal", Points: 100, Flag: "flag{secret}"}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, officerID, "officer@example.com", models.RoleOfficer)
	req := httptest.NewRequest(http.MethodPost, "/admin/challenges", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "difficulty must be easy, medium or hard")

	mockChallengeService.AssertExpectations(t)
}

func TestChallengeHandler_Create_NotOfficer(t *testing.T) {
	_, handler, jwtSvc := setupChallengeTest(t)

	userID := uuid.New()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	admin := app.Group("/admin")
	admin.Use(middleware.RequireOfficer())
	admin.Post("/challenges", handler.Create)

	body := dto.CreateChallengeRequest{Name: "babyrev", Category: "rev", Difficulty: "easy", Points: 100, Flag: "flag{secret}"}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "member@example.com", models.RoleMember)
	req := httptest.NewRequest(http.MethodPost, "/admin/challenges", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "officer access required")
}

func TestChallengeHandler_SetActive_Success(t *testing.T) {
	mockChallengeService, handler, jwtSvc := setupChallengeTest(t)

	officerID := uuid.New()
	challengeID := uuid.New()

	mockChallengeService.On("SetActive", mock.Anything, challengeID, false).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	admin := app.Group("/admin")
	admin.Use(middleware.RequireOfficer())
	admin.Patch("/challenges/:id", handler.SetActive)

	body := dto.SetChallengeActiveRequest{IsActive: false}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, officerID, "officer@example.com", models.RoleOfficer)
	req := httptest.NewRequest(http.MethodPatch, "/admin/challenges/"+challengeID.String(), bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "challenge updated")

	mockChallengeService.AssertExpectations(t)
}

func TestChallengeHandler_SetActive_NotFound(t *testing.T) {
	mockChallengeService, handler, jwtSvc := setupChallengeTest(t)

	officerID := uuid.New()
	challengeID := uuid.New()

	mockChallengeService.On("SetActive", mock.Anything, challengeID, true).Return(services.ErrChallengeNotFound)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	admin := app.Group("/admin")
	admin.Use(middleware.RequireOfficer())
	admin.Patch("/challenges/:id", handler.SetActive)

	body := dto.SetChallengeActiveRequest{IsActive: true}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, officerID, "officer@example.com", models.RoleOfficer)
	req := httptest.NewRequest(http.MethodPatch, "/admin/challenges/"+challengeID.String(), bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "challenge not found")

	mockChallengeService.AssertExpectations(t)
}
