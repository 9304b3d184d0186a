package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/clubctf-api/internal/config"
	"github.com/dimitrije/clubctf-api/internal/database"
	"github.com/dimitrije/clubctf-api/internal/handlers"
	authmw "github.com/dimitrije/clubctf-api/internal/middleware"
	"github.com/dimitrije/clubctf-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	teamService := services.NewTeamService(db, cfg.CompetitionActive)
	inviteService := services.NewInviteService(db, cfg.TeamMemberCap)
	challengeService := services.NewChallengeService(db)
	submissionService := services.NewSubmissionService(db, challengeService)
	leaderboardService := services.NewLeaderboardService(db)

	authHandler := handlers.NewAuthHandler(jwtService, userService)
	teamHandler := handlers.NewTeamHandler(teamService)
	inviteHandler := handlers.NewInviteHandler(inviteService, teamService, cfg.BaseURL)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	scoreboardHandler := handlers.NewScoreboardHandler(leaderboardService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	// Public reads: catalog and standings need no identity. The refresh
	// exchange authenticates with the refresh token itself.
	api.Post("/auth/refresh", authHandler.Refresh)
	api.Get("/scoreboard", scoreboardHandler.Get)
	api.Get("/scoreboard/teams/:id", scoreboardHandler.TeamDetail)
	api.Get("/challenges", challengeHandler.List)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))
	protected.Use(authmw.EnsureUser(userService))

	protected.Post("/teams", teamHandler.Create)
	protected.Get("/teams/me", teamHandler.GetMyTeam)
	protected.Post("/teams/leave", teamHandler.Leave)
	protected.Post("/teams/captain", teamHandler.TransferCaptain)
	protected.Delete("/teams/members/:userId", teamHandler.RemoveMember)

	protected.Get("/teams/invite", inviteHandler.Get)
	protected.Post("/teams/invite/regenerate", inviteHandler.Regenerate)
	protected.Post("/join/:code", inviteHandler.Redeem)

	protected.Post("/challenges/:id/submit", submissionHandler.Submit)

	admin := protected.Group("/admin")
	admin.Use(authmw.RequireOfficer())
	admin.Post("/challenges", challengeHandler.Create)
	admin.Patch("/challenges/:id", challengeHandler.SetActive)
	admin.Post("/scoreboard/freeze", scoreboardHandler.ToggleFreeze)
	admin.Get("/teams/:id/submissions", submissionHandler.TeamSubmissions)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	app.Get("/metrics", func(c *drift.Context) {
		promhttp.Handler().ServeHTTP(c.Response, c.Request)
	})

	go func() {
		if err := leaderboardService.Refresh(context.Background()); err != nil {
			log.Printf("Leaderboard refresh failed: %v", err)
		}
		ticker := time.NewTicker(cfg.LeaderboardRefresh)
		for range ticker.C {
			if err := leaderboardService.Refresh(context.Background()); err != nil {
				log.Printf("Leaderboard refresh failed: %v", err)
			}
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
