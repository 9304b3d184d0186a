package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	BaseURL     string

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// TeamMemberCap is the hard ceiling on team size, enforced at invite
	// redemption.
	TeamMemberCap int

	// CompetitionActive disallows captain-initiated member removal while the
	// competition window is open.
	CompetitionActive bool

	// LeaderboardRefresh is how often the cached public standings are
	// recomputed.
	LeaderboardRefresh time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	accessExpiry, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"))
	if err != nil {
		refreshExpiry = 168 * time.Hour
	}

	leaderboardRefresh, err := time.ParseDuration(getEnv("LEADERBOARD_REFRESH", "30s"))
	if err != nil {
		leaderboardRefresh = 30 * time.Second
	}

	memberCap, err := strconv.Atoi(getEnv("TEAM_MEMBER_CAP", "4"))
	if err != nil || memberCap < 1 {
		memberCap = 4
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),

		JWTSecret:        getEnvOrPanic("JWT_SECRET"),
		JWTAccessExpiry:  accessExpiry,
		JWTRefreshExpiry: refreshExpiry,

		TeamMemberCap:      memberCap,
		CompetitionActive:  getEnv("COMPETITION_ACTIVE", "false") == "true",
		LeaderboardRefresh: leaderboardRefresh,
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
