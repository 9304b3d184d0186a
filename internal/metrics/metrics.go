package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clubctf_submissions_total",
		Help: "Flag submissions processed, by outcome.",
	}, []string{"outcome"})

	InviteRedemptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clubctf_invite_redemptions_total",
		Help: "Invite redemption attempts, by outcome.",
	}, []string{"outcome"})

	TeamsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clubctf_teams_created_total",
		Help: "Teams created since process start.",
	})

	LeaderboardRefreshSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clubctf_leaderboard_refresh_seconds",
		Help:    "Duration of leaderboard cache refreshes.",
		Buckets: prometheus.DefBuckets,
	})
)

// Submission outcomes.
const (
	OutcomeCorrect       = "correct"
	OutcomeIncorrect     = "incorrect"
	OutcomeAlreadySolved = "already_solved"
)

// Redemption outcomes.
const (
	OutcomeJoined   = "joined"
	OutcomeRejected = "rejected"
)
