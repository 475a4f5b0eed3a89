package model

import "time"

type ChallengeType string

const (
	ChallengeMonthly    ChallengeType = "monthly"
	ChallengeSeasonal   ChallengeType = "seasonal"
	ChallengeYearly     ChallengeType = "yearly"
	ChallengeOnboarding ChallengeType = "onboarding"
)

// Activity metric keys a challenge template may link to. The aggregator
// publishes current values under these keys; templates without a metric are
// advanced manually.
const (
	MetricThisMonthDistance  = "this_month_distance"
	MetricThisMonthElevation = "this_month_elevation"
	MetricThisMonthRides     = "this_month_rides"
	MetricYTDDistance        = "ytd_distance"
	MetricEarlyRides         = "early_rides"
)

type ChallengeReward struct {
	Points      int
	Kind        string
	Description string
}

type ChallengeTemplate struct {
	ID          string
	Name        string
	Description string
	Type        ChallengeType
	TargetGoal  float64
	Unit        string
	MinTier     TierKey
	Metric      string
	Season      string
	Reward      ChallengeReward
}

// Challenge is a per-user instance of a template. ID equals the template ID;
// at most one active instance per ID per user. CompletedAt is nil while
// active, and completion is terminal.
type Challenge struct {
	ID              string     `json:"id"`
	CurrentProgress float64    `json:"current_progress"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

func (c *Challenge) Completed() bool {
	return c.CompletedAt != nil
}

type ChallengeProgress struct {
	Current   float64
	Target    float64
	Percent   float64
	Remaining float64
	Unit      string
}
