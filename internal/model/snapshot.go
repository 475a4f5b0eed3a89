package model

import "time"

// SessionSnapshot bundles all per-user loyalty state for the external
// key-value store. The core hands it out and accepts it back unchanged;
// schema versioning is the collaborator's problem.
type SessionSnapshot struct {
	UserID              string              `json:"user_id"`
	Transactions        []PointsTransaction `json:"transactions"`
	EngagementPoints    int                 `json:"engagement_points"`
	ActiveChallenges    []Challenge         `json:"active_challenges"`
	CompletedChallenges []string            `json:"completed_challenges"`
	Memberships         []ClubMembership    `json:"memberships"`
	RideHistory         []RideRecord        `json:"ride_history"`
	SavedAt             time.Time           `json:"saved_at"`
}
