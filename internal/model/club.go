package model

import "time"

type ClubType string

const (
	ClubOfficial   ClubType = "official"
	ClubPartner    ClubType = "partner"
	ClubAmbassador ClubType = "ambassador"
)

type ClubRide struct {
	ID         string
	Name       string
	Date       time.Time
	Distance   float64
	Difficulty string
}

type Club struct {
	ID            string
	Name          string
	Type          ClubType
	Location      string
	Description   string
	MemberCount   int
	Ambassador    string
	UpcomingRides []ClubRide
}

type ClubMembership struct {
	UserID   string    `json:"user_id"`
	ClubID   string    `json:"club_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// RideRecord marks one attended ride. Ride IDs are globally unique, so a
// ride can be logged at most once per user.
type RideRecord struct {
	UserID       string    `json:"user_id"`
	ClubID       string    `json:"club_id"`
	RideID       string    `json:"ride_id"`
	RideName     string    `json:"ride_name"`
	AttendedAt   time.Time `json:"attended_at"`
	PointsEarned int       `json:"points_earned"`
}

type Milestone struct {
	Rides       int
	Reward      string
	Description string
}

type PassportStamp struct {
	ClubName string
	RideName string
	Date     time.Time
}

// Passport is derived purely from the ride-record count compared against the
// static ascending milestone list.
type Passport struct {
	TotalRides    int
	Stamps        []PassportStamp
	Unlocked      []Milestone
	NextMilestone *Milestone
}

type RideResult struct {
	Record    RideRecord
	Milestone *Milestone
}
