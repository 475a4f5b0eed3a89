package catalog

import (
	"time"

	"crew_loyalty/internal/model"
)

// RidePointAward is the fixed point award for attending a club ride.
const RidePointAward = 25

var clubOrder = []string{
	"canyon-koblenz", "canyon-freiburg", "velo-cafe-munich",
	"pro-rides-berlin", "gravel-collective-cologne",
}

var clubs = map[string]model.Club{
	"canyon-koblenz": {
		ID: "canyon-koblenz", Name: "Canyon Ride Club Koblenz", Type: model.ClubOfficial,
		Location:    "Koblenz, Germany",
		Description: "Official ride club at headquarters. Weekly rides along the Moselle and through the Westerwald.",
		MemberCount: 234,
		UpcomingRides: []model.ClubRide{
			{ID: "sunday-social-2026-02-16", Name: "Sunday Social Ride", Date: date(2026, 2, 16, 9), Distance: 60, Difficulty: "medium"},
			{ID: "gravel-explore-2026-02-22", Name: "Gravel Exploration", Date: date(2026, 2, 22, 10), Distance: 45, Difficulty: "hard"},
			{ID: "morning-coffee-2026-03-01", Name: "Morning Coffee Ride", Date: date(2026, 3, 1, 8), Distance: 30, Difficulty: "easy"},
		},
	},
	"canyon-freiburg": {
		ID: "canyon-freiburg", Name: "Canyon Ride Club Freiburg", Type: model.ClubOfficial,
		Location:    "Freiburg, Germany",
		Description: "Rides through the Black Forest, from relaxed tours to demanding climbs.",
		MemberCount: 178,
		UpcomingRides: []model.ClubRide{
			{ID: "schwarzwald-loop-2026-02-23", Name: "Schwarzwald Loop", Date: date(2026, 2, 23, 9), Distance: 80, Difficulty: "hard"},
			{ID: "rheintal-cruise-2026-03-02", Name: "Rheintal Cruise", Date: date(2026, 3, 2, 10), Distance: 50, Difficulty: "easy"},
		},
	},
	"velo-cafe-munich": {
		ID: "velo-cafe-munich", Name: "Velo Cafe Munich", Type: model.ClubPartner,
		Location:    "Munich, Germany",
		Description: "Partner club at the popular Velo Cafe. Rides start and end with good coffee.",
		MemberCount: 156,
		UpcomingRides: []model.ClubRide{
			{ID: "isar-trail-2026-02-23", Name: "Isar Trail Ride", Date: date(2026, 2, 23, 9), Distance: 55, Difficulty: "medium"},
			{ID: "alpine-preview-2026-03-08", Name: "Alpine Preview", Date: date(2026, 3, 8, 8), Distance: 90, Difficulty: "hard"},
		},
	},
	"pro-rides-berlin": {
		ID: "pro-rides-berlin", Name: "Pro Rides Berlin", Type: model.ClubAmbassador,
		Location:    "Berlin, Germany",
		Description: "Ambassador club led by an ex-pro. Fast group rides and training tips.",
		MemberCount: 89, Ambassador: "Lisa Brennauer",
		UpcomingRides: []model.ClubRide{
			{ID: "tempo-tuesday-2026-02-18", Name: "Tempo Tuesday", Date: date(2026, 2, 18, 18), Distance: 40, Difficulty: "hard"},
			{ID: "endurance-sunday-2026-02-23", Name: "Endurance Sunday", Date: date(2026, 2, 23, 8), Distance: 120, Difficulty: "hard"},
		},
	},
	"gravel-collective-cologne": {
		ID: "gravel-collective-cologne", Name: "Gravel Collective Cologne", Type: model.ClubPartner,
		Location:    "Cologne, Germany",
		Description: "All gravel. Offroad tours through the Eifel and the Bergisches Land.",
		MemberCount: 112,
		UpcomingRides: []model.ClubRide{
			{ID: "eifel-gravel-2026-02-22", Name: "Eifel Gravel Tour", Date: date(2026, 2, 22, 9), Distance: 65, Difficulty: "medium"},
			{ID: "night-gravel-2026-03-07", Name: "Night Gravel Ride", Date: date(2026, 3, 7, 19), Distance: 35, Difficulty: "medium"},
		},
	},
}

var milestones = []model.Milestone{
	{Rides: 5, Reward: "Club Cap", Description: "5 rides completed"},
	{Rides: 10, Reward: "Club Jersey", Description: "10 rides completed"},
	{Rides: 25, Reward: "Club Legend Badge", Description: "25 rides completed"},
}

func date(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

// Clubs returns all clubs in catalog order.
func Clubs() []model.Club {
	out := make([]model.Club, 0, len(clubOrder))
	for _, id := range clubOrder {
		out = append(out, clubs[id])
	}
	return out
}

func ClubByID(id string) (model.Club, bool) {
	c, ok := clubs[id]
	return c, ok
}

// Milestones returns the passport milestones in ascending ride-count order.
func Milestones() []model.Milestone {
	out := make([]model.Milestone, len(milestones))
	copy(out, milestones)
	return out
}
