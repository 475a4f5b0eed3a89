package catalog

import "crew_loyalty/internal/model"

var templateOrder = []string{
	"monthly-miles", "elevation-hunter", "consistency-king", "early-bird",
	"spring-awakening", "summer-century", "autumn-gravel", "winter-warrior",
	"canyon-5000", "everesting-club", "gran-fondo-master",
	"first-ride", "strava-connect", "first-review", "social-share",
}

var templates = map[string]model.ChallengeTemplate{
	// Monthly, re-issued by the external scheduler each month.
	"monthly-miles": {
		ID: "monthly-miles", Name: "Monthly Miles", Description: "Ride 500 km in one month",
		Type: model.ChallengeMonthly, TargetGoal: 500, Unit: "km", MinTier: model.TierRider,
		Metric: model.MetricThisMonthDistance,
		Reward: model.ChallengeReward{Points: 50, Kind: "points", Description: "50 points"},
	},
	"elevation-hunter": {
		ID: "elevation-hunter", Name: "Elevation Hunter", Description: "Climb 5,000 m in one month",
		Type: model.ChallengeMonthly, TargetGoal: 5000, Unit: "hm", MinTier: model.TierRider,
		Metric: model.MetricThisMonthElevation,
		Reward: model.ChallengeReward{Points: 75, Kind: "points", Description: "75 points"},
	},
	"consistency-king": {
		ID: "consistency-king", Name: "Consistency King", Description: "12 rides in one month",
		Type: model.ChallengeMonthly, TargetGoal: 12, Unit: "rides", MinTier: model.TierRider,
		Metric: model.MetricThisMonthRides,
		Reward: model.ChallengeReward{Points: 50, Kind: "points", Description: "50 points"},
	},
	"early-bird": {
		ID: "early-bird", Name: "Early Bird", Description: "4 rides before 7 am",
		Type: model.ChallengeMonthly, TargetGoal: 4, Unit: "rides", MinTier: model.TierRider,
		Metric: model.MetricEarlyRides,
		Reward: model.ChallengeReward{Points: 25, Kind: "points", Description: "25 points"},
	},

	// Seasonal, tracked manually per season.
	"spring-awakening": {
		ID: "spring-awakening", Name: "Spring Awakening", Description: "1,500 km from March to May",
		Type: model.ChallengeSeasonal, TargetGoal: 1500, Unit: "km", MinTier: model.TierRider, Season: "spring",
		Reward: model.ChallengeReward{Points: 150, Kind: "points+voucher", Description: "150 points + 15% voucher"},
	},
	"summer-century": {
		ID: "summer-century", Name: "Summer Century", Description: "3x 100 km rides from June to August",
		Type: model.ChallengeSeasonal, TargetGoal: 3, Unit: "centuries", MinTier: model.TierRacer, Season: "summer",
		Reward: model.ChallengeReward{Points: 200, Kind: "points+gift", Description: "200 points + bidon set"},
	},
	"autumn-gravel": {
		ID: "autumn-gravel", Name: "Autumn Gravel", Description: "500 km offroad from September to November",
		Type: model.ChallengeSeasonal, TargetGoal: 500, Unit: "km", MinTier: model.TierRider, Season: "autumn",
		Reward: model.ChallengeReward{Points: 150, Kind: "points+gift", Description: "150 points + cap"},
	},
	"winter-warrior": {
		ID: "winter-warrior", Name: "Winter Warrior", Description: "1,000 km from December to February",
		Type: model.ChallengeSeasonal, TargetGoal: 1000, Unit: "km", MinTier: model.TierRider, Season: "winter",
		Reward: model.ChallengeReward{Points: 250, Kind: "points+gift", Description: "250 points + buff"},
	},

	// Yearly.
	"canyon-5000": {
		ID: "canyon-5000", Name: "Canyon 5000", Description: "5,000 km in one year",
		Type: model.ChallengeYearly, TargetGoal: 5000, Unit: "km", MinTier: model.TierRider,
		Metric: model.MetricYTDDistance,
		Reward: model.ChallengeReward{Points: 500, Kind: "points+gift", Description: "500 points + jersey"},
	},
	"everesting-club": {
		ID: "everesting-club", Name: "Everesting Club", Description: "8,848 m of climbing in a single ride",
		Type: model.ChallengeYearly, TargetGoal: 8848, Unit: "hm", MinTier: model.TierRacer,
		Reward: model.ChallengeReward{Points: 1000, Kind: "points+status", Description: "1,000 points + Legend status"},
	},
	"gran-fondo-master": {
		ID: "gran-fondo-master", Name: "Gran Fondo Master", Description: "5 rides over 100 km",
		Type: model.ChallengeYearly, TargetGoal: 5, Unit: "rides", MinTier: model.TierRacer,
		Reward: model.ChallengeReward{Points: 750, Kind: "points+event", Description: "750 points + event invitation"},
	},

	// Onboarding, one-shot.
	"first-ride": {
		ID: "first-ride", Name: "First Ride", Description: "Log your first ride",
		Type: model.ChallengeOnboarding, TargetGoal: 1, Unit: "rides", MinTier: model.TierRider,
		Reward: model.ChallengeReward{Points: 25, Kind: "points", Description: "25 points"},
	},
	"strava-connect": {
		ID: "strava-connect", Name: "Strava Connect", Description: "Connect your Strava account",
		Type: model.ChallengeOnboarding, TargetGoal: 1, Unit: "count", MinTier: model.TierRider,
		Reward: model.ChallengeReward{Points: 50, Kind: "points", Description: "50 points"},
	},
	"first-review": {
		ID: "first-review", Name: "First Review", Description: "Write your first product review",
		Type: model.ChallengeOnboarding, TargetGoal: 1, Unit: "count", MinTier: model.TierRider,
		Reward: model.ChallengeReward{Points: 25, Kind: "points", Description: "25 points"},
	},
	"social-share": {
		ID: "social-share", Name: "Social Share", Description: "Share a ride on social media",
		Type: model.ChallengeOnboarding, TargetGoal: 1, Unit: "count", MinTier: model.TierRider,
		Reward: model.ChallengeReward{Points: 15, Kind: "points", Description: "15 points"},
	},
}

// Templates returns all challenge templates in catalog order.
func Templates() []model.ChallengeTemplate {
	out := make([]model.ChallengeTemplate, 0, len(templateOrder))
	for _, id := range templateOrder {
		out = append(out, templates[id])
	}
	return out
}

func TemplateByID(id string) (model.ChallengeTemplate, bool) {
	t, ok := templates[id]
	return t, ok
}

func TemplatesByType(challengeType model.ChallengeType) []model.ChallengeTemplate {
	var out []model.ChallengeTemplate
	for _, id := range templateOrder {
		if templates[id].Type == challengeType {
			out = append(out, templates[id])
		}
	}
	return out
}
