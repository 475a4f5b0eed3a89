package catalog

import (
	"github.com/shopspring/decimal"

	"crew_loyalty/internal/model"
)

// BasePointsPerEUR is the base earn rate before tier and kind multipliers.
const BasePointsPerEUR = 0.5

// PointsValueRate converts points to EUR: 100 points = 5 EUR.
var PointsValueRate = decimal.NewFromInt(5).Div(decimal.NewFromInt(100))

var tierOrder = []model.TierKey{model.TierRider, model.TierRacer, model.TierLegend}

var tiers = map[model.TierKey]model.Tier{
	model.TierRider: {
		Key:              model.TierRider,
		Name:             "Rider",
		Rank:             0,
		Threshold:        0,
		PointsMultiplier: 1.0,
		DiscountRate:     0,
		Benefits: []string{
			"0.5 points per EUR spent",
			"Free shipping from 50 EUR",
			"Member newsletter",
			"Community ride access",
		},
	},
	model.TierRacer: {
		Key:              model.TierRacer,
		Name:             "Racer",
		Rank:             1,
		Threshold:        1000,
		PointsMultiplier: 1.5,
		DiscountRate:     5,
		Benefits: []string{
			"1.5x points multiplier",
			"5% member discount",
			"Free standard shipping",
			"Priority support",
			"Early access to sales",
		},
	},
	model.TierLegend: {
		Key:              model.TierLegend,
		Name:             "Legend",
		Rank:             2,
		Threshold:        5000,
		PointsMultiplier: 2.0,
		DiscountRate:     10,
		Benefits: []string{
			"2x points multiplier",
			"10% member discount",
			"Free express shipping",
			"Personal shopping assistant",
			"VIP events access",
		},
	},
}

// Tiers returns the tiers ordered by ascending rank.
func Tiers() []model.Tier {
	out := make([]model.Tier, 0, len(tierOrder))
	for _, key := range tierOrder {
		out = append(out, tiers[key])
	}
	return out
}

func TierByKey(key model.TierKey) (model.Tier, bool) {
	t, ok := tiers[key]
	return t, ok
}

// LowestTier is the fallback for unknown tier keys.
func LowestTier() model.Tier {
	return tiers[tierOrder[0]]
}

func TopTier() model.Tier {
	return tiers[tierOrder[len(tierOrder)-1]]
}

var redemptionOptions = []model.RedemptionOption{
	{ID: "voucher-5", Points: 100, Value: decimal.NewFromInt(5), Kind: model.RedemptionVoucher, Description: "5 EUR voucher", MinTier: model.TierRider},
	{ID: "voucher-12", Points: 200, Value: decimal.NewFromInt(12), Kind: model.RedemptionVoucher, Description: "12 EUR voucher", MinTier: model.TierRider},
	{ID: "voucher-35", Points: 500, Value: decimal.NewFromInt(35), Kind: model.RedemptionVoucher, Description: "35 EUR voucher", MinTier: model.TierRider},
	{ID: "voucher-80", Points: 1000, Value: decimal.NewFromInt(80), Kind: model.RedemptionVoucher, Description: "80 EUR voucher", MinTier: model.TierRacer},
	{ID: "express-shipping", Points: 150, Kind: model.RedemptionShipping, Description: "Free express shipping", MinTier: model.TierRider},
	{ID: "surprise-gift", Points: 250, Kind: model.RedemptionGift, Description: "Surprise gift", MinTier: model.TierRider},
	{ID: "factory-tour", Points: 2000, Kind: model.RedemptionExperience, Description: "Factory tour in Koblenz", MinTier: model.TierLegend},
}

func RedemptionOptions() []model.RedemptionOption {
	out := make([]model.RedemptionOption, len(redemptionOptions))
	copy(out, redemptionOptions)
	return out
}

var bonusEvents = map[string]model.BonusEvent{
	"welcome":             {Key: "welcome", Points: 100, Description: "Welcome bonus"},
	"birthday":            {Key: "birthday", Points: 50, PerTier: true, Description: "Birthday bonus"},
	"review":              {Key: "review", Points: 25, Description: "Product review"},
	"referral":            {Key: "referral", Points: 200, Description: "Refer a friend"},
	"newsletter":          {Key: "newsletter", Points: 50, Description: "Newsletter signup"},
	"first-purchase":      {Key: "first-purchase", Points: 50, Description: "First purchase"},
	"app-download":        {Key: "app-download", Points: 75, Description: "App download"},
	"strava-connect":      {Key: "strava-connect", Points: 100, Description: "Connect Strava account"},
	"strava-monthly-sync": {Key: "strava-monthly-sync", Points: 50, Description: "Monthly Strava sync bonus"},
	"strava-kilometers":   {Key: "strava-kilometers", Points: 1, PerUnit: "km", Description: "Point per kilometer ridden"},
}

func BonusEventByKey(key string) (model.BonusEvent, bool) {
	e, ok := bonusEvents[key]
	return e, ok
}
