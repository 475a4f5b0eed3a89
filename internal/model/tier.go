package model

import "github.com/shopspring/decimal"

// TierKey identifies a loyalty tier.
type TierKey string

const (
	TierRider  TierKey = "rider"
	TierRacer  TierKey = "racer"
	TierLegend TierKey = "legend"
)

// Tier is a static loyalty rank. Thresholds are strictly increasing by Rank;
// the tier for a point value is the highest-ranked tier whose Threshold <= value.
type Tier struct {
	Key              TierKey
	Name             string
	Rank             int
	Threshold        int
	PointsMultiplier float64
	DiscountRate     float64
	Benefits         []string
}

type NextTierInfo struct {
	Tier        Tier
	Remaining   int
	Progress    float64
	NewBenefits []string
}

type RedemptionKind string

const (
	RedemptionVoucher    RedemptionKind = "voucher"
	RedemptionShipping   RedemptionKind = "shipping"
	RedemptionGift       RedemptionKind = "gift"
	RedemptionExperience RedemptionKind = "experience"
)

type RedemptionOption struct {
	ID          string
	Points      int
	Value       decimal.Decimal
	Kind        RedemptionKind
	Description string
	MinTier     TierKey
}

// BonusEvent is a one-off point award (welcome, review, referral, ...).
// PerTier events scale with the tier's points multiplier.
type BonusEvent struct {
	Key         string
	Points      int
	PerTier     bool
	PerUnit     string
	Description string
}
