package catalog

import (
	"testing"

	"crew_loyalty/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate())
}

func TestTiersOrdering(t *testing.T) {
	tiers := Tiers()
	assert.Len(t, tiers, 3)

	assert.Equal(t, model.TierRider, tiers[0].Key)
	assert.Equal(t, model.TierRacer, tiers[1].Key)
	assert.Equal(t, model.TierLegend, tiers[2].Key)

	for i := 1; i < len(tiers); i++ {
		assert.Greater(t, tiers[i].Threshold, tiers[i-1].Threshold)
		assert.Greater(t, tiers[i].PointsMultiplier, tiers[i-1].PointsMultiplier)
		assert.GreaterOrEqual(t, tiers[i].DiscountRate, tiers[i-1].DiscountRate)
	}
}

func TestTierLookups(t *testing.T) {
	racer, ok := TierByKey(model.TierRacer)
	assert.True(t, ok)
	assert.Equal(t, 1000, racer.Threshold)
	assert.Equal(t, 1.5, racer.PointsMultiplier)

	_, ok = TierByKey(model.TierKey("platinum"))
	assert.False(t, ok)

	assert.Equal(t, model.TierRider, LowestTier().Key)
	assert.Equal(t, model.TierLegend, TopTier().Key)
}

func TestTemplateLookups(t *testing.T) {
	tpl, ok := TemplateByID("monthly-miles")
	assert.True(t, ok)
	assert.Equal(t, float64(500), tpl.TargetGoal)
	assert.Equal(t, model.MetricThisMonthDistance, tpl.Metric)

	_, ok = TemplateByID("nonexistent")
	assert.False(t, ok)

	onboarding := TemplatesByType(model.ChallengeOnboarding)
	assert.Len(t, onboarding, 4)
	for _, tpl := range onboarding {
		assert.Equal(t, float64(1), tpl.TargetGoal)
	}
}

func TestClubLookups(t *testing.T) {
	club, ok := ClubByID("pro-rides-berlin")
	assert.True(t, ok)
	assert.Equal(t, model.ClubAmbassador, club.Type)
	assert.NotEmpty(t, club.Ambassador)

	_, ok = ClubByID("nonexistent")
	assert.False(t, ok)

	assert.Len(t, Clubs(), 5)
}

func TestMilestonesAscending(t *testing.T) {
	ms := Milestones()
	assert.Equal(t, []int{5, 10, 25}, []int{ms[0].Rides, ms[1].Rides, ms[2].Rides})
}

func TestBonusEvents(t *testing.T) {
	birthday, ok := BonusEventByKey("birthday")
	assert.True(t, ok)
	assert.True(t, birthday.PerTier)

	_, ok = BonusEventByKey("nonexistent")
	assert.False(t, ok)
}
