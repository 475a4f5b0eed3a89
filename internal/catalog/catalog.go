// Package catalog holds the static loyalty configuration: tiers, redemption
// options, bonus events, challenge templates, clubs and passport milestones.
// Everything here is immutable, shared and loaded once at process start;
// Validate guards the catalog invariants.
package catalog

import (
	"fmt"

	"crew_loyalty/internal/model"
)

// Validate checks the catalog invariants at startup: tier thresholds strictly
// increasing by rank, positive challenge targets, known tier and metric
// references, ascending milestone list.
func Validate() error {
	tiers := Tiers()
	for i := 1; i < len(tiers); i++ {
		if tiers[i].Rank <= tiers[i-1].Rank {
			return fmt.Errorf("tier %q: rank must increase after %q", tiers[i].Key, tiers[i-1].Key)
		}
		if tiers[i].Threshold <= tiers[i-1].Threshold {
			return fmt.Errorf("tier %q: threshold must increase after %q", tiers[i].Key, tiers[i-1].Key)
		}
	}

	metrics := map[string]struct{}{
		model.MetricThisMonthDistance:  {},
		model.MetricThisMonthElevation: {},
		model.MetricThisMonthRides:     {},
		model.MetricYTDDistance:        {},
		model.MetricEarlyRides:         {},
	}
	for _, t := range Templates() {
		if t.TargetGoal <= 0 {
			return fmt.Errorf("challenge %q: target goal must be positive", t.ID)
		}
		if _, ok := TierByKey(t.MinTier); !ok {
			return fmt.Errorf("challenge %q: unknown min tier %q", t.ID, t.MinTier)
		}
		if t.Metric != "" {
			if _, ok := metrics[t.Metric]; !ok {
				return fmt.Errorf("challenge %q: unknown metric %q", t.ID, t.Metric)
			}
		}
	}

	for _, o := range RedemptionOptions() {
		if _, ok := TierByKey(o.MinTier); !ok {
			return fmt.Errorf("redemption %q: unknown min tier %q", o.ID, o.MinTier)
		}
	}

	milestones := Milestones()
	for i := 1; i < len(milestones); i++ {
		if milestones[i].Rides <= milestones[i-1].Rides {
			return fmt.Errorf("milestone %d: ride counts must ascend", milestones[i].Rides)
		}
	}

	return nil
}
