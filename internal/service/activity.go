package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"crew_loyalty/internal/model"
	"crew_loyalty/internal/telemetry"

	"go.uber.org/zap"
)

// ActivityStats is the aggregated view over the raw activity feed. It is
// recomputed from the full history on demand; at client-side data volumes
// that is cheaper to get right than incremental aggregates.
type ActivityStats struct {
	Connected       bool
	Totals          model.PeriodStats
	ThisMonth       model.PeriodStats
	YearToDate      model.PeriodStats
	PerGear         []model.GearDistance
	EarlyRides      int
	RiderProfile    string
	Recommendations []model.ProductRecommendation
}

type ActivityService struct {
	feed       ActivityFeed
	points     *PointsService
	challenges *ChallengeService
	emitter    telemetry.Emitter
	log        *zap.Logger
	now        func() time.Time
}

func NewActivityService(feed ActivityFeed, points *PointsService, challenges *ChallengeService, emitter telemetry.Emitter, log *zap.Logger) *ActivityService {
	return &ActivityService{
		feed:       feed,
		points:     points,
		challenges: challenges,
		emitter:    emitter,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Connect links the fitness account and credits the one-time connection
// bonus. Connecting an already connected account just returns the athlete.
func (s *ActivityService) Connect(ctx context.Context, userID string) (*model.Athlete, error) {
	connected, err := s.feed.Connected(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check feed connection: %w", err)
	}
	if connected {
		return s.feed.Athlete(ctx, userID)
	}

	athlete, _, err := s.feed.Connect(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to connect feed: %w", err)
	}

	if _, err := s.points.AwardBonus(ctx, userID, "strava-connect"); err != nil {
		s.log.Error("failed to award connection bonus", zap.String("user_id", userID), zap.Error(err))
	}

	return athlete, nil
}

func (s *ActivityService) Disconnect(ctx context.Context, userID string) error {
	return s.feed.Disconnect(ctx, userID)
}

// Sync pulls one new activity from the feed, then refreshes linked-metric
// challenge progress. The refresh is best-effort: a failure is logged and
// the sync still succeeds.
func (s *ActivityService) Sync(ctx context.Context, userID string) (*model.Activity, error) {
	connected, err := s.feed.Connected(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check feed connection: %w", err)
	}
	if !connected {
		return nil, nil
	}

	activity, err := s.feed.Sync(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sync feed: %w", err)
	}

	s.emitter.Emit(ctx, telemetry.NewEvent(telemetry.EventActivitySynced, userID, map[string]any{
		"activity_id": activity.ID,
		"name":        activity.Name,
		"distance_km": activity.Distance,
		"elevation_m": activity.Elevation,
		"gear_id":     activity.GearID,
	}))

	metrics, err := s.Metrics(ctx, userID)
	if err != nil {
		s.log.Error("failed to compute activity metrics", zap.String("user_id", userID), zap.Error(err))
		return activity, nil
	}
	if _, err := s.challenges.RecomputeFromMetrics(ctx, userID, metrics); err != nil {
		s.log.Error("failed to recompute challenge progress", zap.String("user_id", userID), zap.Error(err))
	}

	return activity, nil
}

// Stats aggregates the full feed history.
func (s *ActivityService) Stats(ctx context.Context, userID string) (*ActivityStats, error) {
	connected, err := s.feed.Connected(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check feed connection: %w", err)
	}
	if !connected {
		return &ActivityStats{}, nil
	}

	athlete, err := s.feed.Athlete(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load athlete: %w", err)
	}
	activities, err := s.feed.Activities(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}

	now := s.now()
	var gear []model.Gear
	var athleteStats *model.AthleteStats
	if athlete != nil {
		gear = athlete.Gear
		athleteStats = athlete.Stats
	}

	return &ActivityStats{
		Connected:       true,
		Totals:          Totals(activities),
		ThisMonth:       ThisMonthStats(activities, now),
		YearToDate:      YearToDateStats(activities, athleteStats, now),
		PerGear:         PerGearDistance(activities, gear),
		EarlyRides:      EarlyRideCount(activities, now),
		RiderProfile:    RiderProfile(activities),
		Recommendations: Recommendations(activities),
	}, nil
}

// Metrics publishes the current aggregate values under the metric keys that
// challenge templates link to.
func (s *ActivityService) Metrics(ctx context.Context, userID string) (map[string]float64, error) {
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !stats.Connected {
		return nil, nil
	}

	return map[string]float64{
		model.MetricThisMonthDistance:  stats.ThisMonth.Distance,
		model.MetricThisMonthElevation: stats.ThisMonth.Elevation,
		model.MetricThisMonthRides:     float64(stats.ThisMonth.Rides),
		model.MetricYTDDistance:        stats.YearToDate.Distance,
		model.MetricEarlyRides:         float64(stats.EarlyRides),
	}, nil
}

// Totals sums the whole history.
func Totals(activities []model.Activity) model.PeriodStats {
	var out model.PeriodStats
	for _, a := range activities {
		out.Rides++
		out.Distance += a.Distance
		out.Elevation += a.Elevation
		out.Time += a.MovingTime
	}
	return out
}

// ThisMonthStats sums records in the calendar month of now. Raw records are
// the single source of truth for the current month.
func ThisMonthStats(activities []model.Activity, now time.Time) model.PeriodStats {
	var out model.PeriodStats
	for _, a := range activities {
		if a.StartedAt.Month() == now.Month() && a.StartedAt.Year() == now.Year() {
			out.Rides++
			out.Distance += a.Distance
			out.Elevation += a.Elevation
			out.Time += a.MovingTime
		}
	}
	return out
}

// YearToDateStats prefers the athlete summary when present, since the local
// record window may not cover the whole year; otherwise it is derived from
// records. Exactly one source is used, never a mix.
func YearToDateStats(activities []model.Activity, stats *model.AthleteStats, now time.Time) model.PeriodStats {
	if stats != nil {
		return model.PeriodStats{
			Rides:     stats.YTDRides,
			Distance:  stats.YTDDistance,
			Elevation: stats.YTDElevation,
			Time:      stats.YTDTime,
		}
	}

	var out model.PeriodStats
	for _, a := range activities {
		if a.StartedAt.Year() == now.Year() {
			out.Rides++
			out.Distance += a.Distance
			out.Elevation += a.Elevation
			out.Time += a.MovingTime
		}
	}
	return out
}

// PerGearDistance groups distance by gear id and resolves display names
// through the gear registry. Gear ids without a registry entry keep the raw
// id as their name.
func PerGearDistance(activities []model.Activity, gear []model.Gear) []model.GearDistance {
	names := make(map[string]string, len(gear))
	for _, g := range gear {
		names[g.ID] = g.Name
	}

	byGear := make(map[string]*model.GearDistance)
	for _, a := range activities {
		if a.GearID == "" {
			continue
		}
		entry, ok := byGear[a.GearID]
		if !ok {
			name := names[a.GearID]
			if name == "" {
				name = a.GearID
			}
			entry = &model.GearDistance{GearID: a.GearID, GearName: name}
			byGear[a.GearID] = entry
		}
		entry.Distance += a.Distance
		entry.Rides++
	}

	out := make([]model.GearDistance, 0, len(byGear))
	for _, entry := range byGear {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance > out[j].Distance })
	return out
}

// EarlyRideCount counts rides starting before 07:00 local time in the
// calendar month of now.
func EarlyRideCount(activities []model.Activity, now time.Time) int {
	count := 0
	for _, a := range activities {
		if a.StartedAt.Month() != now.Month() || a.StartedAt.Year() != now.Year() {
			continue
		}
		if a.StartedAt.Hour() < 7 {
			count++
		}
	}
	return count
}

// RiderProfile classifies the rider from averages and ride names, used for
// personalization downstream.
func RiderProfile(activities []model.Activity) string {
	if len(activities) == 0 {
		return "unknown"
	}

	var distance, elevation float64
	for _, a := range activities {
		distance += a.Distance
		elevation += a.Elevation
	}
	avgDistance := distance / float64(len(activities))
	avgElevation := elevation / float64(len(activities))

	switch {
	case avgElevation > 800:
		return "climber"
	case avgDistance > 80:
		return "endurance"
	case hasNameTag(activities, "mtb"), hasNameTag(activities, "trail"):
		return "mountain"
	case hasNameTag(activities, "gravel"):
		return "gravel"
	case avgDistance < 30:
		return "casual"
	default:
		return "road"
	}
}

// Recommendations suggests product categories from riding patterns.
func Recommendations(activities []model.Activity) []model.ProductRecommendation {
	if len(activities) == 0 {
		return nil
	}

	var distance, elevation float64
	for _, a := range activities {
		distance += a.Distance
		elevation += a.Elevation
	}
	avgDistance := distance / float64(len(activities))
	avgElevation := elevation / float64(len(activities))

	var out []model.ProductRecommendation
	if avgElevation > 500 {
		out = append(out, model.ProductRecommendation{
			Category: "Road", Subcategory: "Climbing",
			Reason: "Based on your climbing activities",
		})
	}
	if avgDistance > 60 {
		out = append(out, model.ProductRecommendation{
			Category: "Road", Subcategory: "Endurance",
			Reason: "Perfect for your long-distance rides",
		})
	}
	if hasNameTag(activities, "mtb") || hasNameTag(activities, "trail") {
		out = append(out, model.ProductRecommendation{
			Category: "MTB", Subcategory: "Trail",
			Reason: "For your mountain bike adventures",
		})
	}
	if hasNameTag(activities, "gravel") {
		out = append(out, model.ProductRecommendation{
			Category: "Gravel", Subcategory: "All-Road",
			Reason: "Ideal for gravel exploration",
		})
	}
	return out
}

func hasNameTag(activities []model.Activity, tag string) bool {
	for _, a := range activities {
		if strings.Contains(strings.ToLower(a.Name), tag) {
			return true
		}
		for _, t := range a.Tags {
			if strings.EqualFold(t, tag) {
				return true
			}
		}
	}
	return false
}
