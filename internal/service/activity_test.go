package service

import (
	"context"
	"testing"
	"time"

	"crew_loyalty/internal/model"
	"crew_loyalty/internal/service/mocks"
	"crew_loyalty/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)

func ride(name string, start time.Time, distance, elevation float64) model.Activity {
	return model.Activity{
		Name: name, Type: "Ride", StartedAt: start,
		Distance: distance, Elevation: elevation, MovingTime: int(distance / 25 * 3600),
	}
}

func TestThisMonthStats(t *testing.T) {
	activities := []model.Activity{
		ride("Sunset Loop", testNow.AddDate(0, 0, -2), 40, 300),
		ride("Base Miles", testNow.AddDate(0, 0, -10), 60, 200),
		ride("Old Ride", testNow.AddDate(0, -1, 0), 100, 900),
		ride("Last Year", testNow.AddDate(-1, 0, 0), 80, 400),
	}

	stats := ThisMonthStats(activities, testNow)

	assert.Equal(t, 2, stats.Rides)
	assert.InDelta(t, 100, stats.Distance, 0.001)
	assert.InDelta(t, 500, stats.Elevation, 0.001)
}

func TestYearToDateStats(t *testing.T) {
	activities := []model.Activity{
		ride("This Year", testNow.AddDate(0, -1, 0), 100, 900),
		ride("Last Year", testNow.AddDate(-1, 0, 0), 80, 400),
	}

	t.Run("Summary preferred when present", func(t *testing.T) {
		summary := &model.AthleteStats{YTDRides: 34, YTDDistance: 1812.5, YTDElevation: 14200, YTDTime: 250000}
		stats := YearToDateStats(activities, summary, testNow)
		assert.Equal(t, 34, stats.Rides)
		assert.InDelta(t, 1812.5, stats.Distance, 0.001)
	})

	t.Run("Derived from records without summary", func(t *testing.T) {
		stats := YearToDateStats(activities, nil, testNow)
		assert.Equal(t, 1, stats.Rides)
		assert.InDelta(t, 100, stats.Distance, 0.001)
	})
}

func TestPerGearDistance(t *testing.T) {
	gear := []model.Gear{
		{ID: "bike-001", Name: "Ultimate CF SLX"},
		{ID: "bike-002", Name: "Grail CF SL"},
	}
	activities := []model.Activity{
		{GearID: "bike-001", Distance: 60},
		{GearID: "bike-002", Distance: 45},
		{GearID: "bike-001", Distance: 80},
		{GearID: "bike-999", Distance: 20},
		{GearID: "", Distance: 30},
	}

	perGear := PerGearDistance(activities, gear)

	assert.Len(t, perGear, 3)
	assert.Equal(t, "bike-001", perGear[0].GearID)
	assert.Equal(t, "Ultimate CF SLX", perGear[0].GearName)
	assert.InDelta(t, 140, perGear[0].Distance, 0.001)
	assert.Equal(t, 2, perGear[0].Rides)
	// Unknown gear keeps the raw id as its name.
	assert.Equal(t, "bike-999", perGear[2].GearName)
}

func TestEarlyRideCount(t *testing.T) {
	activities := []model.Activity{
		ride("Early Bird Ride", time.Date(2026, 2, 10, 6, 30, 0, 0, time.UTC), 30, 100),
		ride("Dawn Patrol", time.Date(2026, 2, 12, 5, 45, 0, 0, time.UTC), 25, 80),
		ride("Commute", time.Date(2026, 2, 14, 7, 0, 0, 0, time.UTC), 15, 50),
		ride("Last Month Early", time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC), 30, 100),
	}

	assert.Equal(t, 2, EarlyRideCount(activities, testNow))
}

func TestRiderProfile(t *testing.T) {
	tests := []struct {
		name       string
		activities []model.Activity
		expected   string
	}{
		{name: "No activities", activities: nil, expected: "unknown"},
		{
			name: "Climber wins on elevation",
			activities: []model.Activity{
				ride("Schauinsland Repeats", testNow, 50, 1200),
				ride("Feldberg Challenge", testNow, 60, 900),
			},
			expected: "climber",
		},
		{
			name: "Endurance on long average distance",
			activities: []model.Activity{
				ride("Long Weekend Ride", testNow, 120, 400),
				ride("Rhine Valley Tour", testNow, 90, 300),
			},
			expected: "endurance",
		},
		{
			name: "MTB keyword",
			activities: []model.Activity{
				ride("MTB Trail Blast", testNow, 35, 400),
			},
			expected: "mountain",
		},
		{
			name: "Gravel keyword",
			activities: []model.Activity{
				ride("Gravel Detour", testNow, 45, 300),
			},
			expected: "gravel",
		},
		{
			name: "Casual on short rides",
			activities: []model.Activity{
				ride("Recovery Spin", testNow, 15, 50),
				ride("After Work Spin", testNow, 20, 80),
			},
			expected: "casual",
		},
		{
			name: "Road as the default",
			activities: []model.Activity{
				ride("Tempo Ride", testNow, 50, 300),
			},
			expected: "road",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RiderProfile(tt.activities))
		})
	}
}

func TestRecommendations(t *testing.T) {
	activities := []model.Activity{
		ride("Gravel Detour", testNow, 50, 600),
		ride("Gravel Loop", testNow, 55, 550),
	}

	recs := Recommendations(activities)

	categories := make(map[string]string)
	for _, r := range recs {
		categories[r.Category] = r.Subcategory
	}
	assert.Equal(t, "Climbing", categories["Road"])
	assert.Equal(t, "All-Road", categories["Gravel"])
	assert.Nil(t, Recommendations(nil))
}

func TestActivityService_SyncNotConnected(t *testing.T) {
	feed := &mocks.MockActivityFeed{}
	feed.On("Connected", mock.Anything, "user-1").Return(false, nil)

	service := NewActivityService(feed, nil, nil, telemetry.Nop{}, zap.NewNop())
	activity, err := service.Sync(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Nil(t, activity)
	feed.AssertExpectations(t)
}

func TestActivityService_ConnectAwardsBonusOnce(t *testing.T) {
	feed := &mocks.MockActivityFeed{}
	ledger := &mocks.MockLedgerRepository{}

	athlete := &model.Athlete{ID: 42, FirstName: "Jonas"}
	feed.On("Connected", mock.Anything, "user-1").Return(false, nil).Once()
	feed.On("Connect", mock.Anything, "user-1").Return(athlete, []model.Activity{}, nil).Once()

	ledger.On("GetTransactions", mock.Anything, "user-1").Return([]model.PointsTransaction{}, nil)
	ledger.On("GetEngagementPoints", mock.Anything, "user-1").Return(0, nil)
	ledger.On("AppendTransaction", mock.Anything, mock.MatchedBy(func(tx *model.PointsTransaction) bool {
		return tx.Points == 100
	})).Return(nil).Once()
	ledger.On("AddEngagementPoints", mock.Anything, "user-1", 100).Return(nil).Once()

	points := NewPointsService(ledger, telemetry.Nop{})
	service := NewActivityService(feed, points, nil, telemetry.Nop{}, zap.NewNop())

	got, err := service.Connect(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Equal(t, athlete, got)

	// Second connect goes straight to the athlete, no bonus.
	feed.On("Connected", mock.Anything, "user-1").Return(true, nil).Once()
	feed.On("Athlete", mock.Anything, "user-1").Return(athlete, nil).Once()

	got, err = service.Connect(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Equal(t, athlete, got)

	feed.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestActivityService_SyncRefreshesChallenges(t *testing.T) {
	feed := &mocks.MockActivityFeed{}
	challengeRepo := &mocks.MockChallengeRepository{}
	ledger := &mocks.MockLedgerRepository{}

	synced := &model.Activity{ID: 9, Name: "Sunset Loop", StartedAt: testNow, Distance: 42, Elevation: 300}
	history := []model.Activity{
		ride("Base Miles", testNow.AddDate(0, 0, -3), 258, 1200),
		*synced,
	}
	athlete := &model.Athlete{ID: 42, Gear: []model.Gear{{ID: "bike-001", Name: "Ultimate CF SLX"}}}

	feed.On("Connected", mock.Anything, "user-1").Return(true, nil)
	feed.On("Sync", mock.Anything, "user-1").Return(synced, nil)
	feed.On("Athlete", mock.Anything, "user-1").Return(athlete, nil)
	feed.On("Activities", mock.Anything, "user-1").Return(history, nil)

	challengeRepo.On("GetActiveChallenges", mock.Anything, "user-1").
		Return([]model.Challenge{{ID: "monthly-miles", CurrentProgress: 200}}, nil)
	challengeRepo.On("GetActiveChallenge", mock.Anything, "user-1", "monthly-miles").
		Return(&model.Challenge{ID: "monthly-miles", CurrentProgress: 200}, nil)
	challengeRepo.On("UpdateChallengeProgress", mock.Anything, "user-1", "monthly-miles", float64(300)).
		Return(nil)

	challenges := NewChallengeService(challengeRepo, ledger, telemetry.Nop{}, zap.NewNop())
	service := NewActivityService(feed, nil, challenges, telemetry.Nop{}, zap.NewNop())
	service.now = func() time.Time { return testNow }

	activity, err := service.Sync(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, synced, activity)
	challengeRepo.AssertExpectations(t)
}
