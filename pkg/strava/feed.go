package strava

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"crew_loyalty/internal/model"
)

// Feed simulates a Strava-style fitness feed in memory. There is no real
// OAuth flow: Connect seeds an athlete with a small ride history, and every
// Sync appends one generated activity. State is per user and process-local.
type Feed struct {
	mu       sync.Mutex
	sessions map[string]*session
	rnd      *rand.Rand
	now      func() time.Time
}

type session struct {
	athlete    model.Athlete
	activities []model.Activity
	lastSync   time.Time
}

func NewFeed() *Feed {
	return &Feed{
		sessions: make(map[string]*session),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewSeededFeed pins the random source and clock, so generated activities are
// reproducible.
func NewSeededFeed(seed int64, now func() time.Time) *Feed {
	return &Feed{
		sessions: make(map[string]*session),
		rnd:      rand.New(rand.NewSource(seed)),
		now:      now,
	}
}

var rideNames = []string{
	"Morning Coffee Ride", "Sunset Loop", "Hill Repeat Session", "Interval Training",
	"Recovery Spin", "Long Weekend Ride", "Black Forest Explorer", "Rhine Valley Tour",
	"Tempo Ride", "Endurance Builder", "Sprint Session", "Climbing Day",
	"Group Ride", "Solo Adventure", "After Work Spin", "Early Bird Ride",
	"Gravel Detour", "MTB Trail Blast", "Base Miles", "Threshold Effort",
	"Freiburg City Loop", "Kaiserstuhl Vineyards", "Dreisamtal Out & Back",
	"Schauinsland Repeats", "Titisee Round Trip", "Feldberg Challenge",
}

var seedGear = []model.Gear{
	{ID: "bike-001", Name: "Ultimate CF SLX"},
	{ID: "bike-002", Name: "Grail CF SL"},
	{ID: "bike-003", Name: "Spectral 125"},
}

func (f *Feed) Connect(ctx context.Context, userID string) (*model.Athlete, []model.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[userID]
	if !ok {
		s = f.seedSession(userID)
		f.sessions[userID] = s
	}
	s.lastSync = f.now()

	athlete := s.athlete
	return &athlete, append([]model.Activity(nil), s.activities...), nil
}

func (f *Feed) Disconnect(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, userID)
	return nil
}

func (f *Feed) Connected(ctx context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sessions[userID]
	return ok, nil
}

func (f *Feed) Athlete(ctx context.Context, userID string) (*model.Athlete, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[userID]
	if !ok {
		return nil, nil
	}
	athlete := s.athlete
	return &athlete, nil
}

func (f *Feed) Activities(ctx context.Context, userID string) ([]model.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[userID]
	if !ok {
		return nil, nil
	}
	return append([]model.Activity(nil), s.activities...), nil
}

// Sync appends one generated ride and returns it.
func (f *Feed) Sync(ctx context.Context, userID string) (*model.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[userID]
	if !ok {
		return nil, nil
	}

	activity := f.generateActivity(s)
	s.activities = append(s.activities, activity)
	s.lastSync = f.now()
	return &activity, nil
}

func (f *Feed) seedSession(userID string) *session {
	now := f.now()
	s := &session{
		athlete: model.Athlete{
			ID:        f.rnd.Int63n(9_000_000) + 1_000_000,
			FirstName: "Jonas",
			LastName:  "Weber",
			Gear:      append([]model.Gear(nil), seedGear...),
		},
	}

	// A short recent history spread over the last six weeks.
	for i := 0; i < 8; i++ {
		activity := f.generateActivity(s)
		activity.StartedAt = now.AddDate(0, 0, -f.rnd.Intn(42)).Add(-time.Duration(f.rnd.Intn(12)) * time.Hour)
		s.activities = append(s.activities, activity)
	}

	var ytdRides int
	var ytdDistance, ytdElevation float64
	var ytdTime int
	for _, a := range s.activities {
		if a.StartedAt.Year() == now.Year() {
			ytdRides++
			ytdDistance += a.Distance
			ytdElevation += a.Elevation
			ytdTime += a.MovingTime
		}
	}
	s.athlete.Stats = &model.AthleteStats{
		TotalRides:     len(s.activities),
		TotalDistance:  ytdDistance,
		TotalElevation: ytdElevation,
		YTDRides:       ytdRides,
		YTDDistance:    ytdDistance,
		YTDElevation:   ytdElevation,
		YTDTime:        ytdTime,
	}
	return s
}

func (f *Feed) generateActivity(s *session) model.Activity {
	distance := 10 + f.rnd.Float64()*100
	avgSpeed := 18 + f.rnd.Float64()*18
	movingTime := int(distance / avgSpeed * 3600)

	var maxID int64
	for _, a := range s.activities {
		if a.ID > maxID {
			maxID = a.ID
		}
	}

	return model.Activity{
		ID:         maxID + 1,
		Name:       rideNames[f.rnd.Intn(len(rideNames))],
		Type:       "Ride",
		GearID:     seedGear[f.rnd.Intn(len(seedGear))].ID,
		StartedAt:  f.now(),
		Distance:   distance,
		Elevation:  float64(50 + f.rnd.Intn(1200)),
		MovingTime: movingTime,
		AvgSpeed:   avgSpeed,
		MaxSpeed:   avgSpeed + 10 + f.rnd.Float64()*20,
		Calories:   int(distance*25) + f.rnd.Intn(200),
		Kudos:      f.rnd.Intn(50),
	}
}
