package mocks

import (
	"context"
	"time"

	"crew_loyalty/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) AppendTransaction(ctx context.Context, tx *model.PointsTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetTransactions(ctx context.Context, userID string) ([]model.PointsTransaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PointsTransaction), args.Error(1)
}

func (m *MockLedgerRepository) GetEngagementPoints(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepository) AddEngagementPoints(ctx context.Context, userID string, delta int) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

type MockChallengeRepository struct {
	mock.Mock
}

func (m *MockChallengeRepository) GetActiveChallenges(ctx context.Context, userID string) ([]model.Challenge, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Challenge), args.Error(1)
}

func (m *MockChallengeRepository) GetActiveChallenge(ctx context.Context, userID, challengeID string) (*model.Challenge, error) {
	args := m.Called(ctx, userID, challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Challenge), args.Error(1)
}

func (m *MockChallengeRepository) CreateChallenge(ctx context.Context, userID string, challenge *model.Challenge) error {
	args := m.Called(ctx, userID, challenge)
	return args.Error(0)
}

func (m *MockChallengeRepository) UpdateChallengeProgress(ctx context.Context, userID, challengeID string, progress float64) error {
	args := m.Called(ctx, userID, challengeID, progress)
	return args.Error(0)
}

func (m *MockChallengeRepository) CompleteChallenge(ctx context.Context, userID, challengeID string, progress float64, completedAt time.Time) error {
	args := m.Called(ctx, userID, challengeID, progress, completedAt)
	return args.Error(0)
}

func (m *MockChallengeRepository) GetCompletedChallengeIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockClubRepository struct {
	mock.Mock
}

func (m *MockClubRepository) GetMemberships(ctx context.Context, userID string) ([]model.ClubMembership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ClubMembership), args.Error(1)
}

func (m *MockClubRepository) AddMembership(ctx context.Context, membership *model.ClubMembership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockClubRepository) RemoveMembership(ctx context.Context, userID, clubID string) error {
	args := m.Called(ctx, userID, clubID)
	return args.Error(0)
}

func (m *MockClubRepository) GetRideHistory(ctx context.Context, userID string) ([]model.RideRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RideRecord), args.Error(1)
}

func (m *MockClubRepository) AddRideRecord(ctx context.Context, record *model.RideRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockClubRepository) AttendedRidesByClub(ctx context.Context, userID string) (map[string][]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Save(ctx context.Context, snapshot *model.SessionSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) Load(ctx context.Context, userID string) (*model.SessionSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockActivityFeed struct {
	mock.Mock
}

func (m *MockActivityFeed) Connect(ctx context.Context, userID string) (*model.Athlete, []model.Activity, error) {
	args := m.Called(ctx, userID)
	var athlete *model.Athlete
	if args.Get(0) != nil {
		athlete = args.Get(0).(*model.Athlete)
	}
	var activities []model.Activity
	if args.Get(1) != nil {
		activities = args.Get(1).([]model.Activity)
	}
	return athlete, activities, args.Error(2)
}

func (m *MockActivityFeed) Disconnect(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockActivityFeed) Connected(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockActivityFeed) Athlete(ctx context.Context, userID string) (*model.Athlete, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Athlete), args.Error(1)
}

func (m *MockActivityFeed) Activities(ctx context.Context, userID string) ([]model.Activity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Activity), args.Error(1)
}

func (m *MockActivityFeed) Sync(ctx context.Context, userID string) (*model.Activity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Activity), args.Error(1)
}
