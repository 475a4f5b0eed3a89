package service

import (
	"context"
	"testing"
	"time"

	"crew_loyalty/internal/model"
	"crew_loyalty/internal/repository"
	"crew_loyalty/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newSessionMocks() (*mocks.MockLedgerRepository, *mocks.MockChallengeRepository, *mocks.MockClubRepository, *mocks.MockSnapshotRepository) {
	return &mocks.MockLedgerRepository{}, &mocks.MockChallengeRepository{}, &mocks.MockClubRepository{}, &mocks.MockSnapshotRepository{}
}

func TestSessionService_SaveAndLoadRoundTrip(t *testing.T) {
	ledger, challenges, clubs, snapshots := newSessionMocks()

	txs := []model.PointsTransaction{{UserID: "user-1", Type: model.TransactionEarn, Points: 500}}
	active := []model.Challenge{{ID: "monthly-miles", CurrentProgress: 120}}
	memberships := []model.ClubMembership{{UserID: "user-1", ClubID: "canyon-koblenz"}}
	rides := []model.RideRecord{{UserID: "user-1", ClubID: "canyon-koblenz", RideID: "ride-1"}}

	ledger.On("GetTransactions", mock.Anything, "user-1").Return(txs, nil)
	ledger.On("GetEngagementPoints", mock.Anything, "user-1").Return(340, nil)
	challenges.On("GetActiveChallenges", mock.Anything, "user-1").Return(active, nil)
	challenges.On("GetCompletedChallengeIDs", mock.Anything, "user-1").Return([]string{"first-ride"}, nil)
	clubs.On("GetMemberships", mock.Anything, "user-1").Return(memberships, nil)
	clubs.On("GetRideHistory", mock.Anything, "user-1").Return(rides, nil)

	var stored *model.SessionSnapshot
	snapshots.On("Save", mock.Anything, mock.MatchedBy(func(s *model.SessionSnapshot) bool {
		stored = s
		return s.UserID == "user-1"
	})).Return(nil)

	service := NewSessionService(ledger, challenges, clubs, snapshots)
	service.now = func() time.Time { return time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC) }

	saved, err := service.Save(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.NotNil(t, saved)
	assert.Equal(t, txs, saved.Transactions)
	assert.Equal(t, 340, saved.EngagementPoints)
	assert.Equal(t, active, saved.ActiveChallenges)
	assert.Equal(t, []string{"first-ride"}, saved.CompletedChallenges)
	assert.Equal(t, memberships, saved.Memberships)
	assert.Equal(t, rides, saved.RideHistory)
	assert.Equal(t, service.now(), saved.SavedAt)

	// Load hands the snapshot back unchanged.
	snapshots.On("Load", mock.Anything, "user-1").Return(stored, nil)
	loaded, err := service.Load(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Equal(t, saved, loaded)

	ledger.AssertExpectations(t)
	challenges.AssertExpectations(t)
	clubs.AssertExpectations(t)
	snapshots.AssertExpectations(t)
}

func TestSessionService_LoadMissing(t *testing.T) {
	ledger, challenges, clubs, snapshots := newSessionMocks()
	snapshots.On("Load", mock.Anything, "user-1").Return(nil, repository.ErrNotFound)

	service := NewSessionService(ledger, challenges, clubs, snapshots)
	loaded, err := service.Load(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionService_Reset(t *testing.T) {
	ledger, challenges, clubs, snapshots := newSessionMocks()
	snapshots.On("Delete", mock.Anything, "user-1").Return(repository.ErrNotFound).Once()
	snapshots.On("Delete", mock.Anything, "user-1").Return(nil).Once()

	service := NewSessionService(ledger, challenges, clubs, snapshots)

	// Missing snapshot is a no-op.
	assert.NoError(t, service.Reset(context.Background(), "user-1"))
	assert.NoError(t, service.Reset(context.Background(), "user-1"))
	snapshots.AssertExpectations(t)
}
