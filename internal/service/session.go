package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crew_loyalty/internal/model"
	"crew_loyalty/internal/repository"
)

// SessionService exports and restores the complete per-user loyalty state as
// an opaque snapshot. The snapshot is handed back exactly as saved; it never
// rewrites or merges state on load.
type SessionService struct {
	ledger     LedgerRepository
	challenges ChallengeRepository
	clubs      ClubRepository
	snapshots  SnapshotRepository
	now        func() time.Time
}

func NewSessionService(ledger LedgerRepository, challenges ChallengeRepository, clubs ClubRepository, snapshots SnapshotRepository) *SessionService {
	return &SessionService{
		ledger:     ledger,
		challenges: challenges,
		clubs:      clubs,
		snapshots:  snapshots,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Export gathers the user's current state into one snapshot value.
func (s *SessionService) Export(ctx context.Context, userID string) (*model.SessionSnapshot, error) {
	txs, err := s.ledger.GetTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	engagement, err := s.ledger.GetEngagementPoints(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load engagement points: %w", err)
	}
	active, err := s.challenges.GetActiveChallenges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active challenges: %w", err)
	}
	completed, err := s.challenges.GetCompletedChallengeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed challenges: %w", err)
	}
	memberships, err := s.clubs.GetMemberships(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load memberships: %w", err)
	}
	rides, err := s.clubs.GetRideHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ride history: %w", err)
	}

	return &model.SessionSnapshot{
		UserID:              userID,
		Transactions:        txs,
		EngagementPoints:    engagement,
		ActiveChallenges:    active,
		CompletedChallenges: completed,
		Memberships:         memberships,
		RideHistory:         rides,
		SavedAt:             s.now(),
	}, nil
}

// Save exports the current state and persists it under the user's key,
// overwriting any earlier snapshot.
func (s *SessionService) Save(ctx context.Context, userID string) (*model.SessionSnapshot, error) {
	snapshot, err := s.Export(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return snapshot, nil
}

// Load returns the stored snapshot unchanged, or nil when none exists.
func (s *SessionService) Load(ctx context.Context, userID string) (*model.SessionSnapshot, error) {
	snapshot, err := s.snapshots.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snapshot, nil
}

// Reset drops the stored snapshot. Resetting when none exists is a no-op.
func (s *SessionService) Reset(ctx context.Context, userID string) error {
	err := s.snapshots.Delete(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
