package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"crew_loyalty/internal/catalog"
	"crew_loyalty/internal/model"
	"crew_loyalty/internal/repository"
	"crew_loyalty/internal/telemetry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UpcomingRide is a catalog ride annotated with its club.
type UpcomingRide struct {
	model.ClubRide
	ClubID   string
	ClubName string
}

// ClubService tracks club membership and the ride passport. Milestones are a
// pure function of the ride-record count against the static milestone list.
type ClubService struct {
	repo    ClubRepository
	ledger  LedgerRepository
	emitter telemetry.Emitter
	log     *zap.Logger
	now     func() time.Time
}

func NewClubService(repo ClubRepository, ledger LedgerRepository, emitter telemetry.Emitter, log *zap.Logger) *ClubService {
	return &ClubService{
		repo:    repo,
		ledger:  ledger,
		emitter: emitter,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Clubs splits the catalog into joined and available for the user.
func (s *ClubService) Clubs(ctx context.Context, userID string) (joined, available []model.Club, err error) {
	memberships, err := s.repo.GetMemberships(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load memberships: %w", err)
	}

	member := make(map[string]struct{}, len(memberships))
	for _, m := range memberships {
		member[m.ClubID] = struct{}{}
	}

	for _, club := range catalog.Clubs() {
		if _, ok := member[club.ID]; ok {
			joined = append(joined, club)
		} else {
			available = append(available, club)
		}
	}
	return joined, available, nil
}

// Join adds a membership. Unknown clubs and repeated joins are no-ops
// returning false.
func (s *ClubService) Join(ctx context.Context, userID, clubID string) (bool, error) {
	if _, ok := catalog.ClubByID(clubID); !ok {
		return false, nil
	}

	membership := &model.ClubMembership{
		UserID:   userID,
		ClubID:   clubID,
		JoinedAt: s.now(),
	}
	err := s.repo.AddMembership(ctx, membership)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("failed to add membership: %w", err)
	}

	s.emitter.Emit(ctx, telemetry.NewEvent(telemetry.EventClubJoined, userID, map[string]any{
		"club_id": clubID,
	}))

	return true, nil
}

// Leave removes a membership; leaving a club the user never joined is a
// no-op returning false. Ride history survives leaving.
func (s *ClubService) Leave(ctx context.Context, userID, clubID string) (bool, error) {
	err := s.repo.RemoveMembership(ctx, userID, clubID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to remove membership: %w", err)
	}

	s.emitter.Emit(ctx, telemetry.NewEvent(telemetry.EventClubLeft, userID, map[string]any{
		"club_id": clubID,
	}))

	return true, nil
}

// AttendRide logs one attended ride. Ride ids are globally unique, so a ride
// can be logged at most once; duplicates and unknown clubs are no-ops
// returning nil. A milestone is reported exactly when the total ride count
// lands on it.
func (s *ClubService) AttendRide(ctx context.Context, userID, clubID, rideID, rideName string) (*model.RideResult, error) {
	if _, ok := catalog.ClubByID(clubID); !ok {
		return nil, nil
	}
	if rideName == "" {
		rideName = rideID
	}

	record := &model.RideRecord{
		UserID:       userID,
		ClubID:       clubID,
		RideID:       rideID,
		RideName:     rideName,
		AttendedAt:   s.now(),
		PointsEarned: catalog.RidePointAward,
	}
	err := s.repo.AddRideRecord(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to add ride record: %w", err)
	}

	if err := s.creditRidePoints(ctx, userID, record); err != nil {
		s.log.Error("failed to credit ride points",
			zap.String("user_id", userID),
			zap.String("ride_id", rideID),
			zap.Error(err),
		)
	}

	history, err := s.repo.GetRideHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ride history: %w", err)
	}

	result := &model.RideResult{Record: *record}
	for _, milestone := range catalog.Milestones() {
		if milestone.Rides == len(history) {
			m := milestone
			result.Milestone = &m
			s.emitter.Emit(ctx, telemetry.NewEvent(telemetry.EventMilestoneReached, userID, map[string]any{
				"rides":  milestone.Rides,
				"reward": milestone.Reward,
			}))
			break
		}
	}

	s.emitter.Emit(ctx, telemetry.NewEvent(telemetry.EventRideAttended, userID, map[string]any{
		"club_id":   clubID,
		"ride_id":   rideID,
		"ride_name": rideName,
		"points":    record.PointsEarned,
	}))

	return result, nil
}

func (s *ClubService) creditRidePoints(ctx context.Context, userID string, record *model.RideRecord) error {
	tx := &model.PointsTransaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        model.TransactionEarn,
		Points:      record.PointsEarned,
		Description: fmt.Sprintf("Club ride: %s", record.RideName),
		CreatedAt:   record.AttendedAt,
	}
	if err := s.ledger.AppendTransaction(ctx, tx); err != nil {
		return err
	}
	return s.ledger.AddEngagementPoints(ctx, userID, record.PointsEarned)
}

// Passport derives the stamp book from ride history: total, ordered stamps,
// unlocked milestones and the next one to reach.
func (s *ClubService) Passport(ctx context.Context, userID string) (*model.Passport, error) {
	history, err := s.repo.GetRideHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ride history: %w", err)
	}

	passport := &model.Passport{
		TotalRides: len(history),
		Stamps:     make([]model.PassportStamp, 0, len(history)),
	}
	for _, record := range history {
		clubName := record.ClubID
		if club, ok := catalog.ClubByID(record.ClubID); ok {
			clubName = club.Name
		}
		passport.Stamps = append(passport.Stamps, model.PassportStamp{
			ClubName: clubName,
			RideName: record.RideName,
			Date:     record.AttendedAt,
		})
	}

	for _, milestone := range catalog.Milestones() {
		if passport.TotalRides >= milestone.Rides {
			passport.Unlocked = append(passport.Unlocked, milestone)
		} else if passport.NextMilestone == nil {
			m := milestone
			passport.NextMilestone = &m
		}
	}

	return passport, nil
}

// UpcomingRides lists future rides across the user's joined clubs, soonest
// first.
func (s *ClubService) UpcomingRides(ctx context.Context, userID string) ([]UpcomingRide, error) {
	memberships, err := s.repo.GetMemberships(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load memberships: %w", err)
	}

	now := s.now()
	var out []UpcomingRide
	for _, m := range memberships {
		club, ok := catalog.ClubByID(m.ClubID)
		if !ok {
			continue
		}
		for _, ride := range club.UpcomingRides {
			if ride.Date.After(now) {
				out = append(out, UpcomingRide{ClubRide: ride, ClubID: club.ID, ClubName: club.Name})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// RidesForClub returns the user's attended ride ids grouped under one club.
func (s *ClubService) RidesForClub(ctx context.Context, userID, clubID string) ([]string, error) {
	byClub, err := s.repo.AttendedRidesByClub(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attended rides: %w", err)
	}
	return byClub[clubID], nil
}
