package service

import (
	"context"
	"errors"
	"time"

	"crew_loyalty/internal/model"

	"github.com/shopspring/decimal"
)

// Invalid references and duplicate operations are absorbed as nil/false
// returns without error; only genuine failures (storage, insufficient
// balance) surface as errors.
var (
	ErrInsufficientPoints = errors.New("not enough available points for redemption")
)

type Service struct {
	*PointsService
	*ChallengeService
	*ActivityService
	*ClubService
	*SessionService
}

func NewService(
	points *PointsService,
	challenges *ChallengeService,
	activity *ActivityService,
	clubs *ClubService,
	session *SessionService,
) *Service {
	return &Service{
		PointsService:    points,
		ChallengeService: challenges,
		ActivityService:  activity,
		ClubService:      clubs,
		SessionService:   session,
	}
}

type PointsServiceI interface {
	TierForPoints(lifetimePoints, engagementPoints int) model.TierKey
	TierData(key model.TierKey) model.Tier
	PointsForPurchase(amountEUR float64, tier model.TierKey, kind model.PurchaseKind) int
	DiscountedPrice(price decimal.Decimal, tier model.TierKey) decimal.Decimal
	PointsValue(points int) decimal.Decimal
	NextTierInfo(lifetimePoints, engagementPoints int) *model.NextTierInfo
	RedemptionOptions(availablePoints int, tier model.TierKey) []model.RedemptionOption
	EngagementScore(metrics model.EngagementMetrics) model.EngagementScore

	Balance(ctx context.Context, userID string) (model.PointsBalance, error)
	History(ctx context.Context, userID string) ([]model.PointsTransaction, error)
	Earn(ctx context.Context, userID string, points int, description, orderID string) (*model.PointsTransaction, error)
	EarnForPurchase(ctx context.Context, userID string, amountEUR float64, kind model.PurchaseKind, orderID string) (*model.PointsTransaction, error)
	Redeem(ctx context.Context, userID, optionID string) (*model.PointsTransaction, error)
	AwardBonus(ctx context.Context, userID, eventKey string) (*model.PointsTransaction, error)
}

type ChallengeServiceI interface {
	Available(ctx context.Context, userID string, tier model.TierKey) ([]model.ChallengeTemplate, error)
	Active(ctx context.Context, userID string) ([]model.Challenge, error)
	CompletedIDs(ctx context.Context, userID string) ([]string, error)
	Start(ctx context.Context, userID, templateID string) (*model.Challenge, error)
	UpdateProgress(ctx context.Context, userID, challengeID string, newValue float64) (*model.Challenge, error)
	Complete(ctx context.Context, userID, challengeID string) (*model.Challenge, error)
	RecomputeFromMetrics(ctx context.Context, userID string, metrics map[string]float64) ([]model.Challenge, error)
	Progress(ctx context.Context, userID, challengeID string) (*model.ChallengeProgress, error)
}

type ActivityServiceI interface {
	Connect(ctx context.Context, userID string) (*model.Athlete, error)
	Disconnect(ctx context.Context, userID string) error
	Sync(ctx context.Context, userID string) (*model.Activity, error)
	Stats(ctx context.Context, userID string) (*ActivityStats, error)
}

type ClubServiceI interface {
	Clubs(ctx context.Context, userID string) (joined, available []model.Club, err error)
	Join(ctx context.Context, userID, clubID string) (bool, error)
	Leave(ctx context.Context, userID, clubID string) (bool, error)
	AttendRide(ctx context.Context, userID, clubID, rideID, rideName string) (*model.RideResult, error)
	Passport(ctx context.Context, userID string) (*model.Passport, error)
	UpcomingRides(ctx context.Context, userID string) ([]UpcomingRide, error)
	RidesForClub(ctx context.Context, userID, clubID string) ([]string, error)
}

type SessionServiceI interface {
	Export(ctx context.Context, userID string) (*model.SessionSnapshot, error)
	Save(ctx context.Context, userID string) (*model.SessionSnapshot, error)
	Load(ctx context.Context, userID string) (*model.SessionSnapshot, error)
	Reset(ctx context.Context, userID string) error
}

// Repository interfaces, implemented by internal/repository.

type LedgerRepository interface {
	AppendTransaction(ctx context.Context, tx *model.PointsTransaction) error
	GetTransactions(ctx context.Context, userID string) ([]model.PointsTransaction, error)
	GetEngagementPoints(ctx context.Context, userID string) (int, error)
	AddEngagementPoints(ctx context.Context, userID string, delta int) error
}

type ChallengeRepository interface {
	GetActiveChallenges(ctx context.Context, userID string) ([]model.Challenge, error)
	GetActiveChallenge(ctx context.Context, userID, challengeID string) (*model.Challenge, error)
	CreateChallenge(ctx context.Context, userID string, challenge *model.Challenge) error
	UpdateChallengeProgress(ctx context.Context, userID, challengeID string, progress float64) error
	CompleteChallenge(ctx context.Context, userID, challengeID string, progress float64, completedAt time.Time) error
	GetCompletedChallengeIDs(ctx context.Context, userID string) ([]string, error)
}

type ClubRepository interface {
	GetMemberships(ctx context.Context, userID string) ([]model.ClubMembership, error)
	AddMembership(ctx context.Context, membership *model.ClubMembership) error
	RemoveMembership(ctx context.Context, userID, clubID string) error
	GetRideHistory(ctx context.Context, userID string) ([]model.RideRecord, error)
	AddRideRecord(ctx context.Context, record *model.RideRecord) error
	AttendedRidesByClub(ctx context.Context, userID string) (map[string][]string, error)
}

type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *model.SessionSnapshot) error
	Load(ctx context.Context, userID string) (*model.SessionSnapshot, error)
	Delete(ctx context.Context, userID string) error
}

// ActivityFeed is the external fitness collaborator. The engines only ever
// see plain activity values; the feed owns connection state and I/O.
type ActivityFeed interface {
	Connect(ctx context.Context, userID string) (*model.Athlete, []model.Activity, error)
	Disconnect(ctx context.Context, userID string) error
	Connected(ctx context.Context, userID string) (bool, error)
	Athlete(ctx context.Context, userID string) (*model.Athlete, error)
	Activities(ctx context.Context, userID string) ([]model.Activity, error)
	Sync(ctx context.Context, userID string) (*model.Activity, error)
}
