package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"crew_loyalty/internal/catalog"
	"crew_loyalty/internal/model"
	"crew_loyalty/internal/telemetry"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase kind multipliers on top of the tier multiplier.
const (
	StandardKindMultiplier = 1.0
	ServiceKindMultiplier  = 1.5
)

// Engagement score weights. They must sum to 1.0; each component is capped
// at 100 before weighting, so heavy activity in one dimension cannot stand
// in for the others.
const (
	weightPurchases  = 0.35
	weightActivity   = 0.30
	weightCommunity  = 0.20
	weightChallenges = 0.15
)

type PointsService struct {
	repo    LedgerRepository
	emitter telemetry.Emitter
	now     func() time.Time
}

func NewPointsService(repo LedgerRepository, emitter telemetry.Emitter) *PointsService {
	return &PointsService{
		repo:    repo,
		emitter: emitter,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// TierForPoints returns the highest tier whose threshold is covered by
// either lifetime or engagement points, whichever is larger. Non-purchase
// participation counts toward tier qualification on equal footing.
func (s *PointsService) TierForPoints(lifetimePoints, engagementPoints int) model.TierKey {
	points := lifetimePoints
	if engagementPoints > points {
		points = engagementPoints
	}

	current := catalog.LowestTier()
	for _, tier := range catalog.Tiers() {
		if points >= tier.Threshold {
			current = tier
		}
	}
	return current.Key
}

// TierData resolves a tier key, falling back to the lowest tier for unknown
// keys.
func (s *PointsService) TierData(key model.TierKey) model.Tier {
	tier, ok := catalog.TierByKey(key)
	if !ok {
		return catalog.LowestTier()
	}
	return tier
}

// PointsForPurchase computes floor(amount * base * tierMult * kindMult).
// Malformed amounts are treated as zero points; under-crediting beats
// failing the purchase flow.
func (s *PointsService) PointsForPurchase(amountEUR float64, tier model.TierKey, kind model.PurchaseKind) int {
	if amountEUR <= 0 || math.IsNaN(amountEUR) || math.IsInf(amountEUR, 0) {
		return 0
	}

	kindMultiplier := StandardKindMultiplier
	if kind == model.PurchaseService {
		kindMultiplier = ServiceKindMultiplier
	}

	t := s.TierData(tier)
	return int(math.Floor(amountEUR * catalog.BasePointsPerEUR * t.PointsMultiplier * kindMultiplier))
}

// DiscountedPrice applies the tier's member discount rate to a price.
func (s *PointsService) DiscountedPrice(price decimal.Decimal, tier model.TierKey) decimal.Decimal {
	t := s.TierData(tier)
	rate := decimal.NewFromFloat(t.DiscountRate).Div(decimal.NewFromInt(100))
	return price.Mul(decimal.NewFromInt(1).Sub(rate))
}

// PointsValue converts points to their EUR redemption value.
func (s *PointsService) PointsValue(points int) decimal.Decimal {
	if points < 0 {
		points = 0
	}
	return decimal.NewFromInt(int64(points)).Mul(catalog.PointsValueRate)
}

// NextTierInfo describes the road to the next tier, or nil at the top tier.
// Progress is measured inside the range between the current and the next
// threshold, so a user sitting exactly on a threshold starts at 0%.
func (s *PointsService) NextTierInfo(lifetimePoints, engagementPoints int) *model.NextTierInfo {
	points := lifetimePoints
	if engagementPoints > points {
		points = engagementPoints
	}

	currentKey := s.TierForPoints(lifetimePoints, engagementPoints)
	current := s.TierData(currentKey)

	tiers := catalog.Tiers()
	var next *model.Tier
	for i := range tiers {
		if tiers[i].Rank == current.Rank+1 {
			next = &tiers[i]
			break
		}
	}
	if next == nil {
		return nil
	}

	span := next.Threshold - current.Threshold
	progress := float64(points-current.Threshold) / float64(span) * 100
	progress = math.Max(0, math.Min(progress, 100))

	remaining := next.Threshold - points
	if remaining < 0 {
		remaining = 0
	}

	currentBenefits := make(map[string]struct{}, len(current.Benefits))
	for _, b := range current.Benefits {
		currentBenefits[b] = struct{}{}
	}
	var newBenefits []string
	for _, b := range next.Benefits {
		if _, ok := currentBenefits[b]; !ok {
			newBenefits = append(newBenefits, b)
		}
	}

	return &model.NextTierInfo{
		Tier:        *next,
		Remaining:   remaining,
		Progress:    progress,
		NewBenefits: newBenefits,
	}
}

// RedemptionOptions filters the static catalog by affordability and by the
// tier's rank.
func (s *PointsService) RedemptionOptions(availablePoints int, tier model.TierKey) []model.RedemptionOption {
	t := s.TierData(tier)

	var out []model.RedemptionOption
	for _, option := range catalog.RedemptionOptions() {
		minTier := s.TierData(option.MinTier)
		if option.Points <= availablePoints && minTier.Rank <= t.Rank {
			out = append(out, option)
		}
	}
	return out
}

// EngagementScore computes the four capped component scores and their
// weighted total. Each component saturates at 100.
func (s *PointsService) EngagementScore(metrics model.EngagementMetrics) model.EngagementScore {
	cap100 := func(raw float64) int {
		return int(math.Round(math.Min(raw, 1) * 100))
	}

	purchases := cap100(float64(metrics.OrderCount) / 10)
	activity := cap100((float64(metrics.ReviewsWritten)*10 +
		float64(metrics.WishlistItems)*5 +
		float64(metrics.PageViews)*0.1) / 100)
	community := cap100((float64(metrics.Referrals)*30 +
		float64(metrics.SocialShares)*10 +
		float64(metrics.RidesAttended)*15) / 100)
	challenges := cap100(float64(metrics.ChallengesCompleted) / 8)

	total := int(math.Round(float64(purchases)*weightPurchases +
		float64(activity)*weightActivity +
		float64(community)*weightCommunity +
		float64(challenges)*weightChallenges))

	return model.EngagementScore{
		Purchases:  purchases,
		Activity:   activity,
		Community:  community,
		Challenges: challenges,
		Total:      total,
	}
}

// Balance folds the ledger and attaches the engagement counter.
func (s *PointsService) Balance(ctx context.Context, userID string) (model.PointsBalance, error) {
	txs, err := s.repo.GetTransactions(ctx, userID)
	if err != nil {
		return model.PointsBalance{}, fmt.Errorf("failed to load ledger: %w", err)
	}

	balance := model.FoldBalance(txs)

	engagement, err := s.repo.GetEngagementPoints(ctx, userID)
	if err != nil {
		return model.PointsBalance{}, fmt.Errorf("failed to load engagement points: %w", err)
	}
	balance.EngagementPoints = engagement

	return balance, nil
}

func (s *PointsService) History(ctx context.Context, userID string) ([]model.PointsTransaction, error) {
	txs, err := s.repo.GetTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return txs, nil
}

// Earn appends an earn transaction. Non-positive amounts are a no-op.
func (s *PointsService) Earn(ctx context.Context, userID string, points int, description, orderID string) (*model.PointsTransaction, error) {
	if points <= 0 {
		return nil, nil
	}

	before, err := s.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	tierBefore := s.TierForPoints(before.LifetimePoints, before.EngagementPoints)

	tx := &model.PointsTransaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        model.TransactionEarn,
		Points:      points,
		Description: description,
		OrderID:     orderID,
		CreatedAt:   s.now(),
	}
	if err := s.repo.AppendTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to append earn transaction: %w", err)
	}

	s.emitter.Emit(ctx, telemetry.NewEvent(telemetry.EventPointsEarned, userID, map[string]any{
		"points":      points,
		"description": description,
		"order_id":    orderID,
	}))

	tierAfter := s.TierForPoints(before.LifetimePoints+points, before.EngagementPoints)
	if tierAfter != tierBefore {
		s.emitter.Emit(ctx, telemetry.NewEvent(telemetry.EventTierChanged, userID, map[string]any{
			"from": string(tierBefore),
			"to":   string(tierAfter),
		}))
	}

	return tx, nil
}

// EarnForPurchase converts a checkout total into points using the user's
// current tier and appends the earn transaction.
func (s *PointsService) EarnForPurchase(ctx context.Context, userID string, amountEUR float64, kind model.PurchaseKind, orderID string) (*model.PointsTransaction, error) {
	balance, err := s.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	tier := s.TierForPoints(balance.LifetimePoints, balance.EngagementPoints)
	points := s.PointsForPurchase(amountEUR, tier, kind)
	if points == 0 {
		return nil, nil
	}

	description := fmt.Sprintf("Purchase (%.2f EUR)", amountEUR)
	if kind == model.PurchaseService {
		description = fmt.Sprintf("Service purchase (%.2f EUR)", amountEUR)
	}

	return s.Earn(ctx, userID, points, description, orderID)
}

// Redeem converts available points into a catalog option. Unknown options
// and options above the user's tier are no-ops; spending more than the
// available balance is refused.
func (s *PointsService) Redeem(ctx context.Context, userID, optionID string) (*model.PointsTransaction, error) {
	var option *model.RedemptionOption
	for _, o := range catalog.RedemptionOptions() {
		if o.ID == optionID {
			opt := o
			option = &opt
			break
		}
	}
	if option == nil {
		return nil, nil
	}

	balance, err := s.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	tier := s.TierData(s.TierForPoints(balance.LifetimePoints, balance.EngagementPoints))
	minTier := s.TierData(option.MinTier)
	if minTier.Rank > tier.Rank {
		return nil, nil
	}
	if option.Points > balance.AvailablePoints {
		return nil, ErrInsufficientPoints
	}

	tx := &model.PointsTransaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        model.TransactionRedeem,
		Points:      option.Points,
		Description: option.Description,
		CreatedAt:   s.now(),
	}
	if err := s.repo.AppendTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to append redeem transaction: %w", err)
	}

	s.emitter.Emit(ctx, telemetry.NewEvent(telemetry.EventPointsRedeemed, userID, map[string]any{
		"points":      option.Points,
		"option_id":   option.ID,
		"description": option.Description,
	}))

	return tx, nil
}

// AwardBonus credits a bonus event. Bonus points count as engagement points
// too: they are earned by participation, not spend. Unknown events are a
// no-op.
func (s *PointsService) AwardBonus(ctx context.Context, userID, eventKey string) (*model.PointsTransaction, error) {
	event, ok := catalog.BonusEventByKey(eventKey)
	if !ok {
		return nil, nil
	}

	points := event.Points
	if event.PerTier {
		balance, err := s.Balance(ctx, userID)
		if err != nil {
			return nil, err
		}
		tier := s.TierData(s.TierForPoints(balance.LifetimePoints, balance.EngagementPoints))
		points = int(math.Floor(float64(event.Points) * tier.PointsMultiplier))
	}

	tx, err := s.Earn(ctx, userID, points, event.Description, "")
	if err != nil || tx == nil {
		return tx, err
	}

	if err := s.repo.AddEngagementPoints(ctx, userID, points); err != nil {
		return nil, fmt.Errorf("failed to add engagement points: %w", err)
	}

	return tx, nil
}
