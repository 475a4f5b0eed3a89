package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionEarn   TransactionType = "earn"
	TransactionRedeem TransactionType = "redeem"
)

// PointsTransaction is one entry of the append-only points ledger.
// Points is always positive; Type decides the sign during the fold.
type PointsTransaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      string          `json:"user_id"`
	Type        TransactionType `json:"type"`
	Points      int             `json:"points"`
	Description string          `json:"description"`
	OrderID     string          `json:"order_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PointsBalance is derived state. It is never stored authoritatively:
// lifetime/available/redeemed are a fold over the transaction ledger.
type PointsBalance struct {
	LifetimePoints   int
	AvailablePoints  int
	RedeemedPoints   int
	EngagementPoints int
}

// FoldBalance replays the ledger. Malformed entries (points <= 0) contribute
// nothing, matching the best-effort contract of the reward computation.
func FoldBalance(txs []PointsTransaction) PointsBalance {
	var b PointsBalance
	for _, tx := range txs {
		if tx.Points <= 0 {
			continue
		}
		switch tx.Type {
		case TransactionEarn:
			b.LifetimePoints += tx.Points
		case TransactionRedeem:
			b.RedeemedPoints += tx.Points
		}
	}
	b.AvailablePoints = b.LifetimePoints - b.RedeemedPoints
	return b
}

type PurchaseKind string

const (
	PurchaseStandard PurchaseKind = "standard"
	PurchaseService  PurchaseKind = "service"
)

// EngagementMetrics are the raw counters behind the engagement score.
type EngagementMetrics struct {
	OrderCount          int
	ReviewsWritten      int
	WishlistItems       int
	PageViews           int
	Referrals           int
	SocialShares        int
	RidesAttended       int
	ChallengesCompleted int
}

// EngagementScore holds the capped component scores (0-100 each) and the
// weighted total.
type EngagementScore struct {
	Purchases  int
	Activity   int
	Community  int
	Challenges int
	Total      int
}
